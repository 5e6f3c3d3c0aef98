package extract

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/fwojciec/dartex"
	"golang.org/x/sync/errgroup"
)

// Runner extracts a batch of filings with a bounded worker pool.
type Runner struct {
	Extractor     *Extractor
	Records       dartex.RecordWriter
	Workers       int
	SkipExtracted bool
}

// NewRunner creates a Runner for the given configuration.
func NewRunner(cfg dartex.Config, extractor *Extractor, records dartex.RecordWriter) *Runner {
	return &Runner{
		Extractor:     extractor,
		Records:       records,
		Workers:       cfg.WorkerCount(),
		SkipExtracted: cfg.SkipExtracted,
	}
}

// Result holds the outcome of a run.
type Result struct {
	Total     int
	Processed int
	Skipped   int
	Failed    []Failure
}

// Failure records a filing that could not be extracted.
type Failure struct {
	Filename string
	Err      error
}

// ProgressEvent reports progress during a run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Filename  string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressSkipped
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting run progress.
type ProgressFunc func(event ProgressEvent)

type outcome int

const (
	outcomeProcessed outcome = iota
	outcomeSkipped
	outcomeFailed
	outcomeCancelled
)

// filingResult holds the outcome of processing a single filing.
type filingResult struct {
	position int
	filename string
	outcome  outcome
	err      error
}

// Run extracts every filing and writes its record. Failures of individual
// filings are collected in Result.Failed and do not stop the run. When ctx
// is cancelled no new filings are started; Run waits for in-flight filings
// and returns the partial result together with the context error.
// The progress callback, if provided, is called from a single goroutine.
func (r *Runner) Run(ctx context.Context, filings []*dartex.FilingMetadata, progress ProgressFunc) (*Result, error) {
	total := len(filings)
	workers := r.Workers
	if workers <= 0 {
		workers = 1
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	resultCh := make(chan filingResult, workers)

	var g errgroup.Group
	g.SetLimit(workers)

	go func() {
		for i, filing := range filings {
			if ctx.Err() != nil {
				break
			}
			g.Go(func() error {
				resultCh <- r.processFiling(ctx, i, filing)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	result := &Result{Total: total}
	var failures []filingResult
	var completed int
	for res := range resultCh {
		if res.outcome == outcomeCancelled {
			continue
		}
		completed++
		event := ProgressEvent{
			Completed: completed,
			Total:     total,
			Filename:  res.filename,
		}
		switch res.outcome {
		case outcomeProcessed:
			result.Processed++
			event.Type = ProgressCompleted
		case outcomeSkipped:
			result.Skipped++
			event.Type = ProgressSkipped
		case outcomeFailed:
			failures = append(failures, res)
			event.Type = ProgressFailed
			event.Error = res.err
		}
		if progress != nil {
			progress(event)
		}
	}

	slices.SortFunc(failures, func(a, b filingResult) int { return a.position - b.position })
	for _, f := range failures {
		result.Failed = append(result.Failed, Failure{Filename: f.filename, Err: f.err})
	}

	if progress != nil {
		progress(ProgressEvent{
			Type:      ProgressFinished,
			Completed: completed,
			Total:     total,
		})
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// processFiling extracts and writes a single filing.
func (r *Runner) processFiling(ctx context.Context, position int, filing *dartex.FilingMetadata) (res filingResult) {
	res = filingResult{position: position, filename: filing.Filename}

	defer func() {
		if v := recover(); v != nil {
			res.outcome = outcomeFailed
			res.err = dartex.Errorf(dartex.EINTERNAL, "panic while extracting %s: %v", filing.Filename, v)
		}
	}()

	fail := func(err error) filingResult {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			res.outcome = outcomeCancelled
		} else {
			res.outcome = outcomeFailed
		}
		res.err = err
		return res
	}

	if err := filing.Validate(); err != nil {
		return fail(err)
	}
	name := dartex.OutputName(filing.Filename)

	if r.SkipExtracted {
		exists, err := r.Records.RecordExists(ctx, name)
		if err != nil {
			return fail(fmt.Errorf("check existing record: %w", err))
		}
		if exists {
			res.outcome = outcomeSkipped
			return res
		}
	}

	record, err := r.Extractor.Extract(ctx, filing)
	if err != nil {
		return fail(err)
	}

	if err := r.Records.WriteRecord(ctx, record); err != nil {
		return fail(fmt.Errorf("write record: %w", err))
	}

	res.outcome = outcomeProcessed
	return res
}
