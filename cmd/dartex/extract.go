package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/dartex"
	"github.com/fwojciec/dartex/csv"
	"github.com/fwojciec/dartex/extract"
	"github.com/fwojciec/dartex/fs"
	"github.com/fwojciec/dartex/goquery"
	"github.com/fwojciec/dartex/html"
	dxslog "github.com/fwojciec/dartex/slog"
	"github.com/fwojciec/dartex/sqlite"
	"golang.org/x/time/rate"
)

// progressInterval bounds how often the running count is printed.
const progressInterval = time.Second

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	items, err := dartex.ParseItems(c.ItemsToExtract)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", dartex.ErrorMessage(err))
		return err
	}
	cfg := dartex.Config{
		Items:         items,
		RemoveTables:  c.RemoveTables,
		SkipExtracted: c.SkipExtractedFilings,
		Workers:       c.Workers,
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", dartex.ErrorMessage(err))
		return err
	}

	filings, err := csv.ReadFilingsFile(c.datasetPath(c.Metadata))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", dartex.ErrorMessage(err))
		return err
	}

	rawDir := c.datasetPath(c.RawDir)
	if info, err := os.Stat(rawDir); err != nil || !info.IsDir() {
		err := dartex.Errorf(dartex.ENOTFOUND, "no such directory %q", rawDir)
		fmt.Fprintf(deps.Stderr, "error: %s\n", dartex.ErrorMessage(err))
		return err
	}

	companies, err := fs.LoadCompanies(c.datasetPath(c.Companies))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", dartex.ErrorMessage(err))
		return err
	}

	outDir := c.datasetPath(c.OutDir)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		fmt.Fprintf(deps.Stderr, "error: cannot create output directory: %v\n", err)
		return err
	}

	var records dartex.RecordWriter = fs.NewRecordWriter(outDir)
	if c.DB != "" {
		db := sqlite.NewDB(c.DB)
		if err := db.Open(); err != nil {
			fmt.Fprintf(deps.Stderr, "Hint: Set DARTEX_DB or --db to a writable path\n")
			return fmt.Errorf("failed to open database at %q: %w", c.DB, err)
		}
		defer db.Close()
		records = dartex.MultiRecordWriter{records, sqlite.NewRecordStore(db)}
	}

	extractor := extract.NewExtractor(cfg,
		dxslog.NewLoggingRawFileSource(fs.NewRawFileStore(rawDir), deps.Logger),
		dxslog.NewLoggingCompanyDirectory(companies, deps.Logger),
		html.NewStripper(),
		goquery.NewTableRemover(),
	)
	runner := extract.NewRunner(cfg, extractor, dxslog.NewLoggingRecordWriter(records, deps.Logger))

	fmt.Fprintln(deps.Stdout, "Starting extraction...")

	throttle := rate.Sometimes{First: 1, Interval: progressInterval}
	progress := func(event extract.ProgressEvent) {
		switch event.Type {
		case extract.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "  Found %d filings\n", event.Total)
		case extract.ProgressCompleted, extract.ProgressSkipped:
			throttle.Do(func() {
				fmt.Fprintf(deps.Stdout, "  [%d/%d] %s\n", event.Completed, event.Total, event.Filename)
			})
		case extract.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", event.Filename, event.Error)
		case extract.ProgressFinished:
			// Summary printed after the run completes
		}
	}

	result, runErr := runner.Run(deps.Ctx, filings, progress)

	fmt.Fprintf(deps.Stdout, "\n%d files were processed.\n", result.Processed)
	if result.Skipped > 0 {
		fmt.Fprintf(deps.Stdout, "%d files were skipped (already extracted).\n", result.Skipped)
	}
	if len(result.Failed) > 0 {
		fmt.Fprintf(deps.Stdout, "%d files failed:\n", len(result.Failed))
		for _, f := range result.Failed {
			fmt.Fprintf(deps.Stdout, "  %s\n", f.Filename)
		}
	}
	fmt.Fprintf(deps.Stdout, "Extracted filings are saved to: %s\n", outDir)

	if runErr != nil {
		fmt.Fprintf(deps.Stderr, "error: extraction interrupted: %v\n", runErr)
		return runErr
	}
	return nil
}

// datasetPath resolves a relative dataset path against the dataset directory.
func (c *ExtractCmd) datasetPath(p string) string {
	if filepath.IsAbs(p) || c.DatasetDir == "" {
		return p
	}
	return filepath.Join(c.DatasetDir, p)
}
