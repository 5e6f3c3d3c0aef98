package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/dartex"
)

// Ensure LoggingRecordWriter implements dartex.RecordWriter.
var _ dartex.RecordWriter = (*LoggingRecordWriter)(nil)

// LoggingRecordWriter wraps a RecordWriter with debug logging.
type LoggingRecordWriter struct {
	next   dartex.RecordWriter
	logger *slog.Logger
}

// NewLoggingRecordWriter creates a new LoggingRecordWriter.
func NewLoggingRecordWriter(next dartex.RecordWriter, logger *slog.Logger) *LoggingRecordWriter {
	return &LoggingRecordWriter{next: next, logger: logger}
}

// RecordExists delegates to the wrapped writer and logs the result.
func (w *LoggingRecordWriter) RecordExists(ctx context.Context, name string) (exists bool, err error) {
	defer func() {
		w.logger.Info("record exists",
			"name", name,
			"exists", exists,
			"err", err,
		)
	}()
	return w.next.RecordExists(ctx, name)
}

// WriteRecord delegates to the wrapped writer and logs the operation.
func (w *LoggingRecordWriter) WriteRecord(ctx context.Context, record *dartex.Record) (err error) {
	defer func(begin time.Time) {
		filled := 0
		for _, slot := range record.Slots() {
			if slot.Text != "" {
				filled++
			}
		}
		w.logger.Info("write record",
			"name", record.Name,
			"items", filled,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return w.next.WriteRecord(ctx, record)
}
