package mock

import (
	"context"

	"github.com/fwojciec/dartex"
)

var _ dartex.RecordWriter = (*RecordWriter)(nil)

// RecordWriter is a mock implementation of dartex.RecordWriter.
type RecordWriter struct {
	RecordExistsFn func(ctx context.Context, name string) (bool, error)
	WriteRecordFn  func(ctx context.Context, record *dartex.Record) error
}

func (w *RecordWriter) RecordExists(ctx context.Context, name string) (bool, error) {
	return w.RecordExistsFn(ctx, name)
}

func (w *RecordWriter) WriteRecord(ctx context.Context, record *dartex.Record) error {
	return w.WriteRecordFn(ctx, record)
}
