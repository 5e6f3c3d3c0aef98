package fs

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/fwojciec/dartex"
)

// Ensure RecordWriter implements dartex.RecordWriter at compile time.
var _ dartex.RecordWriter = (*RecordWriter)(nil)

// RecordWriter writes records as indented JSON files to a directory.
// Each file is written to a temporary name first and renamed into place,
// so readers never observe a partially written record.
type RecordWriter struct {
	dir string
}

// NewRecordWriter creates a new RecordWriter that writes to dir.
func NewRecordWriter(dir string) *RecordWriter {
	return &RecordWriter{dir: dir}
}

// RecordExists reports whether a record file with the given name exists.
func (w *RecordWriter) RecordExists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := os.Stat(filepath.Join(w.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// WriteRecord writes record to dir/<record.Name>, creating dir if needed.
func (w *RecordWriter) WriteRecord(ctx context.Context, record *dartex.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if record.Name == "" || !filepath.IsLocal(record.Name) {
		return dartex.Errorf(dartex.EINVALID, "invalid record name %q", record.Name)
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(w.dir, record.Name+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(record); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	// Atomically rename temp to final
	return os.Rename(tmp.Name(), filepath.Join(w.dir, record.Name))
}
