// Package fs provides file-based storage for raw filings, company data
// and extracted records.
package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/dartex"
)

// Ensure RawFileStore implements dartex.RawFileSource at compile time.
var _ dartex.RawFileSource = (*RawFileStore)(nil)

// RawFileStore reads raw filings from a directory.
type RawFileStore struct {
	dir string
}

// NewRawFileStore creates a new RawFileStore rooted at dir.
func NewRawFileStore(dir string) *RawFileStore {
	return &RawFileStore{dir: dir}
}

// ReadRawFile reads the named filing. Bytes that are not valid UTF-8 are
// decoded one by one as the Latin-1 character of the same value, so legacy
// Windows-1252 punctuation survives as U+0080..U+00FF.
func (s *RawFileStore) ReadRawFile(ctx context.Context, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !filepath.IsLocal(filename) {
		return "", dartex.Errorf(dartex.EINVALID, "invalid raw filename %q", filename)
	}

	data, err := os.ReadFile(filepath.Join(s.dir, filename))
	if errors.Is(err, os.ErrNotExist) {
		return "", dartex.Errorf(dartex.ENOTFOUND, "raw filing %s not found", filename)
	}
	if err != nil {
		return "", err
	}
	return DecodeLenient(data), nil
}

// DecodeLenient converts data to a string, mapping each byte of an invalid
// UTF-8 sequence to the rune with the same value.
func DecodeLenient(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	var b strings.Builder
	b.Grow(len(data) + len(data)/8)
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			r = rune(data[0])
		}
		b.WriteRune(r)
		data = data[size:]
	}
	return b.String()
}
