// Package csv reads the filing metadata table.
package csv

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/fwojciec/dartex"
)

// Metadata table column names.
const (
	ColumnCorpCode    = "corp_code"
	ColumnCorpName    = "corp_name"
	ColumnStockCode   = "stock_code"
	ColumnReceiptDate = "rcept_dt"
	ColumnFilingTypes = "filing_types"
	ColumnFilename    = "filename"
)

var requiredColumns = []string{ColumnCorpCode, ColumnFilename}

// ReadFilingsFile reads the metadata table at path.
// Returns ENOTFOUND if the file does not exist.
func ReadFilingsFile(path string) ([]*dartex.FilingMetadata, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, dartex.Errorf(dartex.ENOTFOUND, "no such file %q", path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadFilings(f)
}

// ReadFilings parses a metadata table with a header row. Columns are
// matched by name and extra columns are ignored. Rows sharing a filename
// are collapsed to the first one, keeping table order.
func ReadFilings(r io.Reader) ([]*dartex.FilingMetadata, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, dartex.Errorf(dartex.EINVALID, "metadata table is empty")
	}
	if err != nil {
		return nil, dartex.Errorf(dartex.EINVALID, "failed to read metadata header: %v", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		name = strings.TrimSpace(name)
		if _, ok := columns[name]; !ok {
			columns[name] = i
		}
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, dartex.Errorf(dartex.EINVALID, "metadata table missing %q column", name)
		}
	}

	var filings []*dartex.FilingMetadata
	seen := make(map[string]bool)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, dartex.Errorf(dartex.EINVALID, "failed to read metadata row: %v", err)
		}

		field := func(name string) string {
			i, ok := columns[name]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}

		m := &dartex.FilingMetadata{
			CorpCode:    field(ColumnCorpCode),
			CorpName:    field(ColumnCorpName),
			StockCode:   field(ColumnStockCode),
			FilingTypes: field(ColumnFilingTypes),
			ReceiptDate: field(ColumnReceiptDate),
			Filename:    field(ColumnFilename),
		}
		if seen[m.Filename] {
			continue
		}
		seen[m.Filename] = true
		filings = append(filings, m)
	}
	return filings, nil
}
