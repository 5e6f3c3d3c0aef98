// Package extract provides filing extraction orchestration.
// It coordinates reading raw filings, splitting them into sub-documents,
// cleaning item text and writing one record per filing.
package extract

import (
	"context"
	"fmt"

	"github.com/fwojciec/dartex"
)

// Extractor turns one raw filing into a record.
type Extractor struct {
	Raw       dartex.RawFileSource
	Companies dartex.CompanyDirectory
	Stripper  dartex.Stripper

	// Tables is only consulted when RemoveTables is set.
	Tables       dartex.TableRemover
	RemoveTables bool

	// Items lists the requested slots in output order.
	Items []dartex.Item
}

// NewExtractor creates an Extractor for the given configuration.
func NewExtractor(cfg dartex.Config, raw dartex.RawFileSource, companies dartex.CompanyDirectory, stripper dartex.Stripper, tables dartex.TableRemover) *Extractor {
	return &Extractor{
		Raw:          raw,
		Companies:    companies,
		Stripper:     stripper,
		Tables:       tables,
		RemoveTables: cfg.RemoveTables,
		Items:        cfg.Items,
	}
}

// Extract reads the filing described by meta and returns its record.
// Sub-documents whose titles do not map to a requested slot are skipped.
// A filing without any item sub-documents yields a record with empty slots.
func (e *Extractor) Extract(ctx context.Context, meta *dartex.FilingMetadata) (*dartex.Record, error) {
	if err := meta.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := e.Raw.ReadRawFile(ctx, meta.Filename)
	if err != nil {
		return nil, fmt.Errorf("read raw filing: %w", err)
	}
	docs := dartex.SplitFiling(raw)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	company, err := e.Companies.FindCompany(meta.CorpCode)
	if err != nil {
		return nil, fmt.Errorf("find company: %w", err)
	}

	record := dartex.NewRecord(meta, company, e.Items)
	for _, doc := range docs.All() {
		key := dartex.ItemKeyFromTitle(doc.Title)
		if !record.HasItem(key) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := e.itemText(doc.HTML)
		if err != nil {
			return nil, fmt.Errorf("sub-document %q: %w", doc.Title, err)
		}
		record.SetItem(key, text)
	}
	return record, nil
}

// itemText converts sub-document HTML into normalized plain text.
func (e *Extractor) itemText(html string) (string, error) {
	if e.RemoveTables && e.Tables != nil {
		var err error
		if html, err = e.Tables.RemoveTables(html); err != nil {
			return "", fmt.Errorf("remove tables: %w", err)
		}
	}

	text, err := e.Stripper.Strip(html)
	if err != nil {
		return "", fmt.Errorf("strip html: %w", err)
	}
	return dartex.Normalize(text), nil
}
