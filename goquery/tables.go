// Package goquery removes table markup from filing sub-documents using
// PuerkitoBio/goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/dartex"
)

// Ensure TableRemover implements dartex.TableRemover at compile time.
var _ dartex.TableRemover = (*TableRemover)(nil)

// TableRemover deletes every table element, including nested tables and
// their contents.
type TableRemover struct{}

// NewTableRemover creates a new TableRemover.
func NewTableRemover() *TableRemover {
	return &TableRemover{}
}

// RemoveTables parses html as a document and returns the whole document
// with all tables removed. Content outside the body, such as a head title,
// is kept. Fragments come back wrapped in html, head and body elements.
func (r *TableRemover) RemoveTables(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", dartex.Errorf(dartex.EINVALID, "failed to parse HTML: %v", err)
	}

	doc.Find("table").Remove()

	out, err := doc.Html()
	if err != nil {
		return "", dartex.Errorf(dartex.EINVALID, "failed to render HTML: %v", err)
	}
	return out, nil
}
