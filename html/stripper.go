// Package html strips markup from filing sub-documents using the
// golang.org/x/net/html tokenizer.
package html

import (
	"errors"
	"io"
	"regexp"
	"strings"

	"github.com/fwojciec/dartex"
	xhtml "golang.org/x/net/html"
)

// Ensure Stripper implements dartex.Stripper at compile time.
var _ dartex.Stripper = (*Stripper)(nil)

var (
	blockCloseRe = regexp.MustCompile(`(?i)(<\s*/\s*(?:div|tr|p|li|)\s*>)`)
	lineBreakRe  = regexp.MustCompile(`(?i)(<br\s*>|<br\s*/>)`)
	cellCloseRe  = regexp.MustCompile(`(?i)(<\s*/\s*(?:th|td)\s*>)`)
)

// Stripper converts HTML into plain text. Block boundaries become blank
// lines and table cells are padded with spaces so that adjacent cells do
// not run together.
type Stripper struct{}

// NewStripper creates a new Stripper.
func NewStripper() *Stripper {
	return &Stripper{}
}

// Strip returns the character data of src with entities resolved. Tags,
// comments and doctype declarations produce no output.
func (s *Stripper) Strip(src string) (string, error) {
	src = MarkBoundaries(src)

	var b strings.Builder
	z := xhtml.NewTokenizer(strings.NewReader(src))
	for {
		switch z.Next() {
		case xhtml.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return "", dartex.Errorf(dartex.EINVALID, "failed to tokenize HTML: %v", err)
			}
			return b.String(), nil
		case xhtml.TextToken:
			b.Write(z.Text())
		}
	}
}

// MarkBoundaries inserts a blank line after closing div, tr, p and li tags
// and after line breaks, and surrounds closing th and td tags with spaces.
func MarkBoundaries(src string) string {
	src = blockCloseRe.ReplaceAllString(src, "${1}\n\n")
	src = lineBreakRe.ReplaceAllString(src, "${1}\n\n")
	return cellCloseRe.ReplaceAllString(src, " ${1} ")
}
