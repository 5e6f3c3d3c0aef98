package dartex

import "strings"

// FileMarker is the sentinel that opens a sub-document inside a raw filing.
// The marker line reads "<!-- File: <title> -->".
const FileMarker = "<!-- File:"

// SubDocument is one titled HTML fragment of a raw filing.
type SubDocument struct {
	Title string
	HTML  string
}

// SubDocuments is an insert-or-replace collection of sub-documents keyed by
// title. Putting a title that already exists replaces its HTML (last write
// wins) while the entry keeps the position of the title's first insertion.
type SubDocuments struct {
	docs  []SubDocument
	index map[string]int
}

// NewSubDocuments returns an empty collection.
func NewSubDocuments() *SubDocuments {
	return &SubDocuments{index: make(map[string]int)}
}

// Put inserts a sub-document or replaces the HTML of an existing title.
func (s *SubDocuments) Put(title, html string) {
	if i, ok := s.index[title]; ok {
		s.docs[i].HTML = html
		return
	}
	s.index[title] = len(s.docs)
	s.docs = append(s.docs, SubDocument{Title: title, HTML: html})
}

// Get returns the HTML stored for a title.
func (s *SubDocuments) Get(title string) (string, bool) {
	i, ok := s.index[title]
	if !ok {
		return "", false
	}
	return s.docs[i].HTML, true
}

// Len returns the number of distinct titles.
func (s *SubDocuments) Len() int {
	return len(s.docs)
}

// All returns a copy of the sub-documents in first-insertion order.
func (s *SubDocuments) All() []SubDocument {
	out := make([]SubDocument, len(s.docs))
	copy(out, s.docs)
	return out
}

// SplitFiling partitions a raw filing into sub-documents.
//
// Each line containing FileMarker starts a new sub-document whose title is
// read from the marker line; the following lines, terminators included,
// form its HTML until the next marker or end of input. Lines before the
// first marker are discarded. Only sub-documents whose title passes
// IsSectionTitle are kept; duplicate titles keep the last body.
func SplitFiling(raw string) *SubDocuments {
	docs := NewSubDocuments()

	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	var (
		title   string
		open    bool
		current strings.Builder
	)
	flush := func() {
		if open && IsSectionTitle(title) {
			docs.Put(title, current.String())
		}
		current.Reset()
	}

	for _, line := range strings.SplitAfter(raw, "\n") {
		if line == "" {
			continue
		}
		if strings.Contains(line, FileMarker) {
			flush()
			title = markerTitle(line)
			open = true
			continue
		}
		if open {
			current.WriteString(line)
		}
	}
	flush()

	return docs
}

// markerTitle extracts the title between FileMarker and the closing token.
func markerTitle(line string) string {
	_, rest, _ := strings.Cut(line, FileMarker)
	rest, _, _ = strings.Cut(rest, FileMarker)
	rest = strings.TrimSpace(rest)
	rest = strings.TrimRight(rest, "->")
	return strings.TrimSpace(rest)
}
