// Package dartex extracts numbered item sections from raw regulatory
// filings. A raw filing is a concatenation of titled HTML sub-documents;
// dartex splits it, keeps the sub-documents whose titles carry an item
// numeral, strips and normalizes their text, and emits one JSON record per
// filing merged with filing and company metadata.
//
// This package contains domain types, interfaces and the pure text
// algorithms, following Ben Johnson's Standard Package Layout.
// Implementations live in subdirectories named after their primary
// dependency (e.g., goquery/, html/, sqlite/, fs/).
package dartex
