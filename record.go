package dartex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Record is the structured output of one filing: filing and company
// metadata followed by one text slot per requested item.
type Record struct {
	// Name is the output name of the record, derived from the raw filename.
	Name string

	CorpCode      string
	Company       string
	StockCode     string
	FilingType    string
	FilingDate    string
	CEOName       string
	Address       string
	IndutyCode    string
	EstablishDate string

	slots []ItemSlot
	index map[string]int
}

// ItemSlot is a requested item key and the text assigned to it.
type ItemSlot struct {
	Key  string
	Text string
}

// NewRecord creates a record for a filing with one empty slot per item,
// in the given order. company may be nil.
func NewRecord(meta *FilingMetadata, company *CompanyInfo, items []Item) *Record {
	r := &Record{
		Name:       OutputName(meta.Filename),
		CorpCode:   meta.CorpCode,
		Company:    meta.CorpName,
		StockCode:  meta.StockCode,
		FilingType: meta.FilingTypes,
		FilingDate: meta.ReceiptDate,
		index:      make(map[string]int, len(items)),
	}
	if company != nil {
		r.CEOName = company.CEOName
		r.Address = company.Address
		r.IndutyCode = company.IndutyCode
		r.EstablishDate = company.EstablishDate
	}
	for _, item := range items {
		r.addSlot(item.Key())
	}
	return r
}

func (r *Record) addSlot(key string) {
	if _, ok := r.index[key]; ok {
		return
	}
	r.index[key] = len(r.slots)
	r.slots = append(r.slots, ItemSlot{Key: key})
}

// SetItem assigns text to the slot named key and reports whether the slot
// exists. Keys that were not requested are ignored. A later assignment to
// the same slot replaces the earlier one.
func (r *Record) SetItem(key, text string) bool {
	i, ok := r.index[key]
	if !ok {
		return false
	}
	r.slots[i].Text = text
	return true
}

// HasItem reports whether key is one of the record's requested slots.
func (r *Record) HasItem(key string) bool {
	_, ok := r.index[key]
	return ok
}

// Item returns the text of the slot for item and whether it was requested.
func (r *Record) Item(item Item) (string, bool) {
	i, ok := r.index[item.Key()]
	if !ok {
		return "", false
	}
	return r.slots[i].Text, true
}

// Slots returns the item slots in requested order.
func (r *Record) Slots() []ItemSlot {
	slots := make([]ItemSlot, len(r.slots))
	copy(slots, r.slots)
	return slots
}

// Record JSON keys, in output order.
const (
	keyCorpCode      = "corp_code"
	keyCompany       = "company"
	keyStockCode     = "stock_code"
	keyFilingType    = "filing_type"
	keyFilingDate    = "filing_date"
	keyCEOName       = "ceo_name"
	keyAddress       = "address"
	keyIndutyCode    = "induty_code"
	keyEstablishDate = "establish_date"
)

func (r *Record) metadataFields() []struct {
	key   string
	value *string
} {
	return []struct {
		key   string
		value *string
	}{
		{keyCorpCode, &r.CorpCode},
		{keyCompany, &r.Company},
		{keyStockCode, &r.StockCode},
		{keyFilingType, &r.FilingType},
		{keyFilingDate, &r.FilingDate},
		{keyCEOName, &r.CEOName},
		{keyAddress, &r.Address},
		{keyIndutyCode, &r.IndutyCode},
		{keyEstablishDate, &r.EstablishDate},
	}
}

// MarshalJSON encodes the record as an object with metadata keys first and
// item slots after them, in requested order. Empty metadata values are
// encoded as null; item slots are always strings.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.metadataFields() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(&buf, f.key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if *f.value == "" {
			buf.WriteString("null")
			continue
		}
		if err := writeJSONString(&buf, *f.value); err != nil {
			return nil, err
		}
	}
	for _, slot := range r.slots {
		buf.WriteByte(',')
		if err := writeJSONString(&buf, slot.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSONString(&buf, slot.Text); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates each value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// UnmarshalJSON decodes a record produced by MarshalJSON. Keys starting
// with "item_" become slots in document order; unknown keys are ignored.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return Errorf(EINVALID, "record must be a JSON object")
	}

	*r = Record{Name: r.Name, index: make(map[string]int)}
	fields := make(map[string]*string)
	for _, f := range r.metadataFields() {
		fields[f.key] = f.value
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return Errorf(EINVALID, "unexpected record key %v", tok)
		}
		var value *string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
		if value == nil {
			continue
		}
		if strings.HasPrefix(key, itemKeyPrefix) {
			r.addSlot(key)
			r.SetItem(key, *value)
			continue
		}
		if dst, ok := fields[key]; ok {
			*dst = *value
		}
	}
	_, err = dec.Token()
	return err
}

// OutputName returns the record name for a raw filename: everything before
// the first period, plus ".json".
func OutputName(filename string) string {
	base, _, _ := strings.Cut(filename, ".")
	return base + ".json"
}

// RecordWriter persists extracted records.
type RecordWriter interface {
	// RecordExists reports whether a record with the given name was
	// already written.
	RecordExists(ctx context.Context, name string) (bool, error)

	// WriteRecord stores the record under its name, replacing any
	// previous version.
	WriteRecord(ctx context.Context, record *Record) error
}

// Ensure MultiRecordWriter implements RecordWriter at compile time.
var _ RecordWriter = MultiRecordWriter(nil)

// MultiRecordWriter fans records out to several writers.
type MultiRecordWriter []RecordWriter

// RecordExists reports true only when every writer already has the record,
// so a sink added later gets backfilled.
func (w MultiRecordWriter) RecordExists(ctx context.Context, name string) (bool, error) {
	if len(w) == 0 {
		return false, nil
	}
	for _, next := range w {
		ok, err := next.RecordExists(ctx, name)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// WriteRecord writes to each writer in order and stops at the first error.
func (w MultiRecordWriter) WriteRecord(ctx context.Context, record *Record) error {
	for _, next := range w {
		if err := next.WriteRecord(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

// RecordService represents a queryable index of extracted records.
type RecordService interface {
	RecordWriter

	// FindRecordByName retrieves a record by its output name.
	// Returns ENOTFOUND if the record does not exist.
	FindRecordByName(ctx context.Context, name string) (*Record, error)

	// FindRecords retrieves records matching the filter.
	FindRecords(ctx context.Context, filter RecordFilter) ([]*Record, error)

	// DeleteRecord permanently removes a record.
	// Returns ENOTFOUND if the record does not exist.
	DeleteRecord(ctx context.Context, name string) error
}

// RecordFilter represents a filter for FindRecords.
type RecordFilter struct {
	CorpCode   *string `json:"corpCode"`
	FilingType *string `json:"filingType"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
