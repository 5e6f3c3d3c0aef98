package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/dartex"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ dartex.RecordService = (*RecordStore)(nil)

// RecordStore implements dartex.RecordService using SQLite.
// Records are keyed by output name; writing an existing name replaces it.
type RecordStore struct {
	db *DB
}

// NewRecordStore creates a new RecordStore.
func NewRecordStore(db *DB) *RecordStore {
	return &RecordStore{db: db}
}

// RecordExists reports whether a record with the given name is indexed.
func (s *RecordStore) RecordExists(ctx context.Context, name string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records WHERE name = ?", name).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// WriteRecord inserts or replaces a record and its item slots.
func (s *RecordStore) WriteRecord(ctx context.Context, record *dartex.Record) error {
	if record.Name == "" {
		return dartex.Errorf(dartex.EINVALID, "record name required")
	}

	body, err := record.MarshalJSON()
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var id string
	err = tx.QueryRowContext(ctx, "SELECT id FROM records WHERE name = ?", record.Name).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		id = uuid.New().String()
	case err != nil:
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO records (id, name, corp_code, company, filing_type, filing_date, body, content_hash, extracted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			corp_code = excluded.corp_code,
			company = excluded.company,
			filing_type = excluded.filing_type,
			filing_date = excluded.filing_date,
			body = excluded.body,
			content_hash = excluded.content_hash,
			extracted_at = excluded.extracted_at
	`, id, record.Name, record.CorpCode, record.Company, record.FilingType, record.FilingDate,
		string(body), hashContent(body), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM record_items WHERE record_id = ?", id); err != nil {
		return err
	}
	for i, slot := range record.Slots() {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO record_items (record_id, key, position, text)
			VALUES (?, ?, ?, ?)
		`, id, slot.Key, i, slot.Text); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindRecordByName retrieves a record by its output name.
func (s *RecordStore) FindRecordByName(ctx context.Context, name string) (*dartex.Record, error) {
	var body string
	err := s.db.QueryRowContext(ctx, "SELECT body FROM records WHERE name = ?", name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, dartex.Errorf(dartex.ENOTFOUND, "record %s not found", name)
	}
	if err != nil {
		return nil, err
	}
	return decodeRecord(name, body)
}

// FindRecords retrieves records matching the filter, ordered by filing
// date (newest first) and name.
func (s *RecordStore) FindRecords(ctx context.Context, filter dartex.RecordFilter) ([]*dartex.Record, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT name, body FROM records WHERE 1=1")

	if filter.CorpCode != nil {
		query.WriteString(" AND corp_code = ?")
		args = append(args, *filter.CorpCode)
	}
	if filter.FilingType != nil {
		query.WriteString(" AND filing_type = ?")
		args = append(args, *filter.FilingType)
	}

	query.WriteString(" ORDER BY filing_date DESC, name ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*dartex.Record
	for rows.Next() {
		var name, body string
		if err := rows.Scan(&name, &body); err != nil {
			return nil, err
		}
		r, err := decodeRecord(name, body)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	return records, rows.Err()
}

// DeleteRecord permanently removes a record and its item slots.
func (s *RecordStore) DeleteRecord(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM records WHERE name = ?", name)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return dartex.Errorf(dartex.ENOTFOUND, "record %s not found", name)
	}

	return nil
}

// SearchItems returns the names of records whose item slot key contains
// text, in name order.
func (s *RecordStore) SearchItems(ctx context.Context, key, text string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.name
		FROM record_items i
		JOIN records r ON r.id = i.record_id
		WHERE i.key = ? AND instr(i.text, ?) > 0
		ORDER BY r.name ASC
	`, key, text)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func decodeRecord(name, body string) (*dartex.Record, error) {
	r := &dartex.Record{Name: name}
	if err := json.Unmarshal([]byte(body), r); err != nil {
		return nil, dartex.Errorf(dartex.EINTERNAL, "corrupt record %s: %v", name, err)
	}
	return r, nil
}
