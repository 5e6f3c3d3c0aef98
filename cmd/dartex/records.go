package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fwojciec/dartex"
	"github.com/fwojciec/dartex/sqlite"
)

// Run executes the records command.
func (c *RecordsCmd) Run(deps *Dependencies) error {
	if _, err := os.Stat(c.DB); errors.Is(err, os.ErrNotExist) {
		err := dartex.Errorf(dartex.ENOTFOUND, "no database at %q. Run 'dartex extract --db' first", c.DB)
		fmt.Fprintf(deps.Stderr, "error: %s\n", dartex.ErrorMessage(err))
		return err
	}

	db := sqlite.NewDB(c.DB)
	if err := db.Open(); err != nil {
		return fmt.Errorf("failed to open database at %q: %w", c.DB, err)
	}
	defer db.Close()
	store := sqlite.NewRecordStore(db)

	records, err := c.findRecords(deps, store)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", dartex.ErrorMessage(err))
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(deps.Stdout, "No records found.")
		return nil
	}

	for _, r := range records {
		slots := r.Slots()
		filled := 0
		for _, slot := range slots {
			if slot.Text != "" {
				filled++
			}
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s  %d/%d items\n",
			r.Name, r.CorpCode, r.Company, r.FilingDate, filled, len(slots))
	}
	return nil
}

func (c *RecordsCmd) findRecords(deps *Dependencies, store *sqlite.RecordStore) ([]*dartex.Record, error) {
	if c.Contains == "" {
		filter := dartex.RecordFilter{Limit: c.Limit, Offset: c.Offset}
		if c.CorpCode != "" {
			filter.CorpCode = &c.CorpCode
		}
		if c.FilingType != "" {
			filter.FilingType = &c.FilingType
		}
		return store.FindRecords(deps.Ctx, filter)
	}

	item := dartex.Item(c.Item)
	if !item.Valid() {
		return nil, dartex.Errorf(dartex.EINVALID, "--contains requires --item between 1 and %d", dartex.MaxItem)
	}
	names, err := store.SearchItems(deps.Ctx, item.Key(), c.Contains)
	if err != nil {
		return nil, err
	}

	var records []*dartex.Record
	skipped := 0
	for _, name := range names {
		if c.Limit > 0 && len(records) >= c.Limit {
			break
		}
		r, err := store.FindRecordByName(deps.Ctx, name)
		if err != nil {
			return nil, err
		}
		if c.CorpCode != "" && r.CorpCode != c.CorpCode {
			continue
		}
		if c.FilingType != "" && r.FilingType != c.FilingType {
			continue
		}
		if skipped < c.Offset {
			skipped++
			continue
		}
		records = append(records, r)
	}
	return records, nil
}
