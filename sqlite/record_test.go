package sqlite_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/fwojciec/dartex"
	"github.com/fwojciec/dartex/sqlite"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecord(filename, corpCode, date string) *dartex.Record {
	r := dartex.NewRecord(&dartex.FilingMetadata{
		CorpCode:    corpCode,
		CorpName:    "삼성전자",
		StockCode:   "005930",
		FilingTypes: "A001",
		ReceiptDate: date,
		Filename:    filename,
	}, &dartex.CompanyInfo{CEOName: "한종희"}, []dartex.Item{1, 2})
	r.SetItem("item_I", "회사의 개요")
	r.SetItem("item_II", "반도체 사업")
	return r
}

func TestRecordStore_WriteRecord(t *testing.T) {
	t.Parallel()

	t.Run("stores record retrievable by name", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		store := sqlite.NewRecordStore(db)
		ctx := context.Background()
		record := newTestRecord("a.html", "00126380", "20230307")

		require.NoError(t, store.WriteRecord(ctx, record))

		found, err := store.FindRecordByName(ctx, "a.json")
		require.NoError(t, err)
		assert.Equal(t, "a.json", found.Name)
		assert.Equal(t, "00126380", found.CorpCode)
		assert.Equal(t, "한종희", found.CEOName)
		if diff := cmp.Diff(record.Slots(), found.Slots()); diff != "" {
			t.Errorf("slots mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("stores content hash and generated id", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		store := sqlite.NewRecordStore(db)
		ctx := context.Background()

		require.NoError(t, store.WriteRecord(ctx, newTestRecord("a.html", "00126380", "20230307")))

		var id, hash string
		err := db.QueryRowContext(ctx, "SELECT id, content_hash FROM records WHERE name = ?", "a.json").Scan(&id, &hash)
		require.NoError(t, err)
		assert.Len(t, id, 36)
		assert.Len(t, hash, 16)
	})

	t.Run("replaces record with the same name", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		store := sqlite.NewRecordStore(db)
		ctx := context.Background()
		first := newTestRecord("a.html", "00126380", "20230307")
		require.NoError(t, store.WriteRecord(ctx, first))
		var firstID string
		require.NoError(t, db.QueryRowContext(ctx, "SELECT id FROM records WHERE name = 'a.json'").Scan(&firstID))

		second := newTestRecord("a.html", "00126380", "20230307")
		second.SetItem("item_I", "updated")
		require.NoError(t, store.WriteRecord(ctx, second))

		found, err := store.FindRecordByName(ctx, "a.json")
		require.NoError(t, err)
		text, _ := found.Item(1)
		assert.Equal(t, "updated", text)

		var count int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records").Scan(&count))
		assert.Equal(t, 1, count)
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM record_items").Scan(&count))
		assert.Equal(t, 2, count)

		var id string
		require.NoError(t, db.QueryRowContext(ctx, "SELECT id FROM records WHERE name = 'a.json'").Scan(&id))
		assert.Equal(t, firstID, id, "id is stable across rewrites")
	})

	t.Run("returns EINVALID for unnamed record", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewRecordStore(setupTestDB(t))

		err := store.WriteRecord(context.Background(), &dartex.Record{})

		require.Error(t, err)
		assert.Equal(t, dartex.EINVALID, dartex.ErrorCode(err))
	})
}

func TestRecordStore_RecordExists(t *testing.T) {
	t.Parallel()

	store := sqlite.NewRecordStore(setupTestDB(t))
	ctx := context.Background()

	ok, err := store.RecordExists(ctx, "a.json")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.WriteRecord(ctx, newTestRecord("a.html", "00126380", "20230307")))

	ok, err = store.RecordExists(ctx, "a.json")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRecordStore_FindRecordByName(t *testing.T) {
	t.Parallel()

	t.Run("returns ENOTFOUND when not found", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewRecordStore(setupTestDB(t))

		_, err := store.FindRecordByName(context.Background(), "missing.json")

		require.Error(t, err)
		assert.Equal(t, dartex.ENOTFOUND, dartex.ErrorCode(err))
	})
}

func TestRecordStore_FindRecords(t *testing.T) {
	t.Parallel()

	seed := func(t *testing.T) *sqlite.RecordStore {
		t.Helper()
		store := sqlite.NewRecordStore(setupTestDB(t))
		ctx := context.Background()
		require.NoError(t, store.WriteRecord(ctx, newTestRecord("a.html", "00126380", "20210309")))
		require.NoError(t, store.WriteRecord(ctx, newTestRecord("b.html", "00126380", "20230307")))
		require.NoError(t, store.WriteRecord(ctx, newTestRecord("c.html", "00164779", "20220308")))
		return store
	}

	names := func(records []*dartex.Record) []string {
		var out []string
		for _, r := range records {
			out = append(out, r.Name)
		}
		return out
	}

	t.Run("orders by filing date newest first", func(t *testing.T) {
		t.Parallel()

		records, err := seed(t).FindRecords(context.Background(), dartex.RecordFilter{})

		require.NoError(t, err)
		assert.Equal(t, []string{"b.json", "c.json", "a.json"}, names(records))
	})

	t.Run("filters by corp code", func(t *testing.T) {
		t.Parallel()

		corp := "00126380"
		records, err := seed(t).FindRecords(context.Background(), dartex.RecordFilter{CorpCode: &corp})

		require.NoError(t, err)
		assert.Equal(t, []string{"b.json", "a.json"}, names(records))
	})

	t.Run("filters by filing type", func(t *testing.T) {
		t.Parallel()

		filingType := "A002"
		records, err := seed(t).FindRecords(context.Background(), dartex.RecordFilter{FilingType: &filingType})

		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("paginates", func(t *testing.T) {
		t.Parallel()

		store := seed(t)

		page, err := store.FindRecords(context.Background(), dartex.RecordFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		assert.Equal(t, []string{"c.json"}, names(page))

		rest, err := store.FindRecords(context.Background(), dartex.RecordFilter{Offset: 2})
		require.NoError(t, err)
		assert.Equal(t, []string{"a.json"}, names(rest))
	})
}

func TestRecordStore_DeleteRecord(t *testing.T) {
	t.Parallel()

	t.Run("removes record and its items", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		store := sqlite.NewRecordStore(db)
		ctx := context.Background()
		require.NoError(t, store.WriteRecord(ctx, newTestRecord("a.html", "00126380", "20230307")))

		require.NoError(t, store.DeleteRecord(ctx, "a.json"))

		_, err := store.FindRecordByName(ctx, "a.json")
		assert.Equal(t, dartex.ENOTFOUND, dartex.ErrorCode(err))
		var count int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM record_items").Scan(&count))
		assert.Zero(t, count)
	})

	t.Run("returns ENOTFOUND when not found", func(t *testing.T) {
		t.Parallel()

		err := sqlite.NewRecordStore(setupTestDB(t)).DeleteRecord(context.Background(), "missing.json")

		require.Error(t, err)
		assert.Equal(t, dartex.ENOTFOUND, dartex.ErrorCode(err))
	})
}

func TestRecordStore_SearchItems(t *testing.T) {
	t.Parallel()

	store := sqlite.NewRecordStore(setupTestDB(t))
	ctx := context.Background()
	for i := range 3 {
		r := newTestRecord(fmt.Sprintf("r%d.html", i), "00126380", "20230307")
		if i == 1 {
			r.SetItem("item_II", "디스플레이 사업")
		}
		require.NoError(t, store.WriteRecord(ctx, r))
	}

	found, err := store.SearchItems(ctx, "item_II", "반도체")

	require.NoError(t, err)
	assert.Equal(t, []string{"r0.json", "r2.json"}, found)

	none, err := store.SearchItems(ctx, "item_I", "반도체")
	require.NoError(t, err)
	assert.Empty(t, none)
}
