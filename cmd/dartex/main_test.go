package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	main "github.com/fwojciec/dartex/cmd/dartex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testContext returns a background context for tests.
func testContext() context.Context {
	return context.Background()
}

// newMain returns a Main that ignores config files in the working directory.
func newMain() *main.Main {
	return &main.Main{}
}

const rawFiling = "<html>\n" +
	"<!-- File: 표지 -->\n<p>cover</p>\n" +
	"<!-- File: I. 회사의 개요 -->\n<p>삼성전자는 1969년 설립되었습니다.</p>\n" +
	"<!-- File: II. 사업의 내용 -->\n<p>반도체 사업</p><table><tr><td>매출</td></tr></table>\n"

// writeDataset creates a dataset directory with two filings, one of which
// belongs to a company missing from the company file.
func writeDataset(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	raw := filepath.Join(dir, "RAW_FILINGS")
	require.NoError(t, os.MkdirAll(raw, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(raw, "005930_A001_2022.html"), []byte(rawFiling), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(raw, "000660_A001_2022.html"), []byte(rawFiling), 0644))

	metadata := "corp_code,corp_name,stock_code,rcept_no,rcept_dt,filing_types,filename\n" +
		"00126380,삼성전자,005930,20230307000542,20230307,A001,005930_A001_2022.html\n" +
		"00126380,삼성전자,005930,20230307000542,20230307,A001,005930_A001_2022.html\n" +
		"00164779,SK하이닉스,000660,20230308000111,20230308,A001,000660_A001_2022.html\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "FILINGS_METADATA.csv"), []byte(metadata), 0644))

	companies := `{"00126380": {"ceo_name": "한종희", "address": "경기도 수원시", "induty_code": "264", "establish_date": "19690113"}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "companies_info.json"), []byte(companies), 0644))
	return dir
}

func readRecord(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var record map[string]any
	require.NoError(t, json.Unmarshal(data, &record))
	return record
}

func TestMain_Run_Help(t *testing.T) {
	t.Parallel()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := newMain().Run(testContext(), []string{"--help"}, stdout, stderr)

	require.NoError(t, err)
	for _, cmd := range []string{"extract", "items", "records"} {
		assert.Contains(t, stdout.String(), cmd, "Help should mention %s command", cmd)
	}
}

func TestMain_Run_NoArgs(t *testing.T) {
	t.Parallel()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := newMain().Run(testContext(), nil, stdout, stderr)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
}

func TestCmdExtract(t *testing.T) {
	t.Parallel()

	t.Run("extracts filings into json records", func(t *testing.T) {
		t.Parallel()

		dir := writeDataset(t)
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := newMain().Run(testContext(), []string{"extract", "--dataset-dir", dir}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Starting extraction...")
		assert.Contains(t, stdout.String(), "Found 2 filings")
		assert.Contains(t, stdout.String(), "1 files were processed.")
		assert.Contains(t, stdout.String(), "1 files failed:\n  000660_A001_2022.html")
		assert.Contains(t, stdout.String(), "Extracted filings are saved to: "+filepath.Join(dir, "EXTRACTED_FILINGS"))
		assert.Contains(t, stderr.String(), "skip 000660_A001_2022.html")

		record := readRecord(t, filepath.Join(dir, "EXTRACTED_FILINGS", "005930_A001_2022.json"))
		assert.Equal(t, "00126380", record["corp_code"])
		assert.Equal(t, "삼성전자", record["company"])
		assert.Equal(t, "한종희", record["ceo_name"])
		assert.Equal(t, "삼성전자는 1969년 설립되었습니다.", record["item_I"])
		assert.Equal(t, "반도체 사업\n\n매출", record["item_II"])
		assert.Equal(t, "", record["item_XII"])
		assert.Len(t, record, 21)
	})

	t.Run("restricts items and removes tables", func(t *testing.T) {
		t.Parallel()

		dir := writeDataset(t)
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := newMain().Run(testContext(), []string{
			"extract", "--dataset-dir", dir, "--items-to-extract", "2", "--remove-tables", "--workers", "2",
		}, stdout, stderr)

		require.NoError(t, err)
		record := readRecord(t, filepath.Join(dir, "EXTRACTED_FILINGS", "005930_A001_2022.json"))
		assert.Equal(t, "반도체 사업", record["item_II"])
		assert.NotContains(t, record, "item_I")
		assert.Len(t, record, 10)
	})

	t.Run("skips extracted filings on a second run", func(t *testing.T) {
		t.Parallel()

		dir := writeDataset(t)
		args := []string{"extract", "--dataset-dir", dir, "--skip-extracted-filings"}
		require.NoError(t, newMain().Run(testContext(), args, &bytes.Buffer{}, &bytes.Buffer{}))

		stdout := &bytes.Buffer{}
		err := newMain().Run(testContext(), args, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "0 files were processed.")
		assert.Contains(t, stdout.String(), "1 files were skipped (already extracted).")
	})

	t.Run("rejects items out of range", func(t *testing.T) {
		t.Parallel()

		dir := writeDataset(t)
		stderr := &bytes.Buffer{}

		err := newMain().Run(testContext(), []string{"extract", "--dataset-dir", dir, "--items-to-extract", "13"}, &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "out of range")
		assert.NoDirExists(t, filepath.Join(dir, "EXTRACTED_FILINGS"))
	})

	t.Run("reports missing metadata table", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}

		err := newMain().Run(testContext(), []string{"extract", "--dataset-dir", t.TempDir()}, &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "no such file")
	})

	t.Run("reports missing raw directory", func(t *testing.T) {
		t.Parallel()

		dir := writeDataset(t)
		stderr := &bytes.Buffer{}

		err := newMain().Run(testContext(), []string{"extract", "--dataset-dir", dir, "--raw-dir", "NOWHERE"}, &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "no such directory")
	})

	t.Run("logs operations with debug", func(t *testing.T) {
		t.Parallel()

		dir := writeDataset(t)
		stderr := &bytes.Buffer{}

		err := newMain().Run(testContext(), []string{"--debug", "extract", "--dataset-dir", dir}, &bytes.Buffer{}, stderr)

		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "read raw filing")
		assert.Contains(t, stderr.String(), "write record")
		assert.Contains(t, stderr.String(), "company lookup failed")
	})

	t.Run("reads settings from a config file", func(t *testing.T) {
		t.Parallel()

		dir := writeDataset(t)
		config := filepath.Join(t.TempDir(), "config.yaml")
		content := "extract_items:\n" +
			"  raw_filings_folder: RAW_FILINGS\n" +
			"  extracted_filings_folder: OUT\n" +
			"  items_to_extract: [1, 3]\n" +
			"  remove_tables: true\n" +
			"dataset_dir: " + dir + "\n"
		require.NoError(t, os.WriteFile(config, []byte(content), 0644))

		err := newMain().Run(testContext(), []string{"--config", config, "extract"}, &bytes.Buffer{}, &bytes.Buffer{})

		require.NoError(t, err)
		record := readRecord(t, filepath.Join(dir, "OUT", "005930_A001_2022.json"))
		assert.Contains(t, record, "item_I")
		assert.Contains(t, record, "item_III")
		assert.NotContains(t, record, "item_II")
	})
}

func TestCmdItems(t *testing.T) {
	t.Parallel()

	t.Run("prints all keys by default", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}

		err := newMain().Run(testContext(), []string{"items"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Equal(t, "item_I\nitem_II\nitem_III\nitem_IV\nitem_V\nitem_VI\nitem_VII\nitem_VIII\nitem_IX\nitem_X\nitem_XI\nitem_XII\n", stdout.String())
	})

	t.Run("prints selected keys in order", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}

		err := newMain().Run(testContext(), []string{"items", "-i", "9,4,9"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Equal(t, "item_IX\nitem_IV\n", stdout.String())
	})
}

func TestCmdRecords(t *testing.T) {
	t.Parallel()

	t.Run("lists records indexed during extraction", func(t *testing.T) {
		t.Parallel()

		dir := writeDataset(t)
		dbPath := filepath.Join(t.TempDir(), "dartex.db")
		require.NoError(t, newMain().Run(testContext(), []string{"extract", "--dataset-dir", dir, "--db", dbPath}, &bytes.Buffer{}, &bytes.Buffer{}))

		stdout := &bytes.Buffer{}
		err := newMain().Run(testContext(), []string{"records", "--db", dbPath}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "005930_A001_2022.json  00126380  삼성전자  20230307  2/12 items")
	})

	t.Run("searches item text", func(t *testing.T) {
		t.Parallel()

		dir := writeDataset(t)
		dbPath := filepath.Join(t.TempDir(), "dartex.db")
		require.NoError(t, newMain().Run(testContext(), []string{"extract", "--dataset-dir", dir, "--db", dbPath}, &bytes.Buffer{}, &bytes.Buffer{}))

		stdout := &bytes.Buffer{}
		err := newMain().Run(testContext(), []string{"records", "--db", dbPath, "--item", "2", "--contains", "디스플레이"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Equal(t, "No records found.\n", stdout.String())
	})

	t.Run("reports missing database", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}

		err := newMain().Run(testContext(), []string{"records", "--db", filepath.Join(t.TempDir(), "missing.db")}, &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "no database")
	})
}
