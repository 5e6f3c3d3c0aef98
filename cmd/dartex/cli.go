package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/alecthomas/kong"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config kong.ConfigFlag `help:"Load flag values from a YAML or JSON file"`
	Debug  bool            `env:"DARTEX_DEBUG" help:"Log pipeline operations to stderr"`

	Extract ExtractCmd `cmd:"" help:"Extract item sections from raw filings"`
	Items   ItemsCmd   `cmd:"" help:"Print the record keys for an item selection"`
	Records RecordsCmd `cmd:"" help:"List records indexed in a SQLite database"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	DatasetDir           string `default:"datasets" env:"DARTEX_DATASET_DIR" help:"Base directory for relative dataset paths"`
	Metadata             string `default:"FILINGS_METADATA.csv" env:"DARTEX_METADATA" help:"Filing metadata table"`
	RawDir               string `default:"RAW_FILINGS" env:"DARTEX_RAW_DIR" help:"Directory of raw filings"`
	OutDir               string `default:"EXTRACTED_FILINGS" env:"DARTEX_OUT_DIR" help:"Directory for extracted records"`
	Companies            string `default:"companies_info.json" env:"DARTEX_COMPANIES" help:"Company info file"`
	ItemsToExtract       []int  `name:"items-to-extract" short:"i" sep:"," env:"DARTEX_ITEMS" help:"Item numbers to extract (default: all)"`
	RemoveTables         bool   `env:"DARTEX_REMOVE_TABLES" help:"Drop tables before extracting text"`
	SkipExtractedFilings bool   `env:"DARTEX_SKIP_EXTRACTED" help:"Skip filings whose record already exists"`
	Workers              int    `short:"w" default:"1" env:"DARTEX_WORKERS" help:"Number of filings processed concurrently"`
	DB                   string `name:"db" env:"DARTEX_DB" help:"Also index records in this SQLite database"`
}

// ItemsCmd is the "items" subcommand.
type ItemsCmd struct {
	ItemsToExtract []int `name:"items-to-extract" short:"i" sep:"," env:"DARTEX_ITEMS" help:"Item numbers (default: all)"`
}

// RecordsCmd is the "records" subcommand.
type RecordsCmd struct {
	DB         string `name:"db" required:"" env:"DARTEX_DB" help:"SQLite database written by extract --db"`
	CorpCode   string `help:"Only records of this corp code"`
	FilingType string `help:"Only records of this filing type"`
	Item       int    `help:"Item number searched by --contains"`
	Contains   string `help:"Only records whose --item text contains this string"`
	Limit      int    `default:"50" help:"Maximum number of records"`
	Offset     int    `help:"Number of records to skip"`
}
