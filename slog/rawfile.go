// Package slog provides logging decorators for dartex services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/dartex"
)

// Ensure LoggingRawFileSource implements dartex.RawFileSource.
var _ dartex.RawFileSource = (*LoggingRawFileSource)(nil)

// LoggingRawFileSource wraps a RawFileSource with debug logging.
type LoggingRawFileSource struct {
	next   dartex.RawFileSource
	logger *slog.Logger
}

// NewLoggingRawFileSource creates a new LoggingRawFileSource.
func NewLoggingRawFileSource(next dartex.RawFileSource, logger *slog.Logger) *LoggingRawFileSource {
	return &LoggingRawFileSource{next: next, logger: logger}
}

// ReadRawFile delegates to the wrapped source and logs the operation.
func (s *LoggingRawFileSource) ReadRawFile(ctx context.Context, filename string) (raw string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("read raw filing",
			"filename", filename,
			"bytes", len(raw),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ReadRawFile(ctx, filename)
}

// Ensure LoggingCompanyDirectory implements dartex.CompanyDirectory.
var _ dartex.CompanyDirectory = (*LoggingCompanyDirectory)(nil)

// LoggingCompanyDirectory wraps a CompanyDirectory and logs failed lookups.
type LoggingCompanyDirectory struct {
	next   dartex.CompanyDirectory
	logger *slog.Logger
}

// NewLoggingCompanyDirectory creates a new LoggingCompanyDirectory.
func NewLoggingCompanyDirectory(next dartex.CompanyDirectory, logger *slog.Logger) *LoggingCompanyDirectory {
	return &LoggingCompanyDirectory{next: next, logger: logger}
}

// FindCompany delegates to the wrapped directory.
func (d *LoggingCompanyDirectory) FindCompany(corpCode string) (*dartex.CompanyInfo, error) {
	info, err := d.next.FindCompany(corpCode)
	if err != nil {
		d.logger.Warn("company lookup failed",
			"corp_code", corpCode,
			"err", err,
		)
	}
	return info, err
}
