package mock

import (
	"context"

	"github.com/fwojciec/dartex"
)

// Compile-time interface verification.
var (
	_ dartex.RawFileSource    = (*RawFileSource)(nil)
	_ dartex.CompanyDirectory = (*CompanyDirectory)(nil)
	_ dartex.Stripper         = (*Stripper)(nil)
	_ dartex.TableRemover     = (*TableRemover)(nil)
)

// RawFileSource is a mock implementation of dartex.RawFileSource.
type RawFileSource struct {
	ReadRawFileFn func(ctx context.Context, filename string) (string, error)
}

func (s *RawFileSource) ReadRawFile(ctx context.Context, filename string) (string, error) {
	return s.ReadRawFileFn(ctx, filename)
}

// CompanyDirectory is a mock implementation of dartex.CompanyDirectory.
type CompanyDirectory struct {
	FindCompanyFn func(corpCode string) (*dartex.CompanyInfo, error)
}

func (d *CompanyDirectory) FindCompany(corpCode string) (*dartex.CompanyInfo, error) {
	return d.FindCompanyFn(corpCode)
}

// Stripper is a mock implementation of dartex.Stripper.
type Stripper struct {
	StripFn func(html string) (string, error)
}

func (s *Stripper) Strip(html string) (string, error) {
	return s.StripFn(html)
}

// TableRemover is a mock implementation of dartex.TableRemover.
type TableRemover struct {
	RemoveTablesFn func(html string) (string, error)
}

func (r *TableRemover) RemoveTables(html string) (string, error) {
	return r.RemoveTablesFn(html)
}
