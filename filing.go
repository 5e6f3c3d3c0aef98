package dartex

import "context"

// FilingMetadata describes one filing row of the metadata table.
type FilingMetadata struct {
	CorpCode    string `json:"corpCode"`
	CorpName    string `json:"corpName"`
	StockCode   string `json:"stockCode"`
	FilingTypes string `json:"filingTypes"`
	ReceiptDate string `json:"receiptDate"`
	Filename    string `json:"filename"`
}

// Validate returns an error if the metadata lacks the fields extraction
// depends on.
func (m *FilingMetadata) Validate() error {
	if m.Filename == "" {
		return Errorf(EINVALID, "filing filename required")
	}
	if m.CorpCode == "" {
		return Errorf(EINVALID, "filing %s: corp code required", m.Filename)
	}
	return nil
}

// CompanyInfo holds the company attributes merged into each record.
type CompanyInfo struct {
	CompanyName    string `json:"company_name"`
	CompanyNameEng string `json:"company_name_eng"`
	StockCode      string `json:"stock_code"`
	CEOName        string `json:"ceo_name"`
	Address        string `json:"address"`
	IndutyCode     string `json:"induty_code"`
	EstablishDate  string `json:"establish_date"`
}

// CompanyDirectory looks up company attributes by corp code.
type CompanyDirectory interface {
	// FindCompany returns the company registered under corpCode.
	// Returns ENOTFOUND if the directory has no entry for it.
	FindCompany(corpCode string) (*CompanyInfo, error)
}

// Ensure CompanyIndex implements CompanyDirectory at compile time.
var _ CompanyDirectory = CompanyIndex(nil)

// CompanyIndex is an in-memory CompanyDirectory keyed by corp code.
// It is built once and only read afterwards, so concurrent lookups are safe.
type CompanyIndex map[string]CompanyInfo

// FindCompany returns a copy of the entry for corpCode.
func (idx CompanyIndex) FindCompany(corpCode string) (*CompanyInfo, error) {
	info, ok := idx[corpCode]
	if !ok {
		return nil, Errorf(ENOTFOUND, "company info not found for corp code %q", corpCode)
	}
	return &info, nil
}

// RawFileSource reads raw filings by name.
type RawFileSource interface {
	// ReadRawFile returns the full text of a raw filing.
	// Returns ENOTFOUND if the filing does not exist.
	ReadRawFile(ctx context.Context, filename string) (string, error)
}

// Stripper converts sub-document HTML into plain text.
type Stripper interface {
	Strip(html string) (string, error)
}

// TableRemover removes table elements from sub-document HTML.
type TableRemover interface {
	RemoveTables(html string) (string, error)
}
