package fs

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/fwojciec/dartex"
)

// LoadCompanies reads a company directory file: a JSON object mapping corp
// codes to company attributes. Null attributes load as empty strings.
func LoadCompanies(path string) (dartex.CompanyIndex, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, dartex.Errorf(dartex.ENOTFOUND, "company info file %s not found", path)
	}
	if err != nil {
		return nil, err
	}

	var idx dartex.CompanyIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, dartex.Errorf(dartex.EINVALID, "invalid company info file %s: %v", path, err)
	}
	if idx == nil {
		idx = dartex.CompanyIndex{}
	}
	return idx, nil
}
