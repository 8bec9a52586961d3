package dataset

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/pivolan/readiness_analyzer/domain/models"
)

// Load parses an uploaded file. Archives are unpacked first, .xlsx goes through the
// workbook reader and everything else is read as CSV.
func Load(name string, data []byte) (*models.Dataset, error) {
	name, data, err := unpackArchive(name, data)
	if err != nil {
		return nil, models.InvalidInput(err)
	}
	if strings.EqualFold(filepath.Ext(name), ".xlsx") {
		return ReadXLSX(bytes.NewReader(data))
	}
	return ReadCSV(bytes.NewReader(data))
}
