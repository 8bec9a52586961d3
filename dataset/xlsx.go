package dataset

import (
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/pivolan/readiness_analyzer/domain/models"
)

// ReadXLSX loads the first sheet of a workbook.
func ReadXLSX(r io.Reader) (*models.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, models.InvalidInput(errors.Wrap(err, "cannot open workbook"))
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, models.InvalidInputf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, models.InvalidInput(errors.Wrapf(err, "cannot read sheet %q", sheets[0]))
	}

	// GetRows trims trailing empty cells, the header row included
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	if len(rows) > 0 {
		for len(rows[0]) < width {
			rows[0] = append(rows[0], "")
		}
	}
	return FromRecords(rows)
}
