package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/pivolan/go_utils"
	"github.com/pkg/errors"

	"github.com/pivolan/readiness_analyzer/domain/models"
)

const SEPARATOR = ','

// missingMarkers are the cell spellings read as missing values.
var missingMarkers = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan", "1.#IND", "1.#QNAN",
	"<NA>", "N/A", "NA", "NULL", "NaN", "None", "n/a", "nan", "null",
}

var boolMarkers = map[string]float64{
	"True": 1, "TRUE": 1, "true": 1,
	"False": 0, "FALSE": 0, "false": 0,
}

func isMissingMarker(s string) bool {
	return go_utils.InArray(strings.TrimSpace(s), missingMarkers)
}

// sniffSeparator picks the most frequent of , ; and tab on the first line.
func sniffSeparator(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	best, bestCount := rune(SEPARATOR), bytes.Count(line, []byte{SEPARATOR})
	for _, sep := range []rune{';', '\t'} {
		if c := bytes.Count(line, []byte(string(sep))); c > bestCount {
			best, bestCount = sep, c
		}
	}
	return best
}

// ReadCSV parses a whole CSV document into a dataset.
func ReadCSV(r io.Reader) (*models.Dataset, error) {
	data, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return nil, models.InvalidInput(errors.Wrap(err, "cannot read csv"))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffSeparator(data)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, models.InvalidInput(errors.Wrap(err, "cannot parse csv"))
	}
	return FromRecords(records)
}

// FromRecords builds a dataset from string rows, the first row being the header.
// Short rows are padded with missing values.
func FromRecords(records [][]string) (*models.Dataset, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, models.InvalidInputf("no columns to parse from file")
	}

	headers := AnalyzeHeaders(records[0])
	width := len(headers)
	rows := records[1:]

	raw := make([][]string, width)
	for i := range raw {
		raw[i] = make([]string, 0, len(rows))
	}
	for n, row := range rows {
		if len(row) > width {
			return nil, models.InvalidInputf("expected %d fields in line %d, saw %d", width, n+2, len(row))
		}
		for i := 0; i < width; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			raw[i] = append(raw[i], cell)
		}
	}

	columns := make([]*models.Column, width)
	for i, name := range headers {
		columns[i] = inferColumn(name, raw[i])
	}
	ds, err := models.NewDataset(columns...)
	if err != nil {
		return nil, models.InvalidInput(err)
	}
	return ds, nil
}

// inferColumn picks the narrowest kind every non-missing cell fits:
// int64 (no missing cells), float64, bool (no missing cells), object.
func inferColumn(name string, raw []string) *models.Column {
	values := make([]models.Value, len(raw))
	missing := 0
	numeric, integral, boolean := true, true, true

	for _, cell := range raw {
		if isMissingMarker(cell) {
			missing++
			continue
		}
		trimmed := strings.TrimSpace(cell)
		if _, err := strconv.ParseFloat(trimmed, 64); err != nil {
			numeric = false
		}
		if _, err := strconv.ParseInt(trimmed, 10, 64); err != nil {
			integral = false
		}
		if _, ok := boolMarkers[trimmed]; !ok {
			boolean = false
		}
	}

	kind := models.KindText
	switch {
	case missing == len(raw):
		kind = models.KindFloat
	case numeric && integral && missing == 0:
		kind = models.KindInt
	case numeric:
		kind = models.KindFloat
	case boolean && missing == 0:
		kind = models.KindBool
	}

	for i, cell := range raw {
		if isMissingMarker(cell) {
			values[i] = models.MissingValue()
			continue
		}
		trimmed := strings.TrimSpace(cell)
		switch kind {
		case models.KindInt, models.KindFloat:
			f, _ := strconv.ParseFloat(trimmed, 64)
			values[i] = models.NumberValue(f)
		case models.KindBool:
			values[i] = models.NumberValue(boolMarkers[trimmed])
		default:
			values[i] = models.TextValue(cell)
		}
	}
	return models.NewColumn(name, kind, values)
}

// WriteCSV writes a dataset with a header row; missing cells are left empty.
func WriteCSV(w io.Writer, ds *models.Dataset) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ds.Names()); err != nil {
		return errors.Wrap(err, "cannot write csv header")
	}
	columns := ds.Columns()
	row := make([]string, len(columns))
	for i := 0; i < ds.Len(); i++ {
		for j, c := range columns {
			row[j] = formatCell(c.Kind, c.Values[i])
		}
		if err := writer.Write(row); err != nil {
			return errors.Wrapf(err, "cannot write csv row %d", i)
		}
	}
	writer.Flush()
	return errors.Wrap(writer.Error(), "cannot flush csv")
}

func formatCell(kind models.ColumnKind, v models.Value) string {
	if kind == models.KindBool && v.Kind == models.Number {
		if v.Num != 0 {
			return "True"
		}
		return "False"
	}
	return v.String()
}
