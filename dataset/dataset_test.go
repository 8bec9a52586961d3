package dataset

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/pierrec/lz4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pivolan/readiness_analyzer/domain/models"
)

const titanicSample = `PassengerId,Survived,Age,Sex,Embarked,SibSp,Parch,Ticket
1,0,22,male,S,1,0,A/5 21171
2,1,38,female,C,1,0,PC 17599
3,1,,female,S,0,0,STON/O2. 3101282
4,1,35,female,NA,1,0,113803
`

func TestReadCSVInfersColumnKinds(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(titanicSample))
	require.NoError(t, err)

	assert.Equal(t, 4, ds.Len())
	assert.Equal(t, []string{"PassengerId", "Survived", "Age", "Sex", "Embarked", "SibSp", "Parch", "Ticket"}, ds.Names())

	kinds := map[string]models.ColumnKind{}
	for _, c := range ds.Columns() {
		kinds[c.Name] = c.Kind
	}
	assert.Equal(t, models.KindInt, kinds["PassengerId"])
	assert.Equal(t, models.KindFloat, kinds["Age"])
	assert.Equal(t, models.KindText, kinds["Sex"])
	assert.Equal(t, models.KindText, kinds["Ticket"])

	age, _ := ds.Column("Age")
	assert.Equal(t, 1, age.MissingCount())
	assert.Equal(t, []float64{22, 38, 35}, age.Numbers())

	embarked, _ := ds.Column("Embarked")
	assert.Equal(t, 1, embarked.MissingCount())
	assert.Equal(t, []string{"C", "S"}, embarked.Distinct())
}

func TestReadCSVBoolAndAllMissing(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader("flag,empty\nTrue,\nFalse,\n"))
	require.NoError(t, err)

	flag, _ := ds.Column("flag")
	assert.Equal(t, models.KindBool, flag.Kind)
	assert.Equal(t, []float64{1, 0}, flag.Numbers())

	empty, _ := ds.Column("empty")
	assert.Equal(t, models.KindFloat, empty.Kind)
	assert.Equal(t, 2, empty.MissingCount())
}

func TestReadCSVSeparators(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"comma", "a,b\n1,x\n"},
		{"semicolon", "a;b\n1;x\n"},
		{"tab", "a\tb\n1\tx\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := ReadCSV(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "b"}, ds.Names())
			assert.Equal(t, 1, ds.Len())
		})
	}
}

func TestReadCSVFirstRowIsAlwaysHeader(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader("2019,2020,label\n1,2,a\n3,4,b\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2019", "2020", "label"}, ds.Names())
	assert.Equal(t, 2, ds.Len())

	c, ok := ds.Column("2019")
	require.True(t, ok)
	assert.Equal(t, models.KindInt, c.Kind)
	assert.Equal(t, []float64{1, 3}, c.Numbers())
}

func TestReadCSVShortRowsArePadded(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader("a,b,c\n1,2\n4,5,6\n"))
	require.NoError(t, err)
	c, _ := ds.Column("c")
	assert.Equal(t, 1, c.MissingCount())
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"empty file", "", "no columns to parse from file"},
		{"too many fields", "a,b\n1,2,3\n", "expected 2 fields in line 2, saw 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrInvalidInput))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestWriteCSV(t *testing.T) {
	ds := models.MustDataset(
		models.NewColumn("n", models.KindInt, []models.Value{models.NumberValue(1), models.NumberValue(2)}),
		models.NewNumericColumn("f", []float64{0.5, nanValue()}),
		models.NewColumn("b", models.KindBool, []models.Value{models.NumberValue(1), models.NumberValue(0)}),
		models.NewTextColumn("s", []string{"x, y", ""}),
	)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, ds))
	assert.Equal(t, "n,f,b,s\n1,0.5,True,\"x, y\"\n2,,False,\n", buf.String())
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Age", "Sex"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{22, "male"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{38, "female"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	ds, err := Load("people.xlsx", buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{"Age", "Sex"}, ds.Names())
	age, _ := ds.Column("Age")
	assert.Equal(t, models.KindInt, age.Kind)
	assert.Equal(t, []float64{22, 38}, age.Numbers())
}

func TestLoadArchives(t *testing.T) {
	payload := []byte("a,b\n1,x\n2,y\n")

	var zipped bytes.Buffer
	zw := zip.NewWriter(&zipped)
	small, err := zw.Create("readme.txt")
	require.NoError(t, err)
	_, err = small.Write([]byte("x"))
	require.NoError(t, err)
	big, err := zw.Create("data.csv")
	require.NoError(t, err)
	_, err = big.Write(payload)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	var gzipped bytes.Buffer
	gw := gzip.NewWriter(&gzipped)
	_, err = gw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	var lz4ed bytes.Buffer
	lw := lz4.NewWriter(&lz4ed)
	_, err = lw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, lw.Close())

	tests := []struct {
		name string
		file string
		data []byte
	}{
		{"plain", "data.csv", payload},
		{"zip picks largest member", "data.zip", zipped.Bytes()},
		{"gzip", "data.csv.gz", gzipped.Bytes()},
		{"lz4", "data.csv.lz4", lz4ed.Bytes()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := Load(tt.file, tt.data)
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "b"}, ds.Names())
			assert.Equal(t, 2, ds.Len())
		})
	}
}

func TestLoadBrokenArchive(t *testing.T) {
	_, err := Load("data.zip", []byte("not a zip"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidInput))
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
		ok    bool
	}{
		{"2024-01-06", time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), true},
		{"2024-01-06 10:30:00", time.Date(2024, 1, 6, 10, 30, 0, 0, time.UTC), true},
		{"01/06/2024", time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), true},
		{"06.01.2024", time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), true},
		{"Jan 6, 2024", time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), true},
		{"2024-1-6", time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), true},
		{"2024-1-6 9:05:00", time.Date(2024, 1, 6, 9, 5, 0, 0, time.UTC), true},
		{"2024/1/6", time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), true},
		{"male", time.Time{}, false},
		{"", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %v", got)
			}
		})
	}
}

func TestWeekday(t *testing.T) {
	monday := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		assert.Equal(t, i, Weekday(monday.AddDate(0, 0, i)))
	}
}

func TestParseDateValueIgnoresNumbers(t *testing.T) {
	_, ok := ParseDateValue(models.NumberValue(20240101))
	assert.False(t, ok)
	_, ok = ParseDateValue(models.MissingValue())
	assert.False(t, ok)
	_, ok = ParseDateValue(models.TextValue("2024-01-01"))
	assert.True(t, ok)
}

func nanValue() float64 {
	return math.NaN()
}
