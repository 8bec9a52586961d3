package main

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pivolan/readiness_analyzer/domain/models"
)

func TestGenerateDiagnosticsTable(t *testing.T) {
	diag := models.ColumnDiagnostics{
		OutlierInfo:    map[string]int{"Age": 2},
		DateColumns:    []string{"Date"},
		NumericColumns: []string{"Age"},
		MissingValues:  map[string]int{"Age": 1, "Date": 0, "Sex": 3},
	}

	result := GenerateDiagnosticsTable([]string{"Age", "Date", "Sex"}, diag)
	lines := strings.Split(result, "\n")

	assert.Contains(t, lines[1], "COLUMN")
	assert.Regexp(t, `Age\s+\|\s+1\s+\|\s+yes\s+\|\s+2\s+\|\s+no`, result)
	assert.Regexp(t, `Date\s+\|\s+0\s+\|\s+no\s+\|\s+-\s+\|\s+yes`, result)
	assert.Regexp(t, `Sex\s+\|\s+3\s+\|\s+no\s+\|\s+-\s+\|\s+no`, result)
	assert.Less(t, strings.Index(result, "Age"), strings.Index(result, "Sex"))
}

func TestGenerateRecommendationsText(t *testing.T) {
	assert.Equal(t, "No recommendations.", GenerateRecommendationsText(nil))

	age := "Age"
	result := GenerateRecommendationsText([]models.Recommendation{
		{Column: &age, Type: models.RecommendationSkewness, Message: "Column 'Age' is highly skewed (skewness: 1.14)."},
		{Type: models.RecommendationFeatureEngineering, Message: "Combine 'SibSp' and 'Parch' to create 'FamilySize'."},
	})
	assert.Equal(t, "Recommendations:\n"+
		"- [SKEWNESS] Column 'Age' is highly skewed (skewness: 1.14).\n"+
		"- [FEATURE_ENGINEERING] Combine 'SibSp' and 'Parch' to create 'FamilySize'.", result)
}

func TestGenerateReadinessTable(t *testing.T) {
	mean, std := 2.5, 1.291
	report := models.ReadinessReport{
		TotalMissingValues: 0,
		DataTypes:          map[string]string{"a": "float64", "b_y": "uint8"},
		IsFullyNumeric:     true,
		DescribeStats: map[string]models.DescribeStats{
			"a": {Count: 4, Mean: &mean, Std: &std},
		},
		FinalShape:   models.Shape{Rows: 4, Columns: 2},
		FinalColumns: []string{"a", "b_y"},
	}

	result := GenerateReadinessTable(report)
	assert.True(t, strings.HasPrefix(result, "Shape: 4 rows x 2 columns\nMissing values: 0\nFully numeric: yes\n"))
	assert.Regexp(t, `a\s+\|\s+float64\s+\|\s+4\s+\|\s+2.5\s+\|\s+1.291\s+\|\s+-`, result)
	assert.Regexp(t, `b_y\s+\|\s+uint8\s+\|\s+-`, result)
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "1.235", formatFloat(1.23456))
	assert.Equal(t, "3", formatFloat(3))
	assert.Equal(t, "-", formatFloat(math.NaN()))
	assert.Equal(t, "-", formatFloat(math.Inf(1)))
}

func TestTopValues(t *testing.T) {
	counts := map[string]int{"S": 4, "C": 1, "Q": 1, "X": 2}
	assert.Equal(t, []string{"S", "X", "C"}, topValues(counts, 3))
	assert.Equal(t, []string{"S", "X", "C", "Q"}, topValues(counts, 10))
}

func TestAsciiFilename(t *testing.T) {
	tests := map[string]string{
		"titanic.csv":        "titanic.csv",
		"Цена билета":        "Tsena_bileta",
		"a/b c":              "a_b_c",
		"***":                "dataset",
		"Ticket price (EUR)": "Ticket_price_EUR",
	}
	for in, want := range tests {
		assert.Equal(t, want, asciiFilename(in), in)
	}
}
