// Package analyzer computes read-only diagnostics over a dataset snapshot.
package analyzer

import (
	"fmt"
	"math"

	"github.com/pivolan/readiness_analyzer/dataset"
	"github.com/pivolan/readiness_analyzer/domain/models"
	"github.com/pivolan/readiness_analyzer/stats"
)

const (
	// SkewnessThreshold is the absolute skewness above which a column is reported.
	SkewnessThreshold = 1.0
	// DateLikeRatio is the share of rows that must parse as dates.
	DateLikeRatio = 0.7
)

const familySizeMessage = "Combine 'SibSp' and 'Parch' to create 'FamilySize'."

// ComputeColumnDiagnostics inspects every column without modifying the dataset.
func ComputeColumnDiagnostics(ds *models.Dataset) models.ColumnDiagnostics {
	diag := models.ColumnDiagnostics{
		Recommendations: make([]models.Recommendation, 0),
		OutlierInfo:     make(map[string]int),
		DateColumns:     make([]string, 0),
		NumericColumns:  ds.NumericColumns(),
		MissingValues:   make(map[string]int, ds.Width()),
	}

	for _, c := range ds.Columns() {
		diag.MissingValues[c.Name] = c.MissingCount()
	}

	for _, name := range diag.NumericColumns {
		c, _ := ds.Column(name)
		values := c.Numbers()

		if rec, ok := skewnessRecommendation(name, values); ok {
			diag.Recommendations = append(diag.Recommendations, rec)
		}
		diag.OutlierInfo[name] = stats.CountOutliers(values, stats.IQRBounds(values))
	}

	if ds.Has("SibSp") && ds.Has("Parch") {
		diag.Recommendations = append(diag.Recommendations, models.Recommendation{
			Type:    models.RecommendationFeatureEngineering,
			Message: familySizeMessage,
		})
	}

	for _, name := range ds.CategoricalColumns() {
		c, _ := ds.Column(name)
		if IsDateLike(c, ds.Len()) {
			diag.DateColumns = append(diag.DateColumns, name)
		}
	}

	return diag
}

func skewnessRecommendation(name string, values []float64) (models.Recommendation, bool) {
	skew := stats.Skewness(values)
	if math.IsNaN(skew) || math.Abs(skew) <= SkewnessThreshold {
		return models.Recommendation{}, false
	}
	column := name
	return models.Recommendation{
		Column:  &column,
		Type:    models.RecommendationSkewness,
		Message: fmt.Sprintf("Column '%s' is highly skewed (skewness: %.2f).", name, skew),
	}, true
}

// IsDateLike reports whether more than DateLikeRatio of rows hold a parseable date.
// Cells that fail to parse are simply not counted.
func IsDateLike(c *models.Column, rows int) bool {
	if rows == 0 || len(c.Distinct()) == 0 {
		return false
	}
	parsed := 0
	for _, v := range c.Values {
		if _, ok := dataset.ParseDateValue(v); ok {
			parsed++
		}
	}
	return float64(parsed)/float64(rows) > DateLikeRatio
}

// Summarize is the diagnostics pre-pass plus shape and a head preview.
func Summarize(filename string, ds *models.Dataset, previewRows int) models.Summary {
	return models.Summary{
		Filename:          filename,
		Rows:              ds.Len(),
		Columns:           ds.Width(),
		Preview:           ds.Records(previewRows),
		ColumnDiagnostics: ComputeColumnDiagnostics(ds),
	}
}
