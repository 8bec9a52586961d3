package analyzer

import (
	"math"

	"github.com/pivolan/readiness_analyzer/domain/models"
	"github.com/pivolan/readiness_analyzer/stats"
)

// reportPrecision is the number of decimals kept in describe statistics.
const reportPrecision = 3

// GenerateReadinessReport summarizes a processed dataset.
func GenerateReadinessReport(ds *models.Dataset) models.ReadinessReport {
	report := models.ReadinessReport{
		DataTypes:      make(map[string]string, ds.Width()),
		IsFullyNumeric: true,
		DescribeStats:  make(map[string]models.DescribeStats),
		FinalShape:     models.Shape{Rows: ds.Len(), Columns: ds.Width()},
		FinalColumns:   ds.Names(),
	}

	for _, c := range ds.Columns() {
		report.TotalMissingValues += c.MissingCount()
		report.DataTypes[c.Name] = c.Kind.DType()
		if !c.Kind.IsNumeric() {
			report.IsFullyNumeric = false
			continue
		}
		report.DescribeStats[c.Name] = describeColumn(c.Numbers())
	}

	return report
}

func describeColumn(values []float64) models.DescribeStats {
	d := stats.Describe(values)
	return models.DescribeStats{
		Count: float64(d.Count),
		Mean:  rounded(d.Mean),
		Std:   rounded(d.Std),
		Min:   rounded(d.Min),
		Q25:   rounded(d.Q25),
		Q50:   rounded(d.Q50),
		Q75:   rounded(d.Q75),
		Max:   rounded(d.Max),
	}
}

// rounded returns nil for statistics that are undefined on the column.
func rounded(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	r := stats.Round(v, reportPrecision)
	return &r
}
