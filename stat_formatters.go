package main

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/pivolan/readiness_analyzer/domain/models"
	"github.com/pivolan/readiness_analyzer/stats"
)

// GenerateDiagnosticsTable renders one row per column in dataset order.
func GenerateDiagnosticsTable(columns []string, diag models.ColumnDiagnostics) string {
	numeric := make(map[string]bool, len(diag.NumericColumns))
	for _, name := range diag.NumericColumns {
		numeric[name] = true
	}
	dates := make(map[string]bool, len(diag.DateColumns))
	for _, name := range diag.DateColumns {
		dates[name] = true
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Column", "Missing", "Numeric", "Outliers", "Date-like"})
	for _, name := range columns {
		outliers := "-"
		if numeric[name] {
			outliers = strconv.Itoa(diag.OutlierInfo[name])
		}
		t.AppendRow(table.Row{name, diag.MissingValues[name], yesNo(numeric[name]), outliers, yesNo(dates[name])})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	t.SetStyle(table.StyleDefault)
	return t.Render()
}

// GenerateSummaryText is the header line sent before the diagnostics table.
func GenerateSummaryText(summary models.Summary) string {
	return fmt.Sprintf("%s: %d rows, %d columns", summary.Filename, summary.Rows, summary.Columns)
}

// GenerateRecommendationsText lists recommendations one per line.
func GenerateRecommendationsText(recs []models.Recommendation) string {
	if len(recs) == 0 {
		return "No recommendations."
	}
	var sb strings.Builder
	sb.WriteString("Recommendations:\n")
	for _, rec := range recs {
		sb.WriteString(fmt.Sprintf("- [%s] %s\n", rec.Type, rec.Message))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// GenerateReadinessTable renders the readiness report: a shape line and a describe table
// for numeric columns in final column order.
func GenerateReadinessTable(report models.ReadinessReport) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Shape: %d rows x %d columns\n", report.FinalShape.Rows, report.FinalShape.Columns))
	sb.WriteString(fmt.Sprintf("Missing values: %d\n", report.TotalMissingValues))
	sb.WriteString(fmt.Sprintf("Fully numeric: %s\n", yesNo(report.IsFullyNumeric)))

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Column", "Type", "Count", "Mean", "Std", "Min", "25%", "50%", "75%", "Max"})
	for _, name := range report.FinalColumns {
		d, ok := report.DescribeStats[name]
		if !ok {
			t.AppendRow(table.Row{name, report.DataTypes[name], "-", "-", "-", "-", "-", "-", "-", "-"})
			continue
		}
		t.AppendRow(table.Row{
			name, report.DataTypes[name], formatStat(&d.Count),
			formatStat(d.Mean), formatStat(d.Std), formatStat(d.Min),
			formatStat(d.Q25), formatStat(d.Q50), formatStat(d.Q75), formatStat(d.Max),
		})
	}
	t.SetStyle(table.StyleDefault)
	sb.WriteString(t.Render())
	return sb.String()
}

func formatStat(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// formatFloat rounds to 3 decimals; NaN and infinities print as "-".
func formatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	return strconv.FormatFloat(stats.Round(v, 3), 'f', -1, 64)
}

// topValues returns up to n keys by descending count, ties in ascending order.
func topValues(counts map[string]int, n int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
