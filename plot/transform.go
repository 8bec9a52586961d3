package plot

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/pivolan/readiness_analyzer/domain/models"
	"github.com/pivolan/readiness_analyzer/preprocess"
)

var scalerNames = map[models.ScaleStrategy]string{
	models.ScaleStandard: "StandardScaler",
	models.ScaleMinMax:   "MinMaxScaler",
}

// Comparison holds a column's values before and after a scaling transform.
type Comparison struct {
	Column    string
	Transform models.ScaleStrategy
	Before    []float64
	After     []float64
}

// NewComparison scales values with the standard or minmax transform.
func NewComparison(column string, values []float64, transform string) (*Comparison, error) {
	strategy := models.ScaleStrategy(transform)
	if _, ok := scalerNames[strategy]; !ok {
		return nil, models.InvalidInputf("unknown transform type: %s", transform)
	}
	if len(values) == 0 {
		return nil, models.InvalidInputf("column %q has no values to plot", column)
	}

	scaled := models.NewNumericColumn(column, values)
	preprocess.ScaleColumn(scaled, strategy)
	return &Comparison{
		Column:    column,
		Transform: strategy,
		Before:    values,
		After:     scaled.Numbers(),
	}, nil
}

// ColumnComparison builds a comparison for a numeric column of ds; missing cells are dropped.
func ColumnComparison(ds *models.Dataset, column, transform string) (*Comparison, error) {
	c, ok := ds.Column(column)
	if !ok {
		return nil, models.InvalidInputf("column %q not found", column)
	}
	if !c.Kind.IsNumeric() {
		return nil, models.InvalidInputf("column %q is not numeric", column)
	}
	return NewComparison(column, c.Numbers(), transform)
}

func (c *Comparison) ScalerName() string {
	return scalerNames[c.Transform]
}

func (c *Comparison) beforeTitle() string {
	return fmt.Sprintf("%s: before transform", c.Column)
}

func (c *Comparison) afterTitle() string {
	return fmt.Sprintf("%s: after %s", c.Column, c.ScalerName())
}

// PNG renders both histograms side by side.
func (c *Comparison) PNG() ([]byte, error) {
	before, err := DrawPlotBar(NewHistogram(c.Before, c.beforeTitle()))
	if err != nil {
		return nil, err
	}
	after, err := DrawPlotBar(NewHistogram(c.After, c.afterTitle()))
	if err != nil {
		return nil, err
	}
	return sideBySide(before, after)
}

// HTML writes an interactive page with both histograms.
func (c *Comparison) HTML(w io.Writer) error {
	page := components.NewPage()
	page.AddCharts(
		histogramChart(NewHistogram(c.Before, c.beforeTitle()), c.Column),
		histogramChart(NewHistogram(c.After, c.afterTitle()), c.Column),
	)
	return page.Render(w)
}

func histogramChart(data dataRangeXValuesForGraph, series string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: data.GetNameGraph()}))

	items := make([]opts.BarData, len(data.yValues))
	for i, y := range data.yValues {
		items[i] = opts.BarData{Value: y}
	}
	bar.SetXAxis(data.labels()).AddSeries(series, items)
	return bar
}
