package plot

import (
	"fmt"
	"math"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/pivolan/readiness_analyzer/stats"
)

const maxHistogramBins = 30

// dataRangeXValuesForGraph is a histogram: bar i counts the values in [xStart[i], xEnd[i]).
type dataRangeXValuesForGraph struct {
	xStart, xEnd []float64
	yValues      []float64
	nameYAxis    string
	nameGraph    string
}

func NewDataRangeXValuesForGraph(xStart, xEnd, y []float64, nameYAxis, nameGraph string) dataRangeXValuesForGraph {
	return dataRangeXValuesForGraph{
		xStart:    xStart,
		xEnd:      xEnd,
		yValues:   y,
		nameYAxis: nameYAxis,
		nameGraph: nameGraph,
	}
}

// NewHistogram bins values into equal-width ranges between their min and max.
// The last bin is closed on the right so the max is counted.
func NewHistogram(values []float64, nameGraph string) dataRangeXValuesForGraph {
	if len(values) == 0 {
		return NewDataRangeXValuesForGraph(nil, nil, nil, "count", nameGraph)
	}

	min, max := stats.MinMax(values)
	bins := histogramBins(len(values))
	if min == max {
		bins = 1
	}
	width := (max - min) / float64(bins)

	xStart := make([]float64, bins)
	xEnd := make([]float64, bins)
	counts := make([]float64, bins)
	for i := 0; i < bins; i++ {
		xStart[i] = min + float64(i)*width
		xEnd[i] = min + float64(i+1)*width
	}
	xEnd[bins-1] = max

	for _, v := range values {
		i := bins - 1
		if width > 0 {
			i = int((v - min) / width)
		}
		if i >= bins {
			i = bins - 1
		}
		counts[i]++
	}

	return NewDataRangeXValuesForGraph(xStart, xEnd, counts, "count", nameGraph)
}

// histogramBins follows Sturges' rule.
func histogramBins(n int) int {
	bins := int(math.Ceil(math.Log2(float64(n)))) + 1
	if bins < 1 {
		return 1
	}
	if bins > maxHistogramBins {
		return maxHistogramBins
	}
	return bins
}

func (d dataRangeXValuesForGraph) GetNameGraph() string {
	return d.nameGraph
}
func (d dataRangeXValuesForGraph) getNameYAxis() string {
	return d.nameYAxis
}
func (d dataRangeXValuesForGraph) getYValues() []float64 {
	return d.yValues
}

func (d dataRangeXValuesForGraph) labels() []string {
	labels := make([]string, len(d.xStart))
	for i := range d.xStart {
		labels[i] = fmt.Sprintf("%s..%s", formatBound(d.xStart[i]), formatBound(d.xEnd[i]))
	}
	return labels
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'g', 3, 64)
}

func (d dataRangeXValuesForGraph) calculateChartDimensions(minBarWidth float64) (width, height int) {
	if len(d.yValues) == 0 {
		return 0, 0
	}
	return chartDimensions(len(d.xStart), minBarWidth)
}

func (d dataRangeXValuesForGraph) generateBarValues() []chart.Value {
	labels := d.labels()
	bars := make([]chart.Value, 0, len(d.xStart))
	for i := range d.xStart {
		bars = append(bars, chart.Value{
			Value: d.yValues[i],
			Label: labels[i],
			Style: chart.Style{
				FillColor: drawing.ColorBlue.WithAlpha(120),
			},
		})
	}
	return bars
}
