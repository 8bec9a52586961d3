package stats

import (
	"math"

	mstats "github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// varianceResolution is the relative precision below which a variance counts as zero.
const varianceResolution = 1e-15

// Skewness is the biased (population) third standardized moment. It is NaN for an
// empty sample or a sample whose variance is zero up to rounding, so constant columns
// of non-integral values do not report a spurious skew.
func Skewness(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	m2 := stat.Moment(2, values, nil)
	if m2 <= math.Pow(varianceResolution*stat.Mean(values, nil), 2) {
		return math.NaN()
	}
	m3 := stat.Moment(3, values, nil)
	return m3 / math.Pow(m2, 1.5)
}

func Mean(values []float64) float64 {
	mean, err := mstats.Mean(values)
	if err != nil {
		return math.NaN()
	}
	return mean
}

func Median(values []float64) float64 {
	median, err := mstats.Median(values)
	if err != nil {
		return math.NaN()
	}
	return median
}

// StdPopulation divides by n.
func StdPopulation(values []float64) float64 {
	std, err := mstats.StandardDeviationPopulation(values)
	if err != nil {
		return math.NaN()
	}
	return std
}

// StdSample divides by n-1 and is NaN below two values.
func StdSample(values []float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	std, err := mstats.StandardDeviationSample(values)
	if err != nil {
		return math.NaN()
	}
	return std
}

func MinMax(values []float64) (float64, float64) {
	min, err := mstats.Min(values)
	if err != nil {
		return math.NaN(), math.NaN()
	}
	max, _ := mstats.Max(values)
	return min, max
}

// MostFrequent returns the modal value; ties resolve to the smallest value.
func MostFrequent(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	counts := make(map[float64]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	best, bestCount := math.NaN(), 0
	for v, c := range counts {
		if c > bestCount || (c == bestCount && v < best) {
			best, bestCount = v, c
		}
	}
	return best
}

// MostFrequentString returns the modal string; ties resolve to the lexicographically smallest.
func MostFrequentString(values []string) (string, bool) {
	if len(values) == 0 {
		return "", false
	}
	counts := make(map[string]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	best, bestCount := "", 0
	for v, c := range counts {
		if c > bestCount || (c == bestCount && v < best) {
			best, bestCount = v, c
		}
	}
	return best, true
}

// Round rounds half to even to the given number of decimal places.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	rounded, _ := decimal.NewFromFloat(v).RoundBank(places).Float64()
	return rounded
}
