package stats

import (
	"math"
	"sort"
)

// IQRMultiplier is the fence distance from the quartiles, in IQRs.
const IQRMultiplier = 1.5

// Bounds are the IQR fences of one column snapshot.
type Bounds struct {
	Q1, Q3 float64
	IQR    float64
	Lower  float64
	Upper  float64
}

// Contains is false for NaN, so a missing value never lies within the fences.
func (b Bounds) Contains(v float64) bool {
	return v >= b.Lower && v <= b.Upper
}

// Outside is false for NaN as well: a missing value is not an outlier.
func (b Bounds) Outside(v float64) bool {
	return v < b.Lower || v > b.Upper
}

func (b Bounds) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	return math.Min(math.Max(v, b.Lower), b.Upper)
}

func sortedCopy(values []float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sorted
}

// calculateQuantile interpolates linearly between the closest ranks of sorted values.
func calculateQuantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}

	pos := p * float64(len(sorted)-1)
	floor := math.Floor(pos)
	ceil := math.Ceil(pos)

	if floor == ceil {
		return sorted[int(pos)]
	}

	lower := sorted[int(floor)]
	upper := sorted[int(ceil)]
	fraction := pos - floor

	return lower + fraction*(upper-lower)
}

// Quantile returns the p-quantile of values (any order); NaN when values is empty.
func Quantile(values []float64, p float64) float64 {
	return calculateQuantile(sortedCopy(values), p)
}

// IQRBounds computes the quartile fences; with no values every field is NaN.
func IQRBounds(values []float64) Bounds {
	sorted := sortedCopy(values)
	q1 := calculateQuantile(sorted, 0.25)
	q3 := calculateQuantile(sorted, 0.75)
	iqr := q3 - q1
	return Bounds{
		Q1:    q1,
		Q3:    q3,
		IQR:   iqr,
		Lower: q1 - IQRMultiplier*iqr,
		Upper: q3 + IQRMultiplier*iqr,
	}
}

// CountOutliers counts values strictly outside the fences.
func CountOutliers(values []float64, b Bounds) int {
	count := 0
	for _, v := range values {
		if b.Outside(v) {
			count++
		}
	}
	return count
}
