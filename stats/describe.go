package stats

// Description holds describe()-style statistics; undefined entries are NaN.
type Description struct {
	Count int
	Mean  float64
	Std   float64
	Min   float64
	Q25   float64
	Q50   float64
	Q75   float64
	Max   float64
}

// Describe summarizes the non-missing values of a numeric column. Std is the sample
// standard deviation.
func Describe(values []float64) Description {
	sorted := sortedCopy(values)
	min, max := MinMax(sorted)
	return Description{
		Count: len(sorted),
		Mean:  Mean(sorted),
		Std:   StdSample(sorted),
		Min:   min,
		Q25:   calculateQuantile(sorted, 0.25),
		Q50:   calculateQuantile(sorted, 0.5),
		Q75:   calculateQuantile(sorted, 0.75),
		Max:   max,
	}
}
