package preprocess

import (
	"math"

	"github.com/pkg/errors"

	"github.com/pivolan/readiness_analyzer/domain/models"
	"github.com/pivolan/readiness_analyzer/stats"
)

// NormalizeNumeric imputes every numeric column that has missing values and scales the
// columns that have an explicit options entry.
func NormalizeNumeric(ds *models.Dataset, opts models.Options) error {
	for _, name := range ds.NumericColumns() {
		c, _ := ds.Column(name)
		colOpts, configured := opts.Column(name)

		if c.MissingCount() > 0 {
			if err := impute(c, colOpts.ImputeOrDefault()); err != nil {
				return err
			}
		}

		if configured {
			ScaleColumn(c, colOpts.ScaleOrDefault())
		}
	}
	return nil
}

// ScaleColumn rescales the non-missing cells of c in place; ScaleNone leaves it as is.
func ScaleColumn(c *models.Column, strategy models.ScaleStrategy) {
	switch strategy {
	case models.ScaleStandard:
		scaleStandard(c)
	case models.ScaleMinMax:
		scaleMinMax(c)
	}
}

func impute(c *models.Column, strategy models.ImputeStrategy) error {
	observed := c.Numbers()
	if len(observed) == 0 {
		return errors.Errorf("column %q has no observed values to impute", c.Name)
	}

	var fill float64
	switch strategy {
	case models.ImputeMean:
		fill = stats.Mean(observed)
	case models.ImputeMostFrequent:
		fill = stats.MostFrequent(observed)
	default:
		fill = stats.Median(observed)
	}

	for i, v := range c.Values {
		if v.IsMissing() {
			c.Values[i] = models.NumberValue(fill)
		}
	}
	c.Kind = models.KindFloat
	return nil
}

// scaleStandard centers on the mean and divides by the population standard deviation.
func scaleStandard(c *models.Column) {
	values := c.Numbers()
	mean := stats.Mean(values)
	std := stats.StdPopulation(values)
	if std == 0 || math.IsNaN(std) {
		std = 1
	}
	rescale(c, mean, std)
}

func scaleMinMax(c *models.Column) {
	min, max := stats.MinMax(c.Numbers())
	span := max - min
	if span == 0 || math.IsNaN(span) {
		span = 1
	}
	rescale(c, min, span)
}

func rescale(c *models.Column, shift, scale float64) {
	for i, v := range c.Values {
		if v.Kind == models.Number {
			c.Values[i] = models.NumberValue((v.Num - shift) / scale)
		}
	}
	c.Kind = models.KindFloat
}
