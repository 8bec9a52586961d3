package preprocess

import (
	"github.com/pivolan/readiness_analyzer/domain/models"
	"github.com/pivolan/readiness_analyzer/stats"
)

// HandleOutliers applies the configured outlier method to every numeric column that has
// an options entry. Columns are folded in dataset order and the fences of each column are
// computed on the dataset left by the previous one.
func HandleOutliers(ds *models.Dataset, opts models.Options) error {
	for _, name := range ds.NumericColumns() {
		colOpts, ok := opts.Column(name)
		if !ok {
			continue
		}
		c, _ := ds.Column(name)

		switch colOpts.OutlierOrDefault() {
		case models.OutlierRemove:
			if err := removeOutliers(ds, c); err != nil {
				return err
			}
		case models.OutlierCap:
			capOutliers(c)
		}
	}
	return nil
}

func removeOutliers(ds *models.Dataset, c *models.Column) error {
	bounds := stats.IQRBounds(c.Numbers())
	keep := make([]bool, c.Len())
	for i, v := range c.Values {
		keep[i] = v.Kind == models.Number && bounds.Contains(v.Num)
	}
	return ds.FilterRows(keep)
}

func capOutliers(c *models.Column) {
	bounds := stats.IQRBounds(c.Numbers())
	for i, v := range c.Values {
		if v.Kind == models.Number {
			c.Values[i] = models.NumberValue(bounds.Clamp(v.Num))
		}
	}
	c.Kind = models.KindFloat
}
