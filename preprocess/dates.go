package preprocess

import (
	"fmt"
	"time"

	"github.com/pivolan/readiness_analyzer/dataset"
	"github.com/pivolan/readiness_analyzer/domain/models"
)

// EngineerDateFeatures replaces every configured date column with the requested calendar
// columns. Cells that do not parse as dates yield missing components.
func EngineerDateFeatures(ds *models.Dataset, opts models.Options) error {
	for _, name := range ds.Names() {
		features := opts.Features(name)
		if len(features) == 0 {
			continue
		}
		c, _ := ds.Column(name)

		dates := make([]time.Time, c.Len())
		parsed := make([]bool, c.Len())
		for i, v := range c.Values {
			dates[i], parsed[i] = dataset.ParseDateValue(v)
		}

		for _, feature := range models.DateFeatureOrder {
			if !features[feature] {
				continue
			}
			derived := dateFeatureColumn(fmt.Sprintf("%s_%s", name, feature), feature, dates, parsed)
			if err := ds.SetColumn(derived); err != nil {
				return err
			}
		}
		ds.Drop(name)
	}
	return nil
}

func dateFeatureColumn(name string, feature models.DateFeature, dates []time.Time, parsed []bool) *models.Column {
	values := make([]models.Value, len(dates))
	kind := models.KindInt

	for i, t := range dates {
		if feature == models.FeatureIsWeekend {
			weekend := 0.0
			if parsed[i] && dataset.Weekday(t) >= 5 {
				weekend = 1
			}
			values[i] = models.NumberValue(weekend)
			continue
		}
		if !parsed[i] {
			values[i] = models.MissingValue()
			kind = models.KindFloat
			continue
		}
		values[i] = models.NumberValue(float64(dateComponent(t, feature)))
	}

	return models.NewColumn(name, kind, values)
}

func dateComponent(t time.Time, feature models.DateFeature) int {
	switch feature {
	case models.FeatureYear:
		return t.Year()
	case models.FeatureMonth:
		return int(t.Month())
	case models.FeatureDay:
		return t.Day()
	default:
		return dataset.Weekday(t)
	}
}
