package preprocess

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/pivolan/readiness_analyzer/dataset"
	"github.com/pivolan/readiness_analyzer/domain/models"
	"github.com/pivolan/readiness_analyzer/stats"
)

// MaxEncodedCardinality is the distinct-value count from which a categorical column is
// dropped instead of one-hot encoded.
const MaxEncodedCardinality = 20

// EncodeCategorical fills missing categories with the most frequent one, drops high
// cardinality columns and one-hot encodes the rest with the first category dropped.
func EncodeCategorical(ds *models.Dataset) error {
	categorical := ds.CategoricalColumns()
	if len(categorical) == 0 {
		return nil
	}

	for _, name := range categorical {
		c, _ := ds.Column(name)
		if err := imputeMostFrequent(c); err != nil {
			return err
		}
	}

	var encoded []*models.Column
	var dropped []string
	for _, name := range categorical {
		c, _ := ds.Column(name)
		categories := c.Distinct()
		dropped = append(dropped, name)
		if len(categories) >= MaxEncodedCardinality {
			continue
		}
		encoded = append(encoded, indicatorColumns(c, categories[1:])...)
	}

	ds.Drop(dropped...)
	base := ds.Width()
	names := dataset.ValidateHeaders(append(ds.Names(), columnNames(encoded)...))
	for i, c := range encoded {
		c.Name = names[base+i]
		if err := ds.SetColumn(c); err != nil {
			return err
		}
	}
	return nil
}

func imputeMostFrequent(c *models.Column) error {
	observed := make([]string, 0, c.Len())
	for _, v := range c.Values {
		if !v.IsMissing() {
			observed = append(observed, v.String())
		}
	}
	fill, ok := stats.MostFrequentString(observed)
	if !ok {
		return errors.Errorf("column %q has no observed values to impute", c.Name)
	}
	for i, v := range c.Values {
		if v.IsMissing() {
			c.Values[i] = models.TextValue(fill)
		}
	}
	return nil
}

func indicatorColumns(c *models.Column, categories []string) []*models.Column {
	columns := make([]*models.Column, len(categories))
	for j, category := range categories {
		values := make([]models.Value, c.Len())
		for i, v := range c.Values {
			hit := 0.0
			if v.String() == category {
				hit = 1
			}
			values[i] = models.NumberValue(hit)
		}
		columns[j] = models.NewColumn(fmt.Sprintf("%s_%s", c.Name, category), models.KindIndicator, values)
	}
	return columns
}

func columnNames(columns []*models.Column) []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}
	return names
}
