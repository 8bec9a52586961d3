package preprocess

import (
	"fmt"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivolan/readiness_analyzer/domain/models"
	"github.com/pivolan/readiness_analyzer/stats"
)

func column(t *testing.T, ds *models.Dataset, name string) *models.Column {
	t.Helper()
	c, ok := ds.Column(name)
	require.True(t, ok, "column %q not found in %v", name, ds.Names())
	return c
}

func intColumn(name string, values ...float64) *models.Column {
	cells := make([]models.Value, len(values))
	for i, v := range values {
		cells[i] = models.NumberValue(v)
	}
	return models.NewColumn(name, models.KindInt, cells)
}

func options(columns map[string]models.ColumnOptions) models.Options {
	return models.Options{ColumnOptions: columns}
}

func TestAgeCapScenario(t *testing.T) {
	ds := models.MustDataset(models.NewNumericColumn("Age", []float64{22, math.NaN(), 80, 24, 1000}))
	opts := options(map[string]models.ColumnOptions{
		"Age": {Impute: models.ImputeMedian, Scale: models.ScaleNone, OutlierMethod: models.OutlierCap},
	})

	out, err := AutoPreprocess(ds, opts)
	require.NoError(t, err)

	age := column(t, out, "Age")
	assert.Equal(t, models.KindFloat, age.Kind)
	assert.Equal(t, []float64{22, 52, 80, 24, 739.75}, age.Numbers())
	assert.Equal(t, 0, age.MissingCount())
}

func TestCapKeepsValuesWithinBounds(t *testing.T) {
	values := []float64{1, 2, 3, 4, 100, -50, math.NaN()}
	ds := models.MustDataset(models.NewNumericColumn("x", values))
	bounds := stats.IQRBounds(column(t, ds, "x").Numbers())

	err := HandleOutliers(ds, options(map[string]models.ColumnOptions{"x": {OutlierMethod: models.OutlierCap}}))
	require.NoError(t, err)

	x := column(t, ds, "x")
	assert.Equal(t, len(values), ds.Len())
	assert.Equal(t, 1, x.MissingCount())
	min, max := stats.MinMax(x.Numbers())
	assert.GreaterOrEqual(t, min, bounds.Lower)
	assert.LessOrEqual(t, max, bounds.Upper)
}

func TestRemoveDropsOutliersAndMissing(t *testing.T) {
	ds := models.MustDataset(
		models.NewNumericColumn("x", []float64{1, 2, 3, 4, 100, math.NaN()}),
		models.NewTextColumn("label", []string{"a", "b", "c", "d", "e", "f"}),
	)
	bounds := stats.IQRBounds(column(t, ds, "x").Numbers())

	err := HandleOutliers(ds, options(map[string]models.ColumnOptions{"x": {OutlierMethod: models.OutlierRemove}}))
	require.NoError(t, err)

	assert.Equal(t, 4, ds.Len())
	for _, v := range column(t, ds, "x").Numbers() {
		assert.True(t, bounds.Contains(v))
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, column(t, ds, "label").Distinct())
}

func TestRemoveIsSequentialFold(t *testing.T) {
	ds := models.MustDataset(
		models.NewNumericColumn("a", []float64{0, 0, 0, 0, 0, 100}),
		models.NewNumericColumn("b", []float64{1, 2, 3, 4, 10, 100}),
	)
	opts := options(map[string]models.ColumnOptions{
		"a": {OutlierMethod: models.OutlierRemove},
		"b": {OutlierMethod: models.OutlierRemove},
	})

	require.NoError(t, HandleOutliers(ds, opts))

	// once row 5 is gone, 10 falls outside the fences recomputed for b
	assert.Equal(t, 4, ds.Len())
	assert.Equal(t, []float64{1, 2, 3, 4}, column(t, ds, "b").Numbers())
}

func TestOutliersSkipUnconfiguredAndIgnored(t *testing.T) {
	ds := models.MustDataset(
		models.NewNumericColumn("a", []float64{1, 2, 3, 4, 100}),
		models.NewNumericColumn("b", []float64{1, 2, 3, 4, 100}),
	)
	opts := options(map[string]models.ColumnOptions{"b": {Impute: models.ImputeMean}})

	require.NoError(t, HandleOutliers(ds, opts))
	assert.Equal(t, 5, ds.Len())
	assert.Equal(t, []float64{1, 2, 3, 4, 100}, column(t, ds, "a").Numbers())
	assert.Equal(t, []float64{1, 2, 3, 4, 100}, column(t, ds, "b").Numbers())
}

func TestEngineerDateFeatures(t *testing.T) {
	ds := models.MustDataset(
		models.NewTextColumn("when", []string{"2024-01-06", "2024-01-08", "2024-01-07"}),
		models.NewNumericColumn("x", []float64{1, 2, 3}),
	)
	opts := models.Options{DateFeatures: map[string][]models.DateFeature{
		"when": {models.FeatureIsWeekend, models.FeatureYear, models.FeatureDayOfWeek, models.FeatureMonth, models.FeatureDay},
	}}

	require.NoError(t, EngineerDateFeatures(ds, opts))

	assert.Equal(t, []string{"x", "when_year", "when_month", "when_day", "when_dayofweek", "when_is_weekend"}, ds.Names())
	assert.False(t, ds.Has("when"))
	assert.Equal(t, []float64{2024, 2024, 2024}, column(t, ds, "when_year").Numbers())
	assert.Equal(t, []float64{6, 8, 7}, column(t, ds, "when_day").Numbers())
	assert.Equal(t, []float64{5, 0, 6}, column(t, ds, "when_dayofweek").Numbers())
	assert.Equal(t, []float64{1, 0, 1}, column(t, ds, "when_is_weekend").Numbers())
	assert.Equal(t, models.KindInt, column(t, ds, "when_year").Kind)
}

func TestIsWeekendIsBinary(t *testing.T) {
	dates := make([]string, 0, 14)
	for d := 1; d <= 14; d++ {
		dates = append(dates, fmt.Sprintf("2024-03-%02d", d))
	}
	ds := models.MustDataset(models.NewTextColumn("d", dates))
	opts := models.Options{DateFeatures: map[string][]models.DateFeature{"d": {models.FeatureIsWeekend}}}

	require.NoError(t, EngineerDateFeatures(ds, opts))

	assert.False(t, ds.Has("d"))
	weekend := 0
	for _, v := range column(t, ds, "d_is_weekend").Numbers() {
		assert.Contains(t, []float64{0, 1}, v)
		weekend += int(v)
	}
	assert.Equal(t, 4, weekend)
}

func TestUnparseableDates(t *testing.T) {
	ds := models.MustDataset(models.NewTextColumn("d", []string{"2024-01-06", "junk", ""}))
	opts := models.Options{DateFeatures: map[string][]models.DateFeature{"d": {models.FeatureYear, models.FeatureIsWeekend}}}

	require.NoError(t, EngineerDateFeatures(ds, opts))

	year := column(t, ds, "d_year")
	assert.Equal(t, models.KindFloat, year.Kind)
	assert.Equal(t, 2, year.MissingCount())
	assert.Equal(t, []float64{1, 0, 0}, column(t, ds, "d_is_weekend").Numbers())
}

func TestDateFeaturesSkipEmptyAndAbsent(t *testing.T) {
	ds := models.MustDataset(models.NewTextColumn("d", []string{"2024-01-06"}))
	opts := models.Options{DateFeatures: map[string][]models.DateFeature{
		"d":       {},
		"missing": {models.FeatureYear},
	}}

	require.NoError(t, EngineerDateFeatures(ds, opts))
	assert.Equal(t, []string{"d"}, ds.Names())
}

func TestStandardScaling(t *testing.T) {
	ds := models.MustDataset(models.NewNumericColumn("x", []float64{3, 7, math.NaN(), 12, 40}))
	opts := options(map[string]models.ColumnOptions{"x": {Scale: models.ScaleStandard}})

	require.NoError(t, NormalizeNumeric(ds, opts))

	values := column(t, ds, "x").Numbers()
	require.Len(t, values, 5)
	assert.InDelta(t, 0, stats.Mean(values), 1e-9)
	assert.InDelta(t, 1, stats.StdPopulation(values), 1e-9)
}

func TestScaleDefaultsToStandardForConfiguredColumns(t *testing.T) {
	ds := models.MustDataset(models.NewNumericColumn("x", []float64{1, 2, 3}))
	opts := options(map[string]models.ColumnOptions{"x": {Impute: models.ImputeMean}})

	require.NoError(t, NormalizeNumeric(ds, opts))
	assert.InDelta(t, 0, stats.Mean(column(t, ds, "x").Numbers()), 1e-9)
}

func TestMinMaxScaling(t *testing.T) {
	ds := models.MustDataset(intColumn("x", 10, 20, 30, 50))
	opts := options(map[string]models.ColumnOptions{"x": {Scale: models.ScaleMinMax}})

	require.NoError(t, NormalizeNumeric(ds, opts))

	x := column(t, ds, "x")
	assert.Equal(t, models.KindFloat, x.Kind)
	assert.Equal(t, []float64{0, 0.25, 0.5, 1}, x.Numbers())
}

func TestConstantColumnScaling(t *testing.T) {
	ds := models.MustDataset(
		models.NewNumericColumn("s", []float64{4, 4, 4}),
		models.NewNumericColumn("m", []float64{4, 4, 4}),
	)
	opts := options(map[string]models.ColumnOptions{
		"s": {Scale: models.ScaleStandard},
		"m": {Scale: models.ScaleMinMax},
	})

	require.NoError(t, NormalizeNumeric(ds, opts))
	assert.Equal(t, []float64{0, 0, 0}, column(t, ds, "s").Numbers())
	assert.Equal(t, []float64{0, 0, 0}, column(t, ds, "m").Numbers())
}

func TestUnconfiguredColumnsAreImputedButNotScaled(t *testing.T) {
	ds := models.MustDataset(
		models.NewNumericColumn("x", []float64{1, math.NaN(), 3, 10}),
		intColumn("n", 5, 6, 7, 8),
	)

	require.NoError(t, NormalizeNumeric(ds, models.Options{}))

	assert.Equal(t, []float64{1, 3, 3, 10}, column(t, ds, "x").Numbers())
	n := column(t, ds, "n")
	assert.Equal(t, models.KindInt, n.Kind)
	assert.Equal(t, []float64{5, 6, 7, 8}, n.Numbers())
}

func TestImputeStrategies(t *testing.T) {
	tests := []struct {
		strategy models.ImputeStrategy
		want     float64
	}{
		{models.ImputeMedian, 2.5},
		{models.ImputeMean, 4},
		{models.ImputeMostFrequent, 1},
		{"", 2.5},
	}

	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			ds := models.MustDataset(models.NewNumericColumn("x", []float64{1, 1, 3, 3, 2, 14, math.NaN()}))
			opts := options(map[string]models.ColumnOptions{"x": {Impute: tt.strategy, Scale: models.ScaleNone}})

			require.NoError(t, NormalizeNumeric(ds, opts))
			assert.Equal(t, tt.want, column(t, ds, "x").Values[6].Num)
		})
	}
}

func TestImputeAllMissingFails(t *testing.T) {
	ds := models.MustDataset(models.NewNumericColumn("x", []float64{math.NaN(), math.NaN()}))

	_, err := AutoPreprocess(ds, models.Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrStage))
	assert.Contains(t, err.Error(), "numeric")
}

func TestOneHotDropFirst(t *testing.T) {
	ds := models.MustDataset(
		models.NewTextColumn("Embarked", []string{"S", "C", "Q", "S", ""}),
		models.NewNumericColumn("Fare", []float64{7.25, 71.3, 8.05, 53.1, 8.46}),
	)

	require.NoError(t, EncodeCategorical(ds))

	assert.False(t, ds.Has("Embarked"))
	assert.Equal(t, []string{"Fare", "Embarked_Q", "Embarked_S"}, ds.Names())
	q := column(t, ds, "Embarked_Q")
	s := column(t, ds, "Embarked_S")
	assert.Equal(t, models.KindIndicator, q.Kind)
	assert.Equal(t, []float64{0, 0, 1, 0, 0}, q.Numbers())
	// the missing port is filled with the most frequent one
	assert.Equal(t, []float64{1, 0, 0, 1, 1}, s.Numbers())
}

func TestOneHotProducesKMinusOneColumns(t *testing.T) {
	for k := 1; k <= 5; k++ {
		t.Run(fmt.Sprintf("k=%d", k), func(t *testing.T) {
			values := make([]string, 0, k*2)
			for i := 0; i < k*2; i++ {
				values = append(values, fmt.Sprintf("v%d", i%k))
			}
			ds := models.MustDataset(models.NewTextColumn("c", values))

			require.NoError(t, EncodeCategorical(ds))
			assert.Equal(t, k-1, ds.Width())
			assert.False(t, ds.Has("c"))
		})
	}
}

func TestHighCardinalityColumnIsDropped(t *testing.T) {
	values := make([]string, 25)
	ids := make([]float64, 25)
	for i := range values {
		values[i] = fmt.Sprintf("ticket-%02d", i)
		ids[i] = float64(i)
	}
	ds := models.MustDataset(models.NewNumericColumn("id", ids), models.NewTextColumn("Ticket", values))

	out, err := AutoPreprocess(ds, models.Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"id"}, out.Names())
	for _, name := range out.Names() {
		assert.NotContains(t, name, "Ticket")
	}
}

func TestOneHotNameCollision(t *testing.T) {
	ds := models.MustDataset(
		models.NewNumericColumn("Sex_male", []float64{1, 0}),
		models.NewTextColumn("Sex", []string{"female", "male"}),
	)

	require.NoError(t, EncodeCategorical(ds))
	assert.Equal(t, []string{"Sex_male", "Sex_male_1"}, ds.Names())
}

func TestPipelineDoesNotMutateInput(t *testing.T) {
	ds := models.MustDataset(
		models.NewNumericColumn("Age", []float64{22, math.NaN(), 80, 24, 1000}),
		models.NewTextColumn("Sex", []string{"male", "female", "male", "", "female"}),
	)
	before := ds.Clone()

	_, err := AutoPreprocess(ds, options(map[string]models.ColumnOptions{"Age": {OutlierMethod: models.OutlierRemove}}))
	require.NoError(t, err)
	assert.Equal(t, before, ds)
}

func TestPipelineRejectsInvalidOptions(t *testing.T) {
	ds := models.MustDataset(models.NewNumericColumn("x", []float64{1, 2}))

	_, err := AutoPreprocess(ds, options(map[string]models.ColumnOptions{"x": {Scale: "log"}}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidInput))
}

func TestPipelineEndToEnd(t *testing.T) {
	ds := models.MustDataset(
		intColumn("PassengerId", 1, 2, 3, 4, 5, 6),
		models.NewNumericColumn("Age", []float64{22, 38, math.NaN(), 35, 35, 54}),
		models.NewNumericColumn("Fare", []float64{7.25, 71.28, 7.92, 53.1, 8.05, 51.86}),
		models.NewTextColumn("Sex", []string{"male", "female", "female", "female", "male", "male"}),
		models.NewTextColumn("Booked", []string{"2024-01-06", "2024-01-07", "2024-01-08", "2024-01-09", "2024-01-10", "2024-01-11"}),
	)
	opts := models.Options{
		ColumnOptions: map[string]models.ColumnOptions{
			"Age":  {Impute: models.ImputeMean, Scale: models.ScaleMinMax},
			"Fare": {Scale: models.ScaleStandard, OutlierMethod: models.OutlierCap},
		},
		DateFeatures: map[string][]models.DateFeature{"Booked": {models.FeatureDayOfWeek, models.FeatureIsWeekend}},
	}

	out, err := NewPipeline(nil).Run(ds, opts)
	require.NoError(t, err)

	assert.Equal(t, []string{"PassengerId", "Age", "Fare", "Booked_dayofweek", "Booked_is_weekend", "Sex_male"}, out.Names())
	assert.Equal(t, 6, out.Len())
	for _, c := range out.Columns() {
		assert.True(t, c.Kind.IsNumeric(), c.Name)
		assert.Equal(t, 0, c.MissingCount(), c.Name)
	}
	min, max := stats.MinMax(column(t, out, "Age").Numbers())
	assert.Equal(t, 0.0, min)
	assert.Equal(t, 1.0, max)
	assert.Equal(t, []float64{1, 0, 0, 0, 1, 1}, column(t, out, "Sex_male").Numbers())
}
