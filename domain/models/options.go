package models

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

type ImputeStrategy string
type ScaleStrategy string
type OutlierMethod string
type DateFeature string

const (
	ImputeMedian       ImputeStrategy = "median"
	ImputeMean         ImputeStrategy = "mean"
	ImputeMostFrequent ImputeStrategy = "most_frequent"

	ScaleStandard ScaleStrategy = "standard"
	ScaleMinMax   ScaleStrategy = "minmax"
	ScaleNone     ScaleStrategy = "none"

	OutlierIgnore OutlierMethod = "ignore"
	OutlierRemove OutlierMethod = "remove"
	OutlierCap    OutlierMethod = "cap"

	FeatureYear      DateFeature = "year"
	FeatureMonth     DateFeature = "month"
	FeatureDay       DateFeature = "day"
	FeatureDayOfWeek DateFeature = "dayofweek"
	FeatureIsWeekend DateFeature = "is_weekend"
)

// Defaults applied when a column entry leaves a field empty. Imputation also uses
// DefaultImpute for columns without any entry; scaling and outlier handling never run
// for such columns.
const (
	DefaultImpute  = ImputeMedian
	DefaultScale   = ScaleStandard
	DefaultOutlier = OutlierIgnore
)

// DateFeatureOrder is the order derived date columns are appended in.
var DateFeatureOrder = []DateFeature{FeatureYear, FeatureMonth, FeatureDay, FeatureDayOfWeek, FeatureIsWeekend}

type ColumnOptions struct {
	Impute        ImputeStrategy `json:"impute,omitempty" validate:"omitempty,oneof=median mean most_frequent"`
	Scale         ScaleStrategy  `json:"scale,omitempty" validate:"omitempty,oneof=standard minmax none"`
	OutlierMethod OutlierMethod  `json:"outlier_method,omitempty" validate:"omitempty,oneof=ignore remove cap"`
}

func (c ColumnOptions) ImputeOrDefault() ImputeStrategy {
	if c.Impute == "" {
		return DefaultImpute
	}
	return c.Impute
}

func (c ColumnOptions) ScaleOrDefault() ScaleStrategy {
	if c.Scale == "" {
		return DefaultScale
	}
	return c.Scale
}

func (c ColumnOptions) OutlierOrDefault() OutlierMethod {
	if c.OutlierMethod == "" {
		return DefaultOutlier
	}
	return c.OutlierMethod
}

type Options struct {
	ColumnOptions map[string]ColumnOptions `json:"column_options" validate:"dive"`
	DateFeatures  map[string][]DateFeature `json:"date_features" validate:"dive,dive,oneof=year month day dayofweek is_weekend"`
}

// Column looks an entry up; ok is false when the column has none.
func (o Options) Column(name string) (ColumnOptions, bool) {
	opts, ok := o.ColumnOptions[name]
	return opts, ok
}

// Features returns the requested features of a date column as a set.
func (o Options) Features(name string) map[DateFeature]bool {
	requested := o.DateFeatures[name]
	if len(requested) == 0 {
		return nil
	}
	set := make(map[DateFeature]bool, len(requested))
	for _, f := range requested {
		set[f] = true
	}
	return set
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate rejects unknown enum values.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return InvalidInput(errors.Errorf("invalid option %s: %q is not one of [%s]", fe.Namespace(), fe.Value(), fe.Param()))
		}
		return InvalidInput(errors.Wrap(err, "invalid options"))
	}
	return nil
}

// ParseOptions decodes and validates an options document; blank input means no options.
// Unknown keys are ignored.
func ParseOptions(raw []byte) (Options, error) {
	var opts Options
	if len(strings.TrimSpace(string(raw))) == 0 {
		return opts, nil
	}
	if err := json.Unmarshal(raw, &opts); err != nil {
		return Options{}, InvalidInput(errors.Wrap(err, "cannot parse options"))
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}
