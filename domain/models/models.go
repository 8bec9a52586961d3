package models

type RecommendationType string

const (
	RecommendationSkewness           RecommendationType = "SKEWNESS"
	RecommendationFeatureEngineering RecommendationType = "FEATURE_ENGINEERING"
)

// Recommendation is advisory only, it never mutates data.
type Recommendation struct {
	Column  *string            `json:"column,omitempty"`
	Type    RecommendationType `json:"type"`
	Message string             `json:"message"`
}

type ColumnDiagnostics struct {
	Recommendations []Recommendation `json:"recommendations"`
	OutlierInfo     map[string]int   `json:"outlier_info"`
	DateColumns     []string         `json:"date_columns"`
	NumericColumns  []string         `json:"numeric_columns"`
	MissingValues   map[string]int   `json:"missing_values"`
}

// Summary is the response of the summarize operation.
type Summary struct {
	Filename string   `json:"filename"`
	Rows     int      `json:"rows"`
	Columns  int      `json:"columns"`
	Preview  []Record `json:"preview"`
	ColumnDiagnostics
}

// DescribeStats mirrors a describe() row set; nil marks an undefined statistic.
type DescribeStats struct {
	Count float64  `json:"count"`
	Mean  *float64 `json:"mean"`
	Std   *float64 `json:"std"`
	Min   *float64 `json:"min"`
	Q25   *float64 `json:"25%"`
	Q50   *float64 `json:"50%"`
	Q75   *float64 `json:"75%"`
	Max   *float64 `json:"max"`
}

type Shape struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

type ReadinessReport struct {
	TotalMissingValues int                      `json:"total_missing_values"`
	DataTypes          map[string]string        `json:"data_types"`
	IsFullyNumeric     bool                     `json:"is_fully_numeric"`
	DescribeStats      map[string]DescribeStats `json:"describe_stats"`
	FinalShape         Shape                    `json:"final_shape"`
	FinalColumns       []string                 `json:"final_columns"`
}

type ProcessResult struct {
	ProcessedData   []Record        `json:"processed_data"`
	ReadinessReport ReadinessReport `json:"readiness_report"`
}
