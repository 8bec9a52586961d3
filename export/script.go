// Package export renders a standalone scikit-learn script that reproduces the cleaning
// of a dataset.
package export

import (
	"bytes"
	"strconv"
	"strings"
	"text/template"

	"github.com/pkg/errors"

	"github.com/pivolan/readiness_analyzer/domain/models"
	"github.com/pivolan/readiness_analyzer/preprocess"
)

// ScriptFilename is the attachment name of the generated script.
const ScriptFilename = "preprocessing_pipeline.py"

var scalerClasses = map[models.ScaleStrategy]string{
	models.ScaleStandard: "StandardScaler",
	models.ScaleMinMax:   "MinMaxScaler",
}

type scriptParams struct {
	Filename            string
	NumericFeatures     string
	CategoricalFeatures string
	ImputeStrategy      models.ImputeStrategy
	ScalerClass         string
}

var scriptTemplate = template.Must(template.New("pipeline").Parse(`import pandas as pd
from sklearn.compose import ColumnTransformer
from sklearn.pipeline import Pipeline
from sklearn.impute import SimpleImputer
from sklearn.preprocessing import StandardScaler, MinMaxScaler, OneHotEncoder

try:
    df = pd.read_csv({{.Filename}})
except FileNotFoundError:
    print("File " + {{.Filename}} + " not found. Make sure it is in the working directory.")
    exit()

TARGET_COLUMN = 'replace_with_your_target_column'

if TARGET_COLUMN in df.columns:
    X = df.drop(TARGET_COLUMN, axis=1)
    y = df[TARGET_COLUMN]
else:
    X = df
    print(f"Warning: target column '{TARGET_COLUMN}' not found. The whole dataset will be processed.")

numeric_features = {{.NumericFeatures}}
categorical_features = {{.CategoricalFeatures}}

numeric_transformer = Pipeline(steps=[
    ('imputer', SimpleImputer(strategy='{{.ImputeStrategy}}')),
{{- if .ScalerClass}}
    ('scaler', {{.ScalerClass}}())
{{- end}}
])

categorical_transformer = Pipeline(steps=[
    ('imputer', SimpleImputer(strategy='most_frequent')),
    ('onehot', OneHotEncoder(handle_unknown='ignore', drop='first'))
])

preprocessor = ColumnTransformer(
    transformers=[
        ('num', numeric_transformer, numeric_features),
        ('cat', categorical_transformer, categorical_features)
    ],
    remainder='passthrough'
)

X_processed = preprocessor.fit_transform(X)

try:
    ohe_feature_names = preprocessor.named_transformers_['cat']['onehot'].get_feature_names_out(categorical_features).tolist()
    remainder_features = [col for col in X.columns if col not in numeric_features and col not in categorical_features]
    processed_columns = numeric_features + ohe_feature_names + remainder_features
    X_processed_df = pd.DataFrame(X_processed, columns=processed_columns)
except ValueError:
    X_processed_df = pd.DataFrame(X_processed)

print("Preprocessing done.")
print("Shape after processing:", X_processed_df.shape)
print("\nProcessed data (first 5 rows):")
print(X_processed_df.head())
`))

// GenerateScript renders the pipeline script for a raw dataset. Numeric imputation and
// scaling follow the options entry of the first numeric column; scale none leaves the
// scaler step out.
func GenerateScript(filename string, ds *models.Dataset, opts models.Options) (string, error) {
	numeric := ds.NumericColumns()

	var encodable []string
	for _, name := range ds.CategoricalColumns() {
		c, _ := ds.Column(name)
		if len(c.Distinct()) < preprocess.MaxEncodedCardinality {
			encodable = append(encodable, name)
		}
	}

	impute := models.DefaultImpute
	scale := models.DefaultScale
	if len(numeric) > 0 {
		if colOpts, ok := opts.Column(numeric[0]); ok {
			impute = colOpts.ImputeOrDefault()
			scale = colOpts.ScaleOrDefault()
		}
	}

	params := scriptParams{
		Filename:            pythonString(filename),
		NumericFeatures:     pythonList(numeric),
		CategoricalFeatures: pythonList(encodable),
		ImputeStrategy:      impute,
		ScalerClass:         scalerClasses[scale],
	}

	var buf bytes.Buffer
	if err := scriptTemplate.Execute(&buf, params); err != nil {
		return "", errors.Wrap(err, "cannot render pipeline script")
	}
	return strings.TrimSpace(buf.String()), nil
}

// pythonString quotes s as a Python string literal.
func pythonString(s string) string {
	return strconv.Quote(s)
}

func pythonList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = pythonString(item)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
