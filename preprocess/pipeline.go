// Package preprocess holds the cleaning stages and the pipeline that sequences them.
package preprocess

import (
	"time"

	"go.uber.org/zap"

	"github.com/pivolan/readiness_analyzer/domain/models"
)

// Stage mutates the dataset in place.
type Stage struct {
	Name  string
	Apply func(ds *models.Dataset, opts models.Options) error
}

// Stages run in this order.
var Stages = []Stage{
	{Name: "outliers", Apply: HandleOutliers},
	{Name: "date_features", Apply: EngineerDateFeatures},
	{Name: "numeric", Apply: NormalizeNumeric},
	{Name: "categorical", Apply: func(ds *models.Dataset, _ models.Options) error {
		return EncodeCategorical(ds)
	}},
}

type Pipeline struct {
	logger *zap.Logger
}

func NewPipeline(logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{logger: logger}
}

// Run cleans a copy of ds. The first failing stage aborts the run and no dataset is returned.
func (p *Pipeline) Run(ds *models.Dataset, opts models.Options) (*models.Dataset, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	out := ds.Clone()
	for _, stage := range Stages {
		start := time.Now()
		if err := stage.Apply(out, opts); err != nil {
			p.logger.Debug("stage failed", zap.String("stage", stage.Name), zap.Error(err))
			return nil, models.StageFailure(stage.Name, err)
		}
		p.logger.Debug("stage done",
			zap.String("stage", stage.Name),
			zap.Int("rows", out.Len()),
			zap.Int("columns", out.Width()),
			zap.Duration("took", time.Since(start)),
		)
	}
	return out, nil
}

// AutoPreprocess runs the pipeline without logging.
func AutoPreprocess(ds *models.Dataset, opts models.Options) (*models.Dataset, error) {
	return NewPipeline(nil).Run(ds, opts)
}
