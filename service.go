package main

import (
	"time"

	"go.uber.org/zap"

	"github.com/pivolan/readiness_analyzer/analyzer"
	"github.com/pivolan/readiness_analyzer/dataset"
	"github.com/pivolan/readiness_analyzer/domain/models"
	"github.com/pivolan/readiness_analyzer/export"
	"github.com/pivolan/readiness_analyzer/plot"
	"github.com/pivolan/readiness_analyzer/preprocess"
)

// Service is the set of dataset operations shared by the HTTP server, the bot and the CLI.
type Service struct {
	pipeline    *preprocess.Pipeline
	logger      *zap.Logger
	metrics     *Metrics
	previewRows int
}

func NewService(logger *zap.Logger, metrics *Metrics, previewRows int) *Service {
	return &Service{
		pipeline:    preprocess.NewPipeline(logger.Named("pipeline")),
		logger:      logger,
		metrics:     metrics,
		previewRows: previewRows,
	}
}

func (s *Service) Load(filename string, data []byte) (*models.Dataset, error) {
	defer s.observe("load", time.Now())
	ds, err := dataset.Load(filename, data)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("dataset loaded",
		zap.String("filename", filename),
		zap.Int("rows", ds.Len()),
		zap.Int("columns", ds.Width()),
	)
	return ds, nil
}

func (s *Service) Summarize(filename string, ds *models.Dataset) models.Summary {
	defer s.observe("summarize", time.Now())
	return analyzer.Summarize(filename, ds, s.previewRows)
}

// Process runs the cleaning pipeline and builds the readiness report of its output.
func (s *Service) Process(ds *models.Dataset, opts models.Options) (*models.Dataset, models.ProcessResult, error) {
	defer s.observe("process", time.Now())
	cleaned, err := s.pipeline.Run(ds, opts)
	if err != nil {
		s.logger.Warn("pipeline failed", zap.Error(err))
		return nil, models.ProcessResult{}, err
	}
	s.metrics.AddProcessedRows(cleaned.Len())
	return cleaned, models.ProcessResult{
		ProcessedData:   cleaned.Records(-1),
		ReadinessReport: analyzer.GenerateReadinessReport(cleaned),
	}, nil
}

func (s *Service) ExportCode(filename string, ds *models.Dataset, opts models.Options) (string, error) {
	defer s.observe("export_code", time.Now())
	return export.GenerateScript(filename, ds, opts)
}

func (s *Service) Visualize(ds *models.Dataset, column, transform string) (*plot.Comparison, error) {
	defer s.observe("visualize", time.Now())
	return plot.ColumnComparison(ds, column, transform)
}

func (s *Service) observe(operation string, start time.Time) {
	s.metrics.ObserveOperation(operation, time.Since(start))
}
