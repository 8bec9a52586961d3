package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry         *prometheus.Registry
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	operationSeconds *prometheus.HistogramVec
	processedRows    prometheus.Counter
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "readiness",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total HTTP requests processed",
			},
			[]string{"route", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "readiness",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests",
			},
			[]string{"route"},
		),
		operationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "readiness",
				Subsystem: "dataset",
				Name:      "operation_duration_seconds",
				Help:      "Duration of summarize, process, export and visualize operations",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
			},
			[]string{"operation"},
		),
		processedRows: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "readiness",
				Subsystem: "dataset",
				Name:      "processed_rows_total",
				Help:      "Rows returned by the cleaning pipeline",
			},
		),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRequest(route string, status int, took time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(took.Seconds())
}

func (m *Metrics) ObserveOperation(operation string, took time.Duration) {
	if m == nil {
		return
	}
	m.operationSeconds.WithLabelValues(operation).Observe(took.Seconds())
}

func (m *Metrics) AddProcessedRows(rows int) {
	if m == nil {
		return
	}
	m.processedRows.Add(float64(rows))
}
