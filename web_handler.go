package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gomarkdown/markdown"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
	"go.uber.org/zap"

	"github.com/pivolan/readiness_analyzer/domain/models"
	"github.com/pivolan/readiness_analyzer/export"
)

const (
	requestIDHeader = "X-Request-Id"
	multipartMemory = 32 << 20
)

type webHandler struct {
	service   *Service
	logger    *zap.Logger
	metrics   *Metrics
	maxUpload int64
}

// NewRouter wires the HTTP API.
func NewRouter(service *Service, logger *zap.Logger, metrics *Metrics, maxUpload int64) http.Handler {
	h := &webHandler{service: service, logger: logger, metrics: metrics, maxUpload: maxUpload}

	r := chi.NewRouter()
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(allowAllOrigins)

	r.Get("/", h.handleIndex)
	r.Handle("/metrics", metrics.Handler())
	r.Route("/api", func(r chi.Router) {
		r.Post("/summarize", h.handleSummarize)
		r.Post("/preprocess", h.handlePreprocess)
		r.Post("/export-code", h.handleExportCode)
		r.Post("/visualize-transform", h.handleVisualizeTransform)
	})
	return r
}

func (h *webHandler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewV4().String()
		}
		w.Header().Set(requestIDHeader, requestID)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		took := time.Since(start)
		h.metrics.ObserveRequest(route, status, took)
		h.logger.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Duration("took", took),
		)
	})
}

func allowAllOrigins(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+requestIDHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const indexMarkdown = `# Dataset readiness analyzer

Upload a CSV, XLSX or archived (.zip, .gz, .lz4) dataset as the multipart field ` + "`dataset`" + `.

| Method | Path | Form fields | Result |
|---|---|---|---|
| POST | /api/summarize | dataset | diagnostics, recommendations and a preview |
| POST | /api/preprocess | dataset, options | cleaned rows and a readiness report |
| POST | /api/export-code | dataset, options | preprocessing_pipeline.py |
| POST | /api/visualize-transform | dataset, column_name, transform_type, format | before/after histogram (PNG, or HTML with format=html) |
| GET | /metrics | | Prometheus metrics |

Options are JSON:

    {"column_options": {"Age": {"impute": "median", "scale": "standard", "outlier_method": "cap"}},
     "date_features": {"Date": ["year", "month", "day", "dayofweek", "is_weekend"]}}
`

func (h *webHandler) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(markdown.ToHTML([]byte(indexMarkdown), nil, nil))
}

func (h *webHandler) handleSummarize(w http.ResponseWriter, r *http.Request) {
	filename, ds, err := h.readDataset(w, r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.service.Summarize(filename, ds))
}

func (h *webHandler) handlePreprocess(w http.ResponseWriter, r *http.Request) {
	_, ds, err := h.readDataset(w, r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	opts, err := models.ParseOptions([]byte(r.FormValue("options")))
	if err != nil {
		h.writeError(w, err)
		return
	}
	_, result, err := h.service.Process(ds, opts)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *webHandler) handleExportCode(w http.ResponseWriter, r *http.Request) {
	filename, ds, err := h.readDataset(w, r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	opts, err := models.ParseOptions([]byte(r.FormValue("options")))
	if err != nil {
		h.writeError(w, err)
		return
	}
	script, err := h.service.ExportCode(filename, ds, opts)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment;filename="+export.ScriptFilename)
	io.WriteString(w, script)
}

func (h *webHandler) handleVisualizeTransform(w http.ResponseWriter, r *http.Request) {
	_, ds, err := h.readDataset(w, r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	column := r.FormValue("column_name")
	transform := r.FormValue("transform_type")
	if column == "" || transform == "" {
		h.writeError(w, models.InvalidInputf("incomplete parameters"))
		return
	}

	comparison, err := h.service.Visualize(ds, column, transform)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if r.FormValue("format") == "html" {
		var buf bytes.Buffer
		if err := comparison.HTML(&buf); err != nil {
			h.writeError(w, errors.Wrap(err, "cannot render chart"))
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(buf.Bytes())
		return
	}

	image, err := comparison.PNG()
	if err != nil {
		h.writeError(w, errors.Wrap(err, "cannot render chart"))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline;filename=%s_%s.png", asciiFilename(column), transform))
	w.Write(image)
}

// readDataset loads the multipart "dataset" file.
func (h *webHandler) readDataset(w http.ResponseWriter, r *http.Request) (string, *models.Dataset, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return "", nil, models.InvalidInput(errors.Wrap(err, "cannot parse upload"))
	}

	file, header, err := r.FormFile("dataset")
	if err != nil {
		return "", nil, models.InvalidInputf("dataset file not found")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, models.InvalidInput(errors.Wrap(err, "cannot read upload"))
	}
	ds, err := h.service.Load(header.Filename, data)
	if err != nil {
		return "", nil, err
	}
	return header.Filename, ds, nil
}

func (h *webHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, models.ErrInvalidInput) {
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
	}
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeJSON encodes v before committing the status; encoding failures become a 500.
func (h *webHandler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("cannot encode response", zap.Error(err))
		status = http.StatusInternalServerError
		body, _ = json.Marshal(map[string]string{"error": errors.Wrap(err, "cannot encode response").Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}
