// Package httpapi exposes completed entity configuration over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/rpattn/apiconf/internal/apiconfig"
	"github.com/rpattn/apiconf/internal/export"
	"github.com/rpattn/apiconf/internal/metadata"
	"github.com/rpattn/apiconf/internal/middleware"
	"github.com/rpattn/apiconf/internal/service"
)

// ClassLister lists configured classes.
type ClassLister interface {
	Classes(ctx context.Context) ([]string, error)
}

// Options wires the router.
type Options struct {
	Builder export.ConfigBuilder
	Classes ClassLister
	// Metadata, when set, backs a per-request batching metadata loader.
	Metadata       metadata.BatchSource
	BatchWait      time.Duration
	AllowedOrigins []string
	Logger         *zap.Logger
}

type handlers struct {
	builder export.ConfigBuilder
	classes ClassLister
	logger  *zap.Logger
}

// NewRouter returns the HTTP handler of the service.
func NewRouter(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &handlers{builder: opts.Builder, classes: opts.Classes, logger: logger}
	workbook := export.NewHTTPHandler(opts.Builder, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.health)
	mux.HandleFunc("GET /api/entities", h.listEntities)
	mux.HandleFunc("GET /api/entities/{class}/config", h.entityConfig)
	mux.Handle("GET /api/entities/{class}/config.xlsx", workbook)
	mux.Handle("GET /api/export.xlsx", workbook)

	var handler http.Handler = mux
	if opts.Metadata != nil {
		handler = middleware.DataLoaderMiddleware(opts.Metadata, opts.BatchWait)(handler)
	}
	handler = middleware.LoggingMiddleware(logger)(handler)
	handler = middleware.RequestIDMiddleware(handler)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{middleware.RequestIDHeader, "Content-Disposition"},
	})
	return corsHandler.Handler(handler)
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) listEntities(w http.ResponseWriter, r *http.Request) {
	if h.classes == nil {
		writeJSON(w, http.StatusOK, map[string]any{"entities": []string{}})
		return
	}
	classes, err := h.classes.Classes(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if classes == nil {
		classes = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"entities": classes})
}

func (h *handlers) entityConfig(w http.ResponseWriter, r *http.Request) {
	result, err := h.builder.Build(r.Context(), r.PathValue("class"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result.ToMap())
}

func (h *handlers) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEntityNotConfigured):
		writeJSON(w, http.StatusNotFound, errorBody(err))
	case errors.Is(err, apiconfig.ErrInvalidConfig):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(err))
	default:
		h.logger.Error("Request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func errorBody(err error) map[string]string {
	return map[string]string{"error": err.Error()}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
