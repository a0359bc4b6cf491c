package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/rpattn/apiconf/internal/apiconfig"
	"github.com/rpattn/apiconf/internal/service"
)

// ContentType is the media type of xlsx workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ConfigBuilder builds completed configuration for one or all classes.
type ConfigBuilder interface {
	Build(ctx context.Context, class string) (*service.Result, error)
	BuildAll(ctx context.Context) ([]*service.Result, error)
}

// Handler serves completed configuration as xlsx downloads.
type Handler struct {
	builder ConfigBuilder
	logger  *zap.Logger
}

// NewHTTPHandler creates the download handler. Requests carrying a "class"
// path value export that class; other requests export every class.
func NewHTTPHandler(builder ConfigBuilder, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{builder: builder, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var (
		results  []*service.Result
		filename = "entities.xlsx"
		err      error
	)
	if class := r.PathValue("class"); class != "" {
		var result *service.Result
		result, err = h.builder.Build(r.Context(), class)
		if err == nil {
			results = []*service.Result{result}
			filename = sanitizeFilename(class) + ".xlsx"
		}
	} else {
		results, err = h.builder.BuildAll(r.Context())
	}
	if err != nil {
		h.writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, results...); err != nil {
		h.logger.Error("Failed to render workbook", zap.Error(err))
		http.Error(w, "failed to render workbook", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEntityNotConfigured):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, apiconfig.ErrInvalidConfig):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		h.logger.Error("Failed to build entity configuration", zap.Error(err))
		http.Error(w, "failed to build configuration", http.StatusInternalServerError)
	}
}

func sanitizeFilename(class string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\\', '/', ':', '"', ' ':
			return '_'
		}
		return r
	}, class)
}
