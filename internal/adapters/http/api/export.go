// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
)

// ExportDependencies defines the interface for analysis export.
type ExportDependencies interface {
	ExportCPM(ctx context.Context) string
}

// ExportHandler handles analysis export requests.
type ExportHandler struct {
	deps ExportDependencies
}

// NewExportHandler creates a new export handler.
func NewExportHandler(deps ExportDependencies) *ExportHandler {
	return &ExportHandler{deps: deps}
}

// HandleExport handles GET /api/export requests. The report is served as a
// downloadable semicolon separated file.
func (h *ExportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="cpm_analys.csv"`)
	_, _ = w.Write([]byte(h.deps.ExportCPM(r.Context())))
}
