package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brevio/internal/interfaces"
)

// ExportHandler serves POST /api/export: render a finished summary to a
// downloadable PDF.
type ExportHandler struct {
	export interfaces.ExportService
	logger arbor.ILogger
}

type exportRequest struct {
	Markdown string `json:"markdown"`
	Title    string `json:"title"`
}

func NewExportHandler(export interfaces.ExportService, logger arbor.ILogger) *ExportHandler {
	return &ExportHandler{
		export: export,
		logger: logger,
	}
}

// ExportHandler handles POST /api/export.
func (h *ExportHandler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON request: %v", err))
		return
	}

	if req.Markdown == "" {
		WriteError(w, http.StatusBadRequest, "markdown content is required")
		return
	}
	if req.Title == "" {
		req.Title = "Summary"
	}

	pdfBytes, err := h.export.ConvertMarkdownToPDF(req.Markdown, req.Title)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to render summary PDF")
		WriteError(w, http.StatusInternalServerError, "Failed to render PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="summary.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}
