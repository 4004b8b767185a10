package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brevio/internal/common"
	"github.com/ternarybob/brevio/internal/interfaces"
)

type APIHandler struct {
	logger    arbor.ILogger
	generator interfaces.GenerationService
}

func NewAPIHandler(generator interfaces.GenerationService, logger arbor.ILogger) *APIHandler {
	return &APIHandler{
		logger:    logger,
		generator: generator,
	}
}

// VersionHandler returns version information
func (h *APIHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version":    common.GetVersion(),
		"build":      common.GetBuild(),
		"git_commit": common.GetGitCommit(),
	})
}

// HealthHandler reports service health including the generation backend.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	overall := "ok"
	backend := "ok"
	status := http.StatusOK
	if err := h.generator.HealthCheck(ctx); err != nil {
		h.logger.Warn().Err(err).Str("provider", h.generator.Name()).Msg("Generation backend health check failed")
		overall = "degraded"
		backend = ErrorCode(err)
		status = http.StatusServiceUnavailable
	}

	WriteJSON(w, status, map[string]string{
		"status":   overall,
		"provider": h.generator.Name(),
		"backend":  backend,
	})
}

// NotFoundHandler handles 404 errors with JSON response
func (h *APIHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusNotFound, map[string]interface{}{
		"error":   "Not Found",
		"path":    r.URL.Path,
		"message": "The requested endpoint does not exist",
	})
}
