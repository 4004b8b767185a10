// -----------------------------------------------------------------------
// Summarize Handler - Accept a document and stream its summary as SSE
// -----------------------------------------------------------------------

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brevio/internal/common"
	"github.com/ternarybob/brevio/internal/interfaces"
)

// SummarizeHandler serves POST /api/summarize. The request carries either
// an uploaded PDF (multipart field "file") or a URL; the response is a
// server-sent event stream of summary fragments.
type SummarizeHandler struct {
	config   *common.Config
	pipeline interfaces.SummaryPipeline
	validate *validator.Validate
	logger   arbor.ILogger
}

// summarizeRequest is the JSON request body; the same fields arrive as
// form values on multipart uploads.
type summarizeRequest struct {
	URL      string `json:"url" validate:"omitempty,url"`
	Model    string `json:"model"`
	Language string `json:"language"`
	Profile  string `json:"profile"`
}

func NewSummarizeHandler(config *common.Config, pipeline interfaces.SummaryPipeline, logger arbor.ILogger) *SummarizeHandler {
	return &SummarizeHandler{
		config:   config,
		pipeline: pipeline,
		validate: validator.New(),
		logger:   logger,
	}
}

// SummarizeHandler handles POST /api/summarize.
func (h *SummarizeHandler) SummarizeHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	source, req, err := h.parseRequest(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	stream := h.pipeline.Summarize(r.Context(), source, interfaces.SummaryOptions{
		Model:    req.Model,
		Language: req.Language,
		Profile:  req.Profile,
	})

	h.streamSSE(w, r, stream)
}

// parseRequest extracts the document source and options from either a
// multipart upload or a JSON body. An uploaded file takes precedence over
// a URL when both are present.
func (h *SummarizeHandler) parseRequest(r *http.Request) (interfaces.DocumentSource, *summarizeRequest, error) {
	var req summarizeRequest
	var source interfaces.DocumentSource

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(h.config.Extract.MaxUploadSize); err != nil {
			return source, nil, fmt.Errorf("invalid multipart request: %v", err)
		}

		req.URL = r.FormValue("url")
		req.Model = r.FormValue("model")
		req.Language = r.FormValue("language")
		req.Profile = r.FormValue("profile")

		file, header, err := r.FormFile("file")
		if err == nil {
			defer file.Close()
			content, readErr := io.ReadAll(io.LimitReader(file, h.config.Extract.MaxUploadSize))
			if readErr != nil {
				return source, nil, fmt.Errorf("failed to read upload: %v", readErr)
			}
			source = interfaces.FileSource(header.Filename, content)
		} else if !errors.Is(err, http.ErrMissingFile) {
			return source, nil, fmt.Errorf("invalid file upload: %v", err)
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return source, nil, fmt.Errorf("invalid JSON request: %v", err)
		}
	}

	if err := h.validate.Struct(&req); err != nil {
		return source, nil, fmt.Errorf("invalid request: %v", err)
	}

	// an uploaded file wins over a url supplied alongside it
	if source.Kind() == "" {
		if req.URL == "" {
			return source, nil, fmt.Errorf("request must include a file upload or a url")
		}
		source = interfaces.URLSource(req.URL)
	}

	return source, &req, nil
}

// streamSSE relays the summary stream as server-sent events. Failures that
// happen before the first fragment are answered with a plain JSON error and
// a matching HTTP status. After that the events are "fragment" for each
// piece of summary text, then exactly one of "done" or "error".
func (h *SummarizeHandler) streamSSE(w http.ResponseWriter, r *http.Request, stream *interfaces.SummaryStream) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	// A stream that fails before producing any text gets a real HTTP
	// status; once fragments have gone out the error travels in-band.
	first, open := <-stream.Fragments()
	if !open {
		if err := stream.Err(); err != nil {
			h.logger.Warn().Err(err).Msg("Summary failed before streaming started")
			WriteJSON(w, ErrorStatus(err), map[string]string{
				"status": "error",
				"code":   ErrorCode(err),
				"error":  err.Error(),
			})
			return
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	if open {
		h.sendEvent(w, flusher, "fragment", map[string]string{"text": first})
	}

	for fragment := range stream.Fragments() {
		h.sendEvent(w, flusher, "fragment", map[string]string{"text": fragment})

		if r.Context().Err() != nil {
			// client went away; drain so the producer can finish
			for range stream.Fragments() {
			}
			h.logger.Debug().Msg("Client disconnected during summary stream")
			return
		}
	}

	if err := stream.Err(); err != nil {
		h.logger.Warn().Err(err).Msg("Summary stream ended with error")
		h.sendEvent(w, flusher, "error", map[string]string{
			"code":    ErrorCode(err),
			"message": err.Error(),
		})
		return
	}

	h.sendEvent(w, flusher, "done", map[string]string{})
}

func (h *SummarizeHandler) sendEvent(w http.ResponseWriter, flusher http.Flusher, event string, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		h.logger.Error().Err(err).Str("event", event).Msg("Failed to marshal SSE event")
		return
	}

	fmt.Fprintf(w, "event: %s\n", event)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
	flusher.Flush()
}
