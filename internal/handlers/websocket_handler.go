package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brevio/internal/interfaces"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// WebSocketHandler serves GET /ws/summarize: the URL-source variant of the
// summarize endpoint over a websocket, for clients that prefer a duplex
// connection over SSE. Fragments go out as JSON messages; closing the
// socket cancels the invocation.
type WebSocketHandler struct {
	pipeline interfaces.SummaryPipeline
	logger   arbor.ILogger
}

type wsMessage struct {
	Type    string `json:"type"`              // "fragment", "done", "error"
	Text    string `json:"text,omitempty"`    // fragment text
	Code    string `json:"code,omitempty"`    // error code
	Message string `json:"message,omitempty"` // error detail
}

func NewWebSocketHandler(pipeline interfaces.SummaryPipeline, logger arbor.ILogger) *WebSocketHandler {
	return &WebSocketHandler{
		pipeline: pipeline,
		logger:   logger,
	}
}

// HandleSummarize upgrades the connection and streams one summarization.
// Query parameters: url (required), model, language, profile.
func (h *WebSocketHandler) HandleSummarize(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	url := query.Get("url")
	if url == "" {
		WriteError(w, http.StatusBadRequest, "url query parameter is required")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// read pump: the only inbound traffic is close frames, which cancel
	// the running invocation
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	stream := h.pipeline.Summarize(ctx, interfaces.URLSource(url), interfaces.SummaryOptions{
		Model:    query.Get("model"),
		Language: query.Get("language"),
		Profile:  query.Get("profile"),
	})

	for fragment := range stream.Fragments() {
		if err := h.send(conn, wsMessage{Type: "fragment", Text: fragment}); err != nil {
			cancel()
			for range stream.Fragments() {
			}
			return
		}
	}

	if err := stream.Err(); err != nil {
		h.logger.Warn().Err(err).Msg("WebSocket summary stream ended with error")
		h.send(conn, wsMessage{Type: "error", Code: ErrorCode(err), Message: err.Error()})
		return
	}

	h.send(conn, wsMessage{Type: "done"})
}

func (h *WebSocketHandler) send(conn *websocket.Conn, msg wsMessage) error {
	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return conn.WriteJSON(msg)
}
