// -----------------------------------------------------------------------
// Ollama Generation Service - Streaming chat against a local daemon
// -----------------------------------------------------------------------

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brevio/internal/common"
	"github.com/ternarybob/brevio/internal/interfaces"
)

// OllamaService implements interfaces.GenerationService against an
// Ollama-compatible HTTP daemon. Responses stream as newline-delimited
// JSON objects from /api/chat.
type OllamaService struct {
	config common.OllamaConfig
	logger arbor.ILogger
	client *http.Client
}

var _ interfaces.GenerationService = (*OllamaService)(nil)

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
	Error   string        `json:"error,omitempty"`
}

// NewOllamaService creates a generation service talking to the configured
// Ollama endpoint. The HTTP client carries no overall timeout; streaming
// responses are bounded by the request context instead, and non-streaming
// calls apply the configured timeout per request.
func NewOllamaService(config common.OllamaConfig, logger arbor.ILogger) (*OllamaService, error) {
	if config.Endpoint == "" {
		return nil, fmt.Errorf("ollama endpoint is required")
	}

	service := &OllamaService{
		config: config,
		logger: logger,
		client: &http.Client{},
	}

	logger.Debug().
		Str("endpoint", config.Endpoint).
		Str("model", config.DefaultModel).
		Msg("Ollama generation service initialized")

	return service, nil
}

// Name returns the provider name.
func (s *OllamaService) Name() string {
	return "ollama"
}

// Generate streams a completion for the prompt. Fragments arrive on the
// returned stream in generation order; the stream's terminal error reports
// any backend fault. Cancelling ctx aborts the request and closes the
// connection to the daemon.
func (s *OllamaService) Generate(ctx context.Context, prompt, model string) *interfaces.SummaryStream {
	stream := interfaces.NewSummaryStream(16)

	go func() {
		stream.Close(s.streamChat(ctx, prompt, s.resolveModel(model), stream))
	}()

	return stream
}

func (s *OllamaService) streamChat(ctx context.Context, prompt, model string, stream *interfaces.SummaryStream) error {
	resp, err := s.postChat(ctx, prompt, model, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	startTime := time.Now()
	fragments := 0

	decoder := json.NewDecoder(resp.Body)
	for {
		var chunk ollamaChatResponse
		if err := decoder.Decode(&chunk); err != nil {
			if err == io.EOF {
				break
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w: decode response: %v", interfaces.ErrStreamFault, err)
		}

		if chunk.Error != "" {
			return fmt.Errorf("%w: %s", interfaces.ErrStreamFault, chunk.Error)
		}

		if chunk.Message.Content != "" {
			if !stream.Send(ctx, chunk.Message.Content) {
				return ctx.Err()
			}
			fragments++
		}

		if chunk.Done {
			break
		}
	}

	s.logger.Debug().
		Str("model", model).
		Int("fragments", fragments).
		Dur("duration", time.Since(startTime)).
		Msg("Ollama stream completed")

	return nil
}

// Complete generates a full completion without streaming. Used for the
// intermediate passes over long documents.
func (s *OllamaService) Complete(ctx context.Context, prompt, model string) (string, error) {
	if timeout := s.parsedTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	resp, err := s.postChat(ctx, prompt, s.resolveModel(model), false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", interfaces.ErrStreamFault, err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("%w: %s", interfaces.ErrStreamFault, result.Error)
	}

	return result.Message.Content, nil
}

// postChat issues the chat request and classifies transport and status
// failures into the generation error taxonomy.
func (s *OllamaService) postChat(ctx context.Context, prompt, model string, streaming bool) (*http.Response, error) {
	reqBody := ollamaChatRequest{
		Model: model,
		Messages: []ollamaMessage{
			{Role: "user", Content: prompt},
		},
		Stream: streaming,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	url := strings.TrimRight(s.config.Endpoint, "/") + "/api/chat"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %s: %v", interfaces.ErrBackendUnreachable, s.config.Endpoint, err)
	}

	if resp.StatusCode == http.StatusOK {
		return resp, nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	resp.Body.Close()

	detail := strings.TrimSpace(string(body))
	var errBody struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &errBody) == nil && errBody.Error != "" {
		detail = errBody.Error
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: model %q: %s", interfaces.ErrModelNotFound, model, detail)
	}
	return nil, fmt.Errorf("%w: status %d: %s", interfaces.ErrStreamFault, resp.StatusCode, detail)
}

// HealthCheck probes the daemon's model listing endpoint.
func (s *OllamaService) HealthCheck(ctx context.Context) error {
	url := strings.TrimRight(s.config.Endpoint, "/") + "/api/tags"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build health check request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", interfaces.ErrBackendUnreachable, s.config.Endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health check returned status %d", interfaces.ErrBackendUnreachable, resp.StatusCode)
	}
	return nil
}

func (s *OllamaService) resolveModel(model string) string {
	if model != "" {
		return model
	}
	return s.config.DefaultModel
}

func (s *OllamaService) parsedTimeout() time.Duration {
	if s.config.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(s.config.Timeout)
	if err != nil {
		return 0
	}
	return d
}
