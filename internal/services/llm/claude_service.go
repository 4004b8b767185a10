package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brevio/internal/common"
	"github.com/ternarybob/brevio/internal/interfaces"
)

// ClaudeService implements interfaces.GenerationService using the Anthropic
// API. Streaming uses server-sent events from the Messages endpoint.
type ClaudeService struct {
	config    common.ClaudeConfig
	logger    arbor.ILogger
	client    anthropic.Client
	timeout   time.Duration
	maxTokens int
}

var _ interfaces.GenerationService = (*ClaudeService)(nil)

// NewClaudeService creates a Claude generation service. The API key comes
// from config (the loader falls back to ANTHROPIC_API_KEY).
func NewClaudeService(config common.ClaudeConfig, logger arbor.ILogger) (*ClaudeService, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required (set ANTHROPIC_API_KEY or claude.api_key in config)")
	}

	if config.Model == "" {
		config.Model = "claude-sonnet-4-20250514"
	}

	timeout := 120 * time.Second
	if config.Timeout != "" {
		parsed, err := time.ParseDuration(config.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout duration '%s': %w", config.Timeout, err)
		}
		timeout = parsed
	}

	maxTokens := config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 8192
	}

	service := &ClaudeService{
		config:    config,
		logger:    logger,
		client:    anthropic.NewClient(option.WithAPIKey(config.APIKey)),
		timeout:   timeout,
		maxTokens: maxTokens,
	}

	logger.Debug().
		Str("model", config.Model).
		Dur("timeout", timeout).
		Int("max_tokens", maxTokens).
		Msg("Claude generation service initialized")

	return service, nil
}

// Name returns the provider name.
func (s *ClaudeService) Name() string {
	return "claude"
}

func (s *ClaudeService) messageParams(prompt, model string) anthropic.MessageNewParams {
	if model == "" {
		model = s.config.Model
	}
	return anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(s.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
}

// Generate streams a completion for the prompt.
func (s *ClaudeService) Generate(ctx context.Context, prompt, model string) *interfaces.SummaryStream {
	stream := interfaces.NewSummaryStream(16)

	go func() {
		events := s.client.Messages.NewStreaming(ctx, s.messageParams(prompt, model))

		for events.Next() {
			event := events.Current()
			switch ev := event.AsAny().(type) {
			case anthropic.ContentBlockDeltaEvent:
				switch delta := ev.Delta.AsAny().(type) {
				case anthropic.TextDelta:
					if delta.Text != "" && !stream.Send(ctx, delta.Text) {
						events.Close()
						stream.Close(ctx.Err())
						return
					}
				}
			}
		}

		stream.Close(s.classifyError(events.Err()))
	}()

	return stream
}

// Complete generates a full completion without streaming.
func (s *ClaudeService) Complete(ctx context.Context, prompt, model string) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.Messages.New(timeoutCtx, s.messageParams(prompt, model))
	if err != nil {
		return "", s.classifyError(err)
	}

	var response strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			response.WriteString(block.Text)
		}
	}

	if response.Len() == 0 {
		return "", fmt.Errorf("%w: no text in Claude response", interfaces.ErrStreamFault)
	}
	return response.String(), nil
}

// HealthCheck issues a minimal request to verify the API is reachable and
// the configured model exists.
func (s *ClaudeService) HealthCheck(ctx context.Context) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	params := s.messageParams("ping", "")
	params.MaxTokens = 1
	if _, err := s.client.Messages.New(timeoutCtx, params); err != nil {
		return s.classifyError(err)
	}
	return nil
}

// classifyError maps Anthropic API failures onto the generation error
// taxonomy. A 404 means the model name is unknown; transport errors mean
// the backend could not be reached; anything else is a stream fault.
func (s *ClaudeService) classifyError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		if apierr.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %v", interfaces.ErrModelNotFound, err)
		}
		return fmt.Errorf("%w: %v", interfaces.ErrStreamFault, err)
	}

	return fmt.Errorf("%w: %v", interfaces.ErrBackendUnreachable, err)
}
