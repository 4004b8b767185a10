package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brevio/internal/common"
	"github.com/ternarybob/brevio/internal/interfaces"
	"google.golang.org/genai"
)

// GeminiService implements interfaces.GenerationService using the Google
// Gemini API.
type GeminiService struct {
	config  common.GeminiConfig
	logger  arbor.ILogger
	client  *genai.Client
	timeout time.Duration
}

var _ interfaces.GenerationService = (*GeminiService)(nil)

// NewGeminiService creates a Gemini generation service. The API key comes
// from config (the loader falls back to GEMINI_API_KEY).
func NewGeminiService(config common.GeminiConfig, logger arbor.ILogger) (*GeminiService, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required (set GEMINI_API_KEY or gemini.api_key in config)")
	}

	if config.Model == "" {
		config.Model = "gemini-2.0-flash"
	}

	timeout := 120 * time.Second
	if config.Timeout != "" {
		parsed, err := time.ParseDuration(config.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout duration '%s': %w", config.Timeout, err)
		}
		timeout = parsed
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	service := &GeminiService{
		config:  config,
		logger:  logger,
		client:  client,
		timeout: timeout,
	}

	logger.Debug().
		Str("model", config.Model).
		Dur("timeout", timeout).
		Msg("Gemini generation service initialized")

	return service, nil
}

// Name returns the provider name.
func (s *GeminiService) Name() string {
	return "gemini"
}

func (s *GeminiService) resolveModel(model string) string {
	if model != "" {
		return model
	}
	return s.config.Model
}

// Generate streams a completion for the prompt.
func (s *GeminiService) Generate(ctx context.Context, prompt, model string) *interfaces.SummaryStream {
	stream := interfaces.NewSummaryStream(16)

	go func() {
		contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

		for resp, err := range s.client.Models.GenerateContentStream(ctx, s.resolveModel(model), contents, nil) {
			if err != nil {
				stream.Close(s.classifyError(err))
				return
			}
			if text := resp.Text(); text != "" {
				if !stream.Send(ctx, text) {
					stream.Close(ctx.Err())
					return
				}
			}
		}

		stream.Close(nil)
	}()

	return stream
}

// Complete generates a full completion without streaming.
func (s *GeminiService) Complete(ctx context.Context, prompt, model string) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	resp, err := s.client.Models.GenerateContent(timeoutCtx, s.resolveModel(model), contents, nil)
	if err != nil {
		return "", s.classifyError(err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: no text in Gemini response", interfaces.ErrStreamFault)
	}
	return text, nil
}

// HealthCheck issues a minimal request to verify the API is reachable and
// the configured model exists.
func (s *GeminiService) HealthCheck(ctx context.Context) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := s.client.Models.Get(timeoutCtx, s.config.Model, nil); err != nil {
		return s.classifyError(err)
	}
	return nil
}

// classifyError maps Gemini API failures onto the generation error
// taxonomy.
func (s *GeminiService) classifyError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apierr genai.APIError
	if errors.As(err, &apierr) {
		if apierr.Code == http.StatusNotFound {
			return fmt.Errorf("%w: %v", interfaces.ErrModelNotFound, err)
		}
		return fmt.Errorf("%w: %v", interfaces.ErrStreamFault, err)
	}

	return fmt.Errorf("%w: %v", interfaces.ErrBackendUnreachable, err)
}
