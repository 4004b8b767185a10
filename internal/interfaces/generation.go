package interfaces

import "context"

// GenerationService submits prompts to a generation backend. The default
// implementation talks to a locally running Ollama-compatible daemon; cloud
// implementations (Claude, Gemini) satisfy the same contract and are
// selected by configuration.
type GenerationService interface {
	// Generate opens a streaming request to the backend and returns a
	// SummaryStream that yields text fragments as they are decoded, without
	// buffering the whole response. The stream terminates normally when the
	// backend signals completion, or with ErrBackendUnreachable,
	// ErrModelNotFound, or ErrStreamFault on fault. An empty model selects
	// the configured default. No retry is attempted; callers that want
	// resilience re-invoke. Cancelling ctx closes the backend connection
	// promptly.
	Generate(ctx context.Context, prompt, model string) *SummaryStream

	// Complete performs a non-streaming generation and returns the full
	// response text. Used by the pipeline's intermediate map-reduce passes
	// where streaming partial chunk summaries would not be rendered anyway.
	Complete(ctx context.Context, prompt, model string) (string, error)

	// HealthCheck verifies the backend is reachable and can serve requests.
	HealthCheck(ctx context.Context) error

	// Name identifies the backend implementation ("ollama", "claude",
	// "gemini") for logging and the health endpoint.
	Name() string
}
