package llm

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brevio/internal/common"
	"github.com/ternarybob/brevio/internal/interfaces"
)

// NewGenerationService creates the generation backend selected by config.
// The default provider is the local Ollama daemon; Claude and Gemini are
// available for installs with API keys configured.
func NewGenerationService(config common.LLMConfig, logger arbor.ILogger) (interfaces.GenerationService, error) {
	switch config.Provider {
	case "", "ollama":
		return NewOllamaService(config.Ollama, logger)
	case "claude":
		return NewClaudeService(config.Claude, logger)
	case "gemini":
		return NewGeminiService(config.Gemini, logger)
	default:
		return nil, fmt.Errorf("unknown generation provider: %s", config.Provider)
	}
}
