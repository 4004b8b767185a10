package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string         `toml:"environment"` // "development" or "production"
	Server      ServerConfig   `toml:"server"`
	Extract     ExtractConfig  `toml:"extract"`
	LLM         LLMConfig      `toml:"llm"`
	Prompt      PromptConfig   `toml:"prompt"`
	Pipeline    PipelineConfig `toml:"pipeline"`
	Logging     LoggingConfig  `toml:"logging"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"min=1,max=65535"`
	Host string `toml:"host" validate:"required"`
}

// ExtractConfig controls URL fetching and markup stripping.
type ExtractConfig struct {
	RequestTimeout string `toml:"request_timeout" validate:"required"`        // e.g. "30s" - URL fetch abandoned after this
	Format         string `toml:"format" validate:"oneof=text markdown"`      // extracted article output format
	MaxBodySize    int64  `toml:"max_body_size" validate:"min=1024"`          // max bytes read from a fetched URL
	UserAgent      string `toml:"user_agent"`                                 // sent on outbound fetches
	MaxUploadSize  int64  `toml:"max_upload_size" validate:"min=1024"`        // max bytes accepted for a PDF upload
}

// LLMConfig selects and configures the generation backend.
type LLMConfig struct {
	Provider string       `toml:"provider" validate:"oneof=ollama claude gemini"`
	Ollama   OllamaConfig `toml:"ollama"`
	Claude   ClaudeConfig `toml:"claude"`
	Gemini   GeminiConfig `toml:"gemini"`
}

// OllamaConfig configures the local Ollama-compatible daemon.
type OllamaConfig struct {
	Endpoint     string `toml:"endpoint" validate:"required,url"` // e.g. "http://127.0.0.1:11434"
	DefaultModel string `toml:"default_model" validate:"required"`
	Timeout      string `toml:"timeout"` // per-request timeout for non-streaming calls
}

type ClaudeConfig struct {
	APIKey    string `toml:"api_key"`
	Model     string `toml:"model"`
	Timeout   string `toml:"timeout"`
	MaxTokens int    `toml:"max_tokens"`
}

type GeminiConfig struct {
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
	Timeout string `toml:"timeout"`
}

// PromptConfig controls instruction profiles.
type PromptConfig struct {
	ProfilesPath   string `toml:"profiles_path"`   // optional YAML file with instruction profiles
	DefaultProfile string `toml:"default_profile"` // profile used when the caller names none
}

// PipelineConfig tunes the long-document handling.
type PipelineConfig struct {
	TokenLimit int `toml:"token_limit" validate:"min=100"` // budget before a document is split for map-reduce
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Format     string   `toml:"format"`      // "json" or "text"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // time format for logs (default: "15:04:05.000")
}

// NewDefaultConfig returns the built-in defaults. The Ollama endpoint and
// model defaults match a stock local install.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8085,
			Host: "localhost",
		},
		Extract: ExtractConfig{
			RequestTimeout: "30s",
			Format:         "text",
			MaxBodySize:    10 * 1024 * 1024,
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
			MaxUploadSize:  32 * 1024 * 1024,
		},
		LLM: LLMConfig{
			Provider: "ollama",
			Ollama: OllamaConfig{
				Endpoint:     "http://127.0.0.1:11434",
				DefaultModel: "gemma3:4b",
				Timeout:      "120s",
			},
			Claude: ClaudeConfig{
				Model:     "claude-sonnet-4-20250514",
				Timeout:   "120s",
				MaxTokens: 8192,
			},
			Gemini: GeminiConfig{
				Model:   "gemini-2.0-flash",
				Timeout: "120s",
			},
		},
		Prompt: PromptConfig{
			DefaultProfile: "long_summary",
		},
		Pipeline: PipelineConfig{
			TokenLimit: 3000,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05.000",
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority:
// default -> file1 -> file2 -> ... -> env. Later files override earlier
// files; environment variables override all files. CLI flags are applied by
// the caller on top of the returned config.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("BREVIO_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if port := os.Getenv("BREVIO_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("BREVIO_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if timeout := os.Getenv("BREVIO_EXTRACT_REQUEST_TIMEOUT"); timeout != "" {
		config.Extract.RequestTimeout = timeout
	}
	if format := os.Getenv("BREVIO_EXTRACT_FORMAT"); format != "" {
		config.Extract.Format = format
	}

	if provider := os.Getenv("BREVIO_LLM_PROVIDER"); provider != "" {
		config.LLM.Provider = provider
	}
	if endpoint := os.Getenv("BREVIO_OLLAMA_ENDPOINT"); endpoint != "" {
		config.LLM.Ollama.Endpoint = endpoint
	}
	if model := os.Getenv("BREVIO_OLLAMA_DEFAULT_MODEL"); model != "" {
		config.LLM.Ollama.DefaultModel = model
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" && config.LLM.Claude.APIKey == "" {
		config.LLM.Claude.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" && config.LLM.Gemini.APIKey == "" {
		config.LLM.Gemini.APIKey = key
	}

	if limit := os.Getenv("BREVIO_PIPELINE_TOKEN_LIMIT"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil {
			config.Pipeline.TokenLimit = l
		}
	}

	if level := os.Getenv("BREVIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// Validate checks the configuration for structural and semantic errors.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Duration fields are strings in TOML; check they parse.
	if _, err := time.ParseDuration(c.Extract.RequestTimeout); err != nil {
		return fmt.Errorf("invalid extract.request_timeout %q: %w", c.Extract.RequestTimeout, err)
	}
	if c.LLM.Ollama.Timeout != "" {
		if _, err := time.ParseDuration(c.LLM.Ollama.Timeout); err != nil {
			return fmt.Errorf("invalid llm.ollama.timeout %q: %w", c.LLM.Ollama.Timeout, err)
		}
	}

	return nil
}

// ParsedRequestTimeout returns the parsed extract.request_timeout. Validate
// has already confirmed it parses.
func (c *ExtractConfig) ParsedRequestTimeout() time.Duration {
	d, _ := time.ParseDuration(c.RequestTimeout)
	return d
}

// ApplyFlagOverrides applies command-line flag overrides to config.
// Command-line flags have highest priority.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}
