// -----------------------------------------------------------------------
// Application - Service wiring and lifecycle
// -----------------------------------------------------------------------

package app

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brevio/internal/common"
	"github.com/ternarybob/brevio/internal/handlers"
	"github.com/ternarybob/brevio/internal/interfaces"
	"github.com/ternarybob/brevio/internal/services/export"
	"github.com/ternarybob/brevio/internal/services/extract"
	"github.com/ternarybob/brevio/internal/services/llm"
	"github.com/ternarybob/brevio/internal/services/pipeline"
	"github.com/ternarybob/brevio/internal/services/prompt"
)

// App holds the wired services and handlers. Services are constructed once
// at startup; the pipeline itself is stateless per invocation.
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Core services
	ExtractService    interfaces.TextExtractor
	PromptBuilder     interfaces.PromptBuilder
	GenerationService interfaces.GenerationService
	Pipeline          interfaces.SummaryPipeline
	ExportService     interfaces.ExportService

	// HTTP handlers
	APIHandler       *handlers.APIHandler
	SummarizeHandler *handlers.SummarizeHandler
	WSHandler        *handlers.WebSocketHandler
	ExportHandler    *handlers.ExportHandler
	PageHandler      *handlers.PageHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	app.initHandlers()

	logger.Info().
		Str("provider", app.GenerationService.Name()).
		Str("default_profile", cfg.Prompt.DefaultProfile).
		Msg("Application initialized")

	return app, nil
}

func (a *App) initServices() error {
	a.ExtractService = extract.NewService(a.Config.Extract, a.Logger)

	builder, err := prompt.NewBuilder(a.Config.Prompt, a.Logger)
	if err != nil {
		return fmt.Errorf("prompt builder: %w", err)
	}
	a.PromptBuilder = builder

	generator, err := llm.NewGenerationService(a.Config.LLM, a.Logger)
	if err != nil {
		return fmt.Errorf("generation service: %w", err)
	}
	a.GenerationService = generator

	a.Pipeline = pipeline.NewService(a.Config.Pipeline, a.ExtractService, a.PromptBuilder, a.GenerationService, a.Logger)
	a.ExportService = export.NewService(a.Logger)

	return nil
}

func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler(a.GenerationService, a.Logger)
	a.SummarizeHandler = handlers.NewSummarizeHandler(a.Config, a.Pipeline, a.Logger)
	a.WSHandler = handlers.NewWebSocketHandler(a.Pipeline, a.Logger)
	a.ExportHandler = handlers.NewExportHandler(a.ExportService, a.Logger)
	a.PageHandler = handlers.NewPageHandler(a.Logger)
}
