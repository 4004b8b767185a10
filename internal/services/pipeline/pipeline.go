// -----------------------------------------------------------------------
// Summary Pipeline - Extract, prompt, and stream generation
// -----------------------------------------------------------------------

package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brevio/internal/common"
	"github.com/ternarybob/brevio/internal/interfaces"
)

// Service orchestrates one summarization invocation: extract text from the
// source, build the prompt, and relay the generation stream. Documents that
// exceed the profile's token budget are summarized in chunks and the chunk
// summaries merged before the final streamed pass. The service holds no
// per-invocation state; concurrent invocations are independent.
type Service struct {
	config    common.PipelineConfig
	extractor interfaces.TextExtractor
	prompts   interfaces.PromptBuilder
	generator interfaces.GenerationService
	logger    arbor.ILogger
}

var _ interfaces.SummaryPipeline = (*Service)(nil)

func NewService(
	config common.PipelineConfig,
	extractor interfaces.TextExtractor,
	prompts interfaces.PromptBuilder,
	generator interfaces.GenerationService,
	logger arbor.ILogger,
) *Service {
	return &Service{
		config:    config,
		extractor: extractor,
		prompts:   prompts,
		generator: generator,
		logger:    logger,
	}
}

// Summarize runs the pipeline for one document source. The returned stream
// yields fragments as the backend produces them; its terminal error is a
// *PipelineError naming the failed stage, or nil on success.
func (s *Service) Summarize(ctx context.Context, source interfaces.DocumentSource, opts interfaces.SummaryOptions) *interfaces.SummaryStream {
	invocationID := common.NewInvocationID()
	logger := s.logger.WithCorrelationId(invocationID)

	logger.Info().
		Str("source", string(source.Kind())).
		Str("model", opts.Model).
		Str("profile", opts.Profile).
		Msg("Starting summarization")

	startTime := time.Now()

	text, err := s.extractor.Extract(ctx, source)
	if err != nil {
		logger.Warn().Err(err).Msg("Extraction failed")
		return interfaces.ClosedStream(&interfaces.PipelineError{Stage: interfaces.StageExtract, Err: err})
	}

	logger.Debug().
		Int("chars", len(text)).
		Int("tokens_estimated", estimateTokens(text)).
		Dur("extract_duration", time.Since(startTime)).
		Msg("Extraction completed")

	stream := interfaces.NewSummaryStream(16)
	go func() {
		stream.Close(s.generate(ctx, logger, text, opts, stream))
	}()
	return stream
}

// generate runs the generation phase and relays fragments onto out. Returns
// the terminal error for the stream.
func (s *Service) generate(ctx context.Context, logger arbor.ILogger, text string, opts interfaces.SummaryOptions, out *interfaces.SummaryStream) error {
	budget := s.tokenBudget(opts.Profile)
	promptOpts := interfaces.PromptOptions{Profile: opts.Profile, Language: opts.Language}

	if estimateTokens(text) > budget {
		reduced, err := s.reduce(ctx, logger, text, opts, budget)
		if err != nil {
			return &interfaces.PipelineError{Stage: interfaces.StageGenerate, Err: err}
		}
		text = reduced
	}

	prompt := s.prompts.Build(text, promptOpts)
	if err := s.relay(ctx, s.generator.Generate(ctx, prompt, opts.Model), out); err != nil {
		logger.Warn().Err(err).Msg("Generation failed")
		return &interfaces.PipelineError{Stage: interfaces.StageGenerate, Err: err}
	}

	logger.Info().Msg("Summarization completed")
	return nil
}

// reduce summarizes an over-budget document chunk by chunk, then merges the
// chunk summaries, repeating until the merged text fits the budget. The
// final streamed pass over the reduced text happens in the caller.
func (s *Service) reduce(ctx context.Context, logger arbor.ILogger, text string, opts interfaces.SummaryOptions, budget int) (string, error) {
	promptOpts := interfaces.PromptOptions{Profile: opts.Profile, Language: opts.Language}

	for round := 1; estimateTokens(text) > budget; round++ {
		chunks := splitText(text, budget)
		if len(chunks) <= 1 {
			break
		}

		logger.Debug().
			Int("round", round).
			Int("chunks", len(chunks)).
			Int("tokens_estimated", estimateTokens(text)).
			Msg("Reducing document")

		summaries := make([]string, 0, len(chunks))
		for _, chunk := range chunks {
			summary, err := s.generator.Complete(ctx, s.prompts.Build(chunk, promptOpts), opts.Model)
			if err != nil {
				return "", fmt.Errorf("chunk summarization: %w", err)
			}
			summaries = append(summaries, summary)
		}

		merged, err := s.generator.Complete(ctx, s.prompts.BuildMerge(summaries, promptOpts), opts.Model)
		if err != nil {
			return "", fmt.Errorf("merge summarization: %w", err)
		}
		text = merged
	}

	return text, nil
}

// relay pumps fragments from the backend stream onto out. Returns the
// backend stream's terminal error.
func (s *Service) relay(ctx context.Context, in *interfaces.SummaryStream, out *interfaces.SummaryStream) error {
	for fragment := range in.Fragments() {
		if !out.Send(ctx, fragment) {
			return ctx.Err()
		}
	}
	return in.Err()
}

// tokenBudget resolves the effective budget: the profile's own budget when
// the prompt builder knows one, capped by the configured pipeline limit.
func (s *Service) tokenBudget(profile string) int {
	budget := s.prompts.TokenBudget(profile)
	if s.config.TokenLimit > 0 && (budget <= 0 || budget > s.config.TokenLimit) {
		return s.config.TokenLimit
	}
	return budget
}
