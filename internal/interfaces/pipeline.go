package interfaces

import "context"

// SummaryOptions carries the per-invocation knobs of the pipeline. The zero
// value is valid and uses configured defaults throughout.
type SummaryOptions struct {
	// Model is the generation model identifier; empty selects the
	// configured default model.
	Model string

	// Language optionally requests the summary in a specific language.
	Language string

	// Profile names the instruction profile to summarize with.
	Profile string
}

// SummaryPipeline is the orchestrator: given a document source it produces
// a lazy stream of summary fragments suitable for incremental display.
//
// If extraction fails, the returned stream yields zero fragments and its
// terminal error is a *PipelineError with StageExtract; generation is never
// attempted. If generation fails, fragments produced before the fault have
// already been delivered and the terminal error is a *PipelineError with
// StageGenerate. The pipeline holds no state across invocations; concurrent
// invocations are fully independent.
type SummaryPipeline interface {
	Summarize(ctx context.Context, source DocumentSource, opts SummaryOptions) *SummaryStream
}
