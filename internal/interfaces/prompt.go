package interfaces

// PromptOptions select the instruction profile and output language for
// prompt construction. Zero values fall back to the configured defaults.
type PromptOptions struct {
	// Profile names an instruction profile (e.g. "short_summary",
	// "long_summary"). Unknown names fall back to the default profile.
	Profile string

	// Language optionally requests the summary in a specific language.
	// Empty means "same language as the input".
	Language string
}

// PromptBuilder constructs generation prompts from extracted text. All
// methods are pure: equal inputs produce identical prompts, and very large
// inputs are passed through unmodified (truncation is the backend's
// concern).
type PromptBuilder interface {
	// Build wraps extracted text with the summarization instruction.
	Build(text string, opts PromptOptions) string

	// BuildMerge wraps a set of intermediate summaries with the instruction
	// to combine them into one coherent final summary.
	BuildMerge(summaries []string, opts PromptOptions) string

	// TokenBudget returns the token budget associated with the profile,
	// used by the pipeline to decide whether a document needs splitting.
	TokenBudget(profile string) int
}
