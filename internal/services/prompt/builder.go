package prompt

import (
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brevio/internal/common"
	"github.com/ternarybob/brevio/internal/interfaces"
)

const (
	summarizeInstruction = `You are a document summarization assistant. Summarize the following content concisely, preserving key facts.

Rules:
- Extract the core topics and main arguments.
- Keep important figures, dates, and names.
- Keep the logical structure clear.
- Present the summary as paragraphs, without filler.`

	mergeInstruction = `The following are partial summaries of one document. Combine them into a single complete, coherent summary with no repetition.`
)

// Builder implements interfaces.PromptBuilder. It is stateless apart from
// the profile table loaded at construction, so all methods are pure and
// deterministic.
type Builder struct {
	profiles       map[string]Profile
	defaultProfile string
}

// Compile-time interface assertion
var _ interfaces.PromptBuilder = (*Builder)(nil)

// NewBuilder creates a prompt builder. Profiles are loaded from the
// configured YAML file when one is set; the built-in profiles are always
// available as a base.
func NewBuilder(config common.PromptConfig, logger arbor.ILogger) (*Builder, error) {
	profiles, err := loadProfiles(config.ProfilesPath, logger)
	if err != nil {
		return nil, err
	}

	defaultProfile := config.DefaultProfile
	if _, ok := profiles[defaultProfile]; !ok {
		defaultProfile = "long_summary"
	}

	return &Builder{
		profiles:       profiles,
		defaultProfile: defaultProfile,
	}, nil
}

// Build wraps extracted text with the summarization instruction, optionally
// requesting output in a specific language.
func (b *Builder) Build(text string, opts interfaces.PromptOptions) string {
	profile := b.profile(opts.Profile)

	var sb strings.Builder
	sb.WriteString(profile.Instruction)
	if opts.Language != "" {
		sb.WriteString("\n- Write the summary in ")
		sb.WriteString(opts.Language)
		sb.WriteString(".")
	}
	sb.WriteString("\n\nContent:\n")
	sb.WriteString(text)
	return sb.String()
}

// BuildMerge wraps intermediate summaries with the merge instruction.
func (b *Builder) BuildMerge(summaries []string, opts interfaces.PromptOptions) string {
	var sb strings.Builder
	sb.WriteString(mergeInstruction)
	if opts.Language != "" {
		sb.WriteString(" Write the final summary in ")
		sb.WriteString(opts.Language)
		sb.WriteString(".")
	}
	sb.WriteString("\n\n")
	sb.WriteString(strings.Join(summaries, "\n\n"))
	return sb.String()
}

// TokenBudget returns the token budget of the named profile.
func (b *Builder) TokenBudget(profile string) int {
	return b.profile(profile).TokenBudget
}

// profile resolves a profile name, falling back to the default for unknown
// or empty names.
func (b *Builder) profile(name string) Profile {
	if name != "" {
		if p, ok := b.profiles[name]; ok {
			return p
		}
	}
	return b.profiles[b.defaultProfile]
}
