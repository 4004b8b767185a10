package prompt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brevio/internal/common"
	"github.com/ternarybob/brevio/internal/interfaces"
)

func testLogger() arbor.ILogger {
	return arbor.NewLogger()
}

func TestBuilder_Build(t *testing.T) {
	builder, err := NewBuilder(common.PromptConfig{DefaultProfile: "long_summary"}, testLogger())
	require.NoError(t, err)

	prompt := builder.Build("The quick brown fox.", interfaces.PromptOptions{})

	assert.Contains(t, prompt, "Summarize the following content concisely")
	assert.Contains(t, prompt, "The quick brown fox.")
	assert.NotContains(t, prompt, "Write the summary in")
}

func TestBuilder_Build_Language(t *testing.T) {
	builder, err := NewBuilder(common.PromptConfig{DefaultProfile: "long_summary"}, testLogger())
	require.NoError(t, err)

	prompt := builder.Build("Text.", interfaces.PromptOptions{Language: "German"})

	assert.Contains(t, prompt, "Write the summary in German.")
}

func TestBuilder_Build_Deterministic(t *testing.T) {
	builder, err := NewBuilder(common.PromptConfig{DefaultProfile: "long_summary"}, testLogger())
	require.NoError(t, err)

	opts := interfaces.PromptOptions{Profile: "short_summary", Language: "English"}
	first := builder.Build("Same input.", opts)
	second := builder.Build("Same input.", opts)

	assert.Equal(t, first, second)
}

func TestBuilder_BuildMerge(t *testing.T) {
	builder, err := NewBuilder(common.PromptConfig{DefaultProfile: "long_summary"}, testLogger())
	require.NoError(t, err)

	prompt := builder.BuildMerge([]string{"Part one.", "Part two."}, interfaces.PromptOptions{})

	assert.Contains(t, prompt, "partial summaries")
	assert.Contains(t, prompt, "Part one.")
	assert.Contains(t, prompt, "Part two.")
}

func TestBuilder_TokenBudget(t *testing.T) {
	builder, err := NewBuilder(common.PromptConfig{DefaultProfile: "long_summary"}, testLogger())
	require.NoError(t, err)

	tests := []struct {
		name    string
		profile string
		want    int
	}{
		{"short summary", "short_summary", 1500},
		{"long summary", "long_summary", 3000},
		{"detailed analysis", "detailed_analysis", 4000},
		{"academic paper", "academic_paper", 6000},
		{"unknown falls back to default", "no_such_profile", 3000},
		{"empty falls back to default", "", 3000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, builder.TokenBudget(tt.profile))
		})
	}
}

func TestLoadProfiles_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	content := `
executive_brief:
  instruction: "Summarize for an executive audience in five bullet points."
  token_budget: 1000
long_summary:
  token_budget: 5000
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	builder, err := NewBuilder(common.PromptConfig{ProfilesPath: path, DefaultProfile: "long_summary"}, testLogger())
	require.NoError(t, err)

	assert.Equal(t, 1000, builder.TokenBudget("executive_brief"))
	// file entry overrides the builtin budget
	assert.Equal(t, 5000, builder.TokenBudget("long_summary"))

	prompt := builder.Build("Quarterly numbers.", interfaces.PromptOptions{Profile: "executive_brief"})
	assert.Contains(t, prompt, "executive audience")
}

func TestLoadProfiles_MissingFileUsesBuiltins(t *testing.T) {
	builder, err := NewBuilder(common.PromptConfig{ProfilesPath: "/nonexistent/profiles.yaml", DefaultProfile: "long_summary"}, testLogger())
	require.NoError(t, err)

	assert.Equal(t, 3000, builder.TokenBudget("long_summary"))
}

func TestLoadProfiles_InvalidBudget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bad:\n  token_budget: 0\n"), 0644))

	_, err := NewBuilder(common.PromptConfig{ProfilesPath: path, DefaultProfile: "long_summary"}, testLogger())
	assert.Error(t, err)
}
