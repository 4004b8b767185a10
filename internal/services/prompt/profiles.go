package prompt

import (
	"fmt"
	"os"

	"github.com/ternarybob/arbor"
	"gopkg.in/yaml.v3"
)

// Profile describes one summarization style. TokenBudget is the target
// size of the prompt fed to the generation backend; longer documents are
// split and merged until they fit.
type Profile struct {
	Instruction string `yaml:"instruction"`
	TokenBudget int    `yaml:"token_budget"`
}

// builtinProfiles are always available; a profiles file can override them
// or add new ones.
func builtinProfiles() map[string]Profile {
	return map[string]Profile{
		"short_summary": {
			Instruction: summarizeInstruction + "\n- Keep the summary short, at most three paragraphs.",
			TokenBudget: 1500,
		},
		"long_summary": {
			Instruction: summarizeInstruction,
			TokenBudget: 3000,
		},
		"detailed_analysis": {
			Instruction: summarizeInstruction + "\n- Include a detailed analysis of each major section.\n- Note any assumptions or limitations the document states.",
			TokenBudget: 4000,
		},
		"academic_paper": {
			Instruction: summarizeInstruction + "\n- Summarize the abstract, methodology, results, and conclusions separately.\n- Keep citations to prior work where the document relies on them.",
			TokenBudget: 6000,
		},
	}
}

// loadProfiles returns the builtin profiles merged with the entries of the
// optional YAML file at path. A missing path is not an error; an unreadable
// or malformed file is.
func loadProfiles(path string, logger arbor.ILogger) (map[string]Profile, error) {
	profiles := builtinProfiles()
	if path == "" {
		return profiles, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", path).Msg("Profiles file not found, using built-in profiles")
			return profiles, nil
		}
		return nil, fmt.Errorf("failed to read profiles file: %w", err)
	}

	var fileProfiles map[string]Profile
	if err := yaml.Unmarshal(data, &fileProfiles); err != nil {
		return nil, fmt.Errorf("failed to parse profiles file: %w", err)
	}

	for name, p := range fileProfiles {
		if p.TokenBudget <= 0 {
			return nil, fmt.Errorf("profile %q has invalid token budget %d", name, p.TokenBudget)
		}
		if p.Instruction == "" {
			p.Instruction = summarizeInstruction
		}
		profiles[name] = p
	}

	logger.Info().Str("path", path).Int("profiles", len(fileProfiles)).Msg("Loaded summarization profiles")
	return profiles, nil
}
