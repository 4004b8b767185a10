package pipeline

import "strings"

// estimateTokens approximates the token count of text for budget checks.
// The divisor is a conservative average of characters per token for western
// languages across common tokenizers.
func estimateTokens(text string) int {
	return len(text) / 3
}

// splitText breaks text into chunks that each fit within tokenBudget.
// Paragraph boundaries are preferred; a paragraph that alone exceeds the
// budget is split on sentence boundaries, and as a last resort on raw
// character ranges.
func splitText(text string, tokenBudget int) []string {
	if estimateTokens(text) <= tokenBudget {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if estimateTokens(para) > tokenBudget {
			flush()
			chunks = append(chunks, splitOversized(para, tokenBudget)...)
			continue
		}

		if current.Len() > 0 && estimateTokens(current.String())+estimateTokens(para) > tokenBudget {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
	}
	flush()

	return chunks
}

// splitOversized handles a single block bigger than the budget: first on
// sentence boundaries, then on fixed character windows for degenerate text
// with no sentence structure.
func splitOversized(text string, tokenBudget int) []string {
	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}

	for _, sentence := range splitSentences(text) {
		if estimateTokens(sentence) > tokenBudget {
			flush()
			maxChars := tokenBudget * 3
			for len(sentence) > maxChars {
				chunks = append(chunks, sentence[:maxChars])
				sentence = sentence[maxChars:]
			}
			if sentence != "" {
				chunks = append(chunks, sentence)
			}
			continue
		}

		if current.Len() > 0 && estimateTokens(current.String())+estimateTokens(sentence) > tokenBudget {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(sentence)
	}
	flush()

	return chunks
}

// splitSentences breaks text on sentence-ending punctuation followed by a
// space. Good enough for budget splitting; exact linguistic boundaries do
// not matter here.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i := 0; i < len(text)-1; i++ {
		c := text[i]
		if (c == '.' || c == '!' || c == '?') && text[i+1] == ' ' {
			sentences = append(sentences, strings.TrimSpace(text[start:i+1]))
			start = i + 2
		}
	}
	if start < len(text) {
		if tail := strings.TrimSpace(text[start:]); tail != "" {
			sentences = append(sentences, tail)
		}
	}
	return sentences
}
