package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, estimateTokens(""))
	assert.Equal(t, 1, estimateTokens("abc"))
	assert.Equal(t, 100, estimateTokens(strings.Repeat("x", 300)))
}

func TestSplitText_FitsInOneChunk(t *testing.T) {
	text := "Short document."
	chunks := splitText(text, 3000)
	assert.Equal(t, []string{text}, chunks)
}

func TestSplitText_ParagraphBoundaries(t *testing.T) {
	para := strings.Repeat("word ", 100)
	text := strings.TrimSpace(para) + "\n\n" + strings.TrimSpace(para) + "\n\n" + strings.TrimSpace(para)

	// Each paragraph is ~166 tokens; a 200-token budget forces one
	// paragraph per chunk.
	chunks := splitText(text, 200)

	assert.Equal(t, 3, len(chunks))
	for _, chunk := range chunks {
		assert.LessOrEqual(t, estimateTokens(chunk), 200)
		assert.NotEmpty(t, chunk)
	}
}

func TestSplitText_OversizedParagraph(t *testing.T) {
	sentence := strings.Repeat("word ", 30)
	text := strings.TrimSpace(sentence) + ". " + strings.TrimSpace(sentence) + ". " + strings.TrimSpace(sentence) + "."

	chunks := splitText(text, 60)

	assert.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, estimateTokens(chunk), 60)
	}
}

func TestSplitText_NoSentenceStructure(t *testing.T) {
	text := strings.Repeat("a", 1000)

	chunks := splitText(text, 50)

	assert.Greater(t, len(chunks), 1)
	var total int
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 150)
		total += len(chunk)
	}
	assert.Equal(t, 1000, total)
}

func TestSplitSentences(t *testing.T) {
	sentences := splitSentences("First one. Second one! Third one? Trailing fragment")
	assert.Equal(t, []string{"First one.", "Second one!", "Third one?", "Trailing fragment"}, sentences)
}
