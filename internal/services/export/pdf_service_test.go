package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/arbor"
)

func TestConvertMarkdownToPDF(t *testing.T) {
	service := NewService(arbor.NewLogger())

	tests := []struct {
		name     string
		markdown string
		title    string
	}{
		{
			name:     "headings and paragraphs",
			markdown: "# Overview\n\nThe document covers three main topics.\n\n## Details\n\nMore text here.",
			title:    "Summary",
		},
		{
			name:     "empty markdown",
			markdown: "",
			title:    "Empty Summary",
		},
		{
			name:     "lists",
			markdown: "Key points:\n\n- First finding\n- Second finding\n- Third finding",
			title:    "Key Points",
		},
		{
			name:     "bold and italic",
			markdown: "Normal **bold** *italic* ***both***.",
			title:    "Styling",
		},
		{
			name:     "code",
			markdown: "Inline `code` and a block:\n\n```\nexample()\n```",
			title:    "Code",
		},
		{
			name:     "no title",
			markdown: "Just a paragraph.",
			title:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pdfBytes, err := service.ConvertMarkdownToPDF(tt.markdown, tt.title)
			assert.NoError(t, err)
			assert.NotEmpty(t, pdfBytes)
			assert.Equal(t, "%PDF", string(pdfBytes[:4]))
		})
	}
}

func TestConvertMarkdownToPDF_LongSummary(t *testing.T) {
	service := NewService(arbor.NewLogger())

	markdown := "# Long Summary\n\n"
	for i := 0; i < 80; i++ {
		markdown += "This paragraph repeats to push content across multiple pages of output.\n\n"
	}

	pdfBytes, err := service.ConvertMarkdownToPDF(markdown, "Long Summary")
	assert.NoError(t, err)
	assert.Greater(t, len(pdfBytes), 1000)
	assert.Equal(t, "%PDF", string(pdfBytes[:4]))
}
