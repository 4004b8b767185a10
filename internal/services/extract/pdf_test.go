package extract

import (
	"bytes"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brevio/internal/interfaces"
)

func buildTestPDF(t *testing.T, lines ...string) []byte {
	t.Helper()
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 12)
	for _, line := range lines {
		pdf.Cell(40, 10, line)
		pdf.Ln(12)
	}
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return buf.Bytes()
}

func TestPDFExtractor_ExtractBytes(t *testing.T) {
	extractor := NewPDFExtractor(arbor.NewLogger())

	data := buildTestPDF(t, "Hello from a test document")

	text, err := extractor.ExtractBytes(data)
	require.NoError(t, err)
	assert.Contains(t, text, "Hello from a test document")
}

func TestPDFExtractor_ExtractBytes_MultiPage(t *testing.T) {
	extractor := NewPDFExtractor(arbor.NewLogger())

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.AddPage()
	pdf.Cell(40, 10, "First page content")
	pdf.AddPage()
	pdf.Cell(40, 10, "Second page content")
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))

	text, err := extractor.ExtractBytes(buf.Bytes())
	require.NoError(t, err)
	assert.Contains(t, text, "First page content")
	assert.Contains(t, text, "Second page content")
}

func TestPDFExtractor_ExtractBytes_Malformed(t *testing.T) {
	extractor := NewPDFExtractor(arbor.NewLogger())

	tests := []struct {
		name string
		data []byte
	}{
		{"plain text", []byte("this is not a pdf at all")},
		{"empty", []byte{}},
		{"truncated header", []byte("%PDF-1.7\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := extractor.ExtractBytes(tt.data)
			assert.ErrorIs(t, err, interfaces.ErrMalformed)
		})
	}
}

func TestCleanPDFText(t *testing.T) {
	in := "A sentence that was\nbroken across lines.\n\nNext paragraph."
	out := cleanPDFText(in)
	assert.Contains(t, out, "A sentence that was broken across lines.")
	assert.Contains(t, out, "Next paragraph.")
}

func TestUnescapePDFString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"parens", `a \(quoted\) word`, "a (quoted) word"},
		{"newline", `line\nbreak`, "line\nbreak"},
		{"backslash", `back\\slash`, `back\slash`},
		{"plain", "untouched", "untouched"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, unescapePDFString(tt.in))
		})
	}
}

func TestPageNumberFromFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
		ok   bool
	}{
		{"pdfcpu prefixed", "extract_ab12_Content_page_1.txt", 1, true},
		{"multi digit", "report_Content_page_12.txt", 12, true},
		{"bare marker", "Content_page_3.txt", 3, true},
		{"no marker", "notes.txt", 0, false},
		{"marker without number", "doc_Content_page_.txt", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := pageNumberFromFilename(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTextFromContentStream_OperatorOrder(t *testing.T) {
	// Tj and TJ interleaved in one stream must come out in stream order.
	stream := `BT (Alpha) Tj [(Bra) -20 (vo)] TJ (Charlie) Tj ET`
	assert.Equal(t, "Alpha Bravo Charlie", textFromContentStream([]byte(stream)))
}

func TestTextFromContentStream_ShowOperators(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"tj only", `(one) Tj (two) Tj`, "one two"},
		{"quote operator", `(first) ' (second) '`, "first second"},
		{"tj array kerning", `[(ker) -30 (ned)] TJ`, "kerned"},
		{"no text", `0 0 1 RG 10 20 m 30 40 l S`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, textFromContentStream([]byte(tt.in)))
		})
	}
}
