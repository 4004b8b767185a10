// -----------------------------------------------------------------------
// PDF Text Extractor - Extract plain text from PDF document bytes
// Uses pdfcpu for Go-native PDF processing
// -----------------------------------------------------------------------

package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brevio/internal/interfaces"
)

// PDFExtractor extracts text from PDF bytes using pdfcpu.
type PDFExtractor struct {
	logger  arbor.ILogger
	tempDir string
}

// NewPDFExtractor creates a new PDF extractor.
func NewPDFExtractor(logger arbor.ILogger) *PDFExtractor {
	tempDir := filepath.Join(os.TempDir(), "brevio-pdf")
	os.MkdirAll(tempDir, 0755)

	return &PDFExtractor{
		logger:  logger,
		tempDir: tempDir,
	}
}

// ExtractBytes extracts the text of every page, in page order, separated by
// a single newline. Returns ErrMalformed if the bytes do not parse as a
// valid PDF or the document is encrypted without supplied credentials, and
// ErrEmpty if the document parsed but contains no text. No partial output is
// produced on failure.
func (e *PDFExtractor) ExtractBytes(content []byte) (string, error) {
	// pdfcpu's extraction API is file-based; stage the bytes in a temp file.
	tempFile := filepath.Join(e.tempDir, fmt.Sprintf("extract_%s.pdf", uuid.New().String()))
	if err := os.WriteFile(tempFile, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write temp PDF file: %w", err)
	}
	defer os.Remove(tempFile)

	pdfCtx, err := api.ReadContextFile(tempFile)
	if err != nil {
		return "", fmt.Errorf("%w: %v", interfaces.ErrMalformed, err)
	}

	if pdfCtx.Encrypt != nil {
		return "", fmt.Errorf("%w: document is encrypted", interfaces.ErrMalformed)
	}

	pageCount := pdfCtx.PageCount

	outDir := filepath.Join(e.tempDir, fmt.Sprintf("pages_%s", uuid.New().String()))
	os.MkdirAll(outDir, 0755)
	defer os.RemoveAll(outDir)

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractContentFile(tempFile, outDir, nil, conf); err != nil {
		return "", fmt.Errorf("%w: content extraction failed: %v", interfaces.ErrMalformed, err)
	}

	// Read extracted content streams, keyed by page number from the filename.
	pageTexts := make(map[int]string)
	files, _ := os.ReadDir(outDir)
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(outDir, file.Name()))
		if err != nil {
			continue
		}

		pageNum, ok := pageNumberFromFilename(file.Name())
		if !ok {
			continue
		}
		pageTexts[pageNum] = textFromContentStream(data)
	}

	// Join pages in page order with a single newline.
	var builder strings.Builder
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		text := strings.TrimSpace(pageTexts[pageNum])
		if text == "" {
			continue
		}
		if builder.Len() > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(text)
	}

	result := cleanPDFText(builder.String())
	if strings.TrimSpace(result) == "" {
		return "", fmt.Errorf("%w: PDF contains no extractable text", interfaces.ErrEmpty)
	}

	e.logger.Debug().
		Int("page_count", pageCount).
		Int("text_length", len(result)).
		Msg("Extracted PDF text")

	return result, nil
}

// pageNumberFromFilename parses the page index out of pdfcpu's extracted
// content filenames, which look like <basename>_Content_page_<n>.txt.
func pageNumberFromFilename(name string) (int, bool) {
	const marker = "Content_page_"
	idx := strings.LastIndex(name, marker)
	if idx < 0 {
		return 0, false
	}
	var pageNum int
	if _, err := fmt.Sscanf(name[idx+len(marker):], "%d", &pageNum); err != nil {
		return 0, false
	}
	return pageNum, true
}

var (
	// One pattern for all text-showing operators so matches come out in
	// stream order: (text) Tj / (text) ' or [(te) 3 (xt)] TJ.
	showOpRe = regexp.MustCompile(`\(((?:\\.|[^\\()])*)\)\s*(?:Tj|')|\[((?:[^\[\]\\]|\\.)*)\]\s*TJ`)
	// Individual strings inside a TJ array.
	arrayStringRe = regexp.MustCompile(`\(((?:\\.|[^\\()])*)\)`)
)

// textFromContentStream pulls the text-showing operator arguments out of a
// decoded PDF content stream. pdfcpu decodes the streams but does not
// assemble text, so the literal strings fed to Tj/TJ are recovered here.
// Positioning operators are ignored; a TD/Td/T* line break becomes a space.
func textFromContentStream(content []byte) string {
	stream := string(content)

	var parts []string
	for _, m := range showOpRe.FindAllStringSubmatchIndex(stream, -1) {
		switch {
		case m[2] >= 0: // literal string shown by Tj or '
			parts = append(parts, unescapePDFString(stream[m[2]:m[3]]))
		case m[4] >= 0: // TJ array run
			var run strings.Builder
			for _, sm := range arrayStringRe.FindAllStringSubmatch(stream[m[4]:m[5]], -1) {
				run.WriteString(unescapePDFString(sm[1]))
			}
			if run.Len() > 0 {
				parts = append(parts, run.String())
			}
		}
	}

	return strings.Join(parts, " ")
}

// unescapePDFString resolves the escape sequences of a PDF literal string.
func unescapePDFString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}

		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '(', ')', '\\':
			b.WriteByte(s[i])
		default:
			// Octal escapes and the rest pass through unchanged.
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// cleanPDFText normalizes text pulled from PDF pages: blank lines are
// dropped and hard-wrapped lines are rejoined when a line is short and does
// not end a sentence.
func cleanPDFText(text string) string {
	if text == "" {
		return ""
	}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	var cleaned []string
	i := 0
	for i < len(lines) {
		current := lines[i]

		if i+1 < len(lines) &&
			len(current) < 80 &&
			!strings.HasSuffix(current, ".") &&
			!strings.HasSuffix(current, "!") &&
			!strings.HasSuffix(current, "?") &&
			!strings.HasSuffix(current, ":") &&
			!strings.HasSuffix(current, ";") {
			current += " " + lines[i+1]
			i += 2
		} else {
			i++
		}

		cleaned = append(cleaned, current)
	}

	return strings.Join(cleaned, "\n")
}
