// -----------------------------------------------------------------------
// Web Article Extractor - Fetch a URL and strip markup to readable text
// -----------------------------------------------------------------------

package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brevio/internal/common"
	"github.com/ternarybob/brevio/internal/interfaces"
)

// Content types that mark a URL as a PDF document rather than an HTML page.
var pdfContentTypes = []string{
	"application/pdf",
	"application/x-pdf",
	"application/acrobat",
	"text/pdf",
	"text/x-pdf",
}

// WebExtractor fetches a URL and reduces it to readable text. PDF links are
// detected by Content-Type (or a .pdf path) and routed through the PDF
// extractor instead of the HTML path.
type WebExtractor struct {
	config common.ExtractConfig
	client *http.Client
	pdf    *PDFExtractor
	logger arbor.ILogger
}

// NewWebExtractor creates a web extractor. The HTTP client follows
// redirects (Go's default) and enforces the configured request timeout.
func NewWebExtractor(config common.ExtractConfig, pdf *PDFExtractor, logger arbor.ILogger) *WebExtractor {
	return &WebExtractor{
		config: config,
		client: &http.Client{Timeout: config.ParsedRequestTimeout()},
		pdf:    pdf,
		logger: logger,
	}
}

// Extract fetches the address and returns its readable text. Returns
// ErrUnreachable on network failure or a non-2xx status, and ErrEmpty if
// nothing readable remains after stripping.
func (e *WebExtractor) Extract(ctx context.Context, address string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, address, nil)
	if err != nil {
		return "", fmt.Errorf("%w: invalid URL %q: %v", interfaces.ErrUnreachable, address, err)
	}
	req.Header.Set("User-Agent", e.config.UserAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: fetch %s: %v", interfaces.ErrUnreachable, address, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s returned status %d", interfaces.ErrUnreachable, address, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.config.MaxBodySize))
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", interfaces.ErrUnreachable, address, err)
	}

	if isPDFResponse(resp.Header.Get("Content-Type"), req.URL.Path) {
		e.logger.Debug().Str("url", address).Msg("URL resolves to a PDF document")
		return e.pdf.ExtractBytes(body)
	}

	return e.extractHTML(body)
}

// extractHTML strips markup from an HTML document and returns its readable
// text. Script, style, and chrome elements are removed; the main article
// container is preferred over the full body when one can be found.
func (e *WebExtractor) extractHTML(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: parse HTML: %v", interfaces.ErrEmpty, err)
	}

	doc.Find("script, style, nav, header, footer, aside, noscript").Remove()

	article := findArticleNode(doc)

	var text string
	if e.config.Format == "markdown" {
		html, err := article.Html()
		if err != nil {
			return "", fmt.Errorf("%w: render article node: %v", interfaces.ErrEmpty, err)
		}
		converter := md.NewConverter("", true, nil)
		text, err = converter.ConvertString(html)
		if err != nil {
			return "", fmt.Errorf("%w: markdown conversion: %v", interfaces.ErrEmpty, err)
		}
		text = strings.TrimSpace(text)
	} else {
		text = collapseWhitespace(article.Text())
	}

	if text == "" {
		return "", fmt.Errorf("%w: page has no readable text", interfaces.ErrEmpty)
	}

	return text, nil
}

// findArticleNode picks the most article-like container: <article>, then
// <main>, then a div with a content-ish class, then the whole body.
func findArticleNode(doc *goquery.Document) *goquery.Selection {
	if sel := doc.Find("article").First(); sel.Length() > 0 {
		return sel
	}
	if sel := doc.Find("main").First(); sel.Length() > 0 {
		return sel
	}

	for _, class := range []string{"content", "article", "post"} {
		if sel := doc.Find(fmt.Sprintf("div[class*=%q]", class)).First(); sel.Length() > 0 {
			return sel
		}
	}

	return doc.Find("body")
}

// isPDFResponse reports whether the fetched resource is a PDF, by
// Content-Type header or URL path suffix.
func isPDFResponse(contentType, path string) bool {
	contentType = strings.ToLower(contentType)
	for _, t := range pdfContentTypes {
		if strings.Contains(contentType, t) {
			return true
		}
	}
	return strings.HasSuffix(strings.ToLower(path), ".pdf")
}

var whitespaceRe = regexp.MustCompile(`[ \t\r\f\v]+`)
var blankLinesRe = regexp.MustCompile(`\n\s*\n+`)

// collapseWhitespace squashes runs of spaces and blank lines while keeping
// paragraph breaks intact.
func collapseWhitespace(text string) string {
	text = whitespaceRe.ReplaceAllString(text, " ")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		lines = append(lines, strings.TrimSpace(line))
	}
	text = strings.Join(lines, "\n")

	text = blankLinesRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
