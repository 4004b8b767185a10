package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brevio/internal/common"
	"github.com/ternarybob/brevio/internal/interfaces"
)

func testExtractConfig() common.ExtractConfig {
	return common.ExtractConfig{
		RequestTimeout: "5s",
		Format:         "text",
		MaxBodySize:    10 << 20,
		UserAgent:      "brevio-test/1.0",
	}
}

func newTestWebExtractor(config common.ExtractConfig) *WebExtractor {
	logger := arbor.NewLogger()
	return NewWebExtractor(config, NewPDFExtractor(logger), logger)
}

func TestWebExtractor_Extract_HTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body><p>Hello world.</p></body></html>"))
	}))
	defer server.Close()

	extractor := newTestWebExtractor(testExtractConfig())

	text, err := extractor.Extract(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Hello world.", text)
}

func TestWebExtractor_Extract_PrefersArticle(t *testing.T) {
	page := `<html><body>
		<nav>Site navigation</nav>
		<article><p>The actual story.</p></article>
		<footer>Footer junk</footer>
	</body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(page))
	}))
	defer server.Close()

	extractor := newTestWebExtractor(testExtractConfig())

	text, err := extractor.Extract(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, text, "The actual story.")
	assert.NotContains(t, text, "Site navigation")
	assert.NotContains(t, text, "Footer junk")
}

func TestWebExtractor_Extract_StripsScripts(t *testing.T) {
	page := `<html><body><p>Visible.</p><script>var hidden = 1;</script></body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(page))
	}))
	defer server.Close()

	extractor := newTestWebExtractor(testExtractConfig())

	text, err := extractor.Extract(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, text, "Visible.")
	assert.NotContains(t, text, "hidden")
}

func TestWebExtractor_Extract_Markdown(t *testing.T) {
	page := `<html><body><article><h1>Title</h1><p>Body text.</p></article></body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(page))
	}))
	defer server.Close()

	config := testExtractConfig()
	config.Format = "markdown"
	extractor := newTestWebExtractor(config)

	text, err := extractor.Extract(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, text, "# Title")
	assert.Contains(t, text, "Body text.")
}

func TestWebExtractor_Extract_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	extractor := newTestWebExtractor(testExtractConfig())

	_, err := extractor.Extract(context.Background(), server.URL)
	assert.ErrorIs(t, err, interfaces.ErrUnreachable)
}

func TestWebExtractor_Extract_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	extractor := newTestWebExtractor(testExtractConfig())

	_, err := extractor.Extract(context.Background(), server.URL)
	assert.ErrorIs(t, err, interfaces.ErrUnreachable)
}

func TestWebExtractor_Extract_EmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body><script>only();</script></body></html>"))
	}))
	defer server.Close()

	extractor := newTestWebExtractor(testExtractConfig())

	_, err := extractor.Extract(context.Background(), server.URL)
	assert.ErrorIs(t, err, interfaces.ErrEmpty)
}

func TestWebExtractor_Extract_PDFContentType(t *testing.T) {
	data := buildTestPDF(t, "Downloaded document text")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(data)
	}))
	defer server.Close()

	extractor := newTestWebExtractor(testExtractConfig())

	text, err := extractor.Extract(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, text, "Downloaded document text")
}

func TestIsPDFResponse(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		path        string
		want        bool
	}{
		{"pdf content type", "application/pdf", "/doc", true},
		{"pdf with charset", "application/pdf; charset=binary", "/doc", true},
		{"pdf path suffix", "application/octet-stream", "/files/report.PDF", true},
		{"html", "text/html; charset=utf-8", "/page", false},
		{"plain", "text/plain", "/notes.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isPDFResponse(tt.contentType, tt.path))
		})
	}
}

func TestService_Extract_UnknownKind(t *testing.T) {
	service := NewService(testExtractConfig(), arbor.NewLogger())

	_, err := service.Extract(context.Background(), interfaces.DocumentSource{})
	assert.ErrorIs(t, err, interfaces.ErrMalformed)
}
