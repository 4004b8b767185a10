package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"
)

// PageHandler serves the browser UI: a single page that uploads documents
// and renders the summary stream incrementally.
type PageHandler struct {
	logger    arbor.ILogger
	staticDir string
}

func NewPageHandler(logger arbor.ILogger) *PageHandler {
	return &PageHandler{
		logger:    logger,
		staticDir: findStaticDir(),
	}
}

// findStaticDir locates the web assets directory
func findStaticDir() string {
	dirs := []string{
		"./web/static",    // Running from project root
		"../web/static",   // Running from bin/
		"./static",        // Deployed alongside the binary
	}

	for _, dir := range dirs {
		if _, err := os.Stat(dir); err == nil {
			abs, _ := filepath.Abs(dir)
			return abs
		}
	}

	return "."
}

// IndexHandler serves the UI page at /.
func (h *PageHandler) IndexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, filepath.Join(h.staticDir, "index.html"))
}

// StaticFileHandler serves static files (CSS, JS, images)
func (h *PageHandler) StaticFileHandler(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path[len("/static/"):]
	fullPath := filepath.Join(h.staticDir, path)

	// Security check - prevent directory traversal
	if !filepath.HasPrefix(fullPath, h.staticDir) {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, fullPath)
}
