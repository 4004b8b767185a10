package extract

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brevio/internal/common"
	"github.com/ternarybob/brevio/internal/interfaces"
)

// Service implements interfaces.TextExtractor by dispatching on the
// DocumentSource variant: file bytes go straight to the PDF extractor, URLs
// through the web extractor (which itself routes PDF links to the PDF
// path).
type Service struct {
	pdf    *PDFExtractor
	web    *WebExtractor
	logger arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.TextExtractor = (*Service)(nil)

// NewService creates the text extraction service.
func NewService(config common.ExtractConfig, logger arbor.ILogger) *Service {
	pdf := NewPDFExtractor(logger)

	return &Service{
		pdf:    pdf,
		web:    NewWebExtractor(config, pdf, logger),
		logger: logger,
	}
}

// Extract converts the source into plain text.
func (s *Service) Extract(ctx context.Context, source interfaces.DocumentSource) (string, error) {
	switch source.Kind() {
	case interfaces.SourceKindFile:
		s.logger.Debug().
			Str("name", source.Name()).
			Int("bytes", len(source.Content())).
			Msg("Extracting text from uploaded PDF")
		return s.pdf.ExtractBytes(source.Content())

	case interfaces.SourceKindURL:
		s.logger.Debug().
			Str("url", source.Address()).
			Msg("Extracting text from URL")
		return s.web.Extract(ctx, source.Address())

	default:
		return "", fmt.Errorf("%w: unknown source kind %q", interfaces.ErrMalformed, source.Kind())
	}
}
