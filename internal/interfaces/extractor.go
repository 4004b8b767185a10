package interfaces

import "context"

// TextExtractor converts a document source into a single plain-text string.
// This interface abstracts the extraction implementation, allowing different
// backends (pdfcpu, a remote extraction service, a headless browser) to be
// used interchangeably.
type TextExtractor interface {
	// Extract returns the full textual content of the source.
	//
	// For file sources the bytes are parsed as a PDF and the text of every
	// page is concatenated in page order. Fails with ErrMalformed if the
	// bytes do not parse as a valid PDF.
	//
	// For URL sources a network fetch is issued (following redirects, with
	// a configured timeout) and markup is stripped. Fails with
	// ErrUnreachable on network failure or non-success status, and
	// ErrEmpty if the stripped text is blank.
	Extract(ctx context.Context, source DocumentSource) (string, error)
}
