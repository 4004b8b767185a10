package interfaces

// SourceKind identifies which variant of a DocumentSource is populated.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindURL  SourceKind = "url"
)

// DocumentSource is the input to the summary pipeline: either the raw bytes
// of an uploaded PDF or the address of a web article. Exactly one variant is
// populated; construct with FileSource or URLSource. Sources are immutable
// and discarded after extraction.
type DocumentSource struct {
	kind    SourceKind
	name    string
	content []byte
	address string
}

// FileSource creates a DocumentSource from uploaded file bytes.
// The name is display metadata only (original filename).
func FileSource(name string, content []byte) DocumentSource {
	return DocumentSource{
		kind:    SourceKindFile,
		name:    name,
		content: content,
	}
}

// URLSource creates a DocumentSource referencing a web article by address.
func URLSource(address string) DocumentSource {
	return DocumentSource{
		kind:    SourceKindURL,
		address: address,
	}
}

// Kind reports which variant is populated.
func (s DocumentSource) Kind() SourceKind {
	return s.kind
}

// Name returns the original filename for file sources, or the address for
// URL sources. Used for logging and export titles.
func (s DocumentSource) Name() string {
	if s.kind == SourceKindURL {
		return s.address
	}
	return s.name
}

// Content returns the raw bytes of a file source (nil for URL sources).
func (s DocumentSource) Content() []byte {
	return s.content
}

// Address returns the address of a URL source (empty for file sources).
func (s DocumentSource) Address() string {
	return s.address
}
