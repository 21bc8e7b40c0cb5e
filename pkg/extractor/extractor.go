package extractor

import (
	"context"

	"ai-knowledge-be/pkg/apperrors"
	"ai-knowledge-be/pkg/ingest"
)

// Result is the outcome of extracting a single source. A partial result
// means extraction hit a recoverable failure: the document is still
// stored, flagged IsPartial with the failure message, but produces no
// searchable chunks.
type Result struct {
	Title        string
	Text         string
	Structure    map[string]interface{}
	Metadata     map[string]interface{}
	IsPartial    bool
	ErrorMessage string
}

// Input is the raw material an extractor works on. Content holds file
// bytes or a fetched page body; SourceURL is set for URL-like kinds.
type Input struct {
	Content   []byte
	Filename  string
	SourceURL string
}

// Extractor turns raw source bytes into clean text plus structure counts.
type Extractor interface {
	Extract(ctx context.Context, in Input) (*Result, error)
}

// Registry maps a resolved source kind to its extractor.
type Registry struct {
	extractors map[ingest.SourceKind]Extractor
}

// NewRegistry wires the default extractor per kind.
func NewRegistry() *Registry {
	return &Registry{
		extractors: map[ingest.SourceKind]Extractor{
			ingest.KindPDF:        NewPDFExtractor(),
			ingest.KindDocx:       NewDocxExtractor(),
			ingest.KindTxt:        NewTxtExtractor(),
			ingest.KindURL:        NewHTMLExtractor(),
			ingest.KindNotion:     NewNotionExtractor(),
			ingest.KindConfluence: NewConfluenceExtractor(),
		},
	}
}

// ForKind returns the extractor registered for a kind, or an
// UnknownContentType error when no extractor handles it.
func (r *Registry) ForKind(kind ingest.SourceKind) (Extractor, error) {
	ex, ok := r.extractors[kind]
	if !ok {
		return nil, apperrors.Wrap(apperrors.ErrUnknownContentType, "no extractor for kind %q", kind)
	}
	return ex, nil
}

// partialResult builds the stored-but-unsearchable outcome for a source
// whose extraction failed in a recoverable way.
func partialResult(title, message string) *Result {
	return &Result{
		Title:        title,
		IsPartial:    true,
		ErrorMessage: message,
		Structure:    map[string]interface{}{},
		Metadata:     map[string]interface{}{},
	}
}
