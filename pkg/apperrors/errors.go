package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the ingestion/search pipeline. Services wrap these with
// context via fmt.Errorf("...: %w", ...) so callers can branch with errors.Is.
var (
	// ErrUnknownContentType - resolver could not classify the input. Fatal to that ingestion.
	ErrUnknownContentType = errors.New("unknown content type")

	// ErrExtractionFailed - extractor could not parse the source. Degrades to a
	// partial document instead of aborting the ingestion.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrFetchFailed - network fetch for a URL-like source failed (non-200 or
	// transport error). Fatal to that ingestion, retryable by the caller.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrEmbedding - embedding model inference failed. Fatal to the ingestion or search call.
	ErrEmbedding = errors.New("embedding generation failed")

	// ErrStoreUnavailable - persistence layer unreachable.
	ErrStoreUnavailable = errors.New("document store unavailable")

	// ErrInvalidQuery - malformed search or list parameters (negative limit, empty query).
	ErrInvalidQuery = errors.New("invalid query")

	// ErrDocumentNotFound - point lookup missed.
	ErrDocumentNotFound = errors.New("document not found")
)

// Wrap attaches a message to a sentinel while keeping it matchable with errors.Is.
func Wrap(sentinel error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), sentinel)
}
