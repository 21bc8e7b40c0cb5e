package dto

import (
	"time"

	"github.com/google/uuid"
)

type SimilaritySearchRequest struct {
	Query         string  `query:"query" validate:"required"`
	Limit         int     `query:"limit"`
	MinSimilarity float64 `query:"min_similarity"`
	// SourceKind narrows the search to one kind, empty searches all.
	SourceKind string `query:"kind"`
}

type MatchedChunk struct {
	Text          string  `json:"text"`
	SequenceIndex int     `json:"sequence_index"`
	Similarity    float64 `json:"similarity"`
}

type SimilaritySearchResult struct {
	DocumentId uuid.UUID    `json:"document_id"`
	Title      string       `json:"title"`
	SourceKind string       `json:"source_kind"`
	Similarity float64      `json:"similarity"`
	BestChunk  MatchedChunk `json:"best_chunk"`
	CreatedAt  time.Time    `json:"created_at"`
}
