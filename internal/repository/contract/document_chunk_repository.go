package contract

import (
	"context"
	"time"

	"ai-knowledge-be/internal/entity"
	"ai-knowledge-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredDocumentChunk wraps DocumentChunk with its similarity score
// and the owning document's creation time for tie-breaking.
type ScoredDocumentChunk struct {
	Chunk             *entity.DocumentChunk
	Similarity        float64 // 0.0 to 1.0 (1.0 = identical)
	DocumentCreatedAt time.Time
}

type DocumentChunkRepository interface {
	Create(ctx context.Context, chunk *entity.DocumentChunk) error
	CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error // Hard delete, chunks are fully replaced on reingest
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DocumentChunk, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore returns chunks with their similarity scores, filtered by
	// threshold and optionally by the owning document's source kind.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64, sourceKind string) ([]*ScoredDocumentChunk, error)
}
