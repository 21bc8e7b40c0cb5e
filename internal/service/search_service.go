package service

import (
	"context"
	"sort"
	"strings"

	"ai-knowledge-be/internal/dto"
	"ai-knowledge-be/internal/pkg/logger"
	"ai-knowledge-be/internal/repository/contract"
	"ai-knowledge-be/internal/repository/specification"
	"ai-knowledge-be/internal/repository/unitofwork"
	"ai-knowledge-be/pkg/apperrors"
	"ai-knowledge-be/pkg/embedding"

	"github.com/google/uuid"
)

const (
	defaultSearchLimit   = 5
	maxSearchLimit       = 50
	defaultMinSimilarity = 0.6
	// chunkFetchFactor oversamples chunk hits so that max-aggregation
	// per document still fills the requested result count.
	chunkFetchFactor = 4
)

type ISearchService interface {
	SimilaritySearch(ctx context.Context, req *dto.SimilaritySearchRequest) ([]*dto.SimilaritySearchResult, error)
}

type searchService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	minSimilarity     float64
	logger            logger.ILogger
}

func NewSearchService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	minSimilarity float64,
	log logger.ILogger,
) ISearchService {
	if minSimilarity <= 0 || minSimilarity > 1 {
		minSimilarity = defaultMinSimilarity
	}
	return &searchService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		minSimilarity:     minSimilarity,
		logger:            log,
	}
}

func (s *searchService) SimilaritySearch(ctx context.Context, req *dto.SimilaritySearchRequest) ([]*dto.SimilaritySearchResult, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidQuery, "query must not be empty")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	minSimilarity := req.MinSimilarity
	if minSimilarity <= 0 {
		minSimilarity = s.minSimilarity
	}
	if minSimilarity > 1 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidQuery, "min_similarity must be at most 1.0")
	}

	queryVector, err := s.embeddingProvider.Generate(ctx, query)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.DocumentChunkRepository().SearchSimilarWithScore(
		ctx, queryVector, limit*chunkFetchFactor, minSimilarity, req.SourceKind,
	)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, "similarity search: %v", err)
	}

	results := aggregateByDocument(scored)
	if len(results) > limit {
		results = results[:limit]
	}

	if err := s.attachDocuments(ctx, uow, results); err != nil {
		return nil, err
	}

	s.logger.Info("SearchService", "Similarity search completed", map[string]interface{}{
		"query_length":   len(query),
		"min_similarity": minSimilarity,
		"results":        len(results),
	})

	return results, nil
}

// aggregateByDocument collapses chunk hits into one result per document
// scored by its best chunk. Ordering is similarity descending with
// older documents first on exact ties.
func aggregateByDocument(scored []*contract.ScoredDocumentChunk) []*dto.SimilaritySearchResult {
	byDocument := map[uuid.UUID]*dto.SimilaritySearchResult{}

	for _, hit := range scored {
		current, ok := byDocument[hit.Chunk.DocumentId]
		if ok && current.Similarity >= hit.Similarity {
			continue
		}
		byDocument[hit.Chunk.DocumentId] = &dto.SimilaritySearchResult{
			DocumentId: hit.Chunk.DocumentId,
			Similarity: hit.Similarity,
			BestChunk: dto.MatchedChunk{
				Text:          hit.Chunk.Text,
				SequenceIndex: hit.Chunk.SequenceIndex,
				Similarity:    hit.Similarity,
			},
			CreatedAt: hit.DocumentCreatedAt,
		}
	}

	results := make([]*dto.SimilaritySearchResult, 0, len(byDocument))
	for _, result := range byDocument {
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return results[i].CreatedAt.Before(results[j].CreatedAt)
	})

	return results
}

// attachDocuments fills in title and source kind from the documents table.
func (s *searchService) attachDocuments(ctx context.Context, uow unitofwork.UnitOfWork, results []*dto.SimilaritySearchResult) error {
	if len(results) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(results))
	for i, result := range results {
		ids[i] = result.DocumentId
	}

	docs, err := uow.DocumentRepository().FindAll(ctx, specification.ByIDs{IDs: ids})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStoreUnavailable, "load result documents: %v", err)
	}

	byId := map[uuid.UUID]int{}
	for i, doc := range docs {
		byId[doc.Id] = i
	}
	for _, result := range results {
		if i, ok := byId[result.DocumentId]; ok {
			result.Title = docs[i].Title
			result.SourceKind = docs[i].SourceKind
		}
	}
	return nil
}
