package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-knowledge-be/internal/dto"
	"ai-knowledge-be/internal/entity"
	"ai-knowledge-be/internal/pkg/logger"
	"ai-knowledge-be/internal/repository/specification"
	"ai-knowledge-be/internal/repository/unitofwork"
	"ai-knowledge-be/pkg/apperrors"
	"ai-knowledge-be/pkg/chunker"
	"ai-knowledge-be/pkg/embedding"
	"ai-knowledge-be/pkg/events"
	"ai-knowledge-be/pkg/extractor"
	"ai-knowledge-be/pkg/fetcher"
	"ai-knowledge-be/pkg/ingest"
	pkgNats "ai-knowledge-be/pkg/nats"

	"github.com/google/uuid"
)

// ProgressNotifier pushes pipeline stage updates to connected clients.
type ProgressNotifier interface {
	NotifyProgress(msg dto.IngestProgressMessage)
}

type IIngestionService interface {
	IngestFile(ctx context.Context, req *dto.IngestFileRequest) (*dto.DocumentResponse, error)
	IngestURL(ctx context.Context, req *dto.IngestURLRequest) (*dto.DocumentResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.DocumentResponse, error)
	List(ctx context.Context, req *dto.ListDocumentsRequest) (*dto.ListDocumentsResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Reindex(ctx context.Context, id uuid.UUID) error
	ReindexSync(ctx context.Context, id uuid.UUID) (*dto.DocumentResponse, error)
}

type ingestionService struct {
	uowFactory        unitofwork.RepositoryFactory
	registry          *extractor.Registry
	fetcher           *fetcher.Fetcher
	textChunker       *chunker.Chunker
	embeddingProvider embedding.EmbeddingProvider
	publisherService  IPublisherService
	eventPublisher    *pkgNats.Publisher
	progressNotifier  ProgressNotifier
	logger            logger.ILogger
}

func NewIngestionService(
	uowFactory unitofwork.RepositoryFactory,
	registry *extractor.Registry,
	pageFetcher *fetcher.Fetcher,
	textChunker *chunker.Chunker,
	embeddingProvider embedding.EmbeddingProvider,
	publisherService IPublisherService,
	eventPublisher *pkgNats.Publisher,
	progressNotifier ProgressNotifier,
	log logger.ILogger,
) IIngestionService {
	return &ingestionService{
		uowFactory:        uowFactory,
		registry:          registry,
		fetcher:           pageFetcher,
		textChunker:       textChunker,
		embeddingProvider: embeddingProvider,
		publisherService:  publisherService,
		eventPublisher:    eventPublisher,
		progressNotifier:  progressNotifier,
		logger:            log,
	}
}

func (s *ingestionService) IngestFile(ctx context.Context, req *dto.IngestFileRequest) (*dto.DocumentResponse, error) {
	kind, err := ingest.Resolve(ingest.Source{
		Filename: req.Filename,
		Content:  req.Content,
		MimeType: req.MimeType,
	})
	if err != nil {
		return nil, err
	}

	contentHash := ingest.ContentHash(req.Content)
	docId := ingest.DocumentIDForContent(kind, contentHash, req.Metadata)

	s.notify(docId, "extracting", req.Filename)

	ex, err := s.registry.ForKind(kind)
	if err != nil {
		return nil, err
	}
	result, err := ex.Extract(ctx, extractor.Input{
		Content:  req.Content,
		Filename: req.Filename,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrExtractionFailed, "extract %s: %v", req.Filename, err)
	}

	metadata := mergeCallerMetadata(result.Metadata, req.Metadata)

	return s.store(ctx, &entity.Document{
		Id:           docId,
		SourceKind:   string(kind),
		Title:        result.Title,
		ContentHash:  contentHash,
		Structure:    result.Structure,
		Metadata:     metadata,
		IsPartial:    result.IsPartial,
		ErrorMessage: result.ErrorMessage,
	}, result.Text, "DOCUMENT_INGESTED")
}

func (s *ingestionService) IngestURL(ctx context.Context, req *dto.IngestURLRequest) (*dto.DocumentResponse, error) {
	kind := ingest.SourceKind(req.Kind)
	if kind == "" {
		resolved, err := ingest.Resolve(ingest.Source{SourceURL: req.URL})
		if err != nil {
			return nil, err
		}
		kind = resolved
	}

	docId := ingest.DocumentIDForURL(req.URL)
	s.notify(docId, "fetching", req.URL)

	var auth *fetcher.BasicAuth
	if req.Username != "" {
		auth = &fetcher.BasicAuth{Username: req.Username, Password: req.Password}
	}

	page, err := s.fetcher.Fetch(ctx, req.URL, auth)
	if err != nil {
		return nil, err
	}

	// A URL can still point at a binary document, e.g. a hosted PDF.
	if kind == ingest.KindURL {
		if refined, rerr := ingest.Resolve(ingest.Source{
			Content:  page.Body,
			MimeType: page.ContentType,
		}); rerr == nil && refined != ingest.KindURL {
			kind = refined
		}
	}

	s.notify(docId, "extracting", string(kind))

	ex, err := s.registry.ForKind(kind)
	if err != nil {
		return nil, err
	}
	result, err := ex.Extract(ctx, extractor.Input{
		Content:   page.Body,
		SourceURL: req.URL,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrExtractionFailed, "extract %s: %v", req.URL, err)
	}

	return s.store(ctx, &entity.Document{
		Id:           docId,
		SourceKind:   string(kind),
		Title:        result.Title,
		SourceURL:    ingest.NormalizeURL(req.URL),
		ContentHash:  ingest.ContentHash(page.Body),
		Structure:    result.Structure,
		Metadata:     result.Metadata,
		IsPartial:    result.IsPartial,
		ErrorMessage: result.ErrorMessage,
	}, result.Text, "DOCUMENT_INGESTED")
}

// store runs the shared tail of the pipeline: normalize, chunk, embed,
// then atomically replace the document and its chunks. Reingesting the
// same id never leaves a mix of old and new chunks behind.
func (s *ingestionService) store(ctx context.Context, doc *entity.Document, rawText string, eventType string) (*dto.DocumentResponse, error) {
	var newChunks []*entity.DocumentChunk

	// Best-effort text from a partial extraction is kept too, it only
	// stays out of the searchable chunk set.
	doc.RawText = ingest.NormalizeText(rawText)

	if !doc.IsPartial {
		s.notify(doc.Id, "chunking", "")
		pieces := s.textChunker.Split(doc.RawText)

		texts := make([]string, len(pieces))
		for i, piece := range pieces {
			texts[i] = piece.Text
		}

		s.notify(doc.Id, "embedding", fmt.Sprintf("%d chunks", len(pieces)))
		vectors, err := s.embeddingProvider.BatchGenerate(ctx, texts)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		for i, piece := range pieces {
			newChunks = append(newChunks, &entity.DocumentChunk{
				Id:             uuid.New(),
				DocumentId:     doc.Id,
				Text:           piece.Text,
				EmbeddingValue: vectors[i],
				SequenceIndex:  piece.Index,
				CreatedAt:      now,
			})
		}
	}

	doc.ChunkCount = len(newChunks)

	s.notify(doc.Id, "storing", "")

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, "begin transaction: %v", err)
	}
	defer uow.Rollback()

	if err := uow.DocumentRepository().Upsert(ctx, doc); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, "upsert document: %v", err)
	}
	if err := uow.DocumentChunkRepository().DeleteByDocumentId(ctx, doc.Id); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, "delete old chunks: %v", err)
	}
	if len(newChunks) > 0 {
		if err := uow.DocumentChunkRepository().CreateBulk(ctx, newChunks); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, "create chunks: %v", err)
		}
	}
	if err := uow.Commit(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, "commit transaction: %v", err)
	}

	stage := "completed"
	if doc.IsPartial {
		stage = "partial"
	}
	s.notify(doc.Id, stage, doc.ErrorMessage)

	s.publishEvent(ctx, eventType, doc)

	s.logger.Info("IngestionService", "Document stored", map[string]interface{}{
		"document_id": doc.Id,
		"source_kind": doc.SourceKind,
		"chunks":      len(newChunks),
		"is_partial":  doc.IsPartial,
	})

	return toDocumentResponse(doc), nil
}

func (s *ingestionService) Show(ctx context.Context, id uuid.UUID) (*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, "find document: %v", err)
	}
	if doc == nil {
		return nil, apperrors.Wrap(apperrors.ErrDocumentNotFound, "document %s", id)
	}
	return toDocumentResponse(doc), nil
}

func (s *ingestionService) List(ctx context.Context, req *dto.ListDocumentsRequest) (*dto.ListDocumentsResponse, error) {
	limit := req.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	specs := []specification.Specification{}
	if req.SourceKind != "" {
		specs = append(specs, specification.BySourceKind{SourceKind: req.SourceKind})
	}
	if req.Title != "" {
		specs = append(specs, specification.TitleContains{Title: req.Title})
	}
	if req.MetadataKey != "" && req.MetadataValue != "" {
		specs = append(specs, specification.MetadataField{Key: req.MetadataKey, Value: req.MetadataValue})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	total, err := uow.DocumentRepository().Count(ctx, specs...)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, "count documents: %v", err)
	}

	specs = append(specs,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: req.Offset},
	)
	docs, err := uow.DocumentRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, "list documents: %v", err)
	}

	responses := make([]*dto.DocumentResponse, len(docs))
	for i, doc := range docs {
		responses[i] = toDocumentResponse(doc)
	}

	return &dto.ListDocumentsResponse{
		Documents: responses,
		Total:     total,
	}, nil
}

func (s *ingestionService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStoreUnavailable, "find document: %v", err)
	}
	if doc == nil {
		return apperrors.Wrap(apperrors.ErrDocumentNotFound, "document %s", id)
	}

	if err := uow.Begin(ctx); err != nil {
		return apperrors.Wrap(apperrors.ErrStoreUnavailable, "begin transaction: %v", err)
	}
	defer uow.Rollback()

	if err := uow.DocumentChunkRepository().DeleteByDocumentId(ctx, id); err != nil {
		return apperrors.Wrap(apperrors.ErrStoreUnavailable, "delete chunks: %v", err)
	}
	if err := uow.DocumentRepository().Delete(ctx, id); err != nil {
		return apperrors.Wrap(apperrors.ErrStoreUnavailable, "delete document: %v", err)
	}
	if err := uow.Commit(); err != nil {
		return apperrors.Wrap(apperrors.ErrStoreUnavailable, "commit transaction: %v", err)
	}

	s.publishEvent(ctx, "DOCUMENT_DELETED", doc)
	return nil
}

// Reindex queues a document for async re-embedding. The stored raw text
// is re-chunked by the consumer, useful after a chunker or model change.
func (s *ingestionService) Reindex(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStoreUnavailable, "find document: %v", err)
	}
	if doc == nil {
		return apperrors.Wrap(apperrors.ErrDocumentNotFound, "document %s", id)
	}

	msgJson, err := json.Marshal(dto.PublishReindexMessage{DocumentId: id})
	if err != nil {
		return err
	}
	return s.publisherService.Publish(ctx, msgJson)
}

func (s *ingestionService) ReindexSync(ctx context.Context, id uuid.UUID) (*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, "find document: %v", err)
	}
	if doc == nil {
		return nil, apperrors.Wrap(apperrors.ErrDocumentNotFound, "document %s", id)
	}
	if doc.IsPartial {
		return toDocumentResponse(doc), nil
	}

	return s.store(ctx, doc, doc.RawText, "DOCUMENT_REINDEXED")
}

func (s *ingestionService) notify(docId uuid.UUID, stage, detail string) {
	if s.progressNotifier == nil {
		return
	}
	s.progressNotifier.NotifyProgress(dto.IngestProgressMessage{
		DocumentId: docId,
		Stage:      stage,
		Detail:     detail,
	})
}

func (s *ingestionService) publishEvent(ctx context.Context, eventType string, doc *entity.Document) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"document_id": doc.Id,
			"title":       doc.Title,
			"source_kind": doc.SourceKind,
			"is_partial":  doc.IsPartial,
		},
		OccurredAt: time.Now(),
	}
	// Events are auxiliary, a publish failure must not fail the request.
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("IngestionService", "Failed to publish event", map[string]interface{}{
			"event_type": eventType,
			"error":      err.Error(),
		})
	}
}

// mergeCallerMetadata overlays extractor-derived metadata on top of the
// caller's. On a key collision the extracted value wins; the document id
// is derived from the caller map alone, before merging, so identity
// stays caller-owned.
func mergeCallerMetadata(extracted map[string]interface{}, caller map[string]string) map[string]interface{} {
	merged := map[string]interface{}{}
	for k, v := range caller {
		merged[k] = v
	}
	for k, v := range extracted {
		merged[k] = v
	}
	return merged
}

func toDocumentResponse(doc *entity.Document) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		Id:           doc.Id,
		SourceKind:   doc.SourceKind,
		Title:        doc.Title,
		SourceURL:    doc.SourceURL,
		ChunkCount:   doc.ChunkCount,
		IsPartial:    doc.IsPartial,
		ErrorMessage: doc.ErrorMessage,
		Structure:    doc.Structure,
		Metadata:     doc.Metadata,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
}
