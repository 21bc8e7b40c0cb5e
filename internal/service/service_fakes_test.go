package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-knowledge-be/internal/dto"
	"ai-knowledge-be/internal/entity"
	"ai-knowledge-be/internal/repository/contract"
	"ai-knowledge-be/internal/repository/specification"
	"ai-knowledge-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// In-memory doubles for the unit of work stack. They interpret the
// concrete specification types the services actually use.

type fakeLogger struct{}

func (l *fakeLogger) Debug(module, message string, details map[string]interface{}) {}
func (l *fakeLogger) Info(module, message string, details map[string]interface{})  {}
func (l *fakeLogger) Warn(module, message string, details map[string]interface{})  {}
func (l *fakeLogger) Error(module, message string, details map[string]interface{}) {}
func (l *fakeLogger) Sync() error { return nil }

type fakeStore struct {
	documents map[uuid.UUID]*entity.Document
	chunks    []*entity.DocumentChunk

	// scored is returned verbatim by SearchSimilarWithScore.
	scored []*contract.ScoredDocumentChunk

	commits   int
	rollbacks int
	failErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{documents: map[uuid.UUID]*entity.Document{}}
}

type fakeUowFactory struct {
	store *fakeStore
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{store: f.store}
}

type fakeUow struct {
	store *fakeStore
	inTx  bool
}

func (u *fakeUow) Begin(ctx context.Context) error {
	if u.inTx {
		return fmt.Errorf("transaction already started")
	}
	u.inTx = true
	return nil
}

func (u *fakeUow) Commit() error {
	if !u.inTx {
		return fmt.Errorf("no transaction to commit")
	}
	u.inTx = false
	u.store.commits++
	return nil
}

func (u *fakeUow) Rollback() error {
	if !u.inTx {
		return fmt.Errorf("no transaction to rollback")
	}
	u.inTx = false
	u.store.rollbacks++
	return nil
}

func (u *fakeUow) DocumentRepository() contract.DocumentRepository {
	return &fakeDocumentRepo{store: u.store}
}

func (u *fakeUow) DocumentChunkRepository() contract.DocumentChunkRepository {
	return &fakeChunkRepo{store: u.store}
}

type fakeDocumentRepo struct {
	store *fakeStore
}

func (r *fakeDocumentRepo) Create(ctx context.Context, document *entity.Document) error {
	if r.store.failErr != nil {
		return r.store.failErr
	}
	document.CreatedAt = time.Now()
	r.store.documents[document.Id] = document
	return nil
}

func (r *fakeDocumentRepo) Update(ctx context.Context, document *entity.Document) error {
	if r.store.failErr != nil {
		return r.store.failErr
	}
	r.store.documents[document.Id] = document
	return nil
}

func (r *fakeDocumentRepo) Upsert(ctx context.Context, document *entity.Document) error {
	if r.store.failErr != nil {
		return r.store.failErr
	}
	if existing, ok := r.store.documents[document.Id]; ok {
		document.CreatedAt = existing.CreatedAt
	} else if document.CreatedAt.IsZero() {
		document.CreatedAt = time.Now()
	}
	r.store.documents[document.Id] = document
	return nil
}

func (r *fakeDocumentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.store.documents, id)
	return nil
}

func (r *fakeDocumentRepo) DeleteUnscoped(ctx context.Context, id uuid.UUID) error {
	delete(r.store.documents, id)
	return nil
}

func (r *fakeDocumentRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	if r.store.failErr != nil {
		return nil, r.store.failErr
	}
	for _, spec := range specs {
		if byId, ok := spec.(specification.ByID); ok {
			if doc, found := r.store.documents[byId.ID]; found {
				return doc, nil
			}
		}
	}
	return nil, nil
}

func (r *fakeDocumentRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	if r.store.failErr != nil {
		return nil, r.store.failErr
	}
	var results []*entity.Document
	for _, doc := range r.store.documents {
		if matchesDocumentSpecs(doc, specs) {
			results = append(results, doc)
		}
	}
	return results, nil
}

func (r *fakeDocumentRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	docs, err := r.FindAll(ctx, specs...)
	return int64(len(docs)), err
}

func matchesDocumentSpecs(doc *entity.Document, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if doc.Id != s.ID {
				return false
			}
		case specification.ByIDs:
			found := false
			for _, id := range s.IDs {
				if doc.Id == id {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		case specification.BySourceKind:
			if doc.SourceKind != s.SourceKind {
				return false
			}
		case specification.TitleContains:
			if !strings.Contains(strings.ToLower(doc.Title), strings.ToLower(s.Title)) {
				return false
			}
		case specification.MetadataField:
			if fmt.Sprint(doc.Metadata[s.Key]) != s.Value {
				return false
			}
		}
	}
	return true
}

type fakeChunkRepo struct {
	store *fakeStore
}

func (r *fakeChunkRepo) Create(ctx context.Context, chunk *entity.DocumentChunk) error {
	r.store.chunks = append(r.store.chunks, chunk)
	return nil
}

func (r *fakeChunkRepo) CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error {
	if r.store.failErr != nil {
		return r.store.failErr
	}
	r.store.chunks = append(r.store.chunks, chunks...)
	return nil
}

func (r *fakeChunkRepo) Delete(ctx context.Context, id uuid.UUID) error {
	kept := r.store.chunks[:0]
	for _, chunk := range r.store.chunks {
		if chunk.Id != id {
			kept = append(kept, chunk)
		}
	}
	r.store.chunks = kept
	return nil
}

func (r *fakeChunkRepo) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	if r.store.failErr != nil {
		return r.store.failErr
	}
	kept := r.store.chunks[:0]
	for _, chunk := range r.store.chunks {
		if chunk.DocumentId != documentId {
			kept = append(kept, chunk)
		}
	}
	r.store.chunks = kept
	return nil
}

func (r *fakeChunkRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DocumentChunk, error) {
	if len(r.store.chunks) == 0 {
		return nil, nil
	}
	return r.store.chunks[0], nil
}

func (r *fakeChunkRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentChunk, error) {
	return r.store.chunks, nil
}

func (r *fakeChunkRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.store.chunks)), nil
}

func (r *fakeChunkRepo) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64, sourceKind string) ([]*contract.ScoredDocumentChunk, error) {
	if r.store.failErr != nil {
		return nil, r.store.failErr
	}
	var results []*contract.ScoredDocumentChunk
	for _, hit := range r.store.scored {
		if hit.Similarity < threshold {
			continue
		}
		if sourceKind != "" {
			doc, ok := r.store.documents[hit.Chunk.DocumentId]
			if !ok || doc.SourceKind != sourceKind {
				continue
			}
		}
		results = append(results, hit)
		if len(results) == limit {
			break
		}
	}
	return results, nil
}

type fakeEmbeddingProvider struct {
	generated int
	failErr   error
}

func (p *fakeEmbeddingProvider) Generate(ctx context.Context, text string) ([]float32, error) {
	if p.failErr != nil {
		return nil, p.failErr
	}
	p.generated++
	return []float32{1, 0, 0}, nil
}

func (p *fakeEmbeddingProvider) BatchGenerate(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := p.Generate(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func (p *fakeEmbeddingProvider) Dimension() int { return 3 }

type fakePublisher struct {
	payloads [][]byte
}

func (p *fakePublisher) Publish(ctx context.Context, payload []byte) error {
	p.payloads = append(p.payloads, payload)
	return nil
}

type fakeProgressNotifier struct {
	stages []string
}

func (n *fakeProgressNotifier) NotifyProgress(msg dto.IngestProgressMessage) {
	n.stages = append(n.stages, msg.Stage)
}
