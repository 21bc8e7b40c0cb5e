package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"ai-knowledge-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type recordingIngestionService struct {
	IIngestionService

	mu        sync.Mutex
	reindexed []uuid.UUID
}

func (s *recordingIngestionService) ReindexSync(ctx context.Context, id uuid.UUID) (*dto.DocumentResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reindexed = append(s.reindexed, id)
	return &dto.DocumentResponse{Id: id}, nil
}

func (s *recordingIngestionService) reindexedIds() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uuid.UUID(nil), s.reindexed...)
}

func TestConsumerProcessesReindexMessages(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	ingestion := &recordingIngestionService{}
	consumer := NewConsumerService(pubSub, "REINDEX_DOCUMENT", ingestion, &fakeLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	assert.NoError(t, consumer.Consume(ctx))

	publisher := NewPublisherService("REINDEX_DOCUMENT", pubSub)

	docId := uuid.New()
	payload, err := json.Marshal(dto.PublishReindexMessage{DocumentId: docId})
	assert.NoError(t, err)
	assert.NoError(t, publisher.Publish(ctx, payload))

	// Malformed payloads are acked and skipped, they must not wedge the loop.
	assert.NoError(t, publisher.Publish(ctx, []byte("not json")))

	otherId := uuid.New()
	payload, err = json.Marshal(dto.PublishReindexMessage{DocumentId: otherId})
	assert.NoError(t, err)
	assert.NoError(t, publisher.Publish(ctx, payload))

	deadline := time.After(2 * time.Second)
	for {
		ids := ingestion.reindexedIds()
		if len(ids) >= 2 {
			assert.Equal(t, []uuid.UUID{docId, otherId}, ids)
			return
		}
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for reindex calls, got %v", ids)
		case <-time.After(10 * time.Millisecond):
		}
	}
}
