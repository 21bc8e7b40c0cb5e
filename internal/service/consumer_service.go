// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"

	"ai-knowledge-be/internal/dto"
	"ai-knowledge-be/internal/pkg/logger"
	"ai-knowledge-be/pkg/apperrors"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub           *gochannel.GoChannel
	topicName        string
	ingestionService IIngestionService
	logger           logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	ingestionService IIngestionService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:           pubSub,
		topicName:        topicName,
		ingestionService: ingestionService,
		logger:           log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishReindexMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.logger.Info("ConsumerService", "Reindexing document", map[string]interface{}{
		"document_id": payload.DocumentId,
	})

	res, err := cs.ingestionService.ReindexSync(ctx, payload.DocumentId)
	if err != nil {
		if errors.Is(err, apperrors.ErrDocumentNotFound) {
			// Document deleted since the message was queued. Ack.
			msg.Ack()
			return
		}
		cs.logger.Error("ConsumerService", "Reindex failed", map[string]interface{}{
			"document_id": payload.DocumentId,
			"error":       err.Error(),
		})
		msg.Nack() // Nack for retriable errors
		return
	}

	cs.logger.Info("ConsumerService", "Document reindexed", map[string]interface{}{
		"document_id": payload.DocumentId,
		"chunks":      res.ChunkCount,
	})
	msg.Ack()
}
