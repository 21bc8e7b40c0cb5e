package service

import (
	"context"

	"ai-knowledge-be/internal/pkg/logger"
	"ai-knowledge-be/pkg/events"
	pkgNats "ai-knowledge-be/pkg/nats"
)

// EventBroadcaster fans a lifecycle event out to connected clients.
type EventBroadcaster interface {
	BroadcastEvent(eventType string, data map[string]interface{})
}

type INotifierService interface {
	Start() error
}

// notifierService bridges the NATS event bus to the websocket hub so
// clients learn about documents ingested by other instances.
type notifierService struct {
	subscriber  *pkgNats.Subscriber
	broadcaster EventBroadcaster
	logger      logger.ILogger
}

func NewNotifierService(
	subscriber *pkgNats.Subscriber,
	broadcaster EventBroadcaster,
	log logger.ILogger,
) INotifierService {
	return &notifierService{
		subscriber:  subscriber,
		broadcaster: broadcaster,
		logger:      log,
	}
}

func (s *notifierService) Start() error {
	if s.subscriber == nil {
		s.logger.Warn("NotifierService", "NATS subscriber not configured, document events disabled", nil)
		return nil
	}

	return s.subscriber.Subscribe("events.>", "document-notifier", func(ctx context.Context, event events.Event) error {
		if s.broadcaster != nil {
			s.broadcaster.BroadcastEvent(event.EventType(), event.Payload())
		}
		return nil
	})
}
