package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"ai-knowledge-be/internal/dto"
	"ai-knowledge-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Hub struct {
	// Registered clients map: subscribed DocumentID -> clients.
	// uuid.Nil subscribes to every document.
	clients map[uuid.UUID][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance communication
	rdb *redis.Client

	// Dedicated Logger
	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	// Start Redis subscriber if Redis is available
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.DocumentID] = append(h.clients[client.DocumentID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"document_id": client.DocumentID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.DocumentID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.DocumentID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.DocumentID]) == 0 {
					delete(h.clients, client.DocumentID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// NotifyProgress pushes a pipeline stage update to clients watching the
// document, plus clients watching everything.
func (h *Hub) NotifyProgress(msg dto.IngestProgressMessage) {
	data, _ := json.Marshal(map[string]interface{}{
		"type":      "ingest_progress",
		"data":      msg,
		"timestamp": time.Now().Format(time.RFC3339),
	})

	h.deliver(msg.DocumentId, data)

	// Publish to Redis for other instances
	if h.rdb != nil {
		payload := map[string]interface{}{
			"target_document_id": msg.DocumentId.String(),
			"message":            json.RawMessage(data),
		}
		jsonPayload, _ := json.Marshal(payload)
		h.rdb.Publish(context.Background(), "cluster_events", jsonPayload)
	}
}

// BroadcastEvent sends a document lifecycle event to ALL connected clients.
func (h *Hub) BroadcastEvent(eventType string, data map[string]interface{}) {
	payload, _ := json.Marshal(map[string]interface{}{
		"type":      eventType,
		"data":      data,
		"timestamp": time.Now().Format(time.RFC3339),
	})

	h.mu.RLock()
	for _, clients := range h.clients {
		for _, client := range clients {
			select {
			case client.Send <- payload:
			default:
				close(client.Send)
				h.unregister <- client
			}
		}
	}
	h.mu.RUnlock()

	if h.rdb != nil {
		wrapped := map[string]interface{}{
			"target_document_id": "*", // Wildcard for broadcast
			"message":            json.RawMessage(payload),
		}
		jsonPayload, _ := json.Marshal(wrapped)
		h.rdb.Publish(context.Background(), "cluster_events", jsonPayload)
	}
}

// deliver sends to clients subscribed to the document and to wildcard
// subscribers.
func (h *Hub) deliver(documentID uuid.UUID, data []byte) {
	h.mu.RLock()
	targets := append([]*Client{}, h.clients[documentID]...)
	targets = append(targets, h.clients[uuid.Nil]...)
	h.mu.RUnlock()

	for _, client := range targets {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client Send buffer full, dropping message", map[string]interface{}{
				"document_id": client.DocumentID,
			})
			close(client.Send)
			h.unregister <- client
		}
	}
}

func (h *Hub) subscribeToRedis() {
	// All instances subscribe to "cluster_events". Each message carries
	// its target document id, instances deliver to local subscribers.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "cluster_events")
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload struct {
			TargetDocumentID string          `json:"target_document_id"`
			Message          json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		if payload.TargetDocumentID == "*" {
			h.mu.RLock()
			for _, clients := range h.clients {
				for _, client := range clients {
					select {
					case client.Send <- payload.Message:
					default:
						close(client.Send)
						h.unregister <- client
					}
				}
			}
			h.mu.RUnlock()
			continue
		}

		docID, err := uuid.Parse(payload.TargetDocumentID)
		if err != nil {
			continue
		}
		h.deliver(docID, payload.Message)
	}
}
