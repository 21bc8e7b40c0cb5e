package handler

import (
	"ai-knowledge-be/internal/pkg/logger"
	internalWS "ai-knowledge-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// IngestWsHandler exposes the websocket progress stream for ingestion.
type IngestWsHandler struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewIngestWsHandler(hub *internalWS.Hub, log logger.ILogger) *IngestWsHandler {
	return &IngestWsHandler{
		hub:    hub,
		logger: log,
	}
}

func (h *IngestWsHandler) RegisterRoutes(r fiber.Router) {
	ws := r.Group("/ws")
	ws.Get("ingest", h.ServeWs)
}

// ServeWs upgrades the connection and subscribes it to ingestion
// progress. An optional document_id query param narrows the stream to
// one document.
func (h *IngestWsHandler) ServeWs(c *fiber.Ctx) error {
	documentID := uuid.Nil
	if raw := c.Query("document_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid document_id")
		}
		documentID = parsed
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			internalWS.ServeWs(h.hub, conn, documentID)
		})(c)
	}
	return fiber.ErrUpgradeRequired
}
