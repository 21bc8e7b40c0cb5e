package bootstrap

import (
	"context"
	"log"

	"ai-knowledge-be/internal/config"
	"ai-knowledge-be/internal/controller"
	"ai-knowledge-be/internal/handler"
	"ai-knowledge-be/internal/pkg/logger"
	"ai-knowledge-be/internal/repository/unitofwork"
	"ai-knowledge-be/internal/service"
	"ai-knowledge-be/internal/websocket"
	"ai-knowledge-be/pkg/chunker"
	"ai-knowledge-be/pkg/embedding"
	"ai-knowledge-be/pkg/extractor"
	"ai-knowledge-be/pkg/fetcher"

	pkgNats "ai-knowledge-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	DocumentController controller.IDocumentController
	SearchController   controller.ISearchController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	NotifierService service.INotifierService

	// WebSockets
	IngestWsHandler *handler.IngestWsHandler
	WebSocketHub    *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Embedding Provider based on Config
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
			cfg.Ai.EmbeddingDimension,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	// 4. Infrastructure
	// NATS
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pkgNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/ingest_ws.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 5. Pipeline Components
	registry := extractor.NewRegistry()
	pageFetcher := fetcher.New()
	textChunker := chunker.New(cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap)

	// 6. Services
	publisherService := service.NewPublisherService(cfg.Keys.ReindexTopic, pubSub)

	ingestionService := service.NewIngestionService(
		uowFactory,
		registry,
		pageFetcher,
		textChunker,
		embeddingProvider,
		publisherService,
		natsPub,
		wsHub,
		sysLogger,
	)

	searchService := service.NewSearchService(
		uowFactory,
		embeddingProvider,
		cfg.Search.MinSimilarity,
		sysLogger,
	)

	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.ReindexTopic,
		ingestionService,
		sysLogger,
	)

	notifierService := service.NewNotifierService(natsSub, wsHub, sysLogger)

	// 7. Controllers
	documentController := controller.NewDocumentController(ingestionService)
	searchController := controller.NewSearchController(searchService)
	ingestWsHandler := handler.NewIngestWsHandler(wsHub, wsLogger)

	return &Container{
		DocumentController: documentController,
		SearchController:   searchController,
		ConsumerService:    consumerService,
		NotifierService:    notifierService,
		IngestWsHandler:    ingestWsHandler,
		WebSocketHub:       wsHub,
	}
}
