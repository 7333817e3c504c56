package bootstrap

import (
	"context"
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ssmubc/Empathetic-Communication/internal/config"
	"github.com/ssmubc/Empathetic-Communication/internal/controller"
	"github.com/ssmubc/Empathetic-Communication/internal/pkg/logger"
	"github.com/ssmubc/Empathetic-Communication/internal/pkg/mailer"
	"github.com/ssmubc/Empathetic-Communication/internal/repository/unitofwork"
	"github.com/ssmubc/Empathetic-Communication/internal/service"
	"github.com/ssmubc/Empathetic-Communication/internal/websocket"
	"github.com/ssmubc/Empathetic-Communication/pkg/embedding"
	"github.com/ssmubc/Empathetic-Communication/pkg/events"
	"github.com/ssmubc/Empathetic-Communication/pkg/llm/factory"
	pkgNats "github.com/ssmubc/Empathetic-Communication/pkg/nats"
	"github.com/ssmubc/Empathetic-Communication/pkg/objectstore"
)

type Container struct {
	// Controllers
	IngestionController controller.IIngestionController
	ChatController      controller.IChatController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	WatchdogService service.IWatchdogService

	// WebSockets
	WebSocketHub *websocket.Hub

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	var emailService mailer.IEmailService
	if cfg.SMTP.Host != "" && cfg.SMTP.AlertEmail != "" {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.Email,
			cfg.SMTP.AlertEmail,
		)
	} else {
		log.Printf("[WARN] SMTP not configured, ingestion alerts disabled")
	}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	embeddingProvider, err := embedding.NewProvider(
		cfg.Ai.EmbeddingProvider,
		embeddingAPIKey(cfg),
		cfg.Ai.OllamaBaseURL,
		embeddingModel(cfg),
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Embedding Provider: %v", err)
	}
	log.Printf("[INFO] Using Embedding Provider: %s", cfg.Ai.EmbeddingProvider)

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.OpenAIAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Object Storage
	store, err := objectstore.NewFilesystemStore(cfg.Storage.BasePath)
	if err != nil {
		log.Fatalf("[FATAL] Failed to open object store: %v", err)
	}

	// 5. Infrastructure
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}
	natsSub, err := pkgNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		natsSub = nil
	}

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
		rdb = nil
	}

	// WebSocket Hub for the ingestion status feed
	wsHub := websocket.NewHub(rdb, sysLogger)
	go wsHub.Run()

	if natsSub != nil {
		relayStatusEvents(natsSub, wsHub, sysLogger)
	}

	// 6. Services
	publisherService := service.NewPublisherService(cfg.Ingest.EmbedJobTopic, pubSub)

	ingestionService := service.NewIngestionService(
		uowFactory,
		store,
		embeddingProvider,
		publisherService,
		natsPub,
		emailService,
		sysLogger,
	)

	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Ingest.EmbedJobTopic,
		ingestionService,
		sysLogger,
	)

	watchdogService := service.NewWatchdogService(
		uowFactory,
		natsPub,
		emailService,
		sysLogger,
	)

	chatService := service.NewChatService(
		uowFactory,
		embeddingProvider,
		llmProvider,
		sysLogger,
	)

	// 7. Controllers
	ingestionController := controller.NewIngestionController(ingestionService, watchdogService)
	chatController := controller.NewChatController(chatService)

	return &Container{
		IngestionController: ingestionController,
		ChatController:      chatController,
		ConsumerService:     consumerService,
		WatchdogService:     watchdogService,
		WebSocketHub:        wsHub,
		Logger:              sysLogger,
	}
}

// relayStatusEvents bridges NATS ingestion status events onto the
// websocket hub.
func relayStatusEvents(sub *pkgNats.Subscriber, hub *websocket.Hub, log logger.ILogger) {
	err := sub.Subscribe("ingestion."+events.TypeIngestionStatus, "ws-status-feed", func(ctx context.Context, event events.Event) error {
		payload := event.Payload()
		hub.Publish(websocket.StatusUpdate{
			FileId:    asString(payload["file_id"]),
			PatientId: asString(payload["patient_id"]),
			FileName:  asString(payload["file_name"]),
			Status:    asString(payload["status"]),
		})
		return nil
	})
	if err != nil {
		log.Warn("bootstrap", "failed to subscribe to status events", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func embeddingAPIKey(cfg *config.Config) string {
	if cfg.Ai.EmbeddingProvider == "gemini" {
		return cfg.Ai.GoogleGeminiKey
	}
	return cfg.Ai.OpenAIAPIKey
}

func embeddingModel(cfg *config.Config) string {
	if cfg.Ai.EmbeddingProvider == "ollama" {
		return cfg.Ai.OllamaModel
	}
	return ""
}
