package main

import (
	"context"
	"log"
	"time"

	api "summarizer-backend/cmd/api"
	authdomain "summarizer-backend/internal/auth/domain"
	authRepo "summarizer-backend/internal/auth/repository"
	authUsecase "summarizer-backend/internal/auth/usecase"
	summarydomain "summarizer-backend/internal/summary/domain"
	summaryRepo "summarizer-backend/internal/summary/repository"
	summaryUsecase "summarizer-backend/internal/summary/usecase"
	"summarizer-backend/pkg/ai"
	"summarizer-backend/pkg/config"
	"summarizer-backend/pkg/database"
	"summarizer-backend/pkg/firebase"
	"summarizer-backend/pkg/logger"
	"summarizer-backend/pkg/pubsub"
	"summarizer-backend/pkg/ratelimit"
	"summarizer-backend/pkg/sse"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logr, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logr.Sync()

	ctx := context.Background()

	// Initialize database
	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.NewPostgresConnection(cfg.DatabaseURL)
		if err != nil {
			logr.Fatal("Failed to connect to database", zap.Error(err))
		}

		models := []interface{}{&authdomain.User{}, &authdomain.RefreshToken{}}
		if cfg.SummaryStore == config.StorePostgres {
			models = append(models, &summarydomain.Summary{})
		}
		if err := db.AutoMigrate(models...); err != nil {
			logr.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	// Firebase backs the Firestore store and ID-token sign-in
	var fbApp *firebase.App
	if cfg.UsesFirebase() {
		fbApp, err = firebase.NewApp(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentials)
		if err != nil {
			logr.Fatal("Failed to initialize Firebase", zap.Error(err))
		}
	}

	// Initialize repositories (dependency injection)
	var userRepo authRepo.UserRepository
	if db != nil {
		userRepo = authRepo.NewUserRepository(db)
	} else {
		logr.Warn("DATABASE_URL not set, accounts are kept in memory")
		userRepo = authRepo.NewMemoryUserRepository()
	}

	var records summaryRepo.SummaryRepository
	switch cfg.SummaryStore {
	case config.StorePostgres:
		records = summaryRepo.NewGormSummaryRepository(db)
	case config.StoreFirestore:
		client, err := fbApp.Firestore(ctx)
		if err != nil {
			logr.Fatal("Failed to initialize Firestore", zap.Error(err))
		}
		defer client.Close()
		records = summaryRepo.NewFirestoreSummaryRepository(client, cfg.FirestoreCollection)
	case config.StoreMongo:
		mdb, err := database.NewMongoConnection(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			logr.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		defer mdb.Client().Disconnect(context.Background())
		records, err = summaryRepo.NewMongoSummaryRepository(ctx, mdb)
		if err != nil {
			logr.Fatal("Failed to prepare MongoDB", zap.Error(err))
		}
	default:
		records = summaryRepo.NewMemorySummaryRepository()
	}
	logr.Info("summary store ready", zap.String("driver", cfg.SummaryStore))

	// Initialize SSE Manager
	sseManager := sse.NewManager(logr)
	go sseManager.Run()
	defer sseManager.Stop()

	// Initialize AI service with dynamic Ollama getters for runtime updates
	ollama := api.NewOllamaSettings(cfg.OllamaBaseURL, cfg.OllamaModel)
	var summarizer ai.SummarizerService
	svc, err := ai.NewSummarizerService(ctx, ai.Config{
		Provider:         ai.ProviderType(cfg.AIProvider),
		GeminiAPIKey:     cfg.GeminiApiKey,
		GeminiModel:      cfg.GeminiModel,
		GetOllamaBaseURL: ollama.BaseURL,
		GetOllamaModel:   ollama.Model,
		OpenAIAPIKey:     cfg.OpenAIAPIKey,
		OpenAIModel:      cfg.OpenAIModel,
		OpenAIBaseURL:    cfg.OpenAIBaseURL,
		AnthropicAPIKey:  cfg.AnthropicAPIKey,
		AnthropicModel:   cfg.AnthropicModel,
	})
	if err != nil {
		logr.Warn("AI service unavailable, summaries will fail", zap.Error(err))
	} else {
		summarizer = svc
		logr.Info("AI service initialized", zap.String("provider", svc.Name()))
	}

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepo, cfg, logr)
	authUsecaseInstance.OnSessionChange(func(evt authdomain.SessionEvent) {
		sseManager.SendToUser(evt.UserID, "session", evt)
	})
	if cfg.FirebaseAuth {
		verifier, err := fbApp.TokenVerifier(ctx)
		if err != nil {
			logr.Fatal("Failed to initialize Firebase Auth", zap.Error(err))
		}
		authUsecaseInstance.SetIdentityVerifier(verifier)
	}

	summaryUsecaseInstance := summaryUsecase.NewSummaryUsecase(records, summarizer, logr)
	summaryUsecaseInstance.AddPublisher(sseManager)

	// Record events are also published to Pub/Sub when a topic is configured
	if cfg.GoogleProjectID != "" && cfg.PubSubTopic != "" {
		publisher, err := pubsub.NewPublisher(ctx, cfg.GoogleProjectID, cfg.PubSubTopic, cfg.GoogleCredentials, logr)
		if err != nil {
			logr.Error("Failed to initialize Pub/Sub publisher", zap.Error(err))
		} else {
			defer publisher.Close()
			summaryUsecaseInstance.AddPublisher(publisher)
		}
	}

	// Initialize HTTP handler
	handler, err := api.NewHandler(authUsecaseInstance, summaryUsecaseInstance, sseManager, ollama, cfg, logr)
	if err != nil {
		logr.Fatal("Failed to initialize handler", zap.Error(err))
	}

	if cfg.RedisURL != "" {
		rdb, err := ratelimit.Connect(cfg.RedisURL)
		if err != nil {
			logr.Error("Redis unavailable, rate limiting disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			handler.SetRateLimiter(ratelimit.NewLimiter(ratelimit.NewRedisCounter(rdb), cfg.RateLimitPerMinute, time.Minute, logr))
		}
	}

	// Start server
	logr.Info("Server starting", zap.String("port", cfg.Port))
	if err := handler.Start(":" + cfg.Port); err != nil {
		logr.Fatal("Failed to start server", zap.Error(err))
	}
}
