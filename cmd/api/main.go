package main

// @title Milan History Map API
// @version 1.0.0
// @description BFF интерактивной карты исторических мест Милана. Хранит состояние сессии (каталог, открытая карточка, форма, уведомления) и выполняет конвейеры записи.
// @description
// @description Основные возможности:
// @description - Загрузка и нормализация каталога POI, персонажей, маршрутов, категорий и периодов
// @description - Оптимистичное избранное с откатом при ошибке
// @description - Создание и редактирование контента с фотографиями
// @description - Пешеходные маршруты и рассказы о местах

// @contact.name API Support
// @contact.email support@milan-history-map.it

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/milan-history-map/docs/swagger"
	"github.com/milan-history-map/internal/config"
	httpDelivery "github.com/milan-history-map/internal/delivery/http"
	"github.com/milan-history-map/internal/delivery/http/handler"
	"github.com/milan-history-map/internal/infrastructure/llm"
	"github.com/milan-history-map/internal/infrastructure/mapbox"
	"github.com/milan-history-map/internal/infrastructure/storage"
	"github.com/milan-history-map/internal/pkg/auth"
	"github.com/milan-history-map/internal/pkg/logger"
	"github.com/milan-history-map/internal/pkg/media"
	"github.com/milan-history-map/internal/repository/cache"
	"github.com/milan-history-map/internal/repository/postgres"
	redisRepo "github.com/milan-history-map/internal/repository/redis"
	"github.com/milan-history-map/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "api")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Milan History Map API")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
	)

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()
	log.Info("PostgreSQL connected")

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()
	log.Info("Redis connected")

	// 5. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Health(ctx); err != nil {
		log.Fatal("PostgreSQL health check failed", zap.Error(err))
	}
	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}

	log.Info("All connections healthy")

	// 6. Initialize repositories and external clients
	contentRepo := postgres.NewContentRepository(db)
	narrationCache := cache.NewNarrationCache(redisClient, cfg.Cache.NarrationCacheTTL)
	publisher := redisRepo.NewEventPublisher(redisClient.Client(), log)

	blobStorage := storage.NewStorageClient(&cfg.Storage, log)
	geoRepo := mapbox.NewMapboxClient(&cfg.Mapbox, log)
	generator := llm.NewLLMClient(&cfg.LLM, log)

	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	processor := media.NewProcessor(cfg.Media.MaxDimension, cfg.Media.JPEGQuality, cfg.Media.MaxUploadMB)

	log.Info("Repositories initialized")

	// 7. Session registry
	sessions := usecase.NewSessionRegistry(cfg.Session.IdleTTL, cfg.Session.NotificationTTL, log)
	if err := sessions.StartEviction(cfg.Session.EvictionSchedule); err != nil {
		log.Fatal("Failed to schedule session eviction", zap.Error(err))
	}

	// 8. Initialize use cases
	fetchUC := usecase.NewFetchUseCase(contentRepo, log)
	photos := usecase.NewPhotoPipeline(blobStorage, contentRepo, processor, log)

	favoriteUC := usecase.NewFavoriteUseCase(contentRepo, fetchUC, log)
	poiUC := usecase.NewPOIUseCase(contentRepo, photos, geoRepo, fetchUC, publisher, log)
	characterUC := usecase.NewCharacterUseCase(contentRepo, photos, fetchUC, publisher, log)
	itineraryUC := usecase.NewItineraryUseCase(contentRepo, photos, fetchUC, publisher, log)
	taxonomyUC := usecase.NewTaxonomyUseCase(contentRepo, fetchUC, publisher, log)
	narrationUC := usecase.NewNarrationUseCase(generator, narrationCache, fetchUC, log)
	mapUC := usecase.NewMapUseCase(geoRepo, fetchUC, cfg.Mapbox.StyleURL, cfg.Mapbox.AccessToken, log)
	authUC := usecase.NewAuthUseCase(contentRepo, tokens, sessions, log)

	log.Info("Use cases initialized")

	// 9. Initialize HTTP handlers
	handlers := httpDelivery.Handlers{
		State:     handler.NewStateHandler(fetchUC, log),
		Favorite:  handler.NewFavoriteHandler(favoriteUC, log),
		POI:       handler.NewPOIHandler(poiUC, log),
		Character: handler.NewCharacterHandler(characterUC, log),
		Itinerary: handler.NewItineraryHandler(itineraryUC, mapUC, log),
		Taxonomy:  handler.NewTaxonomyHandler(taxonomyUC, log),
		Narration: handler.NewNarrationHandler(narrationUC, log),
		Map:       handler.NewMapHandler(mapUC),
		Auth:      handler.NewAuthHandler(authUC, log),
	}

	// 10. Initialize HTTP server
	server := httpDelivery.NewServer(cfg, log, handlers, authUC, sessions)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 11. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	sessions.Stop()

	log.Info("Server stopped successfully")
}
