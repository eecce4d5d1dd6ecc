package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/milan-history-map/internal/config"
	"github.com/milan-history-map/internal/delivery/http/handler"
	"github.com/milan-history-map/internal/delivery/http/middleware"
	"github.com/milan-history-map/internal/pkg/errors"
	"github.com/milan-history-map/internal/pkg/utils"
	"github.com/milan-history-map/internal/usecase"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"
)

// Handlers - набор обработчиков, собранный в cmd/api
type Handlers struct {
	State     *handler.StateHandler
	Favorite  *handler.FavoriteHandler
	POI       *handler.POIHandler
	Character *handler.CharacterHandler
	Itinerary *handler.ItineraryHandler
	Taxonomy  *handler.TaxonomyHandler
	Narration *handler.NarrationHandler
	Map       *handler.MapHandler
	Auth      *handler.AuthHandler
}

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	handlers Handlers
	resolver middleware.SessionResolver
	sessions *usecase.SessionRegistry
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	handlers Handlers,
	resolver middleware.SessionResolver,
	sessions *usecase.SessionRegistry,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Milan History Map",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    (cfg.Media.MaxUploadMB*2 + 1) << 20,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:      app,
		config:   cfg,
		logger:   logger,
		handlers: handlers,
		resolver: resolver,
		sessions: sessions,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS(s.config.Server.CORSOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	api := s.app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now(),
			"sessions": s.sessions.Len(),
		})
	})

	api.Get("/map/config", s.handlers.Map.Config)

	// Auth
	api.Post("/auth/anonymous", s.handlers.Auth.SignIn)

	// Все остальные маршруты работают со store сессии
	session := api.Group("", middleware.Session(s.resolver, s.sessions))

	session.Get("/auth/me", middleware.RequireUser(), s.handlers.Auth.Me)
	session.Post("/auth/sign-out", middleware.RequireUser(), s.handlers.Auth.SignOut)

	// State. Анонимный store общий для всех посетителей, поэтому карточка,
	// форма и уведомления доступны только после входа.
	session.Get("/state", s.handlers.State.GetState)
	session.Post("/state/refresh", s.handlers.State.Refresh)
	session.Post("/detail/pois/:id", middleware.RequireUser(), s.handlers.State.OpenPOI)
	session.Post("/detail/itineraries/:id", middleware.RequireUser(), s.handlers.State.OpenItinerary)
	session.Delete("/detail", middleware.RequireUser(), s.handlers.State.CloseDetail)
	session.Post("/forms/:kind", middleware.RequireUser(), s.handlers.State.OpenForm)
	session.Delete("/forms", middleware.RequireUser(), s.handlers.State.CloseForm)
	session.Delete("/notifications/:id", middleware.RequireUser(), s.handlers.State.DismissNotification)

	// POI
	session.Get("/pois", s.handlers.POI.List)
	session.Post("/pois", s.handlers.POI.Create)
	session.Put("/pois/:id", s.handlers.POI.Update)
	session.Delete("/pois/:id", s.handlers.POI.Delete)
	session.Post("/pois/:id/favorite", s.handlers.Favorite.TogglePOI)
	session.Get("/pois/:id/narration", s.handlers.Narration.Narrate)

	// Characters
	session.Post("/characters", s.handlers.Character.Create)
	session.Put("/characters/:id", s.handlers.Character.Update)
	session.Delete("/characters/:id", s.handlers.Character.Delete)

	// Itineraries
	session.Post("/itineraries", s.handlers.Itinerary.Create)
	session.Put("/itineraries/:id", s.handlers.Itinerary.Update)
	session.Delete("/itineraries/:id", s.handlers.Itinerary.Delete)
	session.Post("/itineraries/:id/favorite", s.handlers.Favorite.ToggleItinerary)
	session.Get("/itineraries/:id/route", s.handlers.Itinerary.Route)

	// Taxonomy
	session.Post("/categories", s.handlers.Taxonomy.CreateCategory)
	session.Post("/periods", s.handlers.Taxonomy.CreatePeriod)
}

// App exposes the fiber application for in-process tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - кастомный обработчик ошибок
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		appErr := errors.ErrInternalServer

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			appErr = errors.New("HTTP_ERROR", e.Message, code)
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(utils.ErrorResponse{Error: appErr})
	}
}
