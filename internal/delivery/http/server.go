package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"go.uber.org/zap"

	"github.com/duty-pharmacy/internal/config"
	"github.com/duty-pharmacy/internal/delivery/http/handler"
	"github.com/duty-pharmacy/internal/delivery/http/middleware"
)

// Server is the fiber facade the UI drives the engine through.
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	selectionHandler *handler.SelectionHandler
}

func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	selectionHandler *handler.SelectionHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Duty Pharmacy Engine",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:              app,
		config:           cfg,
		logger:           logger,
		selectionHandler: selectionHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

func (s *Server) setupRoutes() {
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api := s.app.Group("/api")

	// Directory
	api.Get("/cities", s.selectionHandler.ListCities)
	api.Get("/cities/:id/districts", s.selectionHandler.ListDistricts)

	// Engine state and transitions
	api.Get("/state", s.selectionHandler.GetState)
	api.Post("/selection/city", s.selectionHandler.PickCity)
	api.Post("/selection/district", s.selectionHandler.PickDistrict)
	api.Post("/tab", s.selectionHandler.SwitchTab)
	api.Post("/search", s.selectionHandler.SetSearch)
	api.Post("/view/toggle", s.selectionHandler.ToggleView)
	api.Post("/focus", s.selectionHandler.Focus)
	api.Delete("/focus", s.selectionHandler.DismissFocus)
	api.Post("/favorites/toggle", s.selectionHandler.ToggleFavorite)
	api.Get("/launch", s.selectionHandler.Launch)
}

func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// App exposes the fiber instance for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INTERNAL_SERVER_ERROR",
				"message": err.Error(),
			},
		})
	}
}
