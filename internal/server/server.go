package server

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	insightin "moodooro/internal/modules/insight/port/in"
	moodin "moodooro/internal/modules/mood/port/in"
	sessionin "moodooro/internal/modules/session/port/in"
	"moodooro/internal/platform/clock"
	apperrors "moodooro/internal/platform/errors"
)

type Deps struct {
	Sessions sessionin.Usecase
	Moods    moodin.Usecase
	Insights insightin.Usecase
	Clock    clock.Clock
	Logger   *zap.Logger
}

// Server is the local read-only dashboard: JSON under /api and a live
// weekly-insights websocket under /ws.
type Server struct {
	app    *fiber.App
	deps   Deps
	hub    *Hub
	logger *zap.Logger
}

func New(deps Deps) *Server {
	if deps.Clock == nil {
		deps.Clock = clock.SystemClock{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	app := fiber.New(fiber.Config{
		AppName:               "moodooro",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	s := &Server{
		app:    app,
		deps:   deps,
		hub:    NewHub(deps.Logger),
		logger: deps.Logger,
	}
	s.registerRoutes()
	return s
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) registerRoutes() {
	h := handler{deps: s.deps}
	api := s.app.Group("/api")
	api.Get("/health", h.health)
	api.Get("/sessions", h.listSessions)
	api.Get("/sessions/:id", h.getSession)
	api.Get("/moods", h.listMoods)
	api.Get("/insights/weekly", h.weekly)
	api.Get("/dashboard", h.dashboard)

	ws := s.app.Group("/ws")
	ws.Use(func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	ws.Get("/insights", websocket.New(func(conn *websocket.Conn) {
		serveClient(s.hub, conn)
	}))
}

// Run serves on addr until ctx ends. The hub follows the weekly insights
// feed for as long as the server runs.
func (s *Server) Run(ctx context.Context, addr string) error {
	feed, err := s.deps.Insights.WatchWeekly(ctx)
	if err != nil {
		return err
	}
	go s.hub.Run(ctx, feed)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard listening", zap.String("addr", addr))
		errc <- s.app.Listen(addr)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		if err := s.app.Shutdown(); err != nil {
			return err
		}
		return <-errc
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var fe *fiber.Error
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, apperrors.ErrInvalidInput):
		status = fiber.StatusBadRequest
	case errors.As(err, &fe):
		status = fe.Code
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
