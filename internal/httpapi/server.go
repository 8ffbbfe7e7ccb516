// Package httpapi exposes the engineering orchestrator over a JSON HTTP API.
package httpapi

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/codebakers/codebakers/internal/engineering"
	"github.com/codebakers/codebakers/internal/metrics"
	"github.com/codebakers/codebakers/internal/orchestrator"
	"github.com/codebakers/codebakers/internal/requestid"
)

// Config is the listen configuration.
type Config struct {
	ListenAddr string
}

// Server serves the orchestrator commands over HTTP.
type Server struct {
	app      *fiber.App
	handlers *Handlers
	logger   zerolog.Logger
	config   Config
}

// NewServer builds the app and its routes. A nil m leaves /metrics unrouted.
func NewServer(
	cfg Config,
	orch *orchestrator.Orchestrator,
	store engineering.Store,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler(logger),
	})

	s := &Server{
		app:      app,
		handlers: NewHandlers(orch, store, logger),
		logger:   logger.With().Str("component", "http_api").Logger(),
		config:   cfg,
	}

	s.setupMiddleware()
	s.setupRoutes(m)

	return s
}

func (s *Server) setupMiddleware() {
	s.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	s.app.Use(func(c *fiber.Ctx) error {
		ctx, reqID := requestid.New(c.UserContext(), c.Get(requestid.Header))
		c.SetUserContext(ctx)
		c.Set(requestid.Header, reqID)
		return c.Next()
	})

	// Probes stay out of the audit log.
	s.app.Use(func(c *fiber.Ctx) error {
		path := c.Path()
		if path == "/healthz" || path == "/metrics" {
			return c.Next()
		}

		s.logger.Info().
			Str("method", c.Method()).
			Str("path", path).
			Str("ip", c.IP()).
			Str("request_id", requestid.FromContext(c.UserContext())).
			Msg("api request")

		return c.Next()
	})
}

func (s *Server) setupRoutes(m *metrics.Metrics) {
	h := s.handlers

	s.app.Get("/healthz", h.Liveness)

	// Without a collector /metrics is simply not routed.
	if m != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	}

	v1 := s.app.Group("/api/v1")

	v1.Get("/commands", h.ListCommands)
	v1.Get("/projects", h.ListProjects)
	v1.Get("/projects/:key/status", h.Status)
	v1.Get("/projects/:key/history", h.History)
	v1.Post("/projects/:key/commands/:command", h.Execute)
}

// Start listens on the configured address and blocks.
func (s *Server) Start() error {
	addr := s.config.ListenAddr
	if addr == "" {
		addr = ":8787"
	}

	s.logger.Info().Str("addr", addr).Msg("engineering API server starting")
	return s.app.Listen(addr)
}

// Shutdown stops accepting requests and drains open ones.
func (s *Server) Shutdown() error {
	s.logger.Info().Msg("engineering API server shutting down")
	return s.app.Shutdown()
}

// App returns the Fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

func customErrorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		logger.Error().
			Err(err).
			Int("status", code).
			Str("path", c.Path()).
			Str("method", c.Method()).
			Str("request_id", requestid.FromContext(c.UserContext())).
			Msg("unhandled error")

		if code != fiber.StatusInternalServerError {
			return problemResponse(c, code, "request_error", http.StatusText(code), err.Error())
		}
		// 5xx detail stays in the log.
		return problemResponse(c, code, "internal_error", "Internal Server Error", "An internal error occurred")
	}
}
