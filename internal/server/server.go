// Package server exposes the conversion engine over HTTP: one endpoint to
// convert a document, plus read access to the conversion log.
package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ehr/cdafhir/internal/convert"
	"github.com/ehr/cdafhir/internal/store"
)

// Config carries the server's runtime settings, resolved by the caller from
// the application config.
type Config struct {
	Addr      string
	Dev       bool
	JWTSecret string
	Strict    bool
	Persist   bool
}

// Server is the configured HTTP front end.
type Server struct {
	echo *echo.Echo
	addr string
	log  zerolog.Logger
}

// New builds the echo server: serializer, middleware chain, auth, routes.
// st may be nil when the conversion log is disabled.
func New(cfg Config, st store.Store, validator convert.ResourceValidator, vocab convert.Vocabulary, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}

	e.Use(Recovery(logger))
	e.Use(RequestID())
	e.Use(Logger(logger))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	apiV1 := e.Group("/api/v1")
	if cfg.Dev {
		apiV1.Use(DevAuthMiddleware())
	} else {
		apiV1.Use(JWTMiddleware(JWTConfig{SigningKey: []byte(cfg.JWTSecret)}))
	}

	h := NewHandler(st, validator, vocab, cfg.Strict, cfg.Persist, logger)
	h.RegisterRoutes(apiV1)

	return &Server{echo: e, addr: cfg.Addr, log: logger}
}

// Start blocks serving requests until Shutdown or a listener error.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.addr).Msg("starting server")
	if err := s.echo.Start(s.addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Echo exposes the underlying router for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
