// Package echo provides the HTTP API for the chat service over
// labstack/echo: chat, index management, facts, leads, and health.
package echo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/sitechat/sitechat"
)

// StatusTracker gates and reports index builds per domain. Begin
// returns false while a build is already running.
type StatusTracker interface {
	Begin(domain string) bool
	Finish(domain string, meta *sitechat.IndexMeta, err error)
	Status(domain string) *sitechat.IndexStatus
}

// Server serves the chat API for one site. Collaborator fields must be
// set before the first request.
type Server struct {
	e      *echo.Echo
	logger *slog.Logger

	// Site identity. Every request is scoped to this domain.
	Domain   string
	SiteName string

	// Retrieval tuning passed through to the retriever. Zero values
	// fall back to the retriever defaults.
	TopK            int
	MaxContextChars int

	Index         sitechat.IndexService
	Facts         sitechat.FactsService
	Conversations sitechat.ConversationService
	Leads         sitechat.LeadService
	Retriever     sitechat.Retriever
	Asker         sitechat.Asker
	Builder       sitechat.IndexBuilder
	Status        StatusTracker
}

// NewServer creates a Server with routes and middleware registered.
func NewServer(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		e:      echo.New(),
		logger: logger,
	}
	s.e.HideBanner = true
	s.e.HidePort = true
	s.e.HTTPErrorHandler = s.handleError

	s.e.Use(echomw.Recover())
	s.e.Use(echomw.CORS())
	s.e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:  true,
		LogMethod:  true,
		LogURI:     true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logger.Info("http request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"duration", v.Latency,
			)
			return nil
		},
	}))

	s.e.GET("/healthz", s.handleHealth)

	api := s.e.Group("/api")
	api.POST("/chat", s.handleChat)
	api.POST("/index", s.handleIndexBuild)
	api.GET("/index/status", s.handleIndexStatus)
	api.GET("/facts", s.handleFacts)
	api.POST("/leads", s.handleLeadCreate)

	return s
}

// Start begins serving on addr and blocks until Shutdown.
func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

// Handler exposes the routing tree for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.e
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// codeStatus maps application error codes to HTTP status codes.
var codeStatus = map[string]int{
	sitechat.ECONFLICT:   http.StatusConflict,
	sitechat.ECRAWLEMPTY: http.StatusUnprocessableEntity,
	sitechat.EINDEXEMPTY: http.StatusUnprocessableEntity,
	sitechat.EINVALID:    http.StatusBadRequest,
	sitechat.ENOTFOUND:   http.StatusNotFound,
	sitechat.EINTERNAL:   http.StatusInternalServerError,
}

func errorStatus(err error) int {
	if status, ok := codeStatus[sitechat.ErrorCode(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// handleError renders handler errors as JSON bodies with a status
// derived from the application error code. Echo's own errors (unknown
// routes, bind failures) pass through with their status.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		_ = c.JSON(he.Code, echo.Map{"error": fmt.Sprint(he.Message)})
		return
	}

	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", c.Request().Method, "uri", c.Request().RequestURI, "err", err)
	}
	_ = c.JSON(status, echo.Map{"error": sitechat.ErrorMessage(err)})
}
