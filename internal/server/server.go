// Package server exposes the assistant service over HTTP
package server

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v5"

	"github.com/iksnae/tourmate/internal"
	"github.com/iksnae/tourmate/internal/assistant"
)

// Server is the HTTP layer over an assistant.Service
type Server struct {
	svc  *assistant.Service
	echo *echo.Echo
}

// New registers the API routes for svc
func New(svc *assistant.Service) *Server {
	s := &Server{svc: svc, echo: echo.New()}
	s.echo.Use(logRequests)
	s.register(s.echo)
	return s
}

// Handler returns the root http.Handler
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) register(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/chat", s.chat)
	g.GET("/health", s.health)
	g.GET("/cache/stats", s.cacheStats)
	g.POST("/cache/clear", s.clearCache)
	g.GET("/session/:id/analytics", s.sessionAnalytics)
	g.GET("/session/:id/history", s.sessionHistory)
	g.GET("/session/:id/export", s.exportSession)
	g.DELETE("/session/:id", s.deleteSession)
}

func logRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c *echo.Context) error {
		start := time.Now()
		err := next(c)
		internal.LogDebug("%s %s (%s)", c.Request().Method, c.Request().URL.Path, time.Since(start).Round(time.Millisecond))
		return err
	}
}

func (s *Server) chat(c *echo.Context) error {
	var req assistant.ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return c.JSON(http.StatusOK, s.svc.Chat(c.Request().Context(), req))
}

type healthResponse struct {
	Status      string          `json:"status"`
	Initialized bool            `json:"initialized"`
	Timestamp   time.Time       `json:"timestamp"`
	Cache       assistant.Stats `json:"cache"`
}

func (s *Server) health(c *echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{
		Status:      "ok",
		Initialized: s.svc.Running(),
		Timestamp:   time.Now().UTC(),
		Cache:       s.svc.Stats(),
	})
}

func (s *Server) cacheStats(c *echo.Context) error {
	return c.JSON(http.StatusOK, s.svc.Stats())
}

type clearRequest struct {
	Pattern string `json:"pattern"`
}

type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Cleared int    `json:"cleared,omitempty"`
}

func (s *Server) clearCache(c *echo.Context) error {
	var req clearRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	n := s.svc.ClearCache(req.Pattern)
	return c.JSON(http.StatusOK, statusResponse{Success: true, Message: "Cache cleared", Cleared: n})
}

func (s *Server) sessionAnalytics(c *echo.Context) error {
	return c.JSON(http.StatusOK, s.svc.SessionAnalytics(c.Param("id")))
}

type historyResponse struct {
	SessionID string `json:"sessionId"`
	History   any    `json:"history"`
}

func (s *Server) sessionHistory(c *echo.Context) error {
	limit := 0
	if raw := c.Request().URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a number")
		}
		limit = n
	}
	id := c.Param("id")
	return c.JSON(http.StatusOK, historyResponse{SessionID: id, History: s.svc.SessionHistory(id, limit)})
}

func (s *Server) exportSession(c *echo.Context) error {
	format := c.Request().URL.Query().Get("format")
	if format == "" {
		format = "json"
	}

	var buf bytes.Buffer
	exporter, err := s.svc.ExportSession(c.Param("id"), format, &buf)
	switch {
	case errors.Is(err, internal.ErrSessionNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	case err != nil:
		var exportErr *internal.ExportError
		if errors.As(err, &exportErr) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.Blob(http.StatusOK, exporter.ContentType(), buf.Bytes())
}

func (s *Server) deleteSession(c *echo.Context) error {
	s.svc.ClearSession(c.Param("id"))
	return c.JSON(http.StatusOK, statusResponse{Success: true, Message: "Session cleared"})
}
