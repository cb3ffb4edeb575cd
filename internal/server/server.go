// Package server exposes the grading pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/demoday/internal/githubapi"
	"github.com/fyrsmithlabs/demoday/internal/grader"
	"github.com/fyrsmithlabs/demoday/internal/keywords"
	"github.com/fyrsmithlabs/demoday/internal/store"
)

// Grader grades one submission end to end.
type Grader interface {
	Grade(ctx context.Context, name, repoURL, presentationSummary string) (*grader.Result, error)
}

// SubmissionStore persists and retrieves graded submissions.
type SubmissionStore interface {
	Save(ctx context.Context, result *grader.Result) error
	Get(ctx context.Context, id string) (*grader.Result, error)
	List(ctx context.Context) ([]*grader.Result, error)
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// Server provides the HTTP API for grading submissions.
type Server struct {
	echo    *echo.Echo
	grader  Grader
	store   SubmissionStore
	metrics *Metrics
	logger  *zap.Logger
	config  *Config
}

// NewServer creates the API server with its routes and middleware.
func NewServer(g Grader, s SubmissionStore, logger *zap.Logger, cfg *Config) (*Server, error) {
	if g == nil {
		return nil, fmt.Errorf("grader cannot be nil")
	}
	if s == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host: "localhost",
			Port: 8080,
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	metrics := NewMetrics()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(metrics.Middleware())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	srv := &Server{
		echo:    e,
		grader:  g,
		store:   s,
		metrics: metrics,
		logger:  logger,
		config:  cfg,
	}

	srv.registerRoutes()

	return srv, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(
		s.metrics.Registry(), promhttp.HandlerOpts{})))

	v1 := s.echo.Group("/api/v1")
	v1.POST("/submissions", s.handleCreateSubmission)
	v1.GET("/submissions", s.handleListSubmissions)
	v1.GET("/submissions/:id", s.handleGetSubmission)
}

// SubmissionRequest is the request body for POST /api/v1/submissions.
type SubmissionRequest struct {
	Name                string `json:"name"`
	GitHubURL           string `json:"github_url"`
	PresentationSummary string `json:"presentation_summary"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// handleCreateSubmission grades a submission and persists the result.
func (s *Server) handleCreateSubmission(c echo.Context) error {
	var req SubmissionRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid submission request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name field is required")
	}
	if req.GitHubURL == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "github_url field is required")
	}
	if req.PresentationSummary == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "presentation_summary field is required")
	}

	ctx := c.Request().Context()
	start := time.Now()

	result, err := s.grader.Grade(ctx, req.Name, req.GitHubURL, req.PresentationSummary)
	if err != nil {
		s.metrics.RecordGrading("error", time.Since(start))
		return s.gradingError(err)
	}
	s.metrics.RecordGrading("success", time.Since(start))

	if err := s.store.Save(ctx, result); err != nil {
		s.logger.Error("failed to save submission", zap.String("id", result.ID), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to save submission")
	}

	return c.JSON(http.StatusCreated, result)
}

// handleGetSubmission returns one graded submission by ID.
func (s *Server) handleGetSubmission(c echo.Context) error {
	result, err := s.store.Get(c.Request().Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "submission not found")
	}
	if err != nil {
		s.logger.Error("failed to load submission", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load submission")
	}
	return c.JSON(http.StatusOK, result)
}

// handleListSubmissions returns all graded submissions, newest first.
func (s *Server) handleListSubmissions(c echo.Context) error {
	results, err := s.store.List(c.Request().Context())
	if err != nil {
		s.logger.Error("failed to list submissions", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list submissions")
	}
	if results == nil {
		results = []*grader.Result{}
	}
	return c.JSON(http.StatusOK, results)
}

// gradingError maps pipeline failures to HTTP status codes. Malformed
// repository URLs are the caller's fault; exhausted keyword generation and
// everything else point at the collaborators.
func (s *Server) gradingError(err error) error {
	switch {
	case errors.Is(err, githubapi.ErrInvalidRepoURL):
		return echo.NewHTTPError(http.StatusBadRequest, "github_url is not a valid GitHub repository URL")
	case errors.Is(err, githubapi.ErrReadmeNotFound):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "repository has no README")
	case keywords.IsExhausted(err):
		s.logger.Error("keyword generation exhausted", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadGateway, "keyword generation failed")
	default:
		s.logger.Error("grading failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "grading failed")
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}
