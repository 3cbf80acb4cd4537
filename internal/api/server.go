// Package api serves the spendwise HTTP API.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Veraticus/spendwise/internal/expense"
	"github.com/Veraticus/spendwise/internal/metrics"
	"github.com/Veraticus/spendwise/internal/model"
)

// HeaderUserID carries the caller's user id, set by the upstream gateway.
const HeaderUserID = "X-User-ID"

const userKey = "user"

// Categorizer previews categories for notes.
type Categorizer interface {
	Preview(ctx context.Context, note, userID string) model.Preview
	SuggestWithClassifier(ctx context.Context, note string) model.Suggestions
}

// Server provides the HTTP endpoints.
type Server struct {
	echo        *echo.Echo
	expenses    *expense.Service
	categorizer Categorizer
	metrics     *metrics.Metrics
	gatherer    prometheus.Gatherer
	logger      *slog.Logger
	addr        string
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics records request counts into m and serves gatherer on /metrics.
func WithMetrics(m *metrics.Metrics, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = gatherer
	}
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewServer creates a server listening on addr.
func NewServer(addr string, expenses *expense.Service, categorizer Categorizer, opts ...Option) *Server {
	s := &Server{
		expenses:    expenses,
		categorizer: categorizer,
		logger:      slog.Default(),
		addr:        addr,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "api")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(s.logRequests)

	s.echo = e
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/healthz", s.handleHealth)
	if s.gatherer != nil {
		s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	v1 := s.echo.Group("/api/v1")
	v1.POST("/users", s.handleRegisterUser)

	authed := v1.Group("", s.requireUser)

	authed.GET("/categories", s.handleListCategories)
	authed.POST("/categories", s.handleCreateCategory)
	authed.PUT("/categories/:id", s.handleUpdateCategory)
	authed.DELETE("/categories/:id", s.handleDeleteCategory)
	authed.GET("/categories/:id/expenses-count", s.handleCountExpenses)

	authed.GET("/expenses", s.handleListExpenses)
	authed.POST("/expenses", s.handleCreateExpense)
	authed.POST("/expenses/categorize-preview", s.handlePreview)
	authed.GET("/expenses/:id", s.handleGetExpense)
	authed.PUT("/expenses/:id", s.handleUpdateExpense)
	authed.DELETE("/expenses/:id", s.handleDeleteExpense)

	authed.GET("/suggestions", s.handleSuggestions)

	authed.POST("/reports", s.handleReport)
	authed.GET("/reports/this-month", s.handleThisMonth)
	authed.GET("/reports/last-month", s.handleLastMonth)
	authed.GET("/reports/monthly", s.handleMonthly)
}

// logRequests writes one log line and one counter increment per request.
func (s *Server) logRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		status := c.Response().Status
		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
		} else if err != nil {
			status = http.StatusInternalServerError
		}

		s.logger.Info("http request",
			"method", c.Request().Method,
			"uri", c.Request().RequestURI,
			"status", status,
			"duration", time.Since(start),
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID))
		s.metrics.ObserveHTTPRequest(c.Path(), c.Request().Method, strconv.Itoa(status))

		return err
	}
}

// requireUser resolves the X-User-ID header to a stored user.
func (s *Server) requireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Request().Header.Get(HeaderUserID)
		if id == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing "+HeaderUserID+" header")
		}
		user, err := s.expenses.GetUser(c.Request().Context(), id)
		if err != nil {
			if isNotFound(err) {
				return echo.NewHTTPError(http.StatusUnauthorized, "unknown user")
			}
			return s.fail(err)
		}
		c.Set(userKey, user)
		return next(c)
	}
}

func userID(c echo.Context) string {
	user, ok := c.Get(userKey).(*model.User)
	if !ok {
		return ""
	}
	return user.ID
}

// HealthResponse is the response body for GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("starting http server", "addr", s.addr)
	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
