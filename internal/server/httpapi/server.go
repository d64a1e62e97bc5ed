// Package httpapi is the JSON HTTP adapter over the blog services.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	gommonlog "github.com/labstack/gommon/log"
	"github.com/nrednav/cuid2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dmitrijs2005/blogmirror/internal/logging"
)

const (
	shutdownTimeout = 10 * time.Second
	bodyLimit       = "1M"
	metricsName     = "blog"
)

// StatusSource reports per-component health for GET /health.
type StatusSource interface {
	Statuses() map[string]bool
}

type Services struct {
	Users    UserService
	Posts    PostService
	Comments CommentService
}

type Server struct {
	addr   string
	echo   *echo.Echo
	svc    Services
	health StatusSource
	logger logging.Logger
}

func NewServer(addr string, svc Services, health StatusSource, logger logging.Logger) *Server {
	s := &Server{
		addr:   addr,
		echo:   echo.New(),
		svc:    svc,
		health: health,
		logger: logger.With("module", "http"),
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Logger.SetLevel(gommonlog.WARN)
	s.echo.HTTPErrorHandler = s.handleError

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s.echo.Use(middleware.BodyLimit(bodyLimit))
	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string {
			return cuid2.Generate()
		},
	}))
	s.echo.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  metricsName,
		Registerer: registry,
	}))
	s.echo.Use(middleware.Recover())
	s.echo.Use(s.requestLogger)

	s.echo.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: registry}))
	s.echo.GET("/health", s.getHealth)

	s.routes()
	return s
}

func (s *Server) routes() {
	auth := s.requireUser

	u := s.echo.Group("/users")
	u.POST("", s.register)
	u.POST("/register", s.register)
	u.POST("/login", s.login)
	u.POST("/find-id", s.findID)
	u.POST("/reset-password", s.resetPassword)
	u.POST("/change-password", s.changePassword)
	u.DELETE("/delete-account", s.deleteAccount)
	u.GET("/me", s.me, auth)

	p := s.echo.Group("/posts")
	p.POST("", s.createPost, auth)
	p.GET("", s.listPosts)
	p.GET("/:id", s.getPost)
	p.PUT("/:id", s.updatePost, auth)
	p.DELETE("/:id", s.deletePost, auth)

	c := s.echo.Group("/comments")
	c.POST("", s.createComment, auth)
	c.GET("/:post_id", s.listComments)
	c.PUT("/:id", s.updateComment, auth)
	c.DELETE("/:id", s.deleteComment, auth)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info(ctx, "http server listening", "addr", s.addr)
		if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info(ctx, "http server stopping")
	return s.echo.Shutdown(shutdownCtx)
}

func (s *Server) getHealth(c echo.Context) error {
	status := http.StatusOK
	body := map[string]any{"status": "ok"}

	if s.health != nil {
		components := s.health.Statuses()
		for _, healthy := range components {
			if !healthy {
				body["status"] = "degraded"
			}
		}
		body["components"] = components
	}

	return c.JSON(status, body)
}
