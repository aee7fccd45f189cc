// Package admin serves the broker's administrative HTTP API: topic inspection and
// updates, snapshots, metrics and a websocket feed of topic registrations.
package admin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	adminmw "github.com/nfrund/mqbroker/internal/middleware"
	"github.com/nfrund/mqbroker/internal/topicmgr"
)

// Options configures the admin Server.
type Options struct {
	Addr     string
	Version  string
	Manager  *topicmgr.Manager
	Feed     *Feed
	Gatherer prometheus.Gatherer

	// AutoCreateRate limits auto-create requests per client and second. Zero disables the limit.
	AutoCreateRate uint32
}

// Server holds the dependencies for the admin HTTP server.
type Server struct {
	e       *echo.Echo
	addr    string
	version string
	mgr     *topicmgr.Manager
}

// New creates a Server and registers its routes.
func New(opts Options) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()

	e.Use(middleware.Recover())
	e.Use(requestLogging()...)

	s := &Server{
		e:       e,
		addr:    opts.Addr,
		version: opts.Version,
		mgr:     opts.Manager,
	}
	s.registerRoutes(opts)
	return s
}

func (s *Server) registerRoutes(opts Options) {
	if opts.Feed != nil {
		s.e.GET("/topics/watch", echo.WrapHandler(opts.Feed))
	}
	s.e.GET("/topics", s.listTopics)
	s.e.GET("/topics/:name", s.getTopic)
	s.e.PUT("/topics/:name", s.putTopic)
	s.e.DELETE("/topics/:name", s.deleteTopic)
	var limit []echo.MiddlewareFunc
	if opts.AutoCreateRate > 0 {
		limit = append(limit, adminmw.RateLimiter(opts.AutoCreateRate))
	}
	s.e.POST("/topics/:name/autocreate", s.autoCreateTopic, limit...)
	s.e.GET("/snapshot", s.snapshot)
	s.e.GET("/version", s.handleVersion)

	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	s.e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.e
}

// Start listens on the configured address and blocks until the server stops.
// A graceful shutdown is not reported as an error.
func (s *Server) Start() error {
	slog.Info("Starting admin server", "addr", s.addr)
	if err := s.e.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
