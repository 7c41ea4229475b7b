// Package httpapi is the sync server: it accepts mesh snapshots from the
// peer on POST /model and replaces the local mesh with them.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"meshsync/internal/microservices/http-api/handler"
	"meshsync/internal/microservices/http-api/middleware"
	"meshsync/internal/microservices/http-api/service"
)

const shutdownGrace = 5 * time.Second

type Options struct {
	MaxSnapshotBytes int64
	RateLimit        float64 // snapshots per second
	RateBurst        int
	AccessLog        io.Writer // nil disables access logging
}

type Server struct {
	Addr   string
	engine *gin.Engine
	logger *slog.Logger
}

// constructor for Server
func NewServer(addr string, meshService service.MeshService, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		Addr:   addr,
		engine: NewRouter(meshService, opts, logger),
		logger: logger,
	}
}

// NewRouter wires middleware and routes onto a fresh gin engine.
func NewRouter(meshService service.MeshService, opts Options, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	if opts.AccessLog != nil {
		r.Use(middleware.AccessLog(opts.AccessLog))
	}
	r.Use(gin.Recovery()) // a panicking handler must not take the accept loop down

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), opts.RateBurst)
	h := handler.NewModelHandler(meshService, opts.MaxSnapshotBytes, logger)
	h.RegisterRoutes(r, middleware.RateLimit(limiter))
	return r
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start listens on s.Addr and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("failed to start sync server, error: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts on ln until ctx is cancelled, then drains in-flight requests.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Serve(ln)
	}()
	s.logger.Info("sync_server_started", "addr", ln.Addr().String())

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("sync_server_shutdown_failed", "error", err.Error())
		return err
	}
	s.logger.Info("sync_server_stopped", "addr", ln.Addr().String())
	return nil
}
