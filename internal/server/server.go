// Package server provides the preview HTTP server for rendered reports.
// It handles server lifecycle, routes, and graceful shutdown.
package server

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/verustcode/doctest/internal/api/handler"
	"github.com/verustcode/doctest/internal/api/router"
	"github.com/verustcode/doctest/internal/config"
	"github.com/verustcode/doctest/pkg/errors"
	"github.com/verustcode/doctest/pkg/logger"
)

// HTTP server timeout configuration
const (
	defaultReadTimeout     = 30 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 30 * time.Second
	defaultStopTimeout     = 5 * time.Second
)

// Server represents the preview HTTP server
type Server struct {
	cfg        *config.Config
	store      handler.ReportStore
	httpServer *http.Server
	listener   net.Listener
	router     *gin.Engine
}

// New creates a new server instance serving the reports of store
func New(cfg *config.Config, store handler.ReportStore) *Server {
	if cfg.Server.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false

	return &Server{
		cfg:    cfg,
		store:  store,
		router: r,
	}
}

// SetupRoutes configures all routes
func (s *Server) SetupRoutes() {
	router.Setup(s.router, s.cfg, s.store)
}

// Start binds the configured address and serves in the background.
// Binding errors are returned; serving errors are logged.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.cfg.Server.Address())
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to listen", err).WithDetails(s.cfg.Server.Address())
	}
	s.listener = listener

	s.httpServer = &http.Server{
		Handler:      s.router,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
	}

	logger.Info("Starting preview server",
		zap.String("address", s.Addr()),
		zap.String("output_dir", s.store.OutputDir()),
		zap.Bool("debug", s.cfg.Server.Debug),
	)

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("Preview server stopped unexpectedly", zap.Error(err))
		}
	}()

	return nil
}

// Addr returns the address the server listens on, or the configured address before Start
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.cfg.Server.Address()
}

// WaitForShutdown blocks until ctx is done or a shutdown signal arrives, then
// stops the server gracefully. A second signal forces immediate exit.
func (s *Server) WaitForShutdown(ctx context.Context) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		logger.Info("Received shutdown signal, starting graceful shutdown (press Ctrl+C again to force exit)",
			zap.String("signal", sig.String()))

		go func() {
			sig := <-quit
			logger.Warn("Received second shutdown signal, forcing exit",
				zap.String("signal", sig.String()))
			os.Exit(1)
		}()
	case <-ctx.Done():
		logger.Info("Context cancelled, shutting down preview server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server forced to shutdown", zap.Error(err))
		}
	}

	logger.Info("Server stopped")
}

// Stop stops the server immediately
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultStopTimeout)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

// Router returns the underlying Gin router
func (s *Server) Router() *gin.Engine {
	return s.router
}
