package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/yigit/unirecords/internal/app/repositories"
	"github.com/yigit/unirecords/internal/bootstrap"
	"github.com/yigit/unirecords/internal/config"
	"github.com/yigit/unirecords/internal/pkg/helpers"
)

const (
	startupTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
	idleTimeout     = 120 * time.Second
)

// Server owns the HTTP listener and the entity store behind it
type Server struct {
	config *config.Config
	router *gin.Engine
	store  repositories.Store
	logger zerolog.Logger
}

// NewServer loads configuration, opens the store, seeds it when enabled and
// builds the router.
func NewServer() (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}
	return New(cfg, lgr)
}

// New builds a Server from an already loaded configuration.
func New(cfg *config.Config, lgr zerolog.Logger) (*Server, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	store, err := bootstrap.SetupStore(ctx, cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup store: %w", err)
	}

	deps, err := bootstrap.BuildDependencies(cfg, store, lgr)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}
	bootstrap.SeedDefaultData(ctx, cfg, deps)

	return &Server{
		config: cfg,
		router: bootstrap.SetupRouter(cfg, deps, lgr),
		store:  store,
		logger: lgr,
	}, nil
}

// Run listens on the configured port until ctx is cancelled, then drains
// in-flight requests and closes the store.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", ":"+s.config.Server.Port)
	if err != nil {
		s.store.Close()
		return fmt.Errorf("failed to listen on port %s: %w", s.config.Server.Port, err)
	}
	return s.Serve(ctx, listener)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:      s.router,
		ReadTimeout:  helpers.Duration("server.read_timeout", s.config.Server.ReadTimeout, 15*time.Second),
		WriteTimeout: helpers.Duration("server.write_timeout", s.config.Server.WriteTimeout, 15*time.Second),
		IdleTimeout:  idleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info().Str("addr", listener.Addr().String()).Msg("HTTP server listening")
		if err := httpServer.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server stopped: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info().Msg("Shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	})

	err := g.Wait()

	s.logger.Info().Msg("Closing entity store...")
	s.store.Close()

	if err != nil {
		s.logger.Error().Err(err).Msg("Server stopped with errors")
		return err
	}
	s.logger.Info().Msg("Server shutdown complete")
	return nil
}
