package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/yigit/hostelpg/internal/bootstrap"
	"github.com/yigit/hostelpg/internal/config"
)

// Server holds the state for the HTTP server.
type Server struct {
	config *config.Config
	router *gin.Engine
	dbPool *pgxpool.Pool
	redis  *redis.Client
	logger zerolog.Logger
	http   *http.Server
}

// NewServer creates and initializes a new server instance by calling bootstrap functions.
func NewServer(configPath string) (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	dbPool, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	revocation, redisClient, err := bootstrap.SetupRevocationStore(cfg, lgr)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to setup token revocation: %w", err)
	}

	s := &Server{
		config: cfg,
		dbPool: dbPool,
		redis:  redisClient,
		logger: lgr,
	}

	deps, err := bootstrap.BuildDependencies(cfg, dbPool, revocation, lgr)
	if err != nil {
		s.closeResources()
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}

	s.router, err = bootstrap.SetupRouter(cfg, deps, lgr)
	if err != nil {
		s.closeResources()
		return nil, fmt.Errorf("failed to setup router: %w", err)
	}

	return s, nil
}

// Run starts the HTTP server and handles graceful shutdown.
func (s *Server) Run() error {
	s.logger.Info().Str("port", s.config.Server.Port).Msg("Starting server...")

	s.http = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		serverErrors <- s.http.ListenAndServe()
	}()

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive either a server error or an OS signal
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			s.closeResources()
			return fmt.Errorf("error starting server: %w", err)
		}
	case sig := <-osSignals:
		s.logger.Info().Str("signal", sig.String()).Msg("Received OS signal, initiating shutdown...")
	}

	return s.Shutdown(context.Background())
}

// Shutdown gracefully stops the server and closes resources.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var shutdownErr error

	if s.http != nil {
		s.logger.Info().Msg("Shutting down HTTP server...")
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server shutdown error")
			shutdownErr = err
		} else {
			s.logger.Info().Msg("HTTP server gracefully stopped.")
		}
	}

	s.closeResources()

	s.logger.Info().Msg("Server shutdown process complete.")
	if shutdownErr != nil {
		return fmt.Errorf("server shutdown completed with errors: %w", shutdownErr)
	}
	return nil
}

func (s *Server) closeResources() {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("Redis client close error")
		}
		s.redis = nil
	}

	if s.dbPool != nil {
		s.logger.Info().Msg("Closing database connection pool...")
		s.dbPool.Close()
		s.dbPool = nil
	}
}
