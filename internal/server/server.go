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
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	appRepos "github.com/aquaclub/aquaclub/internal/app/repositories"
	"github.com/aquaclub/aquaclub/internal/bootstrap"
	"github.com/aquaclub/aquaclub/internal/config"
)

// tokenCleanupInterval is how often expired and revoked refresh tokens
// are purged from the database.
const tokenCleanupInterval = time.Hour

// Server holds the state for the HTTP server.
type Server struct {
	config         *config.Config
	router         *gin.Engine
	dbPool         *pgxpool.Pool
	tokenRepo      *appRepos.TokenRepository
	resetTokenRepo *appRepos.PasswordResetTokenRepository
	logger         zerolog.Logger
	http           *http.Server
	stopCleanup    chan struct{}
}

// NewServer creates and initializes a new server instance by calling bootstrap functions.
func NewServer() (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	dbPool, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	deps, err := bootstrap.BuildDependencies(cfg, dbPool, lgr)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}

	router := bootstrap.SetupRouter(cfg, deps, lgr)

	s := &Server{
		config:         cfg,
		router:         router,
		dbPool:         dbPool,
		tokenRepo:      deps.Repos.TokenRepository,
		resetTokenRepo: deps.Repos.ResetTokenRepository,
		logger:         lgr,
		stopCleanup:    make(chan struct{}),
	}

	return s, nil
}

// runTokenCleanup periodically purges expired refresh tokens until the
// server shuts down.
func (s *Server) runTokenCleanup() {
	ticker := time.NewTicker(tokenCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			removed, err := s.tokenRepo.CleanupExpiredTokens(ctx)
			if err != nil {
				s.logger.Error().Err(err).Msg("Token cleanup failed")
			} else if removed > 0 {
				s.logger.Info().Int64("removed", removed).Msg("Expired refresh tokens purged")
			}

			removedResets, err := s.resetTokenRepo.DeleteExpiredResetTokens(ctx)
			if err != nil {
				s.logger.Error().Err(err).Msg("Reset token cleanup failed")
			} else if removedResets > 0 {
				s.logger.Info().Int64("removed", removedResets).Msg("Expired password reset tokens purged")
			}
			cancel()
		case <-s.stopCleanup:
			return
		}
	}
}

// Run starts the HTTP server and handles graceful shutdown.
func (s *Server) Run() error {
	s.logger.Info().Str("port", s.config.Server.Port).Msg("Starting server...")

	// Browser clients live on a different origin, so the whole router
	// goes behind a CORS layer.
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}).Handler(s.router)

	s.http = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      corsHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go s.runTokenCleanup()

	// Channel to listen for errors starting the server
	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		serverErrors <- s.http.ListenAndServe()
	}()

	// Channel to listen for OS signals
	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive either a server error or an OS signal
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
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

	shutdownError := false

	if s.stopCleanup != nil {
		close(s.stopCleanup)
		s.stopCleanup = nil
	}

	if s.http != nil {
		s.logger.Info().Msg("Shutting down HTTP server...")
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server shutdown error")
			shutdownError = true
		} else {
			s.logger.Info().Msg("HTTP server gracefully stopped.")
		}
	}

	if s.dbPool != nil {
		s.logger.Info().Msg("Closing database connection pool...")
		s.dbPool.Close()
		s.logger.Info().Msg("Database connection pool closed.")
	}

	s.logger.Info().Msg("Server shutdown process complete.")
	if shutdownError {
		return errors.New("server shutdown completed with errors")
	}
	return nil
}
