package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/isdelr/auth-service-be/internal/api"
	"github.com/isdelr/auth-service-be/internal/auth"
	"github.com/isdelr/auth-service-be/internal/config"
	"github.com/isdelr/auth-service-be/internal/database"
	"github.com/isdelr/auth-service-be/internal/logger"
	"github.com/isdelr/auth-service-be/internal/security"
	"github.com/isdelr/auth-service-be/internal/services"
	"github.com/isdelr/auth-service-be/internal/store"
)

func main() {
	logger.Init()

	// Load configuration; secrets and DB coordinates have no defaults, so a
	// misconfigured process refuses to start.
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up database
	ctx := context.Background()
	pool, err := database.New(ctx, cfg.Database.URL())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up services
	userStore := store.NewPostgresUserStore(pool)
	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)
	issuer := auth.NewIssuer([]byte(cfg.JWTSecret))
	authService := services.NewAuthService(userStore, hasher, issuer)

	// Set up router
	router := api.NewRouter(authService)

	// Set up server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
