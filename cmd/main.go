// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/campusclub/clubhub/internal/auth"
	"github.com/campusclub/clubhub/internal/config"
	"github.com/campusclub/clubhub/internal/database"
	"github.com/campusclub/clubhub/internal/handler"
	"github.com/campusclub/clubhub/internal/mapper"
)

func main() {
	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()
	cfg := config.FromEnv()

	if err := database.Migrate(cfg); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}
	log.Info().Msg("schema up to date")

	ctx := context.Background()
	pool, err := database.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database unavailable")
	}
	defer pool.Close(ctx)

	reg := mapper.NewRegistry(pool, log)
	enforcer := auth.NewEnforcer(auth.NewProvider(reg), log)
	h := handler.New(reg, enforcer, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h.Routes(log, cfg.AllowedOrigin),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
