package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"estate-backend/internal/config"
	"estate-backend/internal/infrastructure/database"
	"estate-backend/internal/interfaces/router"
	"estate-backend/internal/pkg/logging"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load")
	}
	logging.Setup(cfg.LogLevel, cfg.Env == "development")

	app, db, rdb, err := router.CreateApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("app create")
	}

	// Verify connections before serving.
	if db != nil {
		if err := database.Ping(db); err != nil {
			log.Fatal().Err(err).Msg("Database connection failed")
		}
		if !cfg.IsProduction() {
			if err := database.AutoMigrate(db); err != nil {
				log.Fatal().Err(err).Msg("Database migration failed")
			}
		}
		log.Info().Msg("Database connected")
	} else {
		log.Warn().Msg("No database configured; only /health/json is served")
	}
	if rdb != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("Redis connection failed")
		}
		log.Info().Msg("Redis connected")
	}

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		log.Info().Msg("Shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("port", cfg.Port).Msgf("Server running at http://localhost:%s (health: /health/json)", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("listen")
	}
}
