// Command revalue runs the batch valuation job for one user.
//
//	revalue -user <uuid> [-skip-recent-days N] [-workers N]
//
// The exit code is 1 when any property failed to value.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"estate-backend/internal/application/valuation"
	"estate-backend/internal/config"
	"estate-backend/internal/infrastructure/database"
	"estate-backend/internal/interfaces/router"
	"estate-backend/internal/middleware"
	"estate-backend/internal/pkg/logging"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load")
	}

	userFlag := flag.String("user", "", "user id whose properties are revalued")
	skip := flag.Int("skip-recent-days", cfg.SkipRecentDays, "skip properties valued within this many days")
	workers := flag.Int("workers", cfg.ValuationWorkers, "concurrent valuations")
	flag.Parse()

	logging.Setup(cfg.LogLevel, true)

	userID, err := uuid.Parse(*userFlag)
	if err != nil {
		log.Fatal().Str("user", *userFlag).Msg("-user must be a UUID")
	}
	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("no database configured")
	}
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database open")
	}
	rdb, err := optionalRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("redis")
	}

	svc := router.NewServices(cfg, db, rdb).Valuation
	svc.Workers = *workers

	// Ctrl-C stops scheduling further properties; in-flight ones finish.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out, err := svc.UpdateAll(ctx, userID, valuation.BatchOptions{SkipRecentDays: *skip})
	if err != nil {
		log.Fatal().Err(err).Msg("batch valuation")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
	if out.Failed > 0 {
		os.Exit(1)
	}
}

func optionalRedis(url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}
	return middleware.NewRedisClient(url)
}
