package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"bus-route-service/internal/adapters/cache"
	"bus-route-service/internal/config"
	"bus-route-service/internal/platform/db"
	"bus-route-service/internal/platform/obs"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	logger, err := obs.NewLogger(config.Get("LOG_LEVEL", "info"), config.Get("LOG_FORMAT", "console"))
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	databaseURL := config.Get("DATABASE_URL", "")
	if strings.TrimSpace(databaseURL) == "" {
		logger.Fatal("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	conn, err := db.Open(ctx, databaseURL)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer conn.Close()

	logger.Info("initializing database schema")
	if err := cache.InitSchema(ctx, conn); err != nil {
		logger.Fatal("schema initialization failed", zap.Error(err))
	}

	seedPath := config.Get("SEED_PATH", "data/seeds/addresses.json")
	logger.Info("seeding address cache", zap.String("path", seedPath))
	n, err := cache.SeedFromJSON(ctx, cache.NewSQLAddressCache(conn, logger), seedPath)
	if err != nil {
		logger.Fatal("seeding failed", zap.Error(err))
	}
	logger.Info("seeding complete", zap.Int("addresses", n))
}
