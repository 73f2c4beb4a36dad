package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"bus-route-service/internal/adapters/cache"
	"bus-route-service/internal/adapters/geocode"
	"bus-route-service/internal/adapters/publish"
	"bus-route-service/internal/adapters/routing"
	"bus-route-service/internal/api"
	"bus-route-service/internal/config"
	"bus-route-service/internal/platform/db"
	"bus-route-service/internal/platform/httpx"
	"bus-route-service/internal/platform/obs"
	"bus-route-service/internal/ports"
	"bus-route-service/internal/session"
)

// main is the application composition root.
// It wires concrete adapters (Nominatim, OSRM, caches, publisher) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := config.Load()

	logger, err := obs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	addressCache, closeDB, err := openAddressCache(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	routeCache, closeRedis := openRouteCache(ctx, cfg, logger)
	defer closeRedis()

	providers := geocode.ProvidersFromURLs(cfg.GeocodeProviders)
	geocodeClient := httpx.New(cfg.GeocodeTimeout, 1, cfg.GeocodeUserAgent)
	resolver, err := geocode.NewResolver(providers, geocodeClient, addressCache, logger)
	if err != nil {
		return err
	}

	routeClient := httpx.New(cfg.RouteTimeout, cfg.RouteRetries+1, cfg.GeocodeUserAgent)
	fetcher, err := routing.NewOSRMFetcher(cfg.RouterURL, routeClient, routeCache, logger)
	if err != nil {
		return err
	}

	publisher, closePublisher, err := openPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	// Batches try providers in order, so the budget grows with the list.
	opts := session.Options{
		ResolveTimeout: cfg.GeocodeTimeout*time.Duration(len(providers)) + time.Second,
		RouteTimeout:   cfg.RouteTimeout*time.Duration(cfg.RouteRetries+1) + 2*time.Second,
	}
	store := session.NewStore(cfg.SessionIdleTTL, resolver, fetcher, logger, opts)
	defer store.Close()

	router := api.NewRouter(store, publisher, logger, api.RouterConfig{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		SettleTimeout:  opts.RouteTimeout,
	})

	// WriteTimeout stays zero: snapshot streams are long-lived.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.Int("geocode_providers", len(providers)),
			zap.String("router", cfg.RouterURL),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openAddressCache returns the in-memory LRU, fronting postgres when
// DATABASE_URL is set.
func openAddressCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.AddressCache, func(), error) {
	memory := cache.NewMemoryAddressCache(cfg.AddressCacheSize, cfg.AddressCacheTTL)
	if cfg.DatabaseURL == "" {
		return memory, func() {}, nil
	}

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := cache.InitSchema(ctx, conn); err != nil {
		conn.Close()
		return nil, nil, err
	}

	logger.Info("address cache backed by postgres")
	tiered := cache.NewTieredAddressCache(memory, cache.NewSQLAddressCache(conn, logger))
	return tiered, closer(conn), nil
}

// openRouteCache connects to redis when enabled. An unreachable redis
// disables route caching instead of failing startup.
func openRouteCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.RouteCache, func()) {
	if !cfg.RedisEnabled {
		return nil, func() {}
	}

	rc, err := cache.NewRedisRouteCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RouteCacheTTL, logger)
	if err != nil {
		logger.Warn("route cache disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		return nil, func() {}
	}
	return rc, func() { _ = rc.Close() }
}

func openPublisher(cfg *config.Config, logger *zap.Logger) (ports.PayloadPublisher, func(), error) {
	if len(cfg.KafkaBrokers) == 0 {
		return publish.NewLogPublisher(logger), func() {}, nil
	}

	kp, err := publish.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("publishing submitted lines to kafka",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("topic", cfg.KafkaTopic),
	)
	return kp, func() { _ = kp.Close() }, nil
}

func closer(conn *sql.DB) func() {
	return func() { _ = conn.Close() }
}
