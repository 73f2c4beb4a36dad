package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"bus-route-service/internal/domain"
	"bus-route-service/internal/platform/obs"
)

// RedisRouteCache stores fetched routes as JSON keyed by their quantized
// point list.
type RedisRouteCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisRouteCache connects to redis and verifies the connection.
func NewRedisRouteCache(ctx context.Context, addr, password string, db int, ttl time.Duration, logger *zap.Logger) (*RedisRouteCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return newRedisRouteCache(client, ttl, logger), nil
}

func newRedisRouteCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisRouteCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisRouteCache{
		client: client,
		prefix: "busroute:",
		ttl:    ttl,
		logger: logger.With(zap.String("component", "route_cache")),
	}
}

func (c *RedisRouteCache) Close() error {
	return c.client.Close()
}

func (c *RedisRouteCache) key(points []domain.LatLng) string {
	return c.prefix + RouteKey(points)
}

func (c *RedisRouteCache) GetRoute(ctx context.Context, points []domain.LatLng) (_ *domain.RawRoute, _ bool, err error) {
	defer obs.Time(ctx, c.logger, "route.cache.Get")(&err)

	data, err := c.client.Get(ctx, c.key(points)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get route cache: %w", err)
	}

	var route domain.RawRoute
	if err := json.Unmarshal(data, &route); err != nil {
		return nil, false, fmt.Errorf("get route cache: json unmarshal: %w", err)
	}
	return &route, true, nil
}

func (c *RedisRouteCache) PutRoute(ctx context.Context, points []domain.LatLng, route *domain.RawRoute) error {
	if route == nil {
		return errors.New("put route cache: route is nil")
	}

	data, err := json.Marshal(route)
	if err != nil {
		return fmt.Errorf("put route cache: json marshal: %w", err)
	}

	if err := c.client.Set(ctx, c.key(points), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("put route cache: %w", err)
	}
	c.logger.Debug("route cached", zap.Int("points", len(points)), zap.Int("size_bytes", len(data)))
	return nil
}
