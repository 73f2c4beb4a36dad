package cache

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"bus-route-service/internal/domain"
)

func newTestRouteCache(t *testing.T) (*RedisRouteCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return newRedisRouteCache(client, time.Minute, nil), mr
}

func TestRedisRouteCacheRoundTrip(t *testing.T) {
	c, mr := newTestRouteCache(t)
	ctx := context.Background()

	points := []domain.LatLng{{Lat: -5.1, Lng: -42.84}, {Lat: -5.09, Lng: -42.83}}
	route := &domain.RawRoute{
		Geometry:        points,
		DistanceMeters:  1430.4,
		DurationSeconds: 165.1,
		Legs: []domain.Leg{{Steps: []domain.Step{{
			Name:     "Avenida Frei Serafim",
			Maneuver: points[0],
			Geometry: points,
		}}}},
		Waypoints: points,
	}

	if _, ok, err := c.GetRoute(ctx, points); err != nil || ok {
		t.Fatalf("got ok=%v err=%v, want miss", ok, err)
	}

	if err := c.PutRoute(ctx, points, route); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok, err := c.GetRoute(ctx, points)
	if err != nil || !ok {
		t.Fatalf("got ok=%v err=%v, want hit", ok, err)
	}
	if !reflect.DeepEqual(got, route) {
		t.Fatalf("got %+v, want %+v", got, route)
	}

	key := "busroute:route:-5.10000,-42.84000;-5.09000,-42.83000"
	if !mr.Exists(key) {
		t.Fatalf("expected key %q, have %v", key, mr.Keys())
	}
	if ttl := mr.TTL(key); ttl != time.Minute {
		t.Fatalf("ttl = %v, want 1m", ttl)
	}
}

func TestRedisRouteCacheOrderMatters(t *testing.T) {
	c, _ := newTestRouteCache(t)
	ctx := context.Background()

	a := domain.LatLng{Lat: 1, Lng: 1}
	b := domain.LatLng{Lat: 2, Lng: 2}

	_ = c.PutRoute(ctx, []domain.LatLng{a, b}, &domain.RawRoute{DistanceMeters: 1})

	if _, ok, _ := c.GetRoute(ctx, []domain.LatLng{b, a}); ok {
		t.Fatal("reversed point list must not hit")
	}
}

func TestRedisRouteCacheCorruptEntry(t *testing.T) {
	c, mr := newTestRouteCache(t)
	points := []domain.LatLng{{Lat: 1}, {Lat: 2}}

	if err := mr.Set(c.key(points), "not json"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, _, err := c.GetRoute(context.Background(), points); err == nil {
		t.Fatal("expected unmarshal error")
	}
}
