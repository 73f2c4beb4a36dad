package geocode

import (
	"context"
	"fmt"

	"bus-route-service/internal/domain"
)

// StaticResolver answers from a fixed table keyed by "lat,lng" and falls
// back to Default for unknown points.
type StaticResolver struct {
	m       map[string]string
	Default string
}

func NewStaticResolver(entries map[domain.LatLng]string, fallback string) *StaticResolver {
	m := make(map[string]string, len(entries))
	for p, addr := range entries {
		m[staticKey(p)] = addr
	}
	return &StaticResolver{m: m, Default: fallback}
}

func (s *StaticResolver) ResolveAddress(ctx context.Context, p domain.LatLng) string {
	if addr, ok := s.m[staticKey(p)]; ok {
		return addr
	}
	return s.Default
}

func (s *StaticResolver) ResolveAddresses(ctx context.Context, points []domain.LatLng) []string {
	out := make([]string, len(points))
	for i, p := range points {
		out[i] = s.ResolveAddress(ctx, p)
	}
	return out
}

func staticKey(p domain.LatLng) string {
	return fmt.Sprintf("%g,%g", p.Lat, p.Lng)
}
