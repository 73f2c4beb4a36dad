package ports

import (
	"context"

	"bus-route-service/internal/domain"
)

// Contract for best-effort reverse geocoding. Implementations never fail:
// they return one of the reserved address sentinels instead.
type AddressResolver interface {
	// Return the display address of a single point.
	ResolveAddress(ctx context.Context, p domain.LatLng) string
	// Return one address per point, aligned by index with the input.
	ResolveAddresses(ctx context.Context, points []domain.LatLng) []string
}

// Optional persistent or in-memory store of resolved addresses.
type AddressCache interface {
	GetAddress(ctx context.Context, p domain.LatLng) (string, bool, error)
	PutAddress(ctx context.Context, p domain.LatLng, address string) error
}

// Optional batch read for address caches. Hits are keyed by the index of
// the point in points; misses are absent.
type BatchAddressCache interface {
	GetAddresses(ctx context.Context, points []domain.LatLng) (map[int]string, error)
}
