package ports

import (
	"context"

	"bus-route-service/internal/domain"
)

// Contract for retrieving a driving route through ordered points.
type RouteFetcher interface {
	// Return the route through points (at least two), in lat/lng order.
	FetchRoute(ctx context.Context, points []domain.LatLng) (*domain.RawRoute, error)
}

// Optional store of previously fetched routes keyed by their point list.
type RouteCache interface {
	GetRoute(ctx context.Context, points []domain.LatLng) (*domain.RawRoute, bool, error)
	PutRoute(ctx context.Context, points []domain.LatLng, route *domain.RawRoute) error
}
