package routing

import (
	"context"
	"sync"

	"bus-route-service/internal/domain"
)

// StaticFetcher returns a fixed route (or error) and records the point
// lists it was called with.
type StaticFetcher struct {
	Route *domain.RawRoute
	Err   error

	mu    sync.Mutex
	calls [][]domain.LatLng
}

func (s *StaticFetcher) FetchRoute(ctx context.Context, points []domain.LatLng) (*domain.RawRoute, error) {
	if len(points) < 2 {
		return nil, ErrTooFewPoints
	}

	s.mu.Lock()
	s.calls = append(s.calls, append([]domain.LatLng(nil), points...))
	s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}
	return s.Route, nil
}

// Calls returns the point lists received so far.
func (s *StaticFetcher) Calls() [][]domain.LatLng {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]domain.LatLng(nil), s.calls...)
}
