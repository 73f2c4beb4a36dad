package session

import (
	"time"

	"bus-route-service/internal/domain"
)

// Totals are projections of the current route, recomputed on every read.
type Totals struct {
	DistanceMeters  float64 `json:"distanceMeters"`
	DurationSeconds float64 `json:"durationSeconds"`
	DistanceKm      string  `json:"distanceKm"`
	Duration        string  `json:"duration"`
	DurationFull    string  `json:"durationFull"`
}

func totalsOf(r *domain.RawRoute) *Totals {
	if r == nil {
		return nil
	}
	return &Totals{
		DistanceMeters:  r.DistanceMeters,
		DurationSeconds: r.DurationSeconds,
		DistanceKm:      domain.FormatDistanceKm(r.DistanceMeters),
		Duration:        domain.FormatDuration(r.DurationSeconds),
		DurationFull:    domain.FormatDurationFull(r.DurationSeconds),
	}
}

// Snapshot is a consistent copy of a session's merged view.
//
// Addresses is empty while Resolving is true. Once the latest batch lands it
// has one entry per waypoint, in order.
type Snapshot struct {
	ID         string           `json:"id"`
	State      State            `json:"state"`
	Generation uint64           `json:"generation"`
	Waypoints  []domain.LatLng  `json:"waypoints"`
	Addresses  []string         `json:"addresses"`
	Route      []domain.LatLng  `json:"route"`
	Polyline   string           `json:"polyline"`
	Segments   []domain.Segment `json:"segments"`
	Totals     *Totals          `json:"totals,omitempty"`
	Resolving  bool             `json:"resolving"`
	Routing    bool             `json:"routing"`
	Editing    bool             `json:"editing"`
	Closed     bool             `json:"closed"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// Snapshot returns the current merged view.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Totals returns the route totals, or nil before any route was fetched.
func (s *Session) Totals() *Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalsOf(s.route)
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:         s.ID,
		State:      stateFor(len(s.waypoints)),
		Generation: s.generation,
		Waypoints:  append([]domain.LatLng{}, s.waypoints...),
		Addresses:  []string{},
		Route:      []domain.LatLng{},
		Segments:   append([]domain.Segment{}, s.segments...),
		Totals:     totalsOf(s.route),
		Resolving:  s.resolving,
		Routing:    s.routing,
		Editing:    s.editing,
		Closed:     s.closed,
		UpdatedAt:  s.updatedAt,
	}

	if !s.resolving {
		snap.Addresses = append(snap.Addresses, s.addresses...)
	}

	if s.route != nil {
		snap.Route = append(snap.Route, s.route.Geometry...)
		snap.Polyline = domain.EncodePolyline(s.route.Geometry)
	}

	return snap
}
