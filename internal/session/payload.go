package session

import (
	"time"

	"bus-route-service/internal/domain"
)

// Payload is the record handed downstream when a line is submitted.
// TotalDistance and TotalDuration are nil when no route was ever fetched.
type Payload struct {
	SessionID        string          `json:"sessionId"`
	SubmittedAt      time.Time       `json:"submittedAt"`
	Line             LineMetadata    `json:"line"`
	Waypoints        []domain.LatLng `json:"waypoints"`
	Addresses        []string        `json:"addresses"`
	TotalDistance    *float64        `json:"totalDistance"`
	TotalDuration    *float64        `json:"totalDuration"`
	RouteCoordinates []domain.LatLng `json:"routeCoordinates"`
	Polyline         string          `json:"polyline"`
}

// Payload validates meta and assembles the submission record from the
// current state. It fails with ErrResolving while the latest address batch
// is in flight, so addresses always line up with waypoints.
func (s *Session) Payload(meta LineMetadata) (*Payload, error) {
	if err := meta.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	if len(s.waypoints) < 2 {
		return nil, ErrTooFewWaypoints
	}
	if s.resolving || len(s.addresses) != len(s.waypoints) {
		return nil, ErrResolving
	}

	p := &Payload{
		SessionID:        s.ID,
		SubmittedAt:      time.Now().UTC(),
		Line:             meta,
		Waypoints:        append([]domain.LatLng{}, s.waypoints...),
		Addresses:        append([]string{}, s.addresses...),
		RouteCoordinates: []domain.LatLng{},
	}

	if s.route != nil {
		distance, duration := s.route.DistanceMeters, s.route.DurationSeconds
		p.TotalDistance = &distance
		p.TotalDuration = &duration
		p.RouteCoordinates = append(p.RouteCoordinates, s.route.Geometry...)
		p.Polyline = domain.EncodePolyline(s.route.Geometry)
	}

	return p, nil
}
