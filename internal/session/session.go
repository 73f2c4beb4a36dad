package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"bus-route-service/internal/domain"
	"bus-route-service/internal/ports"
)

var (
	ErrClosed          = errors.New("session is closed")
	ErrIndexOutOfRange = errors.New("waypoint index out of range")
	ErrInvalidPoint    = errors.New("coordinates out of range")
	ErrTooFewWaypoints = errors.New("route needs at least two waypoints")
	ErrResolving       = errors.New("addresses are still being resolved")
)

// State of the route-editing state machine.
type State int

const (
	StateEmpty      State = iota // no waypoints
	StateCollecting              // one waypoint, geocoding only
	StateRouted                  // two or more waypoints, geocoding and routing
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateCollecting:
		return "collecting"
	case StateRouted:
		return "routed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *State) UnmarshalText(b []byte) error {
	switch string(b) {
	case "empty":
		*s = StateEmpty
	case "collecting":
		*s = StateCollecting
	case "routed":
		*s = StateRouted
	default:
		return fmt.Errorf("unknown session state %q", b)
	}
	return nil
}

func stateFor(n int) State {
	switch {
	case n == 0:
		return StateEmpty
	case n == 1:
		return StateCollecting
	default:
		return StateRouted
	}
}

// Options bound the background work a session starts.
type Options struct {
	// ResolveTimeout bounds one address batch across every provider.
	ResolveTimeout time.Duration
	// RouteTimeout bounds one route fetch including retries.
	RouteTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.ResolveTimeout <= 0 {
		o.ResolveTimeout = 30 * time.Second
	}
	if o.RouteTimeout <= 0 {
		o.RouteTimeout = 30 * time.Second
	}
	return o
}

// Session owns one route being drawn: the ordered waypoints and everything
// derived from them.
//
// Every mutation bumps a generation counter and re-resolves all addresses
// (and, with two or more waypoints, re-fetches the route) in the
// background. Results are applied only when their generation is still the
// latest, so a slow response can never overwrite newer state. A failed
// route fetch leaves the previous route in place.
type Session struct {
	ID        string
	CreatedAt time.Time

	resolver ports.AddressResolver
	fetcher  ports.RouteFetcher
	logger   *zap.Logger
	opts     Options

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	waypoints  []domain.LatLng
	addresses  []string
	route      *domain.RawRoute
	segments   []domain.Segment
	resolving  bool
	routing    bool
	editing    bool
	generation uint64
	pending    int
	closed     bool
	changed    chan struct{}
	updatedAt  time.Time
}

// New returns an empty session. Zero fields in opts default to 30s.
func New(
	id string,
	resolver ports.AddressResolver,
	fetcher ports.RouteFetcher,
	logger *zap.Logger,
	opts Options,
) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	now := time.Now().UTC()

	return &Session{
		ID:        id,
		CreatedAt: now,
		resolver:  resolver,
		fetcher:   fetcher,
		logger:    logger.With(zap.String("component", "session"), zap.String("session_id", id)),
		opts:      opts.withDefaults(),
		ctx:       ctx,
		cancel:    cancel,
		changed:   make(chan struct{}),
		updatedAt: now,
	}
}

// AddWaypoint appends p and triggers re-resolution of the whole route.
func (s *Session) AddWaypoint(p domain.LatLng) (Snapshot, error) {
	if !p.Valid() {
		return Snapshot{}, ErrInvalidPoint
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Snapshot{}, ErrClosed
	}

	s.waypoints = append(s.waypoints, p)
	s.triggerLocked()

	return s.snapshotLocked(), nil
}

// MoveWaypoint replaces the waypoint at index in place and triggers
// re-resolution of the whole route.
func (s *Session) MoveWaypoint(index int, p domain.LatLng) (Snapshot, error) {
	if !p.Valid() {
		return Snapshot{}, ErrInvalidPoint
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Snapshot{}, ErrClosed
	}
	if index < 0 || index >= len(s.waypoints) {
		return Snapshot{}, fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, len(s.waypoints))
	}

	s.waypoints[index] = p
	s.triggerLocked()

	return s.snapshotLocked(), nil
}

// Reset clears all waypoints and derived state. Results of requests still
// in flight are discarded when they land.
func (s *Session) Reset() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Snapshot{}, ErrClosed
	}

	s.generation++
	s.waypoints = nil
	s.addresses = nil
	s.route = nil
	s.segments = nil
	s.resolving = false
	s.routing = false
	s.notifyLocked()

	return s.snapshotLocked(), nil
}

// SetEditing toggles the map interaction mode.
func (s *Session) SetEditing(editing bool) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Snapshot{}, ErrClosed
	}

	if s.editing != editing {
		s.editing = editing
		s.notifyLocked()
	}

	return s.snapshotLocked(), nil
}

// State returns the current state machine state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return stateFor(len(s.waypoints))
}

// Changed returns a channel closed on the next state change.
func (s *Session) Changed() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changed
}

// Settle blocks until no geocode or route request is in flight, or ctx is
// done.
func (s *Session) Settle(ctx context.Context) error {
	for {
		s.mu.Lock()
		if s.pending == 0 {
			s.mu.Unlock()
			return nil
		}
		ch := s.changed
		s.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close tears the session down and cancels in-flight requests.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.cancel()
	s.notifyLocked()
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) triggerLocked() {
	s.generation++
	gen := s.generation
	points := append([]domain.LatLng(nil), s.waypoints...)

	if len(points) >= 1 {
		s.resolving = true
		s.pending++
		go s.resolve(gen, points)
	}

	if len(points) >= 2 {
		s.routing = true
		s.pending++
		go s.fetch(gen, points)
	}

	s.notifyLocked()
}

func (s *Session) resolve(gen uint64, points []domain.LatLng) {
	ctx, cancel := context.WithTimeout(s.ctx, s.opts.ResolveTimeout)
	defer cancel()

	addrs := s.resolver.ResolveAddresses(ctx, points)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending--
	defer s.notifyLocked()

	if s.closed {
		return
	}
	if gen != s.generation {
		s.logger.Debug("discarding stale addresses",
			zap.Uint64("generation", gen),
			zap.Uint64("current", s.generation),
		)
		return
	}

	s.addresses = addrs
	s.resolving = false
}

func (s *Session) fetch(gen uint64, points []domain.LatLng) {
	ctx, cancel := context.WithTimeout(s.ctx, s.opts.RouteTimeout)
	defer cancel()

	route, err := s.fetcher.FetchRoute(ctx, points)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending--
	defer s.notifyLocked()

	if s.closed {
		return
	}
	if gen != s.generation {
		s.logger.Debug("discarding stale route",
			zap.Uint64("generation", gen),
			zap.Uint64("current", s.generation),
		)
		return
	}

	s.routing = false

	if err != nil {
		s.logger.Warn("route fetch failed, keeping previous route",
			zap.Int("waypoints", len(points)),
			zap.Error(err),
		)
		return
	}
	if route == nil {
		return
	}

	s.route = route
	s.segments = route.Segments()
}

func (s *Session) notifyLocked() {
	close(s.changed)
	s.changed = make(chan struct{})
	s.updatedAt = time.Now().UTC()
}
