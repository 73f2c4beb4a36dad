package session

import (
	"errors"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"bus-route-service/internal/ports"
)

var ErrNotFound = errors.New("session not found")

// Store keeps live sessions and closes the ones left idle past the TTL.
type Store struct {
	items    *gocache.Cache
	resolver ports.AddressResolver
	fetcher  ports.RouteFetcher
	base     *zap.Logger
	logger   *zap.Logger
	opts     Options
}

// NewStore closes sessions idle for idleTTL (30m when zero). Every session
// it creates shares resolver, fetcher and opts.
func NewStore(
	idleTTL time.Duration,
	resolver ports.AddressResolver,
	fetcher ports.RouteFetcher,
	logger *zap.Logger,
	opts Options,
) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if idleTTL <= 0 {
		idleTTL = 30 * time.Minute
	}

	cleanup := min(idleTTL, time.Minute)
	items := gocache.New(idleTTL, cleanup)

	st := &Store{
		items:    items,
		resolver: resolver,
		fetcher:  fetcher,
		base:     logger,
		logger:   logger.With(zap.String("component", "session_store")),
		opts:     opts,
	}

	items.OnEvicted(func(id string, v interface{}) {
		if s, ok := v.(*Session); ok {
			s.Close()
			st.logger.Debug("session closed", zap.String("session_id", id))
		}
	})

	return st
}

// Create starts a new empty session.
func (st *Store) Create() *Session {
	id := uuid.NewString()
	s := New(id, st.resolver, st.fetcher, st.base, st.opts)
	st.items.Set(id, s, gocache.DefaultExpiration)
	st.logger.Debug("session created", zap.String("session_id", id))
	return s
}

// Get returns the session and refreshes its idle deadline.
func (st *Store) Get(id string) (*Session, error) {
	v, ok := st.items.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	s, ok := v.(*Session)
	if !ok || s.Closed() {
		st.items.Delete(id)
		return nil, ErrNotFound
	}
	st.items.Set(id, s, gocache.DefaultExpiration)
	return s, nil
}

// Delete closes the session and removes it.
func (st *Store) Delete(id string) error {
	if _, ok := st.items.Get(id); !ok {
		return ErrNotFound
	}
	st.items.Delete(id)
	return nil
}

func (st *Store) Len() int { return st.items.ItemCount() }

// Close closes every live session.
func (st *Store) Close() {
	for id := range st.items.Items() {
		st.items.Delete(id)
	}
}
