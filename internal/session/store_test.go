package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bus-route-service/internal/adapters/geocode"
	"bus-route-service/internal/adapters/routing"
)

func newTestStore(ttl time.Duration) *Store {
	return NewStore(ttl, geocode.NewStaticResolver(nil, "x"), &routing.StaticFetcher{}, nil, Options{})
}

func TestStoreCreateGetDelete(t *testing.T) {
	st := newTestStore(time.Minute)
	defer st.Close()

	s := st.Create()
	require.NotEmpty(t, s.ID)
	assert.Equal(t, 1, st.Len())

	got, err := st.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	require.NoError(t, st.Delete(s.ID))
	assert.True(t, s.Closed())

	_, err = st.Get(s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, st.Delete(s.ID), ErrNotFound)
}

func TestStoreUnknownID(t *testing.T) {
	st := newTestStore(time.Minute)
	defer st.Close()

	_, err := st.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreExpiresIdleSessions(t *testing.T) {
	st := newTestStore(30 * time.Millisecond)
	defer st.Close()

	s := st.Create()

	require.Eventually(t, s.Closed, 2*time.Second, 10*time.Millisecond)
	_, err := st.Get(s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreCloseClosesSessions(t *testing.T) {
	st := newTestStore(time.Minute)
	a, b := st.Create(), st.Create()
	assert.NotEqual(t, a.ID, b.ID)

	st.Close()

	assert.True(t, a.Closed())
	assert.True(t, b.Closed())
	assert.Equal(t, 0, st.Len())
}
