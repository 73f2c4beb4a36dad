package cache

import (
	"context"
	"errors"
	"time"

	"github.com/bluele/gcache"

	"bus-route-service/internal/domain"
)

// MemoryAddressCache is an in-process LRU of resolved addresses with a
// fixed expiration.
type MemoryAddressCache struct {
	c gcache.Cache
}

func NewMemoryAddressCache(size int, ttl time.Duration) *MemoryAddressCache {
	if size <= 0 {
		size = 1000
	}
	return &MemoryAddressCache{
		c: gcache.New(size).LRU().Expiration(ttl).Build(),
	}
}

func (m *MemoryAddressCache) GetAddress(ctx context.Context, p domain.LatLng) (string, bool, error) {
	v, err := m.c.Get(PointKey(p))
	if errors.Is(err, gcache.KeyNotFoundError) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	addr, ok := v.(string)
	return addr, ok, nil
}

func (m *MemoryAddressCache) PutAddress(ctx context.Context, p domain.LatLng, address string) error {
	return m.c.Set(PointKey(p), address)
}

// Len reports the number of live entries.
func (m *MemoryAddressCache) Len() int {
	return m.c.Len(true)
}
