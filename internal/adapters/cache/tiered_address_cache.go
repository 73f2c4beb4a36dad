package cache

import (
	"context"
	"fmt"

	"bus-route-service/internal/domain"
	"bus-route-service/internal/ports"
)

// TieredAddressCache reads through a fast front cache to a slower back
// cache, back-filling the front on a back hit. Writes go to both.
type TieredAddressCache struct {
	front ports.AddressCache
	back  ports.AddressCache
}

func NewTieredAddressCache(front, back ports.AddressCache) *TieredAddressCache {
	return &TieredAddressCache{front: front, back: back}
}

func (t *TieredAddressCache) GetAddress(ctx context.Context, p domain.LatLng) (string, bool, error) {
	if addr, ok, err := t.front.GetAddress(ctx, p); err == nil && ok {
		return addr, true, nil
	}

	addr, ok, err := t.back.GetAddress(ctx, p)
	if err != nil || !ok {
		return "", false, err
	}

	if err := t.front.PutAddress(ctx, p, addr); err != nil {
		return addr, true, fmt.Errorf("tiered cache back-fill: %w", err)
	}
	return addr, true, nil
}

// GetAddresses serves what it can from the front and asks the back only
// for the rest, in one batch when the back supports it.
func (t *TieredAddressCache) GetAddresses(ctx context.Context, points []domain.LatLng) (map[int]string, error) {
	out := make(map[int]string, len(points))
	var missIdx []int
	var missPts []domain.LatLng

	for i, p := range points {
		if addr, ok, err := t.front.GetAddress(ctx, p); err == nil && ok {
			out[i] = addr
			continue
		}
		missIdx = append(missIdx, i)
		missPts = append(missPts, p)
	}
	if len(missPts) == 0 {
		return out, nil
	}

	backHits := make(map[int]string, len(missPts))
	if bc, ok := t.back.(ports.BatchAddressCache); ok {
		hits, err := bc.GetAddresses(ctx, missPts)
		if err != nil {
			return out, fmt.Errorf("tiered cache batch read: %w", err)
		}
		backHits = hits
	} else {
		for j, p := range missPts {
			addr, ok, err := t.back.GetAddress(ctx, p)
			if err != nil {
				return out, fmt.Errorf("tiered cache back read: %w", err)
			}
			if ok {
				backHits[j] = addr
			}
		}
	}

	for j, addr := range backHits {
		out[missIdx[j]] = addr
		if err := t.front.PutAddress(ctx, missPts[j], addr); err != nil {
			return out, fmt.Errorf("tiered cache back-fill: %w", err)
		}
	}
	return out, nil
}

func (t *TieredAddressCache) PutAddress(ctx context.Context, p domain.LatLng, address string) error {
	if err := t.front.PutAddress(ctx, p, address); err != nil {
		return fmt.Errorf("tiered cache front write: %w", err)
	}
	if err := t.back.PutAddress(ctx, p, address); err != nil {
		return fmt.Errorf("tiered cache back write: %w", err)
	}
	return nil
}
