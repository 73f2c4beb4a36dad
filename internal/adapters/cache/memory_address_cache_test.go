package cache

import (
	"context"
	"testing"
	"time"

	"bus-route-service/internal/domain"
)

func TestPointKeyQuantizes(t *testing.T) {
	tests := []struct {
		name string
		p    domain.LatLng
		want string
	}{
		{name: "basic", p: domain.LatLng{Lat: -5.09408, Lng: -42.83625}, want: "-5.09408,-42.83625"},
		{name: "round", p: domain.LatLng{Lat: -5.094084, Lng: -42.836256}, want: "-5.09408,-42.83626"},
		{name: "zero", p: domain.LatLng{}, want: "0.00000,0.00000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointKey(tt.p); got != tt.want {
				t.Fatalf("PointKey(%+v) = %q, want %q", tt.p, got, tt.want)
			}
		})
	}
}

func TestMemoryAddressCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryAddressCache(2, time.Hour)

	p := domain.LatLng{Lat: -5.09, Lng: -42.83}
	if _, ok, err := c.GetAddress(ctx, p); err != nil || ok {
		t.Fatalf("got ok=%v err=%v, want miss", ok, err)
	}

	if err := c.PutAddress(ctx, p, "Centro, Teresina"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Sub-meter jitter maps to the same key.
	addr, ok, err := c.GetAddress(ctx, domain.LatLng{Lat: -5.090001, Lng: -42.830001})
	if err != nil || !ok || addr != "Centro, Teresina" {
		t.Fatalf("got %q ok=%v err=%v", addr, ok, err)
	}
}

func TestMemoryAddressCacheEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryAddressCache(2, time.Hour)

	a := domain.LatLng{Lat: 1}
	b := domain.LatLng{Lat: 2}
	d := domain.LatLng{Lat: 3}

	_ = c.PutAddress(ctx, a, "a")
	_ = c.PutAddress(ctx, b, "b")
	_, _, _ = c.GetAddress(ctx, a)
	_ = c.PutAddress(ctx, d, "d")

	if _, ok, _ := c.GetAddress(ctx, b); ok {
		t.Fatal("expected b to be evicted")
	}
	if _, ok, _ := c.GetAddress(ctx, a); !ok {
		t.Fatal("expected a to survive")
	}
	if c.Len() != 2 {
		t.Fatalf("len = %d, want 2", c.Len())
	}
}

func TestTieredAddressCacheBackfillsFront(t *testing.T) {
	ctx := context.Background()
	front := NewMemoryAddressCache(10, time.Hour)
	back := NewMemoryAddressCache(10, time.Hour)
	tiered := NewTieredAddressCache(front, back)

	p := domain.LatLng{Lat: -5.1, Lng: -42.84}
	_ = back.PutAddress(ctx, p, "Rua Coelho Rodrigues")

	addr, ok, err := tiered.GetAddress(ctx, p)
	if err != nil || !ok || addr != "Rua Coelho Rodrigues" {
		t.Fatalf("got %q ok=%v err=%v", addr, ok, err)
	}
	if _, ok, _ := front.GetAddress(ctx, p); !ok {
		t.Fatal("expected front to be back-filled")
	}

	q := domain.LatLng{Lat: 1, Lng: 1}
	if err := tiered.PutAddress(ctx, q, "x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok, _ := back.GetAddress(ctx, q); !ok {
		t.Fatal("expected write-through to back")
	}
}

// countingBatchBack is a back tier that only answers batch reads.
type countingBatchBack struct {
	*MemoryAddressCache
	batches [][]domain.LatLng
}

func (b *countingBatchBack) GetAddresses(ctx context.Context, points []domain.LatLng) (map[int]string, error) {
	b.batches = append(b.batches, append([]domain.LatLng(nil), points...))
	out := map[int]string{}
	for i, p := range points {
		if addr, ok, _ := b.GetAddress(ctx, p); ok {
			out[i] = addr
		}
	}
	return out, nil
}

func TestTieredAddressCacheBatchAsksBackForMissesOnly(t *testing.T) {
	ctx := context.Background()
	front := NewMemoryAddressCache(10, time.Hour)
	back := &countingBatchBack{MemoryAddressCache: NewMemoryAddressCache(10, time.Hour)}
	tiered := NewTieredAddressCache(front, back)

	a := domain.LatLng{Lat: -5.1, Lng: -42.84}
	b := domain.LatLng{Lat: -5.09, Lng: -42.83}
	c := domain.LatLng{Lat: -5.08, Lng: -42.82}
	_ = front.PutAddress(ctx, a, "Rua A")
	_ = back.PutAddress(ctx, c, "Rua C")

	hits, err := tiered.GetAddresses(ctx, []domain.LatLng{a, b, c})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 2 || hits[0] != "Rua A" || hits[2] != "Rua C" {
		t.Fatalf("hits = %v, want indexes 0 and 2", hits)
	}
	if _, ok := hits[1]; ok {
		t.Fatalf("hits = %v, want index 1 missing", hits)
	}
	if len(back.batches) != 1 || len(back.batches[0]) != 2 {
		t.Fatalf("back batches = %v, want one batch of the two misses", back.batches)
	}
	if _, ok, _ := front.GetAddress(ctx, c); !ok {
		t.Fatal("expected front to be back-filled from the batch")
	}
}
