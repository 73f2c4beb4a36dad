package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"bus-route-service/internal/domain"
)

// Initialize the postgres schema used by SQLAddressCache.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createAddressCacheQuery := `
	CREATE TABLE IF NOT EXISTS address_cache (
        point_key TEXT PRIMARY KEY,
        lat DOUBLE PRECISION NOT NULL,
        lng DOUBLE PRECISION NOT NULL,
        address TEXT NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_address_cache_updated_at
    ON address_cache(updated_at);
	`

	statements := []string{
		createAddressCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type AddressSeed struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

// LoadSeeds reads and validates address seeds from a JSON file.
func LoadSeeds(jsonPath string) (map[domain.LatLng]string, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed addresses: read %q: %w", jsonPath, err)
	}

	var data []AddressSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("seed addresses: parse json: %w", err)
	}

	out := make(map[domain.LatLng]string, len(data))
	for i, item := range data {
		p := domain.LatLng{Lat: item.Lat, Lng: item.Lng}
		if !p.Valid() {
			return nil, fmt.Errorf("seed addresses: invalid coordinates at index %d: %v,%v", i+1, item.Lat, item.Lng)
		}

		addr := strings.TrimSpace(item.Address)
		if addr == "" {
			return nil, fmt.Errorf("seed addresses: item at index %d: address cannot be empty", i+1)
		}
		out[p] = addr
	}

	return out, nil
}

// Populate the address cache from a JSON file.
func SeedFromJSON(ctx context.Context, c *SQLAddressCache, jsonPath string) (int, error) {
	seeds, err := LoadSeeds(jsonPath)
	if err != nil {
		return 0, err
	}
	if err := c.PutMany(ctx, seeds); err != nil {
		return 0, fmt.Errorf("seed addresses: %w", err)
	}
	return len(seeds), nil
}
