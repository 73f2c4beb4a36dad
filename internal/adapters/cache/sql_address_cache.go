package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"bus-route-service/internal/domain"
	"bus-route-service/internal/platform/obs"
)

// SQLAddressCache is a postgres-backed cache mapping quantized points to
// resolved addresses.
type SQLAddressCache struct {
	DB     *sql.DB
	logger *zap.Logger
}

func NewSQLAddressCache(db *sql.DB, logger *zap.Logger) *SQLAddressCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLAddressCache{DB: db, logger: logger.With(zap.String("component", "address_cache"))}
}

// Fetch the cached address of a single point.
func (s *SQLAddressCache) GetAddress(ctx context.Context, p domain.LatLng) (_ string, _ bool, err error) {
	defer obs.Time(ctx, s.logger, "address.cache.Get")(&err)

	if s.DB == nil {
		return "", false, errors.New("address cache: db is nil")
	}

	var addr string
	err = s.DB.QueryRowContext(ctx, `
	SELECT address
    FROM address_cache
    WHERE point_key = $1;
	`, PointKey(p)).Scan(&addr)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get address cache: query address_cache table: %w", err)
	}

	return addr, true, nil
}

// Fetch cached addresses for many points, keyed by PointKey.
func (s *SQLAddressCache) GetMany(ctx context.Context, points []domain.LatLng) (_ map[string]string, err error) {
	defer obs.Time(ctx, s.logger, "address.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("address cache: db is nil")
	}

	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(points))
	for _, p := range points {
		k := PointKey(p)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, k)
	}

	if len(uniq) == 0 {
		return map[string]string{}, nil
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT point_key, address
    FROM address_cache
    WHERE point_key = ANY($1::text[]);
	`, uniq)
	if err != nil {
		return nil, fmt.Errorf("get address cache: query address_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string, len(uniq))
	for rows.Next() {
		var key, addr string
		if err := rows.Scan(&key, &addr); err != nil {
			return nil, fmt.Errorf("get address cache: scan rows: %w", err)
		}
		out[key] = addr
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get address cache: row iteration: %w", err)
	}

	return out, nil
}

// GetAddresses is the batch read used by the resolver: one query for the
// whole waypoint list.
func (s *SQLAddressCache) GetAddresses(ctx context.Context, points []domain.LatLng) (map[int]string, error) {
	byKey, err := s.GetMany(ctx, points)
	if err != nil {
		return nil, err
	}

	out := make(map[int]string, len(byKey))
	for i, p := range points {
		if addr, ok := byKey[PointKey(p)]; ok {
			out[i] = addr
		}
	}
	return out, nil
}

// Store a single point -> address mapping.
func (s *SQLAddressCache) PutAddress(ctx context.Context, p domain.LatLng, address string) error {
	return s.PutMany(ctx, map[domain.LatLng]string{p: address})
}

// Store many point -> address mappings in one transaction.
func (s *SQLAddressCache) PutMany(ctx context.Context, results map[domain.LatLng]string) error {
	if s.DB == nil {
		return errors.New("address cache: db is nil")
	}

	if len(results) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert address cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO address_cache (point_key, lat, lng, address)
    VALUES ($1, $2, $3, $4)
	ON CONFLICT (point_key) DO UPDATE
	SET address = EXCLUDED.address,
		updated_at = now();
	`)
	if err != nil {
		return fmt.Errorf("insert address cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for p, addr := range results {
		if strings.TrimSpace(addr) == "" {
			return fmt.Errorf("insert address cache: empty address for %s", PointKey(p))
		}

		q := p.Round(keyPrecision)
		if _, err := stmt.ExecContext(ctx, PointKey(p), q.Lat, q.Lng, addr); err != nil {
			return fmt.Errorf("insert address cache point=%q: %w", PointKey(p), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert address cache commit: %w", err)
	}

	return nil
}
