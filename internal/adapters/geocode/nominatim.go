package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bus-route-service/internal/domain"
	"bus-route-service/internal/platform/httpx"
	"bus-route-service/internal/platform/obs"
	"bus-route-service/internal/ports"
)

// Provider is one reverse-geocoding endpoint speaking the Nominatim API.
type Provider struct {
	Name    string
	BaseURL string
}

// ProvidersFromURLs builds providers named after their host, preserving
// the priority order of urls.
func ProvidersFromURLs(urls []string) []Provider {
	out := make([]Provider, 0, len(urls))
	for _, raw := range urls {
		base := strings.TrimRight(strings.TrimSpace(raw), "/")
		if base == "" {
			continue
		}
		name := base
		if u, err := url.Parse(base); err == nil && u.Host != "" {
			name = u.Host
		}
		out = append(out, Provider{Name: name, BaseURL: base})
	}
	return out
}

type reverseResponse struct {
	Address *struct {
		Road   string `json:"road"`
		Suburb string `json:"suburb"`
		City   string `json:"city"`
	} `json:"address"`
}

// Resolver implements ports.AddressResolver over an ordered list of
// Nominatim-compatible providers. A provider that fails (network error,
// non-success status, undecodable body) is skipped in favor of the next.
//
// The resolver is safe for concurrent use.
type Resolver struct {
	client    *httpx.Client
	providers []Provider
	cache     ports.AddressCache
	logger    *zap.Logger
}

var _ ports.AddressResolver = (*Resolver)(nil)

// NewResolver tries providers in the given order. cache may be nil; when it
// also implements ports.BatchAddressCache, ResolveAddresses reads it once
// per batch.
func NewResolver(
	providers []Provider,
	client *httpx.Client,
	cache ports.AddressCache,
	logger *zap.Logger,
) (*Resolver, error) {
	if len(providers) == 0 {
		return nil, errors.New("geocode resolver: at least one provider is required")
	}
	if client == nil {
		return nil, errors.New("geocode resolver: http client is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Resolver{
		client:    client,
		providers: append([]Provider(nil), providers...),
		cache:     cache,
		logger:    logger.With(zap.String("component", "geocode")),
	}, nil
}

// ResolveAddress returns the display address of p. It never fails: when
// every provider fails the result is domain.AddressLookupFailed.
func (r *Resolver) ResolveAddress(ctx context.Context, p domain.LatLng) string {
	if r.cache != nil {
		addr, ok, err := r.cache.GetAddress(ctx, p)
		if err != nil {
			r.logger.Warn("address cache read failed", zap.Error(err))
		} else if ok {
			return addr
		}
	}

	return r.resolveRemote(ctx, p)
}

// resolveRemote asks the providers in order and caches a real address.
func (r *Resolver) resolveRemote(ctx context.Context, p domain.LatLng) string {
	for _, prov := range r.providers {
		addr, err := r.lookup(ctx, prov, p)
		if err != nil {
			r.logger.Warn("geocode provider failed, trying next",
				zap.String("provider", prov.Name),
				zap.Float64("lat", p.Lat),
				zap.Float64("lng", p.Lng),
				zap.Error(err),
			)
			continue
		}

		if addr != domain.AddressNotFound && r.cache != nil {
			if err := r.cache.PutAddress(ctx, p, addr); err != nil {
				r.logger.Warn("address cache write failed", zap.Error(err))
			}
		}
		return addr
	}

	return domain.AddressLookupFailed
}

// ResolveAddresses resolves every point concurrently. The result has the
// same length as points and each address sits at its point's index.
// A cache that supports batch reads is consulted once for the whole list.
func (r *Resolver) ResolveAddresses(ctx context.Context, points []domain.LatLng) []string {
	out := make([]string, len(points))

	resolve := r.ResolveAddress
	hits := r.cachedAddresses(ctx, points)
	if hits != nil {
		resolve = r.resolveRemote
	}

	var g errgroup.Group
	for i, p := range points {
		if addr, ok := hits[i]; ok {
			out[i] = addr
			continue
		}
		g.Go(func() error {
			out[i] = resolve(ctx, p)
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// cachedAddresses returns nil when no batch read happened, so callers fall
// back to per-point cache lookups.
func (r *Resolver) cachedAddresses(ctx context.Context, points []domain.LatLng) map[int]string {
	bc, ok := r.cache.(ports.BatchAddressCache)
	if !ok || len(points) == 0 {
		return nil
	}

	hits, err := bc.GetAddresses(ctx, points)
	if err != nil {
		r.logger.Warn("address cache batch read failed", zap.Error(err))
		return nil
	}
	if hits == nil {
		hits = map[int]string{}
	}
	return hits
}

func (r *Resolver) lookup(ctx context.Context, prov Provider, p domain.LatLng) (_ string, err error) {
	defer obs.Time(ctx, r.logger, "geocode.reverse."+prov.Name)(&err)

	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(p.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(p.Lng, 'f', -1, 64))
	endpoint := prov.BaseURL + "/reverse?" + q.Encode()

	req, err := r.client.NewRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var decoded reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode reverse response: %w", err)
	}

	return composeAddress(decoded), nil
}

func composeAddress(r reverseResponse) string {
	if r.Address == nil {
		return domain.AddressNotFound
	}

	parts := make([]string, 0, 3)
	for _, f := range []string{r.Address.Road, r.Address.Suburb, r.Address.City} {
		if f = strings.TrimSpace(f); f != "" {
			parts = append(parts, f)
		}
	}
	if len(parts) == 0 {
		return domain.AddressNotFound
	}
	return strings.Join(parts, ", ")
}
