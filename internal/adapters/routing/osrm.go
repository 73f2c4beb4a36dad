package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"bus-route-service/internal/domain"
	"bus-route-service/internal/platform/httpx"
	"bus-route-service/internal/platform/obs"
	"bus-route-service/internal/ports"
)

var (
	// ErrTooFewPoints is returned without any I/O when fewer than two
	// points are given. Callers are expected to prevent it.
	ErrTooFewPoints = errors.New("route needs at least two points")
	// ErrNoRoute is returned when the service answers without routes[0].
	ErrNoRoute = errors.New("routing service returned no route")
)

type osrmStep struct {
	Name     string `json:"name"`
	Maneuver struct {
		Location []float64 `json:"location"`
	} `json:"maneuver"`
	Geometry struct {
		Coordinates [][]float64 `json:"coordinates"`
	} `json:"geometry"`
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
}

type osrmResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Legs     []struct {
			Steps []osrmStep `json:"steps"`
		} `json:"legs"`
	} `json:"routes"`
	Waypoints []struct {
		Name     string    `json:"name"`
		Location []float64 `json:"location"`
	} `json:"waypoints"`
}

// OSRMFetcher implements ports.RouteFetcher against an OSRM-compatible
// /route/v1 endpoint. It is safe for concurrent use.
type OSRMFetcher struct {
	client  *httpx.Client
	baseURL string
	profile string
	cache   ports.RouteCache
	logger  *zap.Logger
}

var _ ports.RouteFetcher = (*OSRMFetcher)(nil)

// NewOSRMFetcher targets the driving profile under baseURL. Retries follow
// client's attempt budget; cache may be nil.
func NewOSRMFetcher(
	baseURL string,
	client *httpx.Client,
	cache ports.RouteCache,
	logger *zap.Logger,
) (*OSRMFetcher, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("osrm fetcher: base url is empty")
	}
	if client == nil {
		return nil, errors.New("osrm fetcher: http client is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &OSRMFetcher{
		client:  client,
		baseURL: baseURL,
		profile: "driving",
		cache:   cache,
		logger:  logger.With(zap.String("component", "routing")),
	}, nil
}

// FetchRoute requests a driving route through points in order.
func (f *OSRMFetcher) FetchRoute(ctx context.Context, points []domain.LatLng) (_ *domain.RawRoute, err error) {
	if len(points) < 2 {
		return nil, ErrTooFewPoints
	}

	defer obs.Time(ctx, f.logger, "osrm.FetchRoute")(&err)

	if f.cache != nil {
		cached, ok, err := f.cache.GetRoute(ctx, points)
		if err != nil {
			f.logger.Warn("route cache read failed", zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	endpoint := fmt.Sprintf(
		"%s/route/v1/%s/%s?overview=full&geometries=geojson&steps=true",
		f.baseURL, f.profile, CoordinatePath(points),
	)

	resp, err := f.client.DoWithRetry(ctx, func() (*http.Request, error) {
		return f.client.NewRequest(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("route request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode route response: %w", err)
	}

	if len(decoded.Routes) == 0 {
		return nil, fmt.Errorf("%w (code=%q message=%q)", ErrNoRoute, decoded.Code, decoded.Message)
	}

	route := toRawRoute(decoded)

	if f.cache != nil {
		if err := f.cache.PutRoute(ctx, points, route); err != nil {
			f.logger.Warn("route cache write failed", zap.Error(err))
		}
	}

	return route, nil
}

// CoordinatePath serializes points as "lng,lat" pairs joined by ";",
// the longitude-first order the routing service expects.
func CoordinatePath(points []domain.LatLng) string {
	parts := make([]string, 0, len(points))
	for _, p := range points {
		c := p.CoordsToList()
		parts = append(parts,
			strconv.FormatFloat(c[0], 'f', -1, 64)+","+strconv.FormatFloat(c[1], 'f', -1, 64),
		)
	}
	return strings.Join(parts, ";")
}

func toRawRoute(r osrmResponse) *domain.RawRoute {
	first := r.Routes[0]

	out := &domain.RawRoute{
		Geometry:        convertLine(first.Geometry.Coordinates),
		DistanceMeters:  first.Distance,
		DurationSeconds: first.Duration,
		Waypoints:       make([]domain.LatLng, 0, len(r.Waypoints)),
	}

	for _, w := range r.Waypoints {
		if p, ok := domain.FromLngLat(w.Location); ok && p.Valid() {
			out.Waypoints = append(out.Waypoints, p)
		}
	}

	if len(first.Legs) == 0 {
		return out
	}

	out.Legs = make([]domain.Leg, 0, len(first.Legs))
	for _, l := range first.Legs {
		leg := domain.Leg{Steps: make([]domain.Step, 0, len(l.Steps))}
		for _, s := range l.Steps {
			geometry := convertLine(s.Geometry.Coordinates)
			maneuver, ok := domain.FromLngLat(s.Maneuver.Location)
			if !ok || !maneuver.Valid() {
				// Without a usable maneuver the step starts where its line does.
				if len(geometry) == 0 {
					continue
				}
				maneuver = geometry[0]
			}
			leg.Steps = append(leg.Steps, domain.Step{
				Name:            s.Name,
				Maneuver:        maneuver,
				Geometry:        geometry,
				DistanceMeters:  s.Distance,
				DurationSeconds: s.Duration,
			})
		}
		out.Legs = append(out.Legs, leg)
	}

	return out
}

// convertLine swaps service [lng, lat] pairs to lat/lng, dropping malformed
// or out-of-range points.
func convertLine(coords [][]float64) []domain.LatLng {
	out := make([]domain.LatLng, 0, len(coords))
	for _, c := range coords {
		p, ok := domain.FromLngLat(c)
		if !ok || !p.Valid() {
			continue
		}
		out = append(out, p)
	}
	return out
}
