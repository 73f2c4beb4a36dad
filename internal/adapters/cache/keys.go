package cache

import (
	"strconv"
	"strings"

	"bus-route-service/internal/domain"
)

// Cache keys quantize coordinates to 5 decimals (about one meter), the
// same precision segments are reported at.
const keyPrecision = 5

// PointKey returns the cache key of a single point, "lat,lng".
func PointKey(p domain.LatLng) string {
	q := p.Round(keyPrecision)
	return strconv.FormatFloat(q.Lat, 'f', keyPrecision, 64) + "," + strconv.FormatFloat(q.Lng, 'f', keyPrecision, 64)
}

// RouteKey returns the cache key of an ordered point list.
func RouteKey(points []domain.LatLng) string {
	parts := make([]string, 0, len(points))
	for _, p := range points {
		parts = append(parts, PointKey(p))
	}
	return "route:" + strings.Join(parts, ";")
}
