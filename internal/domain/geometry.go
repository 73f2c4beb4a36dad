package domain

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/twpayne/go-polyline"
)

// EncodePolyline encodes lat/lng points with the Google polyline algorithm
// (precision 5), the compact form the map surface draws from.
func EncodePolyline(points []LatLng) string {
	if len(points) == 0 {
		return ""
	}
	coords := make([][]float64, 0, len(points))
	for _, p := range points {
		coords = append(coords, []float64{p.Lat, p.Lng})
	}
	return string(polyline.EncodeCoords(coords))
}

// DecodePolyline is the inverse of EncodePolyline.
func DecodePolyline(s string) ([]LatLng, error) {
	if s == "" {
		return []LatLng{}, nil
	}
	coords, _, err := polyline.DecodeCoords([]byte(s))
	if err != nil {
		return nil, err
	}
	out := make([]LatLng, 0, len(coords))
	for _, c := range coords {
		out = append(out, LatLng{Lat: c[0], Lng: c[1]})
	}
	return out, nil
}

// RouteFeatureCollection builds the map layer for a route: one LineString
// for the geometry (when present) followed by one Point per waypoint,
// labelled origin, stop N or destination.
func RouteFeatureCollection(geometry []LatLng, waypoints []LatLng, addresses []string) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	if len(geometry) > 1 {
		line := make(orb.LineString, 0, len(geometry))
		for _, p := range geometry {
			line = append(line, orb.Point{p.Lng, p.Lat})
		}
		f := geojson.NewFeature(line)
		f.Properties["kind"] = "route"
		fc.Append(f)
	}

	for i, w := range waypoints {
		f := geojson.NewFeature(orb.Point{w.Lng, w.Lat})
		f.Properties["kind"] = "waypoint"
		f.Properties["index"] = i
		f.Properties["role"] = waypointRole(i, len(waypoints))
		if i < len(addresses) {
			f.Properties["address"] = addresses[i]
		}
		fc.Append(f)
	}

	return fc
}

func waypointRole(i, n int) string {
	switch {
	case i == 0:
		return "origin"
	case i == n-1:
		return "destination"
	default:
		return "stop"
	}
}
