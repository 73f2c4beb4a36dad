package domain

import "math"

// Geographic position in latitude-first order, as used by the map surface
// and every internal consumer.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the point lies inside the WGS84 ranges.
func (p LatLng) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// CoordsToList returns the point in the routing service's [lng, lat] order.
func (p LatLng) CoordsToList() []float64 { return []float64{p.Lng, p.Lat} }

// Round returns the point rounded to the given number of decimal places.
func (p LatLng) Round(places int) LatLng {
	scale := math.Pow(10, float64(places))
	return LatLng{
		Lat: math.Round(p.Lat*scale) / scale,
		Lng: math.Round(p.Lng*scale) / scale,
	}
}

// FromLngLat converts a service [lng, lat] pair into a LatLng.
// The second return value is false when the pair is malformed.
func FromLngLat(pair []float64) (LatLng, bool) {
	if len(pair) < 2 {
		return LatLng{}, false
	}
	return LatLng{Lat: pair[1], Lng: pair[0]}, true
}
