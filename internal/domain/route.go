package domain

// Reserved address strings. They are never cached and let callers tell an
// empty provider response apart from provider exhaustion.
const (
	AddressNotFound     = "address not found"
	AddressLookupFailed = "error resolving address"
)

// Reserved segment names.
const (
	UnnamedVia = "unnamed via"
	FullRoute  = "full route"
)

// Represents one named road segment returned by the routing service.
type Step struct {
	Name            string   `json:"name,omitempty"`
	Maneuver        LatLng   `json:"maneuver"`
	Geometry        []LatLng `json:"geometry"`
	DistanceMeters  float64  `json:"distance"`
	DurationSeconds float64  `json:"duration"`
}

// The path between two consecutive waypoints.
type Leg struct {
	Steps []Step `json:"steps"`
}

// RawRoute is the unmodified result of one route fetch, already converted
// to lat/lng order. It is replaced wholesale on every successful fetch.
//
// Legs is empty when the service returned none; Waypoints holds the
// service's snapped waypoint locations and feeds the fallback segment.
type RawRoute struct {
	Geometry        []LatLng `json:"geometry"`
	DistanceMeters  float64  `json:"distance"`
	DurationSeconds float64  `json:"duration"`
	Legs            []Leg    `json:"legs,omitempty"`
	Waypoints       []LatLng `json:"waypoints,omitempty"`
}

// Segment is one display-ready row of the route table.
type Segment struct {
	Key             string  `json:"key"`
	Name            string  `json:"name"`
	Start           LatLng  `json:"start"`
	End             LatLng  `json:"end"`
	DistanceMeters  float64 `json:"distance"`
	DurationSeconds float64 `json:"duration"`
	Fallback        bool    `json:"fallback"`
}

// Segments normalizes the route into display rows.
func (r *RawRoute) Segments() []Segment {
	if r == nil {
		return []Segment{}
	}
	return NormalizeSegments(r.Legs, r.Waypoints, r.DistanceMeters, r.DurationSeconds)
}
