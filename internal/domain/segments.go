package domain

import "fmt"

// Segment coordinates are reported at this many decimal places.
const segmentPrecision = 5

// NormalizeSegments flattens routing legs into display segments.
//
// When the first leg carries steps, one segment is produced per step in
// leg-then-step order. Otherwise a single fallback segment spans the first
// two fallback points using the route totals. With fewer than two fallback
// points there is nothing to display and the result is empty.
//
// The function is pure: identical inputs always yield identical output.
func NormalizeSegments(legs []Leg, fallback []LatLng, totalDistance, totalDuration float64) []Segment {
	if len(legs) > 0 && len(legs[0].Steps) > 0 {
		n := 0
		for _, leg := range legs {
			n += len(leg.Steps)
		}

		out := make([]Segment, 0, n)
		for li, leg := range legs {
			for si, step := range leg.Steps {
				name := step.Name
				if name == "" {
					name = UnnamedVia
				}

				end := step.Maneuver
				if len(step.Geometry) > 0 {
					end = step.Geometry[len(step.Geometry)-1]
				}

				out = append(out, Segment{
					Key:             fmt.Sprintf("%d-%d", li, si),
					Name:            name,
					Start:           step.Maneuver.Round(segmentPrecision),
					End:             end.Round(segmentPrecision),
					DistanceMeters:  step.DistanceMeters,
					DurationSeconds: step.DurationSeconds,
				})
			}
		}
		return out
	}

	if len(fallback) < 2 {
		return []Segment{}
	}

	return []Segment{{
		Key:             "fallback-route",
		Name:            FullRoute,
		Start:           fallback[0].Round(segmentPrecision),
		End:             fallback[1].Round(segmentPrecision),
		DistanceMeters:  totalDistance,
		DurationSeconds: totalDuration,
		Fallback:        true,
	}}
}
