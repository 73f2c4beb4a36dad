package domain

import (
	"reflect"
	"testing"
)

func twoStepLegs() []Leg {
	return []Leg{{
		Steps: []Step{
			{
				Name:            "Avenida Frei Serafim",
				Maneuver:        LatLng{Lat: -5.0999991, Lng: -42.8400004},
				Geometry:        []LatLng{{Lat: -5.1, Lng: -42.84}, {Lat: -5.095, Lng: -42.835}},
				DistanceMeters:  820.4,
				DurationSeconds: 95.1,
			},
			{
				Maneuver:        LatLng{Lat: -5.095, Lng: -42.835},
				Geometry:        []LatLng{{Lat: -5.095, Lng: -42.835}, {Lat: -5.0900049, Lng: -42.8300049}},
				DistanceMeters:  610,
				DurationSeconds: 70,
			},
		},
	}}
}

func TestNormalizeSegmentsSteps(t *testing.T) {
	segs := NormalizeSegments(twoStepLegs(), nil, 1430.4, 165.1)

	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2", len(segs))
	}

	first := segs[0]
	if first.Key != "0-0" || first.Name != "Avenida Frei Serafim" || first.Fallback {
		t.Fatalf("unexpected first segment: %+v", first)
	}
	if first.Start != (LatLng{Lat: -5.1, Lng: -42.84}) {
		t.Fatalf("first start = %+v, want rounded maneuver", first.Start)
	}
	if first.End != (LatLng{Lat: -5.095, Lng: -42.835}) {
		t.Fatalf("first end = %+v, want last geometry point", first.End)
	}
	if first.DistanceMeters != 820.4 || first.DurationSeconds != 95.1 {
		t.Fatalf("first metrics = %v/%v, want step values", first.DistanceMeters, first.DurationSeconds)
	}

	second := segs[1]
	if second.Key != "0-1" || second.Name != UnnamedVia || second.Fallback {
		t.Fatalf("unexpected second segment: %+v", second)
	}
	if second.End != (LatLng{Lat: -5.09, Lng: -42.83}) {
		t.Fatalf("second end = %+v, want -5.09,-42.83", second.End)
	}
}

func TestNormalizeSegmentsFlattensLegsInOrder(t *testing.T) {
	legs := []Leg{
		{Steps: []Step{{Name: "a"}, {Name: "b"}}},
		{Steps: []Step{{Name: "c"}}},
	}

	segs := NormalizeSegments(legs, nil, 0, 0)

	var got []string
	for _, s := range segs {
		got = append(got, s.Key+":"+s.Name)
	}
	want := []string{"0-0:a", "0-1:b", "1-0:c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNormalizeSegmentsEmptyGeometryEndsAtManeuver(t *testing.T) {
	legs := []Leg{{Steps: []Step{{Name: "arrive", Maneuver: LatLng{Lat: 1, Lng: 2}}}}}

	segs := NormalizeSegments(legs, nil, 0, 0)
	if len(segs) != 1 || segs[0].End != (LatLng{Lat: 1, Lng: 2}) {
		t.Fatalf("got %+v, want end at maneuver", segs)
	}
}

func TestNormalizeSegmentsFallback(t *testing.T) {
	a := LatLng{Lat: -5.10, Lng: -42.84}
	b := LatLng{Lat: -5.09, Lng: -42.83}

	tests := []struct {
		name string
		legs []Leg
	}{
		{name: "no legs", legs: nil},
		{name: "legs without steps", legs: []Leg{{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs := NormalizeSegments(tt.legs, []LatLng{a, b}, 2500, 5400)
			if len(segs) != 1 {
				t.Fatalf("got %d segments, want 1", len(segs))
			}
			s := segs[0]
			if !s.Fallback || s.Name != FullRoute || s.Key != "fallback-route" {
				t.Fatalf("unexpected fallback segment: %+v", s)
			}
			if s.Start != a || s.End != b {
				t.Fatalf("start/end = %+v/%+v, want %+v/%+v", s.Start, s.End, a, b)
			}
			if s.DistanceMeters != 2500 || s.DurationSeconds != 5400 {
				t.Fatalf("metrics = %v/%v, want totals", s.DistanceMeters, s.DurationSeconds)
			}
		})
	}
}

func TestNormalizeSegmentsTooFewFallbackPoints(t *testing.T) {
	for _, pts := range [][]LatLng{nil, {{Lat: 1, Lng: 1}}} {
		segs := NormalizeSegments(nil, pts, 100, 10)
		if segs == nil || len(segs) != 0 {
			t.Fatalf("got %v, want empty non-nil slice", segs)
		}
	}
}

func TestNormalizeSegmentsDeterministic(t *testing.T) {
	fb := []LatLng{{Lat: 1, Lng: 2}, {Lat: 3, Lng: 4}}

	first := NormalizeSegments(twoStepLegs(), fb, 10, 20)
	second := NormalizeSegments(twoStepLegs(), fb, 10, 20)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("normalization not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestRawRouteSegmentsNil(t *testing.T) {
	var r *RawRoute
	if segs := r.Segments(); len(segs) != 0 {
		t.Fatalf("got %d segments from nil route, want 0", len(segs))
	}
}
