package domain

import (
	"math"
	"testing"
)

func TestPolylineRoundTrip(t *testing.T) {
	pts := []LatLng{{Lat: -5.1, Lng: -42.84}, {Lat: -5.09, Lng: -42.83}, {Lat: -5.08512, Lng: -42.80101}}

	enc := EncodePolyline(pts)
	if enc == "" {
		t.Fatal("expected non-empty polyline")
	}

	got, err := DecodePolyline(enc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(pts) {
		t.Fatalf("got %d points, want %d", len(got), len(pts))
	}
	for i := range pts {
		if math.Abs(got[i].Lat-pts[i].Lat) > 1e-5 || math.Abs(got[i].Lng-pts[i].Lng) > 1e-5 {
			t.Fatalf("point %d = %+v, want %+v", i, got[i], pts[i])
		}
	}
}

func TestRouteFeatureCollection(t *testing.T) {
	geometry := []LatLng{{Lat: -5.1, Lng: -42.84}, {Lat: -5.09, Lng: -42.83}}
	waypoints := []LatLng{{Lat: -5.1, Lng: -42.84}, {Lat: -5.095, Lng: -42.835}, {Lat: -5.09, Lng: -42.83}}

	fc := RouteFeatureCollection(geometry, waypoints, []string{"A", "B", "C"})

	if len(fc.Features) != 4 {
		t.Fatalf("got %d features, want 4", len(fc.Features))
	}
	if fc.Features[0].Properties["kind"] != "route" {
		t.Fatalf("first feature kind = %v, want route", fc.Features[0].Properties["kind"])
	}

	roles := []string{"origin", "stop", "destination"}
	for i, want := range roles {
		f := fc.Features[i+1]
		if f.Properties["role"] != want {
			t.Errorf("waypoint %d role = %v, want %s", i, f.Properties["role"], want)
		}
	}
	if fc.Features[1].Properties["address"] != "A" {
		t.Fatalf("origin address = %v, want A", fc.Features[1].Properties["address"])
	}
}

func TestRouteFeatureCollectionWithoutRoute(t *testing.T) {
	fc := RouteFeatureCollection(nil, []LatLng{{Lat: 1, Lng: 2}}, nil)
	if len(fc.Features) != 1 {
		t.Fatalf("got %d features, want 1", len(fc.Features))
	}
	if fc.Features[0].Properties["role"] != "origin" {
		t.Fatalf("single waypoint role = %v, want origin", fc.Features[0].Properties["role"])
	}
}
