package domain

import "testing"

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{seconds: 5400, want: "1h30m"},
		{seconds: 0, want: "0h00m"},
		{seconds: 59.9, want: "0h00m"},
		{seconds: 3661, want: "1h01m"},
		{seconds: 36000, want: "10h00m"},
		{seconds: -5, want: "0h00m"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.seconds); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatDurationFull(t *testing.T) {
	if got := FormatDurationFull(5400); got != "1h30min" {
		t.Fatalf("got %q, want 1h30min", got)
	}
}

func TestFormatDistanceKm(t *testing.T) {
	tests := []struct {
		meters float64
		want   string
	}{
		{meters: 0, want: "0.00"},
		{meters: 1234.5, want: "1.23"},
		{meters: 15999, want: "16.00"},
	}

	for _, tt := range tests {
		if got := FormatDistanceKm(tt.meters); got != tt.want {
			t.Errorf("FormatDistanceKm(%v) = %q, want %q", tt.meters, got, tt.want)
		}
	}
}

func TestLatLngValid(t *testing.T) {
	tests := []struct {
		p    LatLng
		want bool
	}{
		{p: LatLng{Lat: -5.09, Lng: -42.83}, want: true},
		{p: LatLng{Lat: 90, Lng: 180}, want: true},
		{p: LatLng{Lat: 90.1, Lng: 0}, want: false},
		{p: LatLng{Lat: 0, Lng: -180.5}, want: false},
	}

	for _, tt := range tests {
		if got := tt.p.Valid(); got != tt.want {
			t.Errorf("%+v.Valid() = %v, want %v", tt.p, got, tt.want)
		}
	}
}
