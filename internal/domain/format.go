package domain

import (
	"fmt"
	"math"
)

// FormatDuration renders seconds as "1h30m". Minutes are zero-padded and
// partial minutes are truncated.
func FormatDuration(seconds float64) string {
	h, m := splitDuration(seconds)
	return fmt.Sprintf("%dh%02dm", h, m)
}

// FormatDurationFull renders seconds as "1h30min" for the submission footer.
func FormatDurationFull(seconds float64) string {
	h, m := splitDuration(seconds)
	return fmt.Sprintf("%dh%02dmin", h, m)
}

func splitDuration(seconds float64) (int, int) {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	total := int(math.Floor(seconds))
	return total / 3600, (total % 3600) / 60
}

// DistanceKm converts meters to kilometers.
func DistanceKm(meters float64) float64 { return meters / 1000 }

// FormatDistanceKm renders meters as kilometers with two decimals.
func FormatDistanceKm(meters float64) string {
	return fmt.Sprintf("%.2f", DistanceKm(meters))
}
