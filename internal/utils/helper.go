package utils

import "math"

// Round2 rounds to 2 decimals. Per-item order prices are stored rounded, and
// the order total is rounded again after summing, so totals never drift from
// what the item snapshots add up to.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
