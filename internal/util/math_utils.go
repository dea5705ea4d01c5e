package util

import "math"

// RoundPercent returns round(100 * part / total) clamped to [0, 100].
// A zero or negative total yields 0.
func RoundPercent(part, total int) int {
	if total <= 0 || part <= 0 {
		return 0
	}
	if part >= total {
		return 100
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}

// ClampPercent bounds a percentage to [0, 100].
func ClampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Ratio returns num/den, or 0 when den is not positive.
func Ratio(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}
