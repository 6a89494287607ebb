package types

import "math"

// NormalizeDifficulty smooths raw model difficulties. Values of 400 and
// above are returned unchanged; lower values are compressed with a logistic
// curve so novice problems do not report extreme negative ratings.
func NormalizeDifficulty(difficulty int64) int64 {
	if difficulty >= 400 {
		return difficulty
	}
	return int64(400.0 / (1.0 + math.Exp(1.0-float64(difficulty)/400.0)))
}

// ColorForDifficulty maps a normalized difficulty into its tier. It never
// returns ColorBlack; callers assign that directly when no difficulty is
// available.
func ColorForDifficulty(difficulty int64) Color {
	switch {
	case difficulty < 400:
		return ColorGray
	case difficulty < 800:
		return ColorBrown
	case difficulty < 1200:
		return ColorGreen
	case difficulty < 1600:
		return ColorCyan
	case difficulty < 2000:
		return ColorBlue
	case difficulty < 2400:
		return ColorYellow
	case difficulty < 2800:
		return ColorOrange
	default:
		return ColorRed
	}
}
