package player

import "math"

func clampLevel(level float64) float64 {
	if math.IsNaN(level) || level < 0 {
		return 0
	}
	if level > 1 {
		return 1
	}
	return level
}

// levelToVolume converts a 0.0-1.0 level to beep's base-2 Volume value.
// 1.0 -> 0, 0.5 -> -1, 0.25 -> -2. Zero is handled by silencing instead.
func levelToVolume(level float64) float64 {
	if level <= 0 {
		return -10
	}
	if level >= 1 {
		return 0
	}
	return math.Log2(level)
}
