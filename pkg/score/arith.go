package score

import "math"

// addLevel adds two int64 score levels, reporting overflow rather than
// wrapping. level names the level for the resulting error.
func addLevel(a, b int64, level string) (int64, error) {
	if b > 0 && a > math.MaxInt64-b {
		return 0, overflow(level)
	}
	if b < 0 && a < math.MinInt64-b {
		return 0, overflow(level)
	}
	return a + b, nil
}

func negLevel(a int64, level string) (int64, error) {
	if a == math.MinInt64 {
		return 0, overflow(level)
	}
	return -a, nil
}
