package duration

import (
	"math"
	"strconv"
	"time"
)

// Parse converts a compact token like "10m", "1h", "3d" or "2w" into a
// duration. The unit suffix is case-insensitive. The boolean is false for
// malformed input: missing or unknown unit, non-numeric count, zero or
// negative count, or a value that does not fit in a time.Duration.
func Parse(token string) (time.Duration, bool) {
	if len(token) < 2 {
		return 0, false
	}

	var unit time.Duration
	switch token[len(token)-1] {
	case 'm', 'M':
		unit = time.Minute
	case 'h', 'H':
		unit = time.Hour
	case 'd', 'D':
		unit = 24 * time.Hour
	case 'w', 'W':
		unit = 7 * 24 * time.Hour
	default:
		return 0, false
	}

	num := token[:len(token)-1]
	for i := 0; i < len(num); i++ {
		if num[i] < '0' || num[i] > '9' {
			return 0, false
		}
	}

	n, err := strconv.ParseInt(num, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	if n > math.MaxInt64/int64(unit) {
		return 0, false
	}

	return time.Duration(n) * unit, true
}
