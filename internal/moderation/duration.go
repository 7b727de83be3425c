package moderation

import (
	"math"
	"regexp"
	"strconv"
	"time"
)

var durationRe = regexp.MustCompile(`^(\d+)([mhd])$`)

var unitSeconds = map[string]int64{
	"m": 60,
	"h": 60 * 60,
	"d": 60 * 60 * 24,
}

// ParseDuration parses "<n>m", "<n>h" or "<n>d" into seconds.
// Zero and values that overflow int64 seconds are rejected.
func ParseDuration(tok string) (int64, bool) {
	m := durationRe.FindStringSubmatch(tok)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	unit := unitSeconds[m[2]]
	if n > math.MaxInt64/unit {
		return 0, false
	}
	return n * unit, true
}

// expiry converts a parsed duration into an absolute deadline, clamping at
// the largest representable time.Duration.
func expiry(now time.Time, seconds int64) time.Time {
	if seconds > int64(math.MaxInt64/time.Second) {
		return now.Add(time.Duration(math.MaxInt64))
	}
	return now.Add(time.Duration(seconds) * time.Second)
}
