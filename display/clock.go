// ABOUTME: Time formatting for the position readout and slider
// ABOUTME: Formats durations as hh:mm:ss and converts slider seconds back to durations

package display

import (
	"fmt"
	"math"
	"time"
)

// ZeroClock is the readout shown when nothing is playing
const ZeroClock = "00:00:00"

// FormatClock renders d as hh:mm:ss, truncating fractional seconds.
// Negative durations render as zero.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	total := int64(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60

	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// Seconds converts a slider value to a duration, treating NaN and negatives as zero
func Seconds(v float64) time.Duration {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}

	if math.IsInf(v, 1) {
		return time.Duration(math.MaxInt64)
	}

	return time.Duration(v * float64(time.Second))
}
