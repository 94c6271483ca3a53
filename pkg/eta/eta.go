// Package eta provides the arrival-time estimate shape shared with the
// tracking surface. Pure formatting; the distance lookup itself lives with
// the external mapping provider.
package eta

import (
	"fmt"
	"time"
)

// Estimate is an arrival time in the three forms consumers expect.
type Estimate struct {
	Timestamp int64  `json:"timestamp"`
	ISO       string `json:"iso"`
	Formatted string `json:"formatted"`
}

// Compute returns the estimate for now plus the given travel duration.
func Compute(nowPlus time.Duration) Estimate {
	return At(time.Now(), nowPlus)
}

// At returns the estimate for a fixed base time. Split out so callers and
// tests control the clock.
func At(now time.Time, nowPlus time.Duration) Estimate {
	arrival := now.Add(nowPlus)
	return Estimate{
		Timestamp: arrival.Unix(),
		ISO:       arrival.Format(time.RFC3339),
		Formatted: arrival.Format("03:04 PM"),
	}
}

// FormatDuration renders a duration in seconds as readable text.
func FormatDuration(seconds int) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%d hour(s) %d min", hours, minutes)
	}
	return fmt.Sprintf("%d min", minutes)
}

// FormatDistance renders a distance in meters as readable text.
func FormatDistance(meters int) string {
	if meters >= 1000 {
		return fmt.Sprintf("%.1f km", float64(meters)/1000.0)
	}
	return fmt.Sprintf("%d m", meters)
}
