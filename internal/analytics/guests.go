package analytics

import (
	"math"
	"time"

	"github.com/pulsedash/pulse-platform/internal/reading"
)

// GuestCount is the total number of distinct entries over a period
type GuestCount struct {
	Count      int  `json:"count"`
	IsEstimate bool `json:"isEstimate"`
}

// minCoverage is the fraction of the requested period that must be covered
// by actual readings before the count is taken at face value; anything less
// is extrapolated and flagged as an estimate.
const minCoverage = 0.9

type entryPoint struct {
	ts      time.Time
	entries int
}

// CountGuests sums new entries across a period from cumulative entry
// counters. A counter value lower than its predecessor marks a reset, in
// which case the value itself is the count since the reset, never a
// negative delta. Empty input yields a zero count, not an error.
func CountGuests(readings []reading.SensorReading, period time.Duration) GuestCount {
	rs := reading.Normalize(readings)

	points := make([]entryPoint, 0, len(rs))
	for _, r := range rs {
		if entries, ok := r.Entries(); ok {
			points = append(points, entryPoint{ts: r.Timestamp, entries: entries})
		}
	}

	switch len(points) {
	case 0:
		return GuestCount{Count: 0, IsEstimate: false}
	case 1:
		return GuestCount{Count: points[0].entries, IsEstimate: true}
	}

	total := 0
	for i := 1; i < len(points); i++ {
		prev := points[i-1].entries
		curr := points[i].entries
		if curr >= prev {
			total += curr - prev
		} else {
			// Counter reset: the new value is the count since the reset
			total += curr
		}
	}

	span := points[len(points)-1].ts.Sub(points[0].ts)
	if period > 0 && span > 0 && span < time.Duration(minCoverage*float64(period)) {
		rate := float64(total) / span.Seconds()
		return GuestCount{
			Count:      int(math.Round(rate * period.Seconds())),
			IsEstimate: true,
		}
	}

	return GuestCount{Count: total, IsEstimate: false}
}
