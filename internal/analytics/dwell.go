package analytics

import (
	"time"

	"github.com/pulsedash/pulse-platform/internal/reading"
)

// Dwell estimation bounds. Individual samples outside [1, 360] minutes are
// sensor noise; a period average outside [5, 240] minutes is implausible
// for a venue and reported as unavailable instead of a misleading number.
const (
	maxPairGap         = 4 * time.Hour
	minDwellSamples    = 5
	minValidDwellMin   = 1.0
	maxValidDwellMin   = 360.0
	minPlausibleAvgMin = 5.0
	maxPlausibleAvgMin = 240.0
)

// EstimateDwell estimates the average guest stay in minutes by matching
// exits against the oldest unmatched entries (FIFO cohort matching).
// Returns nil when fewer than 5 valid samples match or the average falls
// outside the plausible range.
func EstimateDwell(readings []reading.SensorReading) *float64 {
	samples := dwellSamples(readings)
	if len(samples) < minDwellSamples {
		return nil
	}

	var sum float64
	for _, s := range samples {
		sum += s
	}
	avg := sum / float64(len(samples))

	if avg < minPlausibleAvgMin || avg > maxPlausibleAvgMin {
		return nil
	}

	return &avg
}

type counterPoint struct {
	ts      time.Time
	entries int
	exits   int
}

// dwellSamples walks consecutive counter readings and produces one dwell
// sample per matched exit, in minutes. Pairs separated by more than 4 hours
// are treated as a data outage and skipped entirely, not as a long interval.
func dwellSamples(readings []reading.SensorReading) []float64 {
	rs := reading.Normalize(readings)

	points := make([]counterPoint, 0, len(rs))
	for _, r := range rs {
		entries, okEntries := r.Entries()
		exits, okExits := r.Exits()
		if !okEntries || !okExits {
			continue
		}
		points = append(points, counterPoint{ts: r.Timestamp, entries: entries, exits: exits})
	}

	if len(points) < 2 {
		return nil
	}

	// FIFO queue of entry timestamps; head tracks popped elements
	var queue []time.Time
	head := 0
	var samples []float64

	for i := 1; i < len(points); i++ {
		prev := points[i-1]
		curr := points[i]

		if curr.ts.Sub(prev.ts) > maxPairGap {
			continue
		}

		newEntries := counterDelta(prev.entries, curr.entries)
		newExits := counterDelta(prev.exits, curr.exits)

		for e := 0; e < newEntries; e++ {
			queue = append(queue, curr.ts)
		}

		for x := 0; x < newExits && head < len(queue); x++ {
			entryTime := queue[head]
			head++

			dwell := curr.ts.Sub(entryTime).Minutes()
			if dwell < minValidDwellMin || dwell > maxValidDwellMin {
				continue
			}
			samples = append(samples, dwell)
		}
	}

	return samples
}

// counterDelta applies the reset-aware delta rule shared with CountGuests
func counterDelta(prev, curr int) int {
	if curr >= prev {
		return curr - prev
	}
	return curr
}
