package analytics

import (
	"time"

	"github.com/pulsedash/pulse-platform/internal/reading"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

// counterReading builds a reading carrying only the cumulative counters
func counterReading(ts time.Time, entries, exits int) reading.SensorReading {
	return reading.SensorReading{
		Timestamp: ts,
		Occupancy: &reading.Occupancy{
			Entries: iptr(entries),
			Exits:   iptr(exits),
		},
	}
}

// entriesReading builds a reading carrying only the entry counter
func entriesReading(ts time.Time, entries int) reading.SensorReading {
	return reading.SensorReading{
		Timestamp: ts,
		Occupancy: &reading.Occupancy{
			Entries: iptr(entries),
		},
	}
}

// overallFromDecibels scores Overall (and Sound) directly from the decibel
// value, which lets tests steer aggregate scores through the input data
func overallFromDecibels(in ScoreInput) PulseScore {
	if in.Decibels == nil {
		return PulseScore{}
	}
	v := *in.Decibels
	return PulseScore{Overall: &v, Sound: &v}
}

var baseTime = time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
