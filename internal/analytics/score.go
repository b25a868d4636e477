package analytics

import (
	"time"

	"github.com/pulsedash/pulse-platform/internal/reading"
)

// ScoreInput carries one reading's raw values into the Pulse scoring function
type ScoreInput struct {
	Decibels    *float64
	Light       *float64
	IndoorTemp  *float64
	OutdoorTemp *float64
	Timestamp   time.Time
	Occupancy   *int
	Capacity    *int
}

// PulseScore is the scoring function's verdict for one reading.
// A nil field means the factor could not be scored from the available data.
type PulseScore struct {
	Overall *float64
	Sound   *float64
	Light   *float64
	Crowd   *float64
}

// ScoreFunc is the external Pulse scoring collaborator. The pipeline treats
// it as a pure numeric oracle and never inspects how scores are produced.
type ScoreFunc func(ScoreInput) PulseScore

// scoreReading runs the scoring collaborator over a single reading.
// venueCapacity is used when the reading itself does not report capacity.
func scoreReading(r reading.SensorReading, venueCapacity int, score ScoreFunc) PulseScore {
	in := ScoreInput{
		Decibels:    r.Decibels,
		Light:       r.Light,
		IndoorTemp:  r.IndoorTemp,
		OutdoorTemp: r.OutdoorTemp,
		Timestamp:   r.Timestamp,
	}

	if r.Occupancy != nil {
		in.Occupancy = r.Occupancy.Current
		in.Capacity = r.Occupancy.Capacity
	}
	if in.Capacity == nil && venueCapacity > 0 {
		capacity := venueCapacity
		in.Capacity = &capacity
	}

	return score(in)
}
