package reading

import (
	"sort"
	"time"
)

// Occupancy carries the people-counter fields of a reading.
// Entries and Exits are cumulative hardware counters; they may reset
// to near zero when the counter firmware restarts.
type Occupancy struct {
	Current  *int
	Entries  *int
	Exits    *int
	Capacity *int
}

// SensorReading is one immutable venue sensor sample. Every sensor field
// is optional: a nil pointer means "no data for this factor", not zero.
type SensorReading struct {
	Timestamp   time.Time
	VenueID     string
	DeviceID    string
	Decibels    *float64
	Light       *float64
	IndoorTemp  *float64
	OutdoorTemp *float64
	Humidity    *float64
	Pressure    *float64
	Occupancy   *Occupancy
}

// Value is the uniform is-present predicate for optional sensor fields
func Value(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

// IntValue is the is-present predicate for optional counter fields
func IntValue(p *int) (int, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Entries returns the cumulative entry counter when present and non-negative
func (r SensorReading) Entries() (int, bool) {
	if r.Occupancy == nil || r.Occupancy.Entries == nil || *r.Occupancy.Entries < 0 {
		return 0, false
	}
	return *r.Occupancy.Entries, true
}

// Exits returns the cumulative exit counter when present and non-negative
func (r SensorReading) Exits() (int, bool) {
	if r.Occupancy == nil || r.Occupancy.Exits == nil || *r.Occupancy.Exits < 0 {
		return 0, false
	}
	return *r.Occupancy.Exits, true
}

// CurrentOccupancy returns the instantaneous guest count when present
func (r SensorReading) CurrentOccupancy() (int, bool) {
	if r.Occupancy == nil || r.Occupancy.Current == nil {
		return 0, false
	}
	return *r.Occupancy.Current, true
}

// Normalize returns a copy of readings with zero timestamps dropped and the
// rest sorted ascending by timestamp. The input slice is never mutated.
func Normalize(readings []SensorReading) []SensorReading {
	out := make([]SensorReading, 0, len(readings))
	for _, r := range readings {
		if r.Timestamp.IsZero() {
			continue
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})

	return out
}
