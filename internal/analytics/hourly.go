package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/pulsedash/pulse-platform/internal/reading"
)

// HourlyStat summarizes one hour of the local day across the period
type HourlyStat struct {
	Hour         int      `json:"hour"`
	AvgOccupancy float64  `json:"avgOccupancy"`
	AvgSound     *float64 `json:"avgSound,omitempty"`
	AvgLight     *float64 `json:"avgLight,omitempty"`
	AvgScore     *float64 `json:"avgScore,omitempty"`
	Samples      int      `json:"samples"`
}

// ComputeHourlyBreakdown buckets readings by local hour of day and averages
// occupancy, sound, light, and Pulse score per bucket. Hours without any
// readings are omitted.
func ComputeHourlyBreakdown(readings []reading.SensorReading, venueCapacity int, score ScoreFunc, loc *time.Location) []HourlyStat {
	if loc == nil {
		loc = time.UTC
	}

	type accum struct {
		occupancySum   float64
		occupancyCount int
		soundSum       float64
		soundCount     int
		lightSum       float64
		lightCount     int
		scoreSum       float64
		scoreCount     int
		samples        int
	}
	byHour := make(map[int]*accum)

	for _, r := range reading.Normalize(readings) {
		hour := r.Timestamp.In(loc).Hour()
		acc := byHour[hour]
		if acc == nil {
			acc = &accum{}
			byHour[hour] = acc
		}
		acc.samples++

		if current, ok := r.CurrentOccupancy(); ok {
			acc.occupancySum += float64(current)
			acc.occupancyCount++
		}
		if v, ok := reading.Value(r.Decibels); ok {
			acc.soundSum += v
			acc.soundCount++
		}
		if v, ok := reading.Value(r.Light); ok {
			acc.lightSum += v
			acc.lightCount++
		}
		if ps := scoreReading(r, venueCapacity, score); ps.Overall != nil {
			acc.scoreSum += *ps.Overall
			acc.scoreCount++
		}
	}

	hours := make([]int, 0, len(byHour))
	for hour := range byHour {
		hours = append(hours, hour)
	}
	sort.Ints(hours)

	stats := make([]HourlyStat, 0, len(hours))
	for _, hour := range hours {
		acc := byHour[hour]
		s := HourlyStat{Hour: hour, Samples: acc.samples}
		if acc.occupancyCount > 0 {
			s.AvgOccupancy = acc.occupancySum / float64(acc.occupancyCount)
		}
		if acc.soundCount > 0 {
			avg := acc.soundSum / float64(acc.soundCount)
			s.AvgSound = &avg
		}
		if acc.lightCount > 0 {
			avg := acc.lightSum / float64(acc.lightCount)
			s.AvgLight = &avg
		}
		if acc.scoreCount > 0 {
			avg := acc.scoreSum / float64(acc.scoreCount)
			s.AvgScore = &avg
		}
		stats = append(stats, s)
	}

	return stats
}

// PeakHours returns up to three hours with the highest average occupancy,
// formatted as "22:00", busiest first
func PeakHours(stats []HourlyStat) []string {
	busy := make([]HourlyStat, 0, len(stats))
	for _, s := range stats {
		if s.AvgOccupancy > 0 {
			busy = append(busy, s)
		}
	}

	sort.SliceStable(busy, func(i, j int) bool {
		return busy[i].AvgOccupancy > busy[j].AvgOccupancy
	})

	if len(busy) > 3 {
		busy = busy[:3]
	}

	peaks := make([]string, 0, len(busy))
	for _, s := range busy {
		peaks = append(peaks, fmt.Sprintf("%02d:00", s.Hour))
	}
	return peaks
}
