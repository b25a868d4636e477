package analytics

import (
	"math"

	"github.com/pulsedash/pulse-platform/internal/reading"
)

// Variable identifies an environmental variable bucketized for sweet-spot analysis
type Variable string

const (
	VariableSound Variable = "sound"
	VariableLight Variable = "light"
	VariableCrowd Variable = "crowd"
)

// Variables lists the bucketized variables in reporting order
var Variables = []Variable{VariableSound, VariableLight, VariableCrowd}

type bucketRange struct {
	label string
	min   float64
	max   float64
}

// Bucket edges are fixed per variable. Lower bound inclusive, upper exclusive.
var bucketRanges = map[Variable][]bucketRange{
	VariableSound: {
		{"<65 dB", math.Inf(-1), 65},
		{"65-70 dB", 65, 70},
		{"70-75 dB", 70, 75},
		{"75-82 dB", 75, 82},
		{"82-90 dB", 82, 90},
		{"90+ dB", 90, math.Inf(1)},
	},
	VariableLight: {
		{"<30 lux", math.Inf(-1), 30},
		{"30-70 lux", 30, 70},
		{"70-150 lux", 70, 150},
		{"150+ lux", 150, math.Inf(1)},
	},
	VariableCrowd: {
		{"<50 guests", math.Inf(-1), 50},
		{"50-100 guests", 50, 100},
		{"100-150 guests", 100, 150},
		{"150+ guests", 150, math.Inf(1)},
	},
}

// SweetSpot reports the best-performing range of one environmental variable
type SweetSpot struct {
	Variable      string           `json:"variable"`
	OptimalRange  string           `json:"optimalRange"`
	AvgScore      float64          `json:"avgScore"`
	OutsideScore  float64          `json:"outsideScore"`
	HitPercentage float64          `json:"hitPercentage"`
	SampleCount   int              `json:"sampleCount"`
	TotalSamples  int              `json:"totalSamples"`
	Daylight      *DaylightContext `json:"daylight,omitempty"`
}

type bucketAccum struct {
	scoreSum float64
	count    int
}

// ComputeSweetSpot finds the bucket of a variable with the highest average
// Pulse score among buckets meeting the minimum sample threshold
// (max(10, 2% of samples)). On equal averages the first bucket in range
// order wins; this tie-break is deliberate, not incidental. Returns nil
// when no bucket qualifies.
func ComputeSweetSpot(readings []reading.SensorReading, variable Variable, venueCapacity int, score ScoreFunc) *SweetSpot {
	ranges, ok := bucketRanges[variable]
	if !ok {
		return nil
	}

	accum := make([]bucketAccum, len(ranges))
	total := 0

	for _, r := range reading.Normalize(readings) {
		value, ok := variableValue(r, variable)
		if !ok {
			continue
		}

		ps := scoreReading(r, venueCapacity, score)
		if ps.Overall == nil {
			continue
		}

		idx := bucketIndex(ranges, value)
		if idx < 0 {
			continue
		}

		accum[idx].scoreSum += *ps.Overall
		accum[idx].count++
		total++
	}

	if total == 0 {
		return nil
	}

	minSamples := total * 2 / 100
	if minSamples < 10 {
		minSamples = 10
	}

	best := -1
	bestAvg := 0.0
	for i, b := range accum {
		if b.count < minSamples {
			continue
		}
		avg := b.scoreSum / float64(b.count)
		if best == -1 || avg > bestAvg {
			best = i
			bestAvg = avg
		}
	}

	if best == -1 {
		return nil
	}

	// Sample-weighted average of all other non-empty buckets
	var outsideSum float64
	outsideCount := 0
	for i, b := range accum {
		if i == best || b.count == 0 {
			continue
		}
		outsideSum += b.scoreSum
		outsideCount += b.count
	}
	outsideScore := 0.0
	if outsideCount > 0 {
		outsideScore = outsideSum / float64(outsideCount)
	}

	return &SweetSpot{
		Variable:      string(variable),
		OptimalRange:  ranges[best].label,
		AvgScore:      bestAvg,
		OutsideScore:  outsideScore,
		HitPercentage: float64(accum[best].count) / float64(total) * 100,
		SampleCount:   accum[best].count,
		TotalSamples:  total,
	}
}

// variableValue extracts the raw value of a variable from a reading
func variableValue(r reading.SensorReading, variable Variable) (float64, bool) {
	switch variable {
	case VariableSound:
		return reading.Value(r.Decibels)
	case VariableLight:
		return reading.Value(r.Light)
	case VariableCrowd:
		if current, ok := r.CurrentOccupancy(); ok {
			return float64(current), true
		}
		return 0, false
	default:
		return 0, false
	}
}

func bucketIndex(ranges []bucketRange, value float64) int {
	for i, b := range ranges {
		if value >= b.min && value < b.max {
			return i
		}
	}
	return -1
}
