package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/pulsedash/pulse-platform/internal/reading"
)

// soundReadings builds n readings with the same decibel value, spaced a
// minute apart starting at offset
func soundReadings(n int, decibels float64, offset time.Duration) []reading.SensorReading {
	rs := make([]reading.SensorReading, 0, n)
	for i := 0; i < n; i++ {
		rs = append(rs, reading.SensorReading{
			Timestamp: baseTime.Add(offset + time.Duration(i)*time.Minute),
			Decibels:  fptr(decibels),
		})
	}
	return rs
}

func TestComputeSweetSpotPicksBestBucket(t *testing.T) {
	// 67dB readings score 90, 72dB readings score 50
	score := func(in ScoreInput) PulseScore {
		v := 50.0
		if *in.Decibels < 70 {
			v = 90.0
		}
		return PulseScore{Overall: &v}
	}

	readings := append(soundReadings(20, 67, 0), soundReadings(15, 72, time.Hour)...)

	got := ComputeSweetSpot(readings, VariableSound, 200, score)
	if got == nil {
		t.Fatal("expected a sweet spot, got nil")
	}
	if got.OptimalRange != "65-70 dB" {
		t.Errorf("expected optimal range 65-70 dB, got %s", got.OptimalRange)
	}
	if math.Abs(got.AvgScore-90) > 1e-9 {
		t.Errorf("expected avg score 90, got %.2f", got.AvgScore)
	}
	if math.Abs(got.OutsideScore-50) > 1e-9 {
		t.Errorf("expected outside score 50, got %.2f", got.OutsideScore)
	}
	if got.SampleCount != 20 || got.TotalSamples != 35 {
		t.Errorf("expected 20/35 samples, got %d/%d", got.SampleCount, got.TotalSamples)
	}
	wantHit := 20.0 / 35.0 * 100
	if math.Abs(got.HitPercentage-wantHit) > 1e-9 {
		t.Errorf("expected hit percentage %.2f, got %.2f", wantHit, got.HitPercentage)
	}
}

func TestComputeSweetSpotMinimumSampleThreshold(t *testing.T) {
	// The 9-sample bucket scores higher but falls below the 10-sample floor
	score := func(in ScoreInput) PulseScore {
		v := 40.0
		if *in.Decibels >= 90 {
			v = 95.0
		}
		return PulseScore{Overall: &v}
	}

	readings := append(soundReadings(30, 67, 0), soundReadings(9, 92, time.Hour)...)

	got := ComputeSweetSpot(readings, VariableSound, 200, score)
	if got == nil {
		t.Fatal("expected a sweet spot, got nil")
	}
	if got.OptimalRange != "65-70 dB" {
		t.Errorf("small bucket must not win; expected 65-70 dB, got %s", got.OptimalRange)
	}
}

func TestComputeSweetSpotTieBreak(t *testing.T) {
	// Equal averages: the earlier bucket in range order wins
	score := func(in ScoreInput) PulseScore {
		v := 75.0
		return PulseScore{Overall: &v}
	}

	readings := append(soundReadings(15, 67, 0), soundReadings(15, 72, time.Hour)...)

	got := ComputeSweetSpot(readings, VariableSound, 200, score)
	if got == nil {
		t.Fatal("expected a sweet spot, got nil")
	}
	if got.OptimalRange != "65-70 dB" {
		t.Errorf("tie should go to the first bucket in order, got %s", got.OptimalRange)
	}
}

func TestComputeSweetSpotNoQualifyingBucket(t *testing.T) {
	score := func(in ScoreInput) PulseScore {
		v := 80.0
		return PulseScore{Overall: &v}
	}

	// Nine samples total: no bucket can reach the 10-sample floor
	if got := ComputeSweetSpot(soundReadings(9, 67, 0), VariableSound, 200, score); got != nil {
		t.Errorf("expected nil when no bucket qualifies, got %+v", got)
	}
}

func TestComputeSweetSpotEmptyInput(t *testing.T) {
	if got := ComputeSweetSpot(nil, VariableSound, 200, overallFromDecibels); got != nil {
		t.Errorf("expected nil for empty input, got %+v", got)
	}
}

func TestComputeSweetSpotCrowdVariable(t *testing.T) {
	score := func(in ScoreInput) PulseScore {
		v := 70.0
		return PulseScore{Overall: &v}
	}

	rs := make([]reading.SensorReading, 0, 12)
	for i := 0; i < 12; i++ {
		rs = append(rs, reading.SensorReading{
			Timestamp: baseTime.Add(time.Duration(i) * time.Minute),
			Occupancy: &reading.Occupancy{Current: iptr(120)},
		})
	}

	got := ComputeSweetSpot(rs, VariableCrowd, 200, score)
	if got == nil {
		t.Fatal("expected a sweet spot, got nil")
	}
	if got.OptimalRange != "100-150 guests" {
		t.Errorf("expected 100-150 guests, got %s", got.OptimalRange)
	}
}
