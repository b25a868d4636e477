package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/pulsedash/pulse-platform/internal/reading"
)

func TestScoreFactorsAveragesAndStatus(t *testing.T) {
	score := func(in ScoreInput) PulseScore {
		return PulseScore{
			Sound: fptr(85),
			Light: fptr(70),
			Crowd: fptr(50),
		}
	}

	rs := make([]reading.SensorReading, 0, 4)
	for i := 0; i < 4; i++ {
		rs = append(rs, reading.SensorReading{Timestamp: baseTime.Add(time.Duration(i) * time.Minute)})
	}

	reports := ScoreFactors(rs, 200, score)
	if len(reports) != 3 {
		t.Fatalf("expected 3 factor reports, got %d", len(reports))
	}

	want := map[string]struct {
		score  float64
		status string
	}{
		"sound": {85, StatusInRange},
		"light": {70, StatusMostlyGood},
		"crowd": {50, StatusNeedsAdjustment},
	}

	for _, r := range reports {
		w, ok := want[r.Factor]
		if !ok {
			t.Errorf("unexpected factor %s", r.Factor)
			continue
		}
		if math.Abs(r.Score-w.score) > 1e-9 {
			t.Errorf("factor %s: expected score %.1f, got %.2f", r.Factor, w.score, r.Score)
		}
		if r.Status != w.status {
			t.Errorf("factor %s: expected status %q, got %q", r.Factor, w.status, r.Status)
		}
		if r.Samples != 4 {
			t.Errorf("factor %s: expected 4 samples, got %d", r.Factor, r.Samples)
		}
	}
}

func TestScoreFactorsStatusBoundaries(t *testing.T) {
	tests := []struct {
		score  float64
		status string
	}{
		{80, StatusInRange},
		{79.9, StatusMostlyGood},
		{60, StatusMostlyGood},
		{59.9, StatusNeedsAdjustment},
		{0, StatusNeedsAdjustment},
	}

	for _, tt := range tests {
		if got := statusForScore(tt.score); got != tt.status {
			t.Errorf("statusForScore(%.1f): expected %q, got %q", tt.score, tt.status, got)
		}
	}
}

func TestScoreFactorsOmitsUnscoredFactors(t *testing.T) {
	score := func(in ScoreInput) PulseScore {
		return PulseScore{Sound: fptr(90)}
	}

	reports := ScoreFactors([]reading.SensorReading{{Timestamp: baseTime}}, 200, score)
	if len(reports) != 1 {
		t.Fatalf("expected only the sound factor, got %d reports", len(reports))
	}
	if reports[0].Factor != "sound" {
		t.Errorf("expected sound, got %s", reports[0].Factor)
	}
}

func TestScoreFactorsEmptyInput(t *testing.T) {
	if reports := ScoreFactors(nil, 200, overallFromDecibels); len(reports) != 0 {
		t.Errorf("expected no reports for empty input, got %d", len(reports))
	}
}
