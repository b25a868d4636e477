package analytics

import (
	"github.com/pulsedash/pulse-platform/internal/reading"
)

// Factor status tiers
const (
	StatusInRange         = "in range"
	StatusMostlyGood      = "mostly good"
	StatusNeedsAdjustment = "needs adjustment"
)

// FactorScoreReport is the aggregated score of one factor over a period
type FactorScoreReport struct {
	Factor  string  `json:"factor"`
	Score   float64 `json:"score"`
	Status  string  `json:"status"`
	Samples int     `json:"samples"`
}

// ScoreFactors averages the per-reading factor scores produced by the
// scoring collaborator. Factors with no contributing readings are omitted
// entirely rather than reported as zero.
func ScoreFactors(readings []reading.SensorReading, venueCapacity int, score ScoreFunc) []FactorScoreReport {
	type accum struct {
		sum   float64
		count int
	}
	var sound, light, crowd accum

	for _, r := range reading.Normalize(readings) {
		ps := scoreReading(r, venueCapacity, score)
		if ps.Sound != nil {
			sound.sum += *ps.Sound
			sound.count++
		}
		if ps.Light != nil {
			light.sum += *ps.Light
			light.count++
		}
		if ps.Crowd != nil {
			crowd.sum += *ps.Crowd
			crowd.count++
		}
	}

	reports := make([]FactorScoreReport, 0, 3)
	for _, f := range []struct {
		name string
		acc  accum
	}{
		{"sound", sound},
		{"light", light},
		{"crowd", crowd},
	} {
		if f.acc.count == 0 {
			continue
		}
		avg := f.acc.sum / float64(f.acc.count)
		reports = append(reports, FactorScoreReport{
			Factor:  f.name,
			Score:   avg,
			Status:  statusForScore(avg),
			Samples: f.acc.count,
		})
	}

	return reports
}

func statusForScore(score float64) string {
	if score >= 80 {
		return StatusInRange
	}
	if score >= 60 {
		return StatusMostlyGood
	}
	return StatusNeedsAdjustment
}
