package scoring

import (
	"github.com/pulsedash/pulse-platform/internal/analytics"
)

// Tuning bands for the default scorer. Each factor scores 100 inside its
// ideal band and falls off linearly to 0 at the outer edges.
var (
	soundBand = band{55, 68, 78, 95}   // dB
	lightBand = band{5, 40, 120, 400}  // lux
	crowdBand = band{0.05, 0.4, 0.85, 1.15} // utilization of capacity
	tempBand  = band{55, 66, 76, 90}   // indoor °F
)

// tempWeight is how much indoor comfort pulls the overall score
const tempWeight = 0.15

type band struct {
	zeroLo, fullLo, fullHi, zeroHi float64
}

func (b band) score(v float64) float64 {
	switch {
	case v <= b.zeroLo || v >= b.zeroHi:
		return 0
	case v >= b.fullLo && v <= b.fullHi:
		return 100
	case v < b.fullLo:
		return (v - b.zeroLo) / (b.fullLo - b.zeroLo) * 100
	default:
		return (b.zeroHi - v) / (b.zeroHi - b.fullHi) * 100
	}
}

// Score is the default Pulse scoring function. It scores each factor from
// the raw values present on a reading; factors without data stay nil so
// aggregators can exclude them instead of counting zeros.
func Score(in analytics.ScoreInput) analytics.PulseScore {
	var ps analytics.PulseScore

	if in.Decibels != nil {
		s := soundBand.score(*in.Decibels)
		ps.Sound = &s
	}
	if in.Light != nil {
		s := lightBand.score(*in.Light)
		ps.Light = &s
	}
	if in.Occupancy != nil && in.Capacity != nil && *in.Capacity > 0 {
		utilization := float64(*in.Occupancy) / float64(*in.Capacity)
		s := crowdBand.score(utilization)
		ps.Crowd = &s
	}

	var sum float64
	count := 0
	for _, f := range []*float64{ps.Sound, ps.Light, ps.Crowd} {
		if f != nil {
			sum += *f
			count++
		}
	}
	if count == 0 {
		return ps
	}

	overall := sum / float64(count)

	// Indoor comfort nudges the overall score without being its own factor
	if in.IndoorTemp != nil {
		comfort := tempBand.score(*in.IndoorTemp)
		overall = (1-tempWeight)*overall + tempWeight*comfort
	}

	ps.Overall = &overall
	return ps
}
