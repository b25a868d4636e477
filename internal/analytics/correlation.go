package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/pulsedash/pulse-platform/internal/reading"
)

// Correlation thresholds
const (
	minCorrelationWindows = 5
	minCorrelationPairs   = 5

	confidenceHighSamples   = 50
	confidenceMediumSamples = 20

	insightThreshold = 0.3
)

// FactorCorrelation is the Pearson correlation between one ambient factor
// and dwell time across hourly windows
type FactorCorrelation struct {
	Factor     string  `json:"factor"`
	R          float64 `json:"r"`
	Samples    int     `json:"samples"`
	Confidence string  `json:"confidence"`
	Insight    string  `json:"insight"`
}

// CorrelationReport relates ambient conditions to how long guests stay
type CorrelationReport struct {
	HasData bool                `json:"hasData"`
	Windows int                 `json:"windows"`
	Factors []FactorCorrelation `json:"factors,omitempty"`
}

// hourlyWindow is one calendar hour collapsed to factor averages plus a
// dwell estimate; it exists only during correlation computation
type hourlyWindow struct {
	sound *float64
	light *float64
	crowd *float64
	dwell *float64
}

// CorrelateDwell groups readings into hourly windows and computes, per
// factor, the Pearson correlation between the factor's window average and
// the window's dwell estimate. Fewer than 5 windows with a dwell estimate
// reports hasData=false with no further computation.
func CorrelateDwell(readings []reading.SensorReading) CorrelationReport {
	rs := reading.Normalize(readings)

	grouped := make(map[time.Time][]reading.SensorReading)
	for _, r := range rs {
		hour := r.Timestamp.Truncate(time.Hour)
		grouped[hour] = append(grouped[hour], r)
	}

	hours := make([]time.Time, 0, len(grouped))
	for hour := range grouped {
		hours = append(hours, hour)
	}
	sort.Slice(hours, func(i, j int) bool { return hours[i].Before(hours[j]) })

	windows := make([]hourlyWindow, 0, len(hours))
	usable := 0
	for _, hour := range hours {
		group := grouped[hour]
		w := hourlyWindow{
			sound: positiveAverage(group, func(r reading.SensorReading) (float64, bool) {
				return reading.Value(r.Decibels)
			}),
			light: positiveAverage(group, func(r reading.SensorReading) (float64, bool) {
				return reading.Value(r.Light)
			}),
			crowd: positiveAverage(group, func(r reading.SensorReading) (float64, bool) {
				if current, ok := r.CurrentOccupancy(); ok {
					return float64(current), true
				}
				return 0, false
			}),
			dwell: EstimateDwell(group),
		}
		if w.dwell != nil {
			usable++
		}
		windows = append(windows, w)
	}

	if usable < minCorrelationWindows {
		return CorrelationReport{HasData: false, Windows: usable}
	}

	report := CorrelationReport{HasData: true, Windows: usable}
	for _, f := range []struct {
		name   string
		phrase string
		metric func(hourlyWindow) *float64
	}{
		{"sound", "sound levels", func(w hourlyWindow) *float64 { return w.sound }},
		{"light", "light levels", func(w hourlyWindow) *float64 { return w.light }},
		{"crowd", "crowd levels", func(w hourlyWindow) *float64 { return w.crowd }},
	} {
		var xs, ys []float64
		for _, w := range windows {
			metric := f.metric(w)
			if metric == nil || *metric <= 0 || w.dwell == nil {
				continue
			}
			xs = append(xs, *metric)
			ys = append(ys, *w.dwell)
		}
		if len(xs) < minCorrelationPairs {
			continue
		}

		r := pearson(xs, ys)
		report.Factors = append(report.Factors, FactorCorrelation{
			Factor:     f.name,
			R:          r,
			Samples:    len(xs),
			Confidence: confidenceTier(len(xs)),
			Insight:    correlationInsight(f.phrase, r),
		})
	}

	return report
}

// positiveAverage averages values that are present and nonzero
func positiveAverage(rs []reading.SensorReading, get func(reading.SensorReading) (float64, bool)) *float64 {
	var sum float64
	count := 0
	for _, r := range rs {
		if v, ok := get(r); ok && v > 0 {
			sum += v
			count++
		}
	}
	if count == 0 {
		return nil
	}
	avg := sum / float64(count)
	return &avg
}

// pearson computes the correlation coefficient, treating a zero
// denominator (a constant series) as no correlation
func pearson(xs, ys []float64) float64 {
	n := float64(len(xs))
	var sumX, sumY, sumXY, sumX2, sumY2 float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumX2 += xs[i] * xs[i]
		sumY2 += ys[i] * ys[i]
	}

	denom := math.Sqrt((n*sumX2 - sumX*sumX) * (n*sumY2 - sumY*sumY))
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

func confidenceTier(samples int) string {
	if samples >= confidenceHighSamples {
		return "high"
	}
	if samples >= confidenceMediumSamples {
		return "medium"
	}
	return "low"
}

func correlationInsight(phrase string, r float64) string {
	if r > insightThreshold {
		return fmt.Sprintf("higher %s correlate with longer stays", phrase)
	}
	if r < -insightThreshold {
		return fmt.Sprintf("lower %s correlate with longer stays", phrase)
	}
	return "weak correlation"
}
