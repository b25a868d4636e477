package analytics

import (
	"sort"
	"time"

	"github.com/pulsedash/pulse-platform/internal/reading"
)

// DailyMetrics collapses one local calendar day to its averages
type DailyMetrics struct {
	Date         string   `json:"date"`
	AvgScore     float64  `json:"avgScore"`
	Sound        *float64 `json:"sound,omitempty"`
	Light        *float64 `json:"light,omitempty"`
	Crowd        *float64 `json:"crowd,omitempty"`
	MaxOccupancy int      `json:"maxOccupancy"`
	Samples      int      `json:"samples"`
}

// DayHighlight names a notable day with a one-line qualitative label
type DayHighlight struct {
	Date  string  `json:"date"`
	Score float64 `json:"score"`
	Label string  `json:"label"`
}

// TrendReport is the daily trend over a period with best/worst day callouts
type TrendReport struct {
	Days     []DailyMetrics `json:"days"`
	BestDay  *DayHighlight  `json:"bestDay,omitempty"`
	WorstDay *DayHighlight  `json:"worstDay,omitempty"`
}

type dayAccum struct {
	scoreSum     float64
	scoreCount   int
	soundSum     float64
	soundCount   int
	lightSum     float64
	lightCount   int
	crowdSum     float64
	crowdCount   int
	maxOccupancy int
}

// AggregateTrend groups readings by local calendar date and identifies the
// best and worst days by average Pulse score. Days without a single valid
// score never become the worst day.
func AggregateTrend(readings []reading.SensorReading, venueCapacity int, score ScoreFunc, loc *time.Location) TrendReport {
	if loc == nil {
		loc = time.UTC
	}

	byDay := make(map[string]*dayAccum)
	for _, r := range reading.Normalize(readings) {
		date := r.Timestamp.In(loc).Format("2006-01-02")
		acc := byDay[date]
		if acc == nil {
			acc = &dayAccum{}
			byDay[date] = acc
		}

		ps := scoreReading(r, venueCapacity, score)
		if ps.Overall != nil {
			acc.scoreSum += *ps.Overall
			acc.scoreCount++
		}
		if ps.Sound != nil {
			acc.soundSum += *ps.Sound
			acc.soundCount++
		}
		if ps.Light != nil {
			acc.lightSum += *ps.Light
			acc.lightCount++
		}
		if ps.Crowd != nil {
			acc.crowdSum += *ps.Crowd
			acc.crowdCount++
		}
		if current, ok := r.CurrentOccupancy(); ok && current > acc.maxOccupancy {
			acc.maxOccupancy = current
		}
	}

	dates := make([]string, 0, len(byDay))
	for date := range byDay {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	days := make([]DailyMetrics, 0, len(dates))
	for _, date := range dates {
		acc := byDay[date]
		d := DailyMetrics{
			Date:         date,
			MaxOccupancy: acc.maxOccupancy,
			Samples:      acc.scoreCount,
		}
		if acc.scoreCount > 0 {
			d.AvgScore = acc.scoreSum / float64(acc.scoreCount)
		}
		if acc.soundCount > 0 {
			avg := acc.soundSum / float64(acc.soundCount)
			d.Sound = &avg
		}
		if acc.lightCount > 0 {
			avg := acc.lightSum / float64(acc.lightCount)
			d.Light = &avg
		}
		if acc.crowdCount > 0 {
			avg := acc.crowdSum / float64(acc.crowdCount)
			d.Crowd = &avg
		}
		days = append(days, d)
	}

	report := TrendReport{Days: days}

	var best, worst *DailyMetrics
	for i := range days {
		d := &days[i]
		if d.Samples == 0 {
			continue
		}
		if best == nil || d.AvgScore > best.AvgScore {
			best = d
		}
		if worst == nil || d.AvgScore < worst.AvgScore {
			worst = d
		}
	}

	if best != nil {
		report.BestDay = &DayHighlight{
			Date:  best.Date,
			Score: best.AvgScore,
			Label: bestDayLabel(*best),
		}
	}
	if worst != nil {
		report.WorstDay = &DayHighlight{
			Date:  worst.Date,
			Score: worst.AvgScore,
			Label: worstDayLabel(*worst),
		}
	}

	return report
}

// bestDayLabel picks the first matching rule, top to bottom
func bestDayLabel(d DailyMetrics) string {
	sound := d.Sound != nil && *d.Sound >= 85
	light := d.Light != nil && *d.Light >= 85
	crowd := d.Crowd != nil && *d.Crowd >= 85

	switch {
	case sound && light:
		return "on point"
	case sound:
		return "great energy"
	case light:
		return "perfect ambiance"
	case crowd:
		return "comfortable all day"
	case d.MaxOccupancy >= 100:
		return "packed house"
	default:
		return "strong overall"
	}
}

// worstDayLabel names the single weakest factor when it is clearly off,
// otherwise falls back to turnout
func worstDayLabel(d DailyMetrics) string {
	type factorAvg struct {
		label string
		value float64
	}
	var factors []factorAvg
	if d.Sound != nil {
		factors = append(factors, factorAvg{"sound levels off", *d.Sound})
	}
	if d.Light != nil {
		factors = append(factors, factorAvg{"lighting needs work", *d.Light})
	}
	if d.Crowd != nil {
		factors = append(factors, factorAvg{"temperature uncomfortable", *d.Crowd})
	}

	if len(factors) > 0 {
		weakest := factors[0]
		for _, f := range factors[1:] {
			if f.value < weakest.value {
				weakest = f
			}
		}
		if weakest.value < 60 {
			return weakest.label
		}
	}

	if d.MaxOccupancy < 30 {
		return "low turnout"
	}
	return "room for improvement"
}
