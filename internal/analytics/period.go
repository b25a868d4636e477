package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/pulsedash/pulse-platform/internal/reading"
	"github.com/pulsedash/pulse-platform/pkg/venue"
)

// RangeToken is one of the closed set of supported reporting ranges
type RangeToken string

const (
	RangeLastNight RangeToken = "last_night"
	Range7d        RangeToken = "7d"
	Range14d       RangeToken = "14d"
	Range30d       RangeToken = "30d"
)

// barDayBoundaryHour is the local hour at which one "bar day" rolls into
// the next. A night's trading that runs past midnight belongs to the day
// it started, so last-night reporting uses 3am-3am, not midnight.
const barDayBoundaryHour = 3

// ParseRangeToken validates a raw range string from the API
func ParseRangeToken(s string) (RangeToken, error) {
	switch RangeToken(s) {
	case RangeLastNight, Range7d, Range14d, Range30d:
		return RangeToken(s), nil
	}
	return "", fmt.Errorf("unknown range token: %q", s)
}

// Provider fetches raw readings for a venue and time window. Ordering of
// the returned slice is not guaranteed; the pipeline sorts internally.
type Provider interface {
	Fetch(ctx context.Context, venueID string, start, end time.Time) ([]reading.SensorReading, error)
}

// period is a half-open time window [start, end)
type period struct {
	start time.Time
	end   time.Time
}

func (p period) length() time.Duration {
	return p.end.Sub(p.start)
}

// Orchestrator resolves a range token to period boundaries, drives the
// pipeline over the current and previous periods, and assembles the result
type Orchestrator struct {
	provider Provider
	score    ScoreFunc
	venues   *venue.Registry
	logger   *slog.Logger
	now      func() time.Time
}

// NewOrchestrator creates an orchestrator with the given collaborators
func NewOrchestrator(provider Provider, score ScoreFunc, venues *venue.Registry, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		provider: provider,
		score:    score,
		venues:   venues,
		logger:   logger,
		now:      time.Now,
	}
}

// Run computes the full analytics result for one venue and range. A fetch
// failure aborts the whole invocation: a half-computed comparison is worse
// than an explicit error.
func (o *Orchestrator) Run(ctx context.Context, venueID string, rng RangeToken) (*Result, error) {
	loc := o.venues.Location(venueID)
	capacity := o.venues.Capacity(venueID)

	current, previous := resolvePeriods(o.now(), rng, loc)

	currentReadings, previousReadings, err := o.fetchBoth(ctx, venueID, current, previous)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch readings for %s/%s: %w", venueID, rng, err)
	}

	currentReadings = reading.Normalize(currentReadings)
	previousReadings = reading.Normalize(previousReadings)

	currScore := averageOverallScore(currentReadings, capacity, o.score)
	prevScore := averageOverallScore(previousReadings, capacity, o.score)

	currGuests := CountGuests(currentReadings, current.length())
	prevGuests := CountGuests(previousReadings, previous.length())

	currDwell := EstimateDwell(currentReadings)
	prevDwell := EstimateDwell(previousReadings)

	hourly := ComputeHourlyBreakdown(currentReadings, capacity, o.score, loc)
	peaks := PeakHours(hourly)

	sweetSpots := make([]SweetSpot, 0, len(Variables))
	for _, variable := range Variables {
		spot := ComputeSweetSpot(currentReadings, variable, capacity, o.score)
		if spot == nil {
			continue
		}
		if variable == VariableLight {
			if v, ok := o.venues.Get(venueID); ok && v.HasCoordinates() {
				midpoint := current.start.Add(current.length() / 2)
				daylight := DaylightAt(v.Latitude, v.Longitude, midpoint)
				spot.Daylight = &daylight
			}
		}
		sweetSpots = append(sweetSpots, *spot)
	}

	scoreDelta := pctDelta(currScore, prevScore)
	guestsDelta := pctDelta(float64(currGuests.Count), float64(prevGuests.Count))
	stayDelta := dwellDelta(currDwell, prevDwell)

	result := &Result{
		VenueID:     venueID,
		Range:       string(rng),
		PeriodStart: current.start,
		PeriodEnd:   current.end,
		GeneratedAt: o.now().UTC(),
		Summary: PeriodSummary{
			Score:            currScore,
			ScoreDelta:       scoreDelta,
			AvgStayMinutes:   currDwell,
			AvgStayDelta:     stayDelta,
			TotalGuests:      currGuests.Count,
			GuestsIsEstimate: currGuests.IsEstimate,
			GuestsDelta:      guestsDelta,
			PeakHours:        peaks,
			SummaryText:      summaryText(currScore, scoreDelta, currGuests, currDwell),
		},
		SweetSpots: sweetSpots,
		Trend:      AggregateTrend(currentReadings, capacity, o.score, loc),
		Hourly:     hourly,
		Factors:    ScoreFactors(currentReadings, capacity, o.score),
		Comparison: PeriodComparison{
			CurrentScore:    currScore,
			PreviousScore:   prevScore,
			ScoreDelta:      scoreDelta,
			CurrentGuests:   currGuests.Count,
			PreviousGuests:  prevGuests.Count,
			GuestsDelta:     guestsDelta,
			CurrentAvgStay:  currDwell,
			PreviousAvgStay: prevDwell,
			AvgStayDelta:    stayDelta,
		},
		Correlation: CorrelateDwell(currentReadings),
	}

	o.logger.Debug("Assembled analytics result",
		"venue_id", venueID,
		"range", string(rng),
		"readings", len(currentReadings),
		"previous_readings", len(previousReadings),
		"guests", currGuests.Count)

	return result, nil
}

// fetchBoth runs the two period fetches concurrently and joins them.
// The fetches are independent; only the comparison needs both.
func (o *Orchestrator) fetchBoth(ctx context.Context, venueID string, current, previous period) ([]reading.SensorReading, []reading.SensorReading, error) {
	type fetchResult struct {
		readings []reading.SensorReading
		err      error
	}

	currentCh := make(chan fetchResult, 1)
	previousCh := make(chan fetchResult, 1)

	go func() {
		rs, err := o.provider.Fetch(ctx, venueID, current.start, current.end)
		currentCh <- fetchResult{readings: rs, err: err}
	}()
	go func() {
		rs, err := o.provider.Fetch(ctx, venueID, previous.start, previous.end)
		previousCh <- fetchResult{readings: rs, err: err}
	}()

	curr := <-currentCh
	prev := <-previousCh

	if curr.err != nil {
		return nil, nil, curr.err
	}
	if prev.err != nil {
		return nil, nil, prev.err
	}

	return curr.readings, prev.readings, nil
}

// resolvePeriods maps a range token to concrete current/previous windows.
// last_night is a fixed 3am-3am bar day in the venue's timezone, not a
// rolling 24 hours; the day ranges split a doubled window at now-L and
// now-2L.
func resolvePeriods(now time.Time, rng RangeToken, loc *time.Location) (period, period) {
	if loc == nil {
		loc = time.UTC
	}

	if rng == RangeLastNight {
		local := now.In(loc)
		boundary := time.Date(local.Year(), local.Month(), local.Day(), barDayBoundaryHour, 0, 0, 0, loc)
		if local.Before(boundary) {
			boundary = boundary.AddDate(0, 0, -1)
		}
		current := period{start: boundary.AddDate(0, 0, -1), end: boundary}
		previous := period{start: boundary.AddDate(0, 0, -2), end: boundary.AddDate(0, 0, -1)}
		return current, previous
	}

	var length time.Duration
	switch rng {
	case Range14d:
		length = 14 * 24 * time.Hour
	case Range30d:
		length = 30 * 24 * time.Hour
	default:
		length = 7 * 24 * time.Hour
	}

	current := period{start: now.Add(-length), end: now}
	previous := period{start: now.Add(-2 * length), end: now.Add(-length)}
	return current, previous
}

// averageOverallScore averages the overall Pulse score over readings that
// the scoring collaborator could score
func averageOverallScore(rs []reading.SensorReading, capacity int, score ScoreFunc) float64 {
	var sum float64
	count := 0
	for _, r := range rs {
		if ps := scoreReading(r, capacity, score); ps.Overall != nil {
			sum += *ps.Overall
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// pctDelta guards the zero baseline: no previous data means no trend, not
// an infinite one
func pctDelta(curr, prev float64) float64 {
	if prev == 0 {
		return 0
	}
	return (curr - prev) / prev * 100
}

func dwellDelta(curr, prev *float64) float64 {
	if curr == nil || prev == nil {
		return 0
	}
	return pctDelta(*curr, *prev)
}

func summaryText(score, scoreDelta float64, guests GuestCount, dwell *float64) string {
	text := fmt.Sprintf("Pulse score %d", int(math.Round(score)))
	if scoreDelta != 0 {
		text += fmt.Sprintf(" (%+.1f%% vs previous period)", scoreDelta)
	}

	if guests.IsEstimate {
		text += fmt.Sprintf(", ~%d guests", guests.Count)
	} else {
		text += fmt.Sprintf(", %d guests", guests.Count)
	}

	if dwell != nil {
		text += fmt.Sprintf(", typical stay %d min", int(math.Round(*dwell)))
	}

	return text
}
