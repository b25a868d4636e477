package analytics

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsedash/pulse-platform/internal/reading"
	"github.com/pulsedash/pulse-platform/pkg/venue"
)

// stubProvider serves a fixed reading set filtered by the requested window
type stubProvider struct {
	mu       sync.Mutex
	readings []reading.SensorReading
	err      error
	fetches  int
}

func (s *stubProvider) Fetch(ctx context.Context, venueID string, start, end time.Time) ([]reading.SensorReading, error) {
	s.mu.Lock()
	s.fetches++
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var out []reading.SensorReading
	for _, r := range s.readings {
		if !r.Timestamp.Before(start) && r.Timestamp.Before(end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testOrchestrator(provider Provider, now time.Time) *Orchestrator {
	o := NewOrchestrator(provider, overallFromDecibels, venue.EmptyRegistry(200, "UTC"), testLogger())
	o.now = func() time.Time { return now }
	return o
}

func TestParseRangeToken(t *testing.T) {
	for _, valid := range []string{"last_night", "7d", "14d", "30d"} {
		if _, err := ParseRangeToken(valid); err != nil {
			t.Errorf("expected %q to parse, got %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "24h", "yesterday", "7D"} {
		if _, err := ParseRangeToken(invalid); err == nil {
			t.Errorf("expected %q to be rejected", invalid)
		}
	}
}

func TestResolvePeriodsLastNightAfterBoundary(t *testing.T) {
	// 11pm on the 14th: the bar day boundary already passed at 3am,
	// so last night is 3am on the 13th to 3am on the 14th
	now := time.Date(2026, 3, 14, 23, 0, 0, 0, time.UTC)
	current, previous := resolvePeriods(now, RangeLastNight, time.UTC)

	assert.Equal(t, time.Date(2026, 3, 13, 3, 0, 0, 0, time.UTC), current.start)
	assert.Equal(t, time.Date(2026, 3, 14, 3, 0, 0, 0, time.UTC), current.end)
	assert.Equal(t, time.Date(2026, 3, 12, 3, 0, 0, 0, time.UTC), previous.start)
	assert.Equal(t, current.start, previous.end)
}

func TestResolvePeriodsLastNightBeforeBoundary(t *testing.T) {
	// 1am on the 14th is still the bar day that started on the 13th
	now := time.Date(2026, 3, 14, 1, 0, 0, 0, time.UTC)
	current, _ := resolvePeriods(now, RangeLastNight, time.UTC)

	assert.Equal(t, time.Date(2026, 3, 12, 3, 0, 0, 0, time.UTC), current.start)
	assert.Equal(t, time.Date(2026, 3, 13, 3, 0, 0, 0, time.UTC), current.end)
}

func TestResolvePeriodsLastNightUsesVenueTimezone(t *testing.T) {
	helsinki, err := time.LoadLocation("Europe/Helsinki")
	require.NoError(t, err)

	// 1am UTC on the 14th is already 3am in Helsinki: the boundary passed
	now := time.Date(2026, 3, 14, 1, 0, 0, 0, time.UTC)
	current, _ := resolvePeriods(now, RangeLastNight, helsinki)

	assert.Equal(t, time.Date(2026, 3, 13, 3, 0, 0, 0, helsinki), current.start)
	assert.Equal(t, time.Date(2026, 3, 14, 3, 0, 0, 0, helsinki), current.end)
}

func TestResolvePeriodsDayRanges(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		rng    RangeToken
		length time.Duration
	}{
		{Range7d, 7 * 24 * time.Hour},
		{Range14d, 14 * 24 * time.Hour},
		{Range30d, 30 * 24 * time.Hour},
	}

	for _, tt := range tests {
		current, previous := resolvePeriods(now, tt.rng, time.UTC)
		assert.Equal(t, now, current.end, "range %s", tt.rng)
		assert.Equal(t, tt.length, current.length(), "range %s", tt.rng)
		assert.Equal(t, tt.length, previous.length(), "range %s", tt.rng)
		assert.Equal(t, current.start, previous.end, "periods must be adjacent for %s", tt.rng)
	}
}

func TestPctDeltaZeroBaseline(t *testing.T) {
	assert.Equal(t, 0.0, pctDelta(50, 0), "zero baseline must report zero delta")
	assert.InDelta(t, 25.0, pctDelta(125, 100), 1e-9)
	assert.InDelta(t, -20.0, pctDelta(80, 100), 1e-9)
}

func TestOrchestratorRunEmptyPeriods(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	o := testOrchestrator(&stubProvider{}, now)

	result, err := o.Run(context.Background(), "venue-1", Range7d)
	require.NoError(t, err, "empty periods must produce a result, not an error")

	assert.Equal(t, "venue-1", result.VenueID)
	assert.Equal(t, "7d", result.Range)
	assert.Equal(t, 0.0, result.Summary.Score)
	assert.Equal(t, 0, result.Summary.TotalGuests)
	assert.Nil(t, result.Summary.AvgStayMinutes)
	assert.False(t, result.Correlation.HasData)
}

func TestOrchestratorRunFetchFailure(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	o := testOrchestrator(&stubProvider{err: errors.New("connection refused")}, now)

	result, err := o.Run(context.Background(), "venue-1", Range7d)
	assert.Error(t, err, "a fetch failure must abort the whole run")
	assert.Nil(t, result)
}

func TestOrchestratorRunIdempotent(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	var readings []reading.SensorReading
	for day := 1; day <= 13; day++ {
		ts := now.AddDate(0, 0, -day)
		readings = append(readings, reading.SensorReading{
			Timestamp: ts,
			Decibels:  fptr(70),
			Occupancy: &reading.Occupancy{
				Current: iptr(80),
				Entries: iptr(day * 40),
			},
		})
	}

	provider := &stubProvider{readings: readings}
	o := testOrchestrator(provider, now)

	first, err := o.Run(context.Background(), "venue-1", Range7d)
	require.NoError(t, err)
	second, err := o.Run(context.Background(), "venue-1", Range7d)
	require.NoError(t, err)

	assert.Equal(t, first, second, "same inputs and clock must produce identical results")
	assert.Equal(t, 4, provider.fetches, "each run fetches both periods")
}

func TestOrchestratorRunComparison(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	// Current week scores 80, previous week scores 40
	var readings []reading.SensorReading
	for day := 1; day <= 6; day++ {
		readings = append(readings, reading.SensorReading{
			Timestamp: now.AddDate(0, 0, -day),
			Decibels:  fptr(80),
		})
	}
	for day := 8; day <= 13; day++ {
		readings = append(readings, reading.SensorReading{
			Timestamp: now.AddDate(0, 0, -day),
			Decibels:  fptr(40),
		})
	}

	o := testOrchestrator(&stubProvider{readings: readings}, now)

	result, err := o.Run(context.Background(), "venue-1", Range7d)
	require.NoError(t, err)

	assert.InDelta(t, 80.0, result.Comparison.CurrentScore, 1e-9)
	assert.InDelta(t, 40.0, result.Comparison.PreviousScore, 1e-9)
	assert.InDelta(t, 100.0, result.Comparison.ScoreDelta, 1e-9)
	assert.InDelta(t, 100.0, result.Summary.ScoreDelta, 1e-9)
}

func TestSummaryText(t *testing.T) {
	dwell := 47.2
	text := summaryText(78.4, 5.2, GuestCount{Count: 412, IsEstimate: true}, &dwell)
	assert.Equal(t, "Pulse score 78 (+5.2% vs previous period), ~412 guests, typical stay 47 min", text)

	text = summaryText(60, 0, GuestCount{Count: 100}, nil)
	assert.Equal(t, "Pulse score 60, 100 guests", text)
}
