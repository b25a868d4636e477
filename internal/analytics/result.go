package analytics

import "time"

// PeriodSummary is the headline block of a period result
type PeriodSummary struct {
	Score            float64  `json:"score"`
	ScoreDelta       float64  `json:"scoreDelta"`
	AvgStayMinutes   *float64 `json:"avgStayMinutes"`
	AvgStayDelta     float64  `json:"avgStayDelta"`
	TotalGuests      int      `json:"totalGuests"`
	GuestsIsEstimate bool     `json:"guestsIsEstimate"`
	GuestsDelta      float64  `json:"guestsDelta"`
	PeakHours        []string `json:"peakHours"`
	SummaryText      string   `json:"summaryText"`
}

// PeriodComparison puts the current and previous period side by side
type PeriodComparison struct {
	CurrentScore    float64  `json:"currentScore"`
	PreviousScore   float64  `json:"previousScore"`
	ScoreDelta      float64  `json:"scoreDelta"`
	CurrentGuests   int      `json:"currentGuests"`
	PreviousGuests  int      `json:"previousGuests"`
	GuestsDelta     float64  `json:"guestsDelta"`
	CurrentAvgStay  *float64 `json:"currentAvgStay"`
	PreviousAvgStay *float64 `json:"previousAvgStay"`
	AvgStayDelta    float64  `json:"avgStayDelta"`
}

// Result is the complete analytics output for one (venue, range) invocation.
// It is assembled fresh per call and has no persisted identity.
type Result struct {
	VenueID     string              `json:"venueId"`
	Range       string              `json:"range"`
	PeriodStart time.Time           `json:"periodStart"`
	PeriodEnd   time.Time           `json:"periodEnd"`
	GeneratedAt time.Time           `json:"generatedAt"`
	Summary     PeriodSummary       `json:"summary"`
	SweetSpots  []SweetSpot         `json:"sweetSpots"`
	Trend       TrendReport         `json:"trend"`
	Hourly      []HourlyStat        `json:"hourly"`
	Factors     []FactorScoreReport `json:"factors"`
	Comparison  PeriodComparison    `json:"comparison"`
	Correlation CorrelationReport   `json:"correlation"`
}
