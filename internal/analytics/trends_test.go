package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/pulsedash/pulse-platform/internal/reading"
)

func TestAggregateTrendGroupsByLocalDay(t *testing.T) {
	// 23:30 UTC on the 14th is 01:30 on the 15th in Helsinki
	helsinki, err := time.LoadLocation("Europe/Helsinki")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}

	readings := []reading.SensorReading{
		{Timestamp: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC), Decibels: fptr(70)},
		{Timestamp: time.Date(2026, 3, 14, 23, 30, 0, 0, time.UTC), Decibels: fptr(80)},
	}

	report := AggregateTrend(readings, 200, overallFromDecibels, helsinki)
	if len(report.Days) != 2 {
		t.Fatalf("expected 2 local days, got %d", len(report.Days))
	}
	if report.Days[0].Date != "2026-03-14" || report.Days[1].Date != "2026-03-15" {
		t.Errorf("unexpected dates: %s, %s", report.Days[0].Date, report.Days[1].Date)
	}
}

func TestAggregateTrendBestAndWorstDay(t *testing.T) {
	readings := []reading.SensorReading{
		{Timestamp: time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC), Decibels: fptr(90)},
		{Timestamp: time.Date(2026, 3, 15, 20, 0, 0, 0, time.UTC), Decibels: fptr(40)},
		{Timestamp: time.Date(2026, 3, 16, 20, 0, 0, 0, time.UTC), Decibels: fptr(70)},
	}

	report := AggregateTrend(readings, 200, overallFromDecibels, time.UTC)
	if report.BestDay == nil || report.WorstDay == nil {
		t.Fatal("expected both best and worst day highlights")
	}
	if report.BestDay.Date != "2026-03-14" {
		t.Errorf("expected best day 2026-03-14, got %s", report.BestDay.Date)
	}
	if report.WorstDay.Date != "2026-03-15" {
		t.Errorf("expected worst day 2026-03-15, got %s", report.WorstDay.Date)
	}
	if math.Abs(report.BestDay.Score-90) > 1e-9 {
		t.Errorf("expected best day score 90, got %.2f", report.BestDay.Score)
	}
}

func TestBestDayLabels(t *testing.T) {
	tests := []struct {
		name string
		day  DailyMetrics
		want string
	}{
		{"sound and light strong", DailyMetrics{Sound: fptr(90), Light: fptr(88)}, "on point"},
		{"sound only", DailyMetrics{Sound: fptr(90), Light: fptr(70)}, "great energy"},
		{"light only", DailyMetrics{Sound: fptr(70), Light: fptr(90)}, "perfect ambiance"},
		{"crowd only", DailyMetrics{Crowd: fptr(90)}, "comfortable all day"},
		{"big turnout", DailyMetrics{MaxOccupancy: 150}, "packed house"},
		{"nothing stands out", DailyMetrics{Sound: fptr(70)}, "strong overall"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bestDayLabel(tt.day); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestWorstDayLabels(t *testing.T) {
	tests := []struct {
		name string
		day  DailyMetrics
		want string
	}{
		{"sound weakest", DailyMetrics{Sound: fptr(40), Light: fptr(70), MaxOccupancy: 80}, "sound levels off"},
		{"light weakest", DailyMetrics{Sound: fptr(70), Light: fptr(45), MaxOccupancy: 80}, "lighting needs work"},
		{"crowd weakest", DailyMetrics{Sound: fptr(70), Crowd: fptr(30), MaxOccupancy: 80}, "temperature uncomfortable"},
		{"factors fine but empty room", DailyMetrics{Sound: fptr(70), MaxOccupancy: 10}, "low turnout"},
		{"factors fine and busy", DailyMetrics{Sound: fptr(70), MaxOccupancy: 80}, "room for improvement"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := worstDayLabel(tt.day); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestAggregateTrendSkipsUnscoredDays(t *testing.T) {
	// A day with readings but no scoreable data never becomes worst day
	readings := []reading.SensorReading{
		{Timestamp: time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC), Decibels: fptr(90)},
		{Timestamp: time.Date(2026, 3, 15, 20, 0, 0, 0, time.UTC), Humidity: fptr(55)},
	}

	report := AggregateTrend(readings, 200, overallFromDecibels, time.UTC)
	if report.WorstDay == nil {
		t.Fatal("expected a worst day")
	}
	if report.WorstDay.Date == "2026-03-15" {
		t.Error("a day without valid scores must not be the worst day")
	}
}

func TestAggregateTrendEmptyInput(t *testing.T) {
	report := AggregateTrend(nil, 200, overallFromDecibels, time.UTC)
	if len(report.Days) != 0 || report.BestDay != nil || report.WorstDay != nil {
		t.Errorf("expected empty report, got %+v", report)
	}
}
