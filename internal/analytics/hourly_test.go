package analytics

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/pulsedash/pulse-platform/internal/reading"
)

func occupancyReading(ts time.Time, current int) reading.SensorReading {
	return reading.SensorReading{
		Timestamp: ts,
		Occupancy: &reading.Occupancy{Current: iptr(current)},
	}
}

func TestComputeHourlyBreakdownBucketsByLocalHour(t *testing.T) {
	helsinki, err := time.LoadLocation("Europe/Helsinki")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}

	// 20:00 UTC is 23:00 in Helsinki (summer time)
	readings := []reading.SensorReading{
		occupancyReading(time.Date(2026, 6, 12, 20, 15, 0, 0, time.UTC), 80),
		occupancyReading(time.Date(2026, 6, 12, 20, 45, 0, 0, time.UTC), 120),
	}

	stats := ComputeHourlyBreakdown(readings, 200, overallFromDecibels, helsinki)
	if len(stats) != 1 {
		t.Fatalf("expected 1 hourly bucket, got %d", len(stats))
	}
	if stats[0].Hour != 23 {
		t.Errorf("expected local hour 23, got %d", stats[0].Hour)
	}
	if math.Abs(stats[0].AvgOccupancy-100) > 1e-9 {
		t.Errorf("expected avg occupancy 100, got %.2f", stats[0].AvgOccupancy)
	}
	if stats[0].Samples != 2 {
		t.Errorf("expected 2 samples, got %d", stats[0].Samples)
	}
}

func TestComputeHourlyBreakdownAverages(t *testing.T) {
	readings := []reading.SensorReading{
		{Timestamp: baseTime, Decibels: fptr(70), Light: fptr(100)},
		{Timestamp: baseTime.Add(20 * time.Minute), Decibels: fptr(80)},
	}

	stats := ComputeHourlyBreakdown(readings, 200, overallFromDecibels, time.UTC)
	if len(stats) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(stats))
	}
	if stats[0].AvgSound == nil || math.Abs(*stats[0].AvgSound-75) > 1e-9 {
		t.Errorf("expected avg sound 75, got %v", stats[0].AvgSound)
	}
	if stats[0].AvgLight == nil || math.Abs(*stats[0].AvgLight-100) > 1e-9 {
		t.Errorf("expected avg light 100, got %v", stats[0].AvgLight)
	}
}

func TestPeakHoursTopThreeBusiest(t *testing.T) {
	stats := []HourlyStat{
		{Hour: 18, AvgOccupancy: 40},
		{Hour: 20, AvgOccupancy: 90},
		{Hour: 21, AvgOccupancy: 120},
		{Hour: 22, AvgOccupancy: 110},
		{Hour: 23, AvgOccupancy: 60},
	}

	got := PeakHours(stats)
	want := []string{"21:00", "22:00", "20:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestPeakHoursIgnoresEmptyHours(t *testing.T) {
	stats := []HourlyStat{
		{Hour: 9, AvgOccupancy: 0},
		{Hour: 20, AvgOccupancy: 50},
	}

	got := PeakHours(stats)
	want := []string{"20:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
