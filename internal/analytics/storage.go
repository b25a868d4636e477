package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/pulsedash/pulse-platform/internal/reading"
	"github.com/pulsedash/pulse-platform/pkg/postgres"
)

// HistoryStore reads stored sensor readings from Postgres. It implements
// Provider for the orchestrator.
type HistoryStore struct {
	pg     postgres.Client
	logger *slog.Logger
}

// NewHistoryStore creates a new HistoryStore
func NewHistoryStore(pg postgres.Client, logger *slog.Logger) *HistoryStore {
	return &HistoryStore{
		pg:     pg,
		logger: logger,
	}
}

const fetchReadingsQuery = `
SELECT ts, device_id,
       decibels, light, indoor_temp, outdoor_temp, humidity, pressure,
       occupancy_current, entries, exits, capacity
FROM sensor_readings
WHERE venue_id = $1 AND ts >= $2 AND ts < $3
ORDER BY ts ASC`

// Fetch returns all readings for a venue within [start, end)
func (s *HistoryStore) Fetch(ctx context.Context, venueID string, start, end time.Time) ([]reading.SensorReading, error) {
	rows, err := s.pg.Query(ctx, fetchReadingsQuery, venueID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query readings for %s: %w", venueID, err)
	}
	defer rows.Close()

	var readings []reading.SensorReading
	for rows.Next() {
		var (
			ts                                                 time.Time
			deviceID                                           sql.NullString
			decibels, light, indoorTemp, outdoorTemp           sql.NullFloat64
			humidity, pressure                                 sql.NullFloat64
			occupancyCurrent, entries, exits, capacity         sql.NullInt64
		)

		if err := rows.Scan(&ts, &deviceID,
			&decibels, &light, &indoorTemp, &outdoorTemp, &humidity, &pressure,
			&occupancyCurrent, &entries, &exits, &capacity); err != nil {
			return nil, fmt.Errorf("failed to scan reading row: %w", err)
		}

		r := reading.SensorReading{
			Timestamp:   ts.UTC(),
			VenueID:     venueID,
			DeviceID:    deviceID.String,
			Decibels:    nullFloat(decibels),
			Light:       nullFloat(light),
			IndoorTemp:  nullFloat(indoorTemp),
			OutdoorTemp: nullFloat(outdoorTemp),
			Humidity:    nullFloat(humidity),
			Pressure:    nullFloat(pressure),
		}

		if occupancyCurrent.Valid || entries.Valid || exits.Valid || capacity.Valid {
			r.Occupancy = &reading.Occupancy{
				Current:  nullInt(occupancyCurrent),
				Entries:  nullInt(entries),
				Exits:    nullInt(exits),
				Capacity: nullInt(capacity),
			}
		}

		readings = append(readings, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reading rows: %w", err)
	}

	s.logger.Debug("Fetched readings",
		"venue_id", venueID,
		"start", start,
		"end", end,
		"count", len(readings))

	return readings, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
