package collector

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pulsedash/pulse-platform/internal/reading"
	"github.com/pulsedash/pulse-platform/pkg/config"
	"github.com/pulsedash/pulse-platform/pkg/postgres"
	"github.com/pulsedash/pulse-platform/pkg/redis"
)

// Storage persists readings to Postgres and keeps the latest reading per
// venue in a Redis hash for live dashboards
type Storage struct {
	pg     postgres.Client
	redis  redis.Client
	cfg    *config.Config
	logger *slog.Logger
}

// NewStorage creates a new Storage instance
func NewStorage(pg postgres.Client, redisClient redis.Client, cfg *config.Config, logger *slog.Logger) *Storage {
	return &Storage{
		pg:     pg,
		redis:  redisClient,
		cfg:    cfg,
		logger: logger,
	}
}

const createReadingsTable = `
CREATE TABLE IF NOT EXISTS sensor_readings (
	id                BIGSERIAL PRIMARY KEY,
	venue_id          TEXT NOT NULL,
	device_id         TEXT,
	ts                TIMESTAMPTZ NOT NULL,
	decibels          DOUBLE PRECISION,
	light             DOUBLE PRECISION,
	indoor_temp       DOUBLE PRECISION,
	outdoor_temp      DOUBLE PRECISION,
	humidity          DOUBLE PRECISION,
	pressure          DOUBLE PRECISION,
	occupancy_current INTEGER,
	entries           INTEGER,
	exits             INTEGER,
	capacity          INTEGER
);
CREATE INDEX IF NOT EXISTS idx_sensor_readings_venue_ts ON sensor_readings (venue_id, ts);`

const insertReadingQuery = `
INSERT INTO sensor_readings
	(venue_id, device_id, ts, decibels, light, indoor_temp, outdoor_temp,
	 humidity, pressure, occupancy_current, entries, exits, capacity)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

// EnsureSchema creates the readings table if it does not exist
func (s *Storage) EnsureSchema(ctx context.Context) error {
	if _, err := s.pg.Exec(ctx, createReadingsTable); err != nil {
		return fmt.Errorf("failed to ensure sensor_readings schema: %w", err)
	}
	return nil
}

// StoreReading inserts one reading into Postgres
func (s *Storage) StoreReading(ctx context.Context, r *reading.SensorReading) error {
	var occupancyCurrent, entries, exits, capacity *int
	if r.Occupancy != nil {
		occupancyCurrent = r.Occupancy.Current
		entries = r.Occupancy.Entries
		exits = r.Occupancy.Exits
		capacity = r.Occupancy.Capacity
	}

	_, err := s.pg.Exec(ctx, insertReadingQuery,
		r.VenueID, r.DeviceID, r.Timestamp,
		r.Decibels, r.Light, r.IndoorTemp, r.OutdoorTemp,
		r.Humidity, r.Pressure,
		occupancyCurrent, entries, exits, capacity)
	if err != nil {
		return fmt.Errorf("failed to insert reading for %s: %w", r.VenueID, err)
	}

	return nil
}

// CacheLatest updates the per-venue latest-reading hash in Redis.
// Failures here are reported but never block the durable write path.
func (s *Storage) CacheLatest(ctx context.Context, r *reading.SensorReading) error {
	key := redis.LatestReadingKey(r.VenueID)

	fields := map[string]interface{}{
		"timestamp": r.Timestamp.UTC().Format(time.RFC3339Nano),
		"device_id": r.DeviceID,
	}
	addFloatField(fields, "decibels", r.Decibels)
	addFloatField(fields, "light", r.Light)
	addFloatField(fields, "indoor_temp", r.IndoorTemp)
	addFloatField(fields, "outdoor_temp", r.OutdoorTemp)
	addFloatField(fields, "humidity", r.Humidity)
	addFloatField(fields, "pressure", r.Pressure)
	if r.Occupancy != nil {
		addIntField(fields, "occupancy_current", r.Occupancy.Current)
		addIntField(fields, "entries", r.Occupancy.Entries)
		addIntField(fields, "exits", r.Occupancy.Exits)
		addIntField(fields, "capacity", r.Occupancy.Capacity)
	}

	for field, value := range fields {
		if err := s.redis.HSet(ctx, key, field, value); err != nil {
			return fmt.Errorf("failed to cache latest reading for %s: %w", r.VenueID, err)
		}
	}

	if err := s.redis.Expire(ctx, key, s.cfg.LatestReadingTTL); err != nil {
		return fmt.Errorf("failed to set TTL on latest reading for %s: %w", r.VenueID, err)
	}

	return nil
}

func addFloatField(fields map[string]interface{}, name string, v *float64) {
	if v != nil {
		fields[name] = *v
	}
}

func addIntField(fields map[string]interface{}, name string, v *int) {
	if v != nil {
		fields[name] = *v
	}
}
