package collector

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pulsedash/pulse-platform/pkg/config"
	"github.com/pulsedash/pulse-platform/pkg/mqtt"
	"github.com/pulsedash/pulse-platform/pkg/postgres"
	"github.com/pulsedash/pulse-platform/pkg/redis"
)

// Agent receives venue sensor data over MQTT and stores it
type Agent struct {
	mqtt      mqtt.Client
	pg        postgres.Client
	redis     redis.Client
	processor *Processor
	storage   *Storage
	cfg       *config.Config
	logger    *slog.Logger
}

// NewAgent creates a new collector agent with the given dependencies
func NewAgent(mqttClient mqtt.Client, pg postgres.Client, redisClient redis.Client, cfg *config.Config, logger *slog.Logger) *Agent {
	return &Agent{
		mqtt:      mqttClient,
		pg:        pg,
		redis:     redisClient,
		processor: NewProcessor(logger),
		storage:   NewStorage(pg, redisClient, cfg, logger),
		cfg:       cfg,
		logger:    logger,
	}
}

// Start starts the collector agent and begins processing sensor messages
func (a *Agent) Start(ctx context.Context) error {
	a.logger.Info("Starting collector agent",
		"service_name", a.cfg.ServiceName,
		"mqtt_broker", a.cfg.MQTTAddress())

	// Connect to MQTT broker
	if err := a.mqtt.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to MQTT: %w", err)
	}

	// Connect to Postgres and make sure the readings table exists
	if err := a.pg.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	if err := a.storage.EnsureSchema(ctx); err != nil {
		return err
	}

	// Verify Redis connection
	if err := a.redis.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}

	// Subscribe to sensor topics
	for _, topic := range a.cfg.SensorTopics {
		if err := a.mqtt.Subscribe(topic, 0, a.handleMessage); err != nil {
			a.logger.Error("Failed to subscribe to topic", "topic", topic, "error", err)
			// Continue subscribing to other topics even if one fails
			continue
		}
	}

	a.logger.Info("Collector agent started and ready to receive messages",
		"subscribed_topics", strings.Join(a.cfg.SensorTopics, ", "))

	// Block until context is cancelled
	<-ctx.Done()
	a.logger.Info("Collector agent stopping")

	return nil
}

// Stop gracefully stops the collector agent
func (a *Agent) Stop() error {
	a.logger.Info("Stopping collector agent")

	a.mqtt.Disconnect()

	if err := a.pg.Disconnect(); err != nil {
		a.logger.Error("Error closing Postgres connection", "error", err)
	}

	if err := a.redis.Close(); err != nil {
		a.logger.Error("Error closing Redis connection", "error", err)
		return err
	}

	a.logger.Info("Collector agent stopped")
	return nil
}

// handleMessage processes incoming MQTT messages
func (a *Agent) handleMessage(msg mqtt.Message) {
	topic := msg.Topic()
	payload := msg.Payload()

	a.logger.Debug("Received MQTT message", "topic", topic, "size", len(payload))

	r, err := a.processor.ParseMessage(topic, payload)
	if err != nil {
		a.logger.Error("Failed to parse message", "topic", topic, "error", err)
		return
	}

	ctx := context.Background()

	if err := a.storage.StoreReading(ctx, r); err != nil {
		a.logger.Error("Failed to store reading",
			"venue_id", r.VenueID,
			"device_id", r.DeviceID,
			"error", err)
		return
	}

	// Latest-reading cache is best effort; readings are already durable
	if err := a.storage.CacheLatest(ctx, r); err != nil {
		a.logger.Warn("Failed to cache latest reading",
			"venue_id", r.VenueID,
			"error", err)
	}

	a.logger.Info("Sensor reading stored",
		"venue_id", r.VenueID,
		"device_id", r.DeviceID)
}
