package collector

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/pulsedash/pulse-platform/internal/reading"
	"github.com/pulsedash/pulse-platform/pkg/mqtt"
)

// Processor handles parsing of venue sensor messages
type Processor struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewProcessor creates a new message processor
func NewProcessor(logger *slog.Logger) *Processor {
	return &Processor{
		logger: logger,
		now:    time.Now,
	}
}

// ParseMessage parses an MQTT sensor message into a SensorReading.
// The venue ID comes from the payload when present, otherwise from the
// topic; a message carrying neither is rejected.
func (p *Processor) ParseMessage(topic string, payload []byte) (*reading.SensorReading, error) {
	topicVenue, topicErr := mqtt.VenueFromTopic(topic)

	r, err := reading.DecodePayload(payload, p.now())
	if err != nil {
		p.logger.Error("Failed to parse sensor payload", "topic", topic, "error", err)
		return nil, err
	}

	if r.VenueID == "" {
		if topicErr != nil {
			p.logger.Warn("Sensor message without venue ID", "topic", topic)
			return nil, fmt.Errorf("message on %s carries no venue ID", topic)
		}
		r.VenueID = topicVenue
	}

	if topicErr == nil && r.VenueID != topicVenue {
		// Misconfigured publisher: trust the topic, it is ACL-scoped upstream
		p.logger.Warn("Payload venue ID does not match topic",
			"topic", topic,
			"payload_venue", r.VenueID,
			"topic_venue", topicVenue)
		r.VenueID = topicVenue
	}

	p.logger.Debug("Parsed sensor message",
		"venue_id", r.VenueID,
		"device_id", r.DeviceID,
		"topic", topic)

	return r, nil
}
