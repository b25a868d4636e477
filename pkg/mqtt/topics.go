package mqtt

import (
	"fmt"
	"strings"
)

// Topic constants for venue sensor traffic
const (
	// Current publisher topic scheme: pulse/sensors/{venueId}
	TopicVenueSensors = "pulse/sensors/+"

	// Legacy publisher topic scheme: venue/{venueId}/sensors
	TopicVenueSensorsLegacy = "venue/+/sensors"
)

// VenueSensorTopic constructs the sensor topic for a specific venue
// Pattern: pulse/sensors/{venueId}
func VenueSensorTopic(venueID string) string {
	return fmt.Sprintf("pulse/sensors/%s", venueID)
}

// VenueFromTopic extracts the venue ID from a sensor topic.
// Understands both pulse/sensors/{venueId} and venue/{venueId}/sensors.
func VenueFromTopic(topic string) (string, error) {
	parts := strings.Split(topic, "/")

	if len(parts) == 3 && parts[0] == "pulse" && parts[1] == "sensors" && parts[2] != "" {
		return parts[2], nil
	}
	if len(parts) == 3 && parts[0] == "venue" && parts[2] == "sensors" && parts[1] != "" {
		return parts[1], nil
	}

	return "", fmt.Errorf("not a venue sensor topic: %s", topic)
}
