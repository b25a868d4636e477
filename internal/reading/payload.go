package reading

import (
	"encoding/json"
	"fmt"
	"time"
)

// wirePayload is the JSON shape published by the Raspberry Pi sensor
// publishers. Fields beyond the ones below (spotify block, extra sensor
// values) are accepted and ignored.
type wirePayload struct {
	DeviceID  string `json:"deviceId"`
	VenueID   string `json:"venueId"`
	Timestamp string `json:"timestamp"`
	Sensors   struct {
		SoundLevel         *float64 `json:"sound_level"`
		LightLevel         *float64 `json:"light_level"`
		IndoorTemperature  *float64 `json:"indoor_temperature"`
		OutdoorTemperature *float64 `json:"outdoor_temperature"`
		Humidity           *float64 `json:"humidity"`
		Pressure           *float64 `json:"pressure"`
	} `json:"sensors"`
	Occupancy *struct {
		Current  *int `json:"current"`
		Entries  *int `json:"entries"`
		Exits    *int `json:"exits"`
		Capacity *int `json:"capacity"`
	} `json:"occupancy"`
}

// DecodePayload parses a publisher message into a SensorReading.
// receivedAt is used when the payload carries no parseable timestamp.
func DecodePayload(data []byte, receivedAt time.Time) (*SensorReading, error) {
	var p wirePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse sensor payload: %w", err)
	}

	ts := receivedAt.UTC()
	if p.Timestamp != "" {
		if parsed, err := time.Parse(time.RFC3339, p.Timestamp); err == nil {
			ts = parsed.UTC()
		}
	}

	r := &SensorReading{
		Timestamp:   ts,
		VenueID:     p.VenueID,
		DeviceID:    p.DeviceID,
		Decibels:    p.Sensors.SoundLevel,
		Light:       p.Sensors.LightLevel,
		IndoorTemp:  p.Sensors.IndoorTemperature,
		OutdoorTemp: p.Sensors.OutdoorTemperature,
		Humidity:    p.Sensors.Humidity,
		Pressure:    p.Sensors.Pressure,
	}

	if p.Occupancy != nil {
		r.Occupancy = &Occupancy{
			Current:  p.Occupancy.Current,
			Entries:  p.Occupancy.Entries,
			Exits:    p.Occupancy.Exits,
			Capacity: p.Occupancy.Capacity,
		}
	}

	return r, nil
}
