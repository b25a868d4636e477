package mqtt

import "testing"

func TestVenueFromTopic(t *testing.T) {
	tests := []struct {
		topic   string
		venue   string
		wantErr bool
	}{
		{"pulse/sensors/venue-1", "venue-1", false},
		{"venue/venue-2/sensors", "venue-2", false},
		{"pulse/sensors/", "", true},
		{"venue//sensors", "", true},
		{"pulse/sensors/venue-1/extra", "", true},
		{"some/other/topic", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := VenueFromTopic(tt.topic)
		if tt.wantErr {
			if err == nil {
				t.Errorf("VenueFromTopic(%q): expected error, got %q", tt.topic, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("VenueFromTopic(%q): unexpected error: %v", tt.topic, err)
			continue
		}
		if got != tt.venue {
			t.Errorf("VenueFromTopic(%q): expected %q, got %q", tt.topic, tt.venue, got)
		}
	}
}

func TestVenueSensorTopicRoundTrip(t *testing.T) {
	topic := VenueSensorTopic("venue-1")
	got, err := VenueFromTopic(topic)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "venue-1" {
		t.Errorf("expected venue-1, got %q", got)
	}
}
