package redis

import "fmt"

// Key construction helpers for Pulse platform data

// LatestReadingKey returns the key for the most recent reading per venue (hash)
// Pattern: venue:latest:{venueId}
func LatestReadingKey(venueID string) string {
	return fmt.Sprintf("venue:latest:%s", venueID)
}

// AnalyticsResultKey returns the memo key for a computed analytics result
// Pattern: analytics:{venueId}:{rangeToken}
func AnalyticsResultKey(venueID, rangeToken string) string {
	return fmt.Sprintf("analytics:%s:%s", venueID, rangeToken)
}
