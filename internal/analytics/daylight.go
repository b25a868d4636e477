package analytics

import (
	"math"
	"time"

	"github.com/sixdouglas/suncalc"
)

// DaylightContext tells whether natural light plausibly drives a light
// reading at the venue's location
type DaylightContext struct {
	SunAltitudeDeg        float64 `json:"sunAltitudeDeg"`
	IsDaytime             bool    `json:"isDaytime"`
	TheoreticalOutdoorLux float64 `json:"theoreticalOutdoorLux"`
}

// DaylightAt computes the sun position for a venue at a point in time.
// Theoretical lux follows the simplified overhead-sun model: ~120k lux at
// 90 degrees altitude scaled by sin(altitude).
func DaylightAt(lat, lon float64, t time.Time) DaylightContext {
	position := suncalc.GetPosition(t, lat, lon)
	altitudeDeg := position.Altitude * (180.0 / math.Pi)

	var theoreticalLux float64
	if altitudeDeg > 0 {
		theoreticalLux = 120000.0 * math.Sin(position.Altitude)
		if theoreticalLux < 0 {
			theoreticalLux = 0
		}
	}

	return DaylightContext{
		SunAltitudeDeg:        altitudeDeg,
		IsDaytime:             altitudeDeg > 0,
		TheoreticalOutdoorLux: theoreticalLux,
	}
}
