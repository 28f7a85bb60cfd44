package domain

import (
	"context"
	"math"
	"time"
)

// msToKmh converts metres per second to kilometres per hour.
const msToKmh = 3.6

// hoursPerDay scales the last-hour rainfall into a daily estimate.
const hoursPerDay = 24

// ProviderReading is a decoded provider response before normalization.
// Rain1hMM is zero when the provider omitted the rain block.
type ProviderReading struct {
	TemperatureC float64
	HumidityPct  int
	WindSpeedMS  float64
	Condition    string
	Rain1hMM     float64
}

// WeatherObservation is a normalized snapshot of current conditions at the
// monitored coordinate. A new observation replaces the previous one whole.
type WeatherObservation struct {
	TemperatureC    int        `json:"temperature_c"`
	HumidityPct     int        `json:"humidity_pct"`
	WindSpeedKmh    int        `json:"wind_speed_kmh"`
	Condition       string     `json:"condition"`
	Rain1hMM        float64    `json:"rain_1h_mm"`
	EstimatedRainMM int        `json:"estimated_daily_rain_mm"`
	Location        Coordinate `json:"location"`
	ObservedAt      time.Time  `json:"observed_at"`
}

// WeatherProvider fetches current conditions for a coordinate.
type WeatherProvider interface {
	// FetchObservation performs one request and returns a normalized
	// observation. All failures match ErrIngestion.
	FetchObservation(ctx context.Context, at Coordinate) (WeatherObservation, error)
}

// NewObservation normalizes a provider reading: temperature and wind speed
// are rounded, wind is converted to km/h, and daily rainfall is estimated
// from the last hour.
func NewObservation(r ProviderReading, at Coordinate) WeatherObservation {
	return WeatherObservation{
		TemperatureC:    roundHalfUp(r.TemperatureC),
		HumidityPct:     r.HumidityPct,
		WindSpeedKmh:    roundHalfUp(r.WindSpeedMS * msToKmh),
		Condition:       r.Condition,
		Rain1hMM:        r.Rain1hMM,
		EstimatedRainMM: EstimateDailyRainfall(r.Rain1hMM),
		Location:        at,
		ObservedAt:      clock.Now(),
	}
}

// EstimateDailyRainfall extrapolates one hour of rainfall to 24 hours.
func EstimateDailyRainfall(rain1hMM float64) int {
	return roundHalfUp(rain1hMM * hoursPerDay)
}

// roundHalfUp rounds to the nearest integer with halves going towards
// positive infinity.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
