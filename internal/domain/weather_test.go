package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

var monitored = Coordinate{Lat: -6.9485, Lon: 107.0203}

func TestNewObservation(t *testing.T) {
	fixed := time.Date(2025, 1, 14, 8, 30, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	t.Cleanup(func() { SetClock(nil) })

	obs := NewObservation(ProviderReading{
		TemperatureC: 24.6,
		HumidityPct:  88,
		WindSpeedMS:  10,
		Condition:    "hujan ringan",
		Rain1hMM:     5,
	}, monitored)

	assert.Equal(t, 25, obs.TemperatureC)
	assert.Equal(t, 88, obs.HumidityPct)
	assert.Equal(t, 36, obs.WindSpeedKmh)
	assert.Equal(t, "hujan ringan", obs.Condition)
	assert.Equal(t, 5.0, obs.Rain1hMM)
	assert.Equal(t, 120, obs.EstimatedRainMM)
	assert.Equal(t, monitored, obs.Location)
	assert.Equal(t, fixed, obs.ObservedAt)
}

func TestNewObservation_NoRain(t *testing.T) {
	obs := NewObservation(ProviderReading{TemperatureC: 26, HumidityPct: 75, WindSpeedMS: 3.3, Condition: "awan tersebar"}, monitored)

	assert.Equal(t, 0, obs.EstimatedRainMM)
	assert.Equal(t, 12, obs.WindSpeedKmh) // 11.88 km/h
}

func TestEstimateDailyRainfall(t *testing.T) {
	tests := []struct {
		rain1h   float64
		expected int
	}{
		{0, 0},
		{5, 120},
		{0.25, 6},
		{0.1, 2},  // 2.4
		{0.52, 12}, // 12.48
		{8.4, 202},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.rain1h), func(t *testing.T) {
			assert.Equal(t, tt.expected, EstimateDailyRainfall(tt.rain1h))
		})
	}
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, 3, roundHalfUp(2.5))
	assert.Equal(t, -2, roundHalfUp(-2.5))
	assert.Equal(t, 2, roundHalfUp(2.49))
	assert.Equal(t, 0, roundHalfUp(0))
}

func TestIngestionError(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("sync: %w", &IngestionError{Op: "request", Err: cause})

	assert.ErrorIs(t, err, ErrIngestion)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
	assert.False(t, IsValidation(err))
}
