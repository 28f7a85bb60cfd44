// Package openweather implements domain.WeatherProvider against the
// OpenWeatherMap current weather endpoint.
package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/bewara-landslide-service/internal/domain"
	"github.com/couchcryptid/bewara-landslide-service/internal/observability"
)

// maxBodyBytes caps how much of a provider response is read.
const maxBodyBytes = 1 << 20

// Client implements domain.WeatherProvider using the OpenWeatherMap API.
// Each call performs exactly one request; there is no retry and no cache.
type Client struct {
	apiKey     string
	lang       string
	baseURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an OpenWeatherMap client.
func NewClient(apiKey, baseURL, lang string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		lang:    lang,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// FetchObservation retrieves current conditions at the coordinate. Every
// failure is returned as a *domain.IngestionError.
func (c *Client) FetchObservation(ctx context.Context, at domain.Coordinate) (domain.WeatherObservation, error) {
	params := url.Values{
		"lat":   {strconv.FormatFloat(at.Lat, 'f', -1, 64)},
		"lon":   {strconv.FormatFloat(at.Lon, 'f', -1, 64)},
		"appid": {c.apiKey},
		"units": {"metric"},
		"lang":  {c.lang},
	}

	start := time.Now()
	reading, err := c.doRequest(ctx, c.baseURL+"?"+params.Encode())
	c.metrics.SyncDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.logger.Warn("weather fetch failed", "location", at.String(), "error", err)
		return domain.WeatherObservation{}, err
	}

	obs := domain.NewObservation(reading, at)
	c.logger.Debug("weather fetched",
		"location", at.String(),
		"condition", obs.Condition,
		"rain_1h_mm", obs.Rain1hMM,
		"estimated_daily_rain_mm", obs.EstimatedRainMM,
	)
	return obs, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.ProviderReading, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.ProviderReading{}, &domain.IngestionError{Op: "create request", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The URL carries the API key; report the cause without it.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return domain.ProviderReading{}, &domain.IngestionError{Op: "request", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.ProviderReading{}, &domain.IngestionError{Op: "read response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return domain.ProviderReading{}, &domain.IngestionError{
			Op:  "request",
			Err: fmt.Errorf("openweathermap API error: status %d: %s", resp.StatusCode, body),
		}
	}

	var owmResp response
	if err := json.Unmarshal(body, &owmResp); err != nil {
		return domain.ProviderReading{}, &domain.IngestionError{Op: "decode response", Err: err}
	}
	return owmResp.reading()
}

// Plausibility bounds for provider readings. Values outside them are treated
// as a malformed payload; the recorded extremes sit well inside.
const (
	minTempC    = -100
	maxTempC    = 70
	maxWindMS   = 150
	maxRain1hMM = 500
)

// OpenWeatherMap API response types. Required fields are pointers so a
// missing value can be told apart from zero.

type response struct {
	Weather []condition `json:"weather"`
	Main    *mainBlock  `json:"main"`
	Wind    *windBlock  `json:"wind"`
	Rain    *rainBlock  `json:"rain"`
}

type condition struct {
	Description *string `json:"description"`
}

type mainBlock struct {
	Temp     *float64 `json:"temp"`
	Humidity *float64 `json:"humidity"`
}

type windBlock struct {
	Speed *float64 `json:"speed"`
}

type rainBlock struct {
	OneHour float64 `json:"1h"`
}

func (r response) reading() (domain.ProviderReading, error) {
	switch {
	case r.Main == nil || r.Main.Temp == nil:
		return domain.ProviderReading{}, missing("main.temp")
	case r.Main.Humidity == nil:
		return domain.ProviderReading{}, missing("main.humidity")
	case r.Wind == nil || r.Wind.Speed == nil:
		return domain.ProviderReading{}, missing("wind.speed")
	case len(r.Weather) == 0:
		return domain.ProviderReading{}, missing("weather")
	case r.Weather[0].Description == nil || strings.TrimSpace(*r.Weather[0].Description) == "":
		return domain.ProviderReading{}, missing("weather[0].description")
	}

	humidity := *r.Main.Humidity
	if humidity != math.Trunc(humidity) {
		return domain.ProviderReading{}, &domain.IngestionError{
			Op:  "decode response",
			Err: fmt.Errorf("humidity %v is not a whole percentage", humidity),
		}
	}

	reading := domain.ProviderReading{
		TemperatureC: *r.Main.Temp,
		WindSpeedMS:  *r.Wind.Speed,
		Condition:    *r.Weather[0].Description,
	}
	if r.Rain != nil {
		reading.Rain1hMM = r.Rain.OneHour
	}

	checks := []struct {
		field  string
		v      float64
		lo, hi float64
	}{
		{"main.temp", reading.TemperatureC, minTempC, maxTempC},
		{"main.humidity", humidity, 0, 100},
		{"wind.speed", reading.WindSpeedMS, 0, maxWindMS},
		{"rain.1h", reading.Rain1hMM, 0, maxRain1hMM},
	}
	for _, c := range checks {
		if c.v < c.lo || c.v > c.hi {
			return domain.ProviderReading{}, &domain.IngestionError{
				Op:  "decode response",
				Err: fmt.Errorf("%s %v outside plausible range [%v, %v]", c.field, c.v, c.lo, c.hi),
			}
		}
	}
	reading.HumidityPct = int(humidity)
	return reading, nil
}

func missing(field string) error {
	return &domain.IngestionError{Op: "decode response", Err: fmt.Errorf("missing %s", field)}
}
