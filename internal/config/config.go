package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Default monitored coordinate: central Cireunghas.
const (
	defaultMonitorLat = -6.9485
	defaultMonitorLon = 107.0203
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// OpenWeatherMap ingestion.
	OWMAPIKey  string
	OWMBaseURL string
	OWMLang    string
	OWMTimeout time.Duration

	MonitorLat float64
	MonitorLon float64

	// CatalogPath optionally replaces the compiled-in catalog with a GeoJSON file.
	CatalogPath string

	// Assessment publishing.
	KafkaEnabled         bool
	KafkaBrokers         []string
	KafkaAssessmentTopic string
}

// MaxOWMTimeout caps OWM_TIMEOUT so a failed sync finishes well inside the
// HTTP write deadline of the sync endpoint.
const MaxOWMTimeout = 20 * time.Second

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	owmTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("OWM_TIMEOUT", "5s"))
	if err != nil || owmTimeout <= 0 {
		return nil, errors.New("invalid OWM_TIMEOUT")
	}
	if owmTimeout > MaxOWMTimeout {
		return nil, fmt.Errorf("invalid OWM_TIMEOUT: %s exceeds %s", owmTimeout, MaxOWMTimeout)
	}

	lat, err := parseFloat("MONITOR_LAT", defaultMonitorLat, -90, 90)
	if err != nil {
		return nil, err
	}
	lon, err := parseFloat("MONITOR_LON", defaultMonitorLon, -180, 180)
	if err != nil {
		return nil, err
	}

	kafkaEnabled, err := strconv.ParseBool(sharedcfg.EnvOrDefault("KAFKA_ENABLED", "false"))
	if err != nil {
		return nil, errors.New("invalid KAFKA_ENABLED")
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		OWMAPIKey:  os.Getenv("OWM_API_KEY"),
		OWMBaseURL: sharedcfg.EnvOrDefault("OWM_BASE_URL", "https://api.openweathermap.org/data/2.5/weather"),
		OWMLang:    sharedcfg.EnvOrDefault("OWM_LANG", "id"),
		OWMTimeout: owmTimeout,

		MonitorLat: lat,
		MonitorLon: lon,

		CatalogPath: os.Getenv("CATALOG_PATH"),

		KafkaEnabled:         kafkaEnabled,
		KafkaBrokers:         sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaAssessmentTopic: sharedcfg.EnvOrDefault("KAFKA_ASSESSMENT_TOPIC", "landslide-assessments"),
	}

	if cfg.OWMAPIKey == "" {
		return nil, errors.New("OWM_API_KEY is required")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
		}
		if cfg.KafkaAssessmentTopic == "" {
			return nil, errors.New("KAFKA_ASSESSMENT_TOPIC is required when KAFKA_ENABLED is true")
		}
	}

	return cfg, nil
}

func parseFloat(key string, def, lo, hi float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < lo || v > hi {
		return 0, fmt.Errorf("invalid %s: must be a number within %g..%g", key, lo, hi)
	}
	return v, nil
}
