// Package dashboard owns the state a rendering surface displays: the current
// risk input, the last weather observation, and the verdict computed from
// them. The engine stays pure; this package is the only place state lives.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/bewara-landslide-service/internal/catalog"
	"github.com/couchcryptid/bewara-landslide-service/internal/domain"
	"github.com/couchcryptid/bewara-landslide-service/internal/observability"
)

// User-facing notices.
const (
	noticeSyncOK     = "Sinkronisasi Berhasil! Cuaca saat ini: %s"
	noticeSyncFailed = "Gagal sinkronisasi. Periksa koneksi atau API Key."
)

// ErrSyncInProgress is returned when a sync is requested while another one
// is still waiting on the provider.
var ErrSyncInProgress = errors.New("weather sync already in progress")

// SyncError is a failed sync. It carries the notice to show the user and
// matches domain.ErrIngestion.
type SyncError struct {
	Notice string
	Err    error
}

func (e *SyncError) Error() string { return fmt.Sprintf("sync: %v", e.Err) }

func (e *SyncError) Unwrap() error { return e.Err }

// Publisher receives every recomputed assessment.
type Publisher interface {
	Publish(ctx context.Context, a domain.Assessment) error
}

// State is one consistent snapshot of the dashboard. Snapshots are never
// modified after they are stored; Observation is shared between snapshots
// and must be treated as read-only.
type State struct {
	Input       domain.RiskInput           `json:"input"`
	Observation *domain.WeatherObservation `json:"observation,omitempty"`
	Verdict     domain.Verdict             `json:"verdict"`
	Notice      string                     `json:"notice,omitempty"`
	Revision    uint64                     `json:"revision"`
	UpdatedAt   time.Time                  `json:"updated_at"`
}

// WeatherDisplay is what the weather panel shows. Live is false until the
// first successful sync, when placeholder values are shown.
type WeatherDisplay struct {
	TemperatureC int    `json:"temperature_c"`
	HumidityPct  int    `json:"humidity_pct"`
	WindSpeedKmh int    `json:"wind_speed_kmh"`
	Condition    string `json:"condition"`
	Live         bool   `json:"live"`
}

var placeholderWeather = WeatherDisplay{
	TemperatureC: 26,
	HumidityPct:  75,
	WindSpeedKmh: 12,
	Condition:    "Cerah Berawan",
}

// Session is the single owner of dashboard state. Reads are lock-free and
// always see a whole snapshot; writers are serialised.
type Session struct {
	provider  domain.WeatherProvider
	at        domain.Coordinate
	catalog   *catalog.Catalog
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics

	mu      sync.Mutex
	state   atomic.Pointer[State]
	syncing atomic.Bool
}

// NewSession creates a session in the Awaiting state. publisher may be nil.
func NewSession(provider domain.WeatherProvider, at domain.Coordinate, cat *catalog.Catalog, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics) *Session {
	s := &Session{
		provider:  provider,
		at:        at,
		catalog:   cat,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
	s.state.Store(&State{
		Verdict:   domain.VerdictFor(domain.Classify(domain.RiskInput{})),
		UpdatedAt: domain.Now(),
	})
	return s
}

// Snapshot returns the current state.
func (s *Session) Snapshot() State { return *s.state.Load() }

// Catalog returns the reference data the session was built with.
func (s *Session) Catalog() *catalog.Catalog { return s.catalog }

// Coordinate returns the monitored coordinate.
func (s *Session) Coordinate() domain.Coordinate { return s.at }

// Syncing reports whether a sync is waiting on the provider.
func (s *Session) Syncing() bool { return s.syncing.Load() }

// DisplayWeather returns the last observation, or placeholder values before
// the first successful sync.
func (s *Session) DisplayWeather() WeatherDisplay {
	obs := s.state.Load().Observation
	if obs == nil {
		return placeholderWeather
	}
	return WeatherDisplay{
		TemperatureC: obs.TemperatureC,
		HumidityPct:  obs.HumidityPct,
		WindSpeedKmh: obs.WindSpeedKmh,
		Condition:    obs.Condition,
		Live:         true,
	}
}

// CheckReadiness reports ready once a catalog with hazard zones is loaded.
func (s *Session) CheckReadiness(_ context.Context) error {
	if s.catalog == nil || s.catalog.Stats().Zones == 0 {
		return errors.New("catalog has no hazard zones")
	}
	return nil
}

// SetInput replaces both rainfall and elevation.
func (s *Session) SetInput(ctx context.Context, in domain.RiskInput) (State, error) {
	return s.apply(ctx, domain.SourceManual, func(st *State) { st.Input = in })
}

// SetRainfall replaces rainfall and keeps the current elevation.
func (s *Session) SetRainfall(ctx context.Context, mm float64) (State, error) {
	return s.apply(ctx, domain.SourceManual, func(st *State) { st.Input.RainfallMM = mm })
}

// SetElevation replaces elevation and keeps the current rainfall.
func (s *Session) SetElevation(ctx context.Context, m float64) (State, error) {
	return s.apply(ctx, domain.SourceManual, func(st *State) { st.Input.ElevationM = m })
}

// Sync fetches current weather for the monitored coordinate. On success the
// estimated daily rainfall becomes the rainfall input, elevation is kept,
// and the verdict is recomputed. On failure the state is left untouched and
// a *SyncError is returned. Only one sync runs at a time; a concurrent call
// gets ErrSyncInProgress without contacting the provider.
func (s *Session) Sync(ctx context.Context) (State, error) {
	if !s.syncing.CompareAndSwap(false, true) {
		s.metrics.SyncTotal.WithLabelValues("busy").Inc()
		return State{}, ErrSyncInProgress
	}
	defer s.syncing.Store(false)

	obs, err := s.provider.FetchObservation(ctx, s.at)
	if err != nil {
		s.metrics.SyncTotal.WithLabelValues("error").Inc()
		s.logger.Warn("weather sync failed", "error", err)
		return State{}, &SyncError{Notice: noticeSyncFailed, Err: err}
	}

	st, err := s.apply(ctx, domain.SourceSync, func(st *State) {
		st.Input.RainfallMM = float64(obs.EstimatedRainMM)
		st.Observation = &obs
		st.Notice = fmt.Sprintf(noticeSyncOK, obs.Condition)
	})
	if err != nil {
		s.metrics.SyncTotal.WithLabelValues("error").Inc()
		return State{}, &SyncError{Notice: noticeSyncFailed, Err: err}
	}

	s.metrics.SyncTotal.WithLabelValues("success").Inc()
	s.logger.Info("weather sync complete",
		"condition", obs.Condition,
		"rainfall_mm", st.Input.RainfallMM,
		"level", st.Verdict.Level.String(),
	)
	return st, nil
}

// apply derives the next state from the current one, recomputes the whole
// verdict, and stores it. Invalid input leaves the state unchanged.
func (s *Session) apply(ctx context.Context, source string, mutate func(*State)) (State, error) {
	s.mu.Lock()
	next := *s.state.Load()
	next.Notice = ""
	mutate(&next)

	verdict, err := domain.Assess(next.Input)
	if err != nil {
		s.mu.Unlock()
		s.metrics.ValidationErrors.Inc()
		return State{}, err
	}
	next.Verdict = verdict
	next.Revision++
	next.UpdatedAt = domain.Now()
	s.state.Store(&next)
	s.mu.Unlock()

	s.metrics.Assessments.WithLabelValues(verdict.Level.String()).Inc()
	a := domain.NewAssessment(next.Input, verdict, next.Observation, source, s.at)
	a.Revision = next.Revision
	s.publish(ctx, a)
	return next, nil
}

// publish is best effort: failures are logged and counted, never returned.
func (s *Session) publish(ctx context.Context, a domain.Assessment) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, a); err != nil {
		s.metrics.AssessmentsPublished.WithLabelValues("error").Inc()
		s.logger.Warn("assessment publish failed", "id", a.ID, "error", err)
		return
	}
	s.metrics.AssessmentsPublished.WithLabelValues("success").Inc()
}
