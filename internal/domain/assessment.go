package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Assessment sources.
const (
	SourceSync   = "sync"
	SourceManual = "manual"
)

// Assessment records one recomputation of the verdict, together with the
// input and the observation (if any) it was computed from. It is the
// payload published to downstream consumers. Revision is the session state
// revision it produced; deliveries may arrive out of order, so consumers
// order by it.
type Assessment struct {
	ID          string              `json:"id"`
	Input       RiskInput           `json:"input"`
	Verdict     Verdict             `json:"verdict"`
	Observation *WeatherObservation `json:"observation,omitempty"`
	Source      string              `json:"source"`
	Location    Coordinate          `json:"location"`
	AssessedAt  time.Time           `json:"assessed_at"`
	Revision    uint64              `json:"revision"`
}

// NewAssessment stamps an assessment with the clock time and a
// deterministic ID.
func NewAssessment(in RiskInput, v Verdict, obs *WeatherObservation, source string, at Coordinate) Assessment {
	now := clock.Now().UTC()
	return Assessment{
		ID:          generateID(v.Level, in, source, now),
		Input:       in,
		Verdict:     v,
		Observation: obs,
		Source:      source,
		Location:    at,
		AssessedAt:  now,
	}
}

// generateID hashes the assessment's key fields. The same input at the same
// instant always yields the same ID, so replays downstream are idempotent.
func generateID(level RiskLevel, in RiskInput, source string, at time.Time) string {
	input := fmt.Sprintf("%s|%g|%g|%s|%s", level, in.RainfallMM, in.ElevationM, source, at.Format(time.RFC3339Nano))
	hash := sha256.Sum256([]byte(input))
	return level.String() + "-" + hex.EncodeToString(hash[:8])
}
