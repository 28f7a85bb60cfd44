package domain

import (
	"fmt"
	"math"
)

// Rule thresholds. Rainfall in mm/day, elevation in metres above sea level.
const (
	HighRainfallMM   = 200
	HighElevationM   = 500
	MediumRainfallMM = 100
	MediumElevationM = 300
)

// RiskInput is the pair the engine classifies. (0, 0) means "no data yet".
type RiskInput struct {
	RainfallMM float64 `json:"rainfall_mm"`
	ElevationM float64 `json:"elevation_m"`
}

// Validate rejects negative and non-finite values.
func (in RiskInput) Validate() error {
	if err := checkMeasure("rainfall_mm", in.RainfallMM); err != nil {
		return err
	}
	return checkMeasure("elevation_m", in.ElevationM)
}

func checkMeasure(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ValidationError{Field: field, Value: v, Reason: "must be a finite number"}
	}
	if v < 0 {
		return &ValidationError{Field: field, Value: v, Reason: "must not be negative"}
	}
	return nil
}

// RiskLevel is the classification result. Values are ordered.
type RiskLevel int

const (
	RiskAwaiting RiskLevel = iota
	RiskLow
	RiskMedium
	RiskHigh
)

var riskLevelNames = [...]string{
	RiskAwaiting: "awaiting",
	RiskLow:      "low",
	RiskMedium:   "medium",
	RiskHigh:     "high",
}

func (l RiskLevel) String() string {
	if l >= 0 && int(l) < len(riskLevelNames) {
		return riskLevelNames[l]
	}
	return fmt.Sprintf("RiskLevel(%d)", int(l))
}

func (l RiskLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *RiskLevel) UnmarshalText(b []byte) error {
	for i, name := range riskLevelNames {
		if name == string(b) {
			*l = RiskLevel(i)
			return nil
		}
	}
	return &ValidationError{Field: "risk level", Value: string(b), Reason: "unknown level"}
}

// rule is one row of the classification table.
type rule struct {
	level RiskLevel
	match func(RiskInput) bool
}

// rules is evaluated top to bottom; the first match wins. The final row
// matches everything so the table is total.
var rules = []rule{
	{RiskAwaiting, func(in RiskInput) bool { return in.RainfallMM == 0 && in.ElevationM == 0 }},
	{RiskHigh, func(in RiskInput) bool { return in.RainfallMM > HighRainfallMM && in.ElevationM > HighElevationM }},
	{RiskMedium, func(in RiskInput) bool { return in.RainfallMM > MediumRainfallMM || in.ElevationM > MediumElevationM }},
	{RiskLow, func(RiskInput) bool { return true }},
}

// Classify maps an input to a risk level. It is pure and deterministic.
// Callers are expected to have validated the input; see Assess.
func Classify(in RiskInput) RiskLevel {
	for _, r := range rules {
		if r.match(in) {
			return r.level
		}
	}
	return RiskLow
}
