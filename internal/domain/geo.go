package domain

import (
	"fmt"
	"math"
	"strings"
)

// Coordinate is a WGS-84 position, latitude first.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// FromLonLat converts a GeoJSON [lon, lat] position into a Coordinate.
func FromLonLat(pos []float64) (Coordinate, error) {
	if len(pos) < 2 {
		return Coordinate{}, &ValidationError{Field: "position", Value: pos, Reason: "want [lon, lat]"}
	}
	c := Coordinate{Lat: pos[1], Lon: pos[0]}
	if err := c.Validate(); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

// LonLat returns the GeoJSON [lon, lat] position for c.
func (c Coordinate) LonLat() []float64 {
	return []float64{c.Lon, c.Lat}
}

// Validate checks that the latitude is within -90..90 and the longitude
// within -180..180.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lat) || c.Lat < -90 || c.Lat > 90 {
		return &ValidationError{Field: "latitude", Value: c.Lat, Reason: "must be within -90..90"}
	}
	if math.IsNaN(c.Lon) || c.Lon < -180 || c.Lon > 180 {
		return &ValidationError{Field: "longitude", Value: c.Lon, Reason: "must be within -180..180"}
	}
	return nil
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lon)
}

// ZoneLevel is the qualitative hazard level of a zone. Values are ordered.
type ZoneLevel int

const (
	ZoneLow ZoneLevel = iota + 1
	ZoneMedium
	ZoneHigh
)

var zoneLevelNames = map[ZoneLevel]string{
	ZoneLow:    "Rendah",
	ZoneMedium: "Sedang",
	ZoneHigh:   "Tinggi",
}

// ParseZoneLevel accepts the Indonesian labels used by the district data
// (Rendah, Sedang, Tinggi) and their English equivalents, case-insensitively.
func ParseZoneLevel(s string) (ZoneLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rendah", "low":
		return ZoneLow, nil
	case "sedang", "medium":
		return ZoneMedium, nil
	case "tinggi", "high":
		return ZoneHigh, nil
	}
	return 0, &ValidationError{Field: "zone level", Value: s, Reason: "want Rendah, Sedang or Tinggi"}
}

// Valid reports whether l is one of the fixed levels.
func (l ZoneLevel) Valid() bool {
	_, ok := zoneLevelNames[l]
	return ok
}

func (l ZoneLevel) String() string {
	if name, ok := zoneLevelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("ZoneLevel(%d)", int(l))
}

func (l ZoneLevel) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, &ValidationError{Field: "zone level", Value: int(l), Reason: "unknown level"}
	}
	return []byte(l.String()), nil
}

func (l *ZoneLevel) UnmarshalText(b []byte) error {
	v, err := ParseZoneLevel(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// HazardZone is a polygon area with a qualitative landslide level.
type HazardZone struct {
	ID      int          `json:"id"`
	Name    string       `json:"name"`
	Level   ZoneLevel    `json:"level"`
	Polygon []Coordinate `json:"polygon"`
	Color   string       `json:"color"`
}

// Validate checks the zone level and that the polygon has at least three
// distinct, valid vertices. A closing vertex equal to the first is allowed.
func (z HazardZone) Validate() error {
	if !z.Level.Valid() {
		return &ValidationError{Field: "zone level", Value: int(z.Level), Reason: "unknown level"}
	}
	return ValidateRing(z.Polygon)
}

// ValidateRing checks that ring has valid coordinates and at least three
// distinct vertices.
func ValidateRing(ring []Coordinate) error {
	distinct := make(map[Coordinate]struct{}, len(ring))
	for _, c := range ring {
		if err := c.Validate(); err != nil {
			return err
		}
		distinct[c] = struct{}{}
	}
	if len(distinct) < 3 {
		return &ValidationError{Field: "polygon", Value: len(distinct), Reason: "needs at least 3 distinct vertices"}
	}
	return nil
}

// PointHazard is a single researched location with documented landslide
// history. Risk is a free-form severity label ("Sangat Tinggi", "Tinggi")
// and is not derived from the rule engine.
type PointHazard struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Location    Coordinate `json:"location"`
	Risk        string     `json:"risk"`
	Description string     `json:"description"`
}

// BoundaryRegion is a named administrative or analysis boundary. The core
// does not interpret it beyond "named polygon region".
type BoundaryRegion struct {
	Name     string         `json:"name"`
	Polygons [][]Coordinate `json:"polygons"`
}
