// Package catalog holds the static geospatial reference data: hazard zones,
// point hazards, and boundary regions. A Catalog is built once at startup and
// is read-only afterwards, so it is safe for concurrent use without locking.
package catalog

import (
	"fmt"
	"strings"

	"github.com/golang/geo/s2"
	"github.com/mmcloughlin/geohash"

	"github.com/couchcryptid/bewara-landslide-service/internal/domain"
)

// pointIDPrecision is the geohash length used for point hazard IDs (~3.7cm cells).
const pointIDPrecision = 12

// Presentation hints for point hazards.
const (
	colorSchool = "#facc15"
	colorPoint  = "#ef4444"
)

// MapView is the initial map framing for the rendering surface.
type MapView struct {
	Center domain.Coordinate `json:"center"`
	Zoom   int               `json:"zoom"`
}

// PredictionArea is a cosmetic overlay drawn around the monitored coordinate.
// It carries no model output; the engine never reads it.
type PredictionArea struct {
	Center       domain.Coordinate `json:"center"`
	RadiusMeters float64           `json:"radius_m"`
	Title        string            `json:"title"`
	Note         string            `json:"note"`
}

// Stats counts catalog entries by kind.
type Stats struct {
	Zones      int `json:"zones"`
	Points     int `json:"points"`
	Boundaries int `json:"boundaries"`
}

// Catalog is an immutable, ordered set of hazard reference data.
type Catalog struct {
	zones      []domain.HazardZone
	points     []domain.PointHazard
	boundaries []domain.BoundaryRegion
	view       MapView
	prediction PredictionArea

	zoneLoops     []*s2.Loop
	boundaryLoops [][]*s2.Loop
}

// New validates the entries and builds a Catalog. Order is preserved.
// Point hazards without an ID are assigned a geohash of their location.
func New(zones []domain.HazardZone, points []domain.PointHazard, boundaries []domain.BoundaryRegion, view MapView, prediction PredictionArea) (*Catalog, error) {
	c := &Catalog{
		zones:      cloneZones(zones),
		points:     make([]domain.PointHazard, len(points)),
		boundaries: cloneBoundaries(boundaries),
		view:       view,
		prediction: prediction,
	}

	seen := make(map[int]bool, len(zones))
	for i, z := range c.zones {
		if err := z.Validate(); err != nil {
			return nil, fmt.Errorf("zone %d (%s): %w", i, z.Name, err)
		}
		if seen[z.ID] {
			return nil, fmt.Errorf("zone %d (%s): %w", i, z.Name,
				&domain.ValidationError{Field: "zone id", Value: z.ID, Reason: "duplicate"})
		}
		seen[z.ID] = true
		c.zoneLoops = append(c.zoneLoops, loopFromRing(z.Polygon))
	}

	for i, p := range points {
		if err := p.Location.Validate(); err != nil {
			return nil, fmt.Errorf("point %d (%s): %w", i, p.Name, err)
		}
		if p.ID == "" {
			p.ID = PointID(p.Location)
		}
		c.points[i] = p
	}

	for i, b := range c.boundaries {
		if len(b.Polygons) == 0 {
			return nil, fmt.Errorf("boundary %d (%s): %w", i, b.Name,
				&domain.ValidationError{Field: "boundary", Value: b.Name, Reason: "has no polygons"})
		}
		loops := make([]*s2.Loop, 0, len(b.Polygons))
		for _, ring := range b.Polygons {
			if err := domain.ValidateRing(ring); err != nil {
				return nil, fmt.Errorf("boundary %d (%s): %w", i, b.Name, err)
			}
			loops = append(loops, loopFromRing(ring))
		}
		c.boundaryLoops = append(c.boundaryLoops, loops)
	}

	if err := view.Center.Validate(); err != nil {
		return nil, fmt.Errorf("map view: %w", err)
	}

	return c, nil
}

// Zones returns the hazard zones in declaration order.
func (c *Catalog) Zones() []domain.HazardZone { return cloneZones(c.zones) }

// Points returns the point hazards in declaration order.
func (c *Catalog) Points() []domain.PointHazard {
	return append([]domain.PointHazard(nil), c.points...)
}

// Boundaries returns the boundary regions in declaration order.
func (c *Catalog) Boundaries() []domain.BoundaryRegion { return cloneBoundaries(c.boundaries) }

// View returns the initial map framing.
func (c *Catalog) View() MapView { return c.view }

// Prediction returns the cosmetic prediction overlay.
func (c *Catalog) Prediction() PredictionArea { return c.prediction }

// Zone looks up a hazard zone by ID.
func (c *Catalog) Zone(id int) (domain.HazardZone, bool) {
	for _, z := range c.zones {
		if z.ID == id {
			return cloneZones([]domain.HazardZone{z})[0], true
		}
	}
	return domain.HazardZone{}, false
}

// Stats reports the number of entries of each kind.
func (c *Catalog) Stats() Stats {
	return Stats{Zones: len(c.zones), Points: len(c.points), Boundaries: len(c.boundaries)}
}

// PointID derives a stable identifier for a point hazard from its location.
func PointID(loc domain.Coordinate) string {
	return geohash.EncodeWithPrecision(loc.Lat, loc.Lon, pointIDPrecision)
}

// Highlight returns the marker colour for a point hazard. School sites are
// drawn in yellow so they stand out from residential slopes.
func Highlight(p domain.PointHazard) string {
	if strings.Contains(p.Name, "SDN") {
		return colorSchool
	}
	return colorPoint
}

func cloneZones(in []domain.HazardZone) []domain.HazardZone {
	out := make([]domain.HazardZone, len(in))
	for i, z := range in {
		z.Polygon = append([]domain.Coordinate(nil), z.Polygon...)
		out[i] = z
	}
	return out
}

func cloneBoundaries(in []domain.BoundaryRegion) []domain.BoundaryRegion {
	out := make([]domain.BoundaryRegion, len(in))
	for i, b := range in {
		polys := make([][]domain.Coordinate, len(b.Polygons))
		for j, ring := range b.Polygons {
			polys[j] = append([]domain.Coordinate(nil), ring...)
		}
		out[i] = domain.BoundaryRegion{Name: b.Name, Polygons: polys}
	}
	return out
}
