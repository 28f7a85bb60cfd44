package catalog

import (
	"github.com/golang/geo/s2"

	"github.com/couchcryptid/bewara-landslide-service/internal/domain"
)

// ZonesAt returns the hazard zones whose polygon contains the coordinate,
// in declaration order.
func (c *Catalog) ZonesAt(at domain.Coordinate) []domain.HazardZone {
	pt := pointOf(at)
	var out []domain.HazardZone
	for i, loop := range c.zoneLoops {
		if loop.ContainsPoint(pt) {
			out = append(out, cloneZones(c.zones[i:i+1])...)
		}
	}
	return out
}

// BoundariesAt returns the boundary regions containing the coordinate, in
// declaration order.
func (c *Catalog) BoundariesAt(at domain.Coordinate) []domain.BoundaryRegion {
	pt := pointOf(at)
	var out []domain.BoundaryRegion
	for i, loops := range c.boundaryLoops {
		for _, loop := range loops {
			if loop.ContainsPoint(pt) {
				out = append(out, cloneBoundaries(c.boundaries[i:i+1])...)
				break
			}
		}
	}
	return out
}

// MaxZoneLevel returns the highest level among zones containing the
// coordinate, and false when no zone contains it.
func (c *Catalog) MaxZoneLevel(at domain.Coordinate) (domain.ZoneLevel, bool) {
	var best domain.ZoneLevel
	for _, z := range c.ZonesAt(at) {
		if z.Level > best {
			best = z.Level
		}
	}
	return best, best != 0
}

func pointOf(c domain.Coordinate) s2.Point {
	return s2.PointFromLatLng(s2.LatLngFromDegrees(c.Lat, c.Lon))
}

// loopFromRing builds an s2 loop from a ring, dropping a closing vertex.
// Rings arrive in either winding order; a loop covering more than a
// hemisphere-sized area is the complement of what was meant, so it is
// inverted.
func loopFromRing(ring []domain.Coordinate) *s2.Loop {
	if n := len(ring); n > 1 && ring[0] == ring[n-1] {
		ring = ring[:n-1]
	}
	points := make([]s2.Point, 0, len(ring))
	for _, c := range ring {
		points = append(points, pointOf(c))
	}
	loop := s2.LoopFromPoints(points)
	if loop.Area() > 0.1 {
		loop.Invert()
	}
	return loop
}
