package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/bewara-landslide-service/internal/domain"
)

// Feature kinds recognised in the "kind" property.
const (
	KindZone     = "zone"
	KindPoint    = "point"
	KindBoundary = "boundary"
)

// FeatureCollection is an RFC 7946 GeoJSON document. Positions are
// [lon, lat].
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a single GeoJSON feature.
type Feature struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Geometry   Geometry       `json:"geometry"`
}

// Geometry holds raw coordinates; their nesting depends on Type.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// LoadFile reads a catalog from a GeoJSON file.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Load decodes a GeoJSON FeatureCollection into a Catalog. Positions are
// converted from [lon, lat] to latitude-first coordinates here and nowhere
// else. The map view and prediction overlay keep their compiled-in values.
//
// A feature's kind comes from properties.kind; when absent it is inferred:
// Point geometries are point hazards, features with a "level" are zones,
// everything else is a boundary.
func Load(r io.Reader) (*Catalog, error) {
	var fc FeatureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, &domain.ValidationError{Field: "type", Value: fc.Type, Reason: "want FeatureCollection"}
	}

	var (
		zones      []domain.HazardZone
		points     []domain.PointHazard
		boundaries []domain.BoundaryRegion
	)

	for i, f := range fc.Features {
		switch featureKind(f) {
		case KindZone:
			z, err := decodeZone(f)
			if err != nil {
				return nil, fmt.Errorf("feature %d: %w", i, err)
			}
			zones = append(zones, z)
		case KindPoint:
			p, err := decodePoint(f)
			if err != nil {
				return nil, fmt.Errorf("feature %d: %w", i, err)
			}
			points = append(points, p)
		case KindBoundary:
			b, err := decodeBoundary(f)
			if err != nil {
				return nil, fmt.Errorf("feature %d: %w", i, err)
			}
			boundaries = append(boundaries, b)
		default:
			return nil, fmt.Errorf("feature %d: %w", i,
				&domain.ValidationError{Field: "kind", Value: f.Properties["kind"], Reason: "want zone, point or boundary"})
		}
	}

	return New(zones, points, boundaries, defaultView, defaultPrediction)
}

// GeoJSON exports the catalog as a FeatureCollection that Load accepts.
// Zones come first, then points, then boundaries, each in declaration order.
func (c *Catalog) GeoJSON() FeatureCollection {
	fc := FeatureCollection{Type: "FeatureCollection"}

	for _, z := range c.zones {
		ring := closeRing(z.Polygon)
		fc.Features = append(fc.Features, Feature{
			Type: "Feature",
			Properties: map[string]any{
				"kind":  KindZone,
				"id":    z.ID,
				"name":  z.Name,
				"level": z.Level.String(),
				"color": z.Color,
			},
			Geometry: mustGeometry("Polygon", [][][]float64{positionsOf(ring)}),
		})
	}

	for _, p := range c.points {
		fc.Features = append(fc.Features, Feature{
			Type: "Feature",
			Properties: map[string]any{
				"kind":  KindPoint,
				"id":    p.ID,
				"name":  p.Name,
				"risk":  p.Risk,
				"desc":  p.Description,
				"color": Highlight(p),
			},
			Geometry: mustGeometry("Point", p.Location.LonLat()),
		})
	}

	for _, b := range c.boundaries {
		rings := make([][][]float64, 0, len(b.Polygons))
		for _, ring := range b.Polygons {
			rings = append(rings, positionsOf(closeRing(ring)))
		}
		// Each polygon has a single outer ring, so a one-polygon boundary
		// is a Polygon and anything larger is a MultiPolygon.
		var g Geometry
		if len(rings) == 1 {
			g = mustGeometry("Polygon", rings)
		} else {
			multi := make([][][][]float64, len(rings))
			for i, r := range rings {
				multi[i] = [][][]float64{r}
			}
			g = mustGeometry("MultiPolygon", multi)
		}
		fc.Features = append(fc.Features, Feature{
			Type:       "Feature",
			Properties: map[string]any{"kind": KindBoundary, "nama": b.Name},
			Geometry:   g,
		})
	}

	return fc
}

func featureKind(f Feature) string {
	if k, ok := f.Properties["kind"].(string); ok {
		return k
	}
	if f.Geometry.Type == "Point" {
		return KindPoint
	}
	if _, ok := f.Properties["level"]; ok {
		return KindZone
	}
	return KindBoundary
}

func decodeZone(f Feature) (domain.HazardZone, error) {
	if f.Geometry.Type != "Polygon" {
		return domain.HazardZone{}, &domain.ValidationError{Field: "zone geometry", Value: f.Geometry.Type, Reason: "want Polygon"}
	}
	rings, err := polygonRings(f.Geometry.Coordinates)
	if err != nil {
		return domain.HazardZone{}, err
	}

	id, ok := f.Properties["id"].(float64)
	if !ok || id != float64(int(id)) {
		return domain.HazardZone{}, &domain.ValidationError{Field: "zone id", Value: f.Properties["id"], Reason: "want an integer"}
	}
	level, err := domain.ParseZoneLevel(stringProp(f, "level"))
	if err != nil {
		return domain.HazardZone{}, err
	}

	return domain.HazardZone{
		ID:      int(id),
		Name:    stringProp(f, "name"),
		Level:   level,
		Polygon: rings[0],
		Color:   stringProp(f, "color"),
	}, nil
}

func decodePoint(f Feature) (domain.PointHazard, error) {
	if f.Geometry.Type != "Point" {
		return domain.PointHazard{}, &domain.ValidationError{Field: "point geometry", Value: f.Geometry.Type, Reason: "want Point"}
	}
	var pos []float64
	if err := json.Unmarshal(f.Geometry.Coordinates, &pos); err != nil {
		return domain.PointHazard{}, fmt.Errorf("point coordinates: %w", err)
	}
	loc, err := domain.FromLonLat(pos)
	if err != nil {
		return domain.PointHazard{}, err
	}
	return domain.PointHazard{
		ID:          stringProp(f, "id"),
		Name:        stringProp(f, "name"),
		Location:    loc,
		Risk:        stringProp(f, "risk"),
		Description: stringProp(f, "desc"),
	}, nil
}

func decodeBoundary(f Feature) (domain.BoundaryRegion, error) {
	name := stringProp(f, "nama")
	if name == "" {
		name = stringProp(f, "name")
	}

	var polygons [][]domain.Coordinate
	switch f.Geometry.Type {
	case "Polygon":
		rings, err := polygonRings(f.Geometry.Coordinates)
		if err != nil {
			return domain.BoundaryRegion{}, err
		}
		polygons = append(polygons, rings[0])
	case "MultiPolygon":
		var multi [][][][]float64
		if err := json.Unmarshal(f.Geometry.Coordinates, &multi); err != nil {
			return domain.BoundaryRegion{}, fmt.Errorf("multipolygon coordinates: %w", err)
		}
		for _, poly := range multi {
			if len(poly) == 0 {
				return domain.BoundaryRegion{}, &domain.ValidationError{Field: "polygon", Value: 0, Reason: "has no rings"}
			}
			ring, err := ringFromPositions(poly[0])
			if err != nil {
				return domain.BoundaryRegion{}, err
			}
			polygons = append(polygons, ring)
		}
	default:
		return domain.BoundaryRegion{}, &domain.ValidationError{Field: "boundary geometry", Value: f.Geometry.Type, Reason: "want Polygon or MultiPolygon"}
	}

	return domain.BoundaryRegion{Name: name, Polygons: polygons}, nil
}

// polygonRings decodes Polygon coordinates. Only the outer ring (index 0)
// is used downstream; holes are decoded for validation only.
func polygonRings(raw json.RawMessage) ([][]domain.Coordinate, error) {
	var rings [][][]float64
	if err := json.Unmarshal(raw, &rings); err != nil {
		return nil, fmt.Errorf("polygon coordinates: %w", err)
	}
	if len(rings) == 0 {
		return nil, &domain.ValidationError{Field: "polygon", Value: 0, Reason: "has no rings"}
	}
	out := make([][]domain.Coordinate, 0, len(rings))
	for _, r := range rings {
		ring, err := ringFromPositions(r)
		if err != nil {
			return nil, err
		}
		out = append(out, ring)
	}
	return out, nil
}

func ringFromPositions(positions [][]float64) ([]domain.Coordinate, error) {
	ring := make([]domain.Coordinate, 0, len(positions))
	for _, pos := range positions {
		c, err := domain.FromLonLat(pos)
		if err != nil {
			return nil, err
		}
		ring = append(ring, c)
	}
	return ring, nil
}

func positionsOf(ring []domain.Coordinate) [][]float64 {
	out := make([][]float64, len(ring))
	for i, c := range ring {
		out[i] = c.LonLat()
	}
	return out
}

// closeRing appends the first vertex when the ring is open, as RFC 7946 requires.
func closeRing(ring []domain.Coordinate) []domain.Coordinate {
	if n := len(ring); n > 0 && ring[0] != ring[n-1] {
		return append(append([]domain.Coordinate(nil), ring...), ring[0])
	}
	return ring
}

func stringProp(f Feature, key string) string {
	s, _ := f.Properties[key].(string)
	return s
}

func mustGeometry(typ string, coords any) Geometry {
	raw, err := json.Marshal(coords)
	if err != nil {
		panic(fmt.Sprintf("catalog: marshal %s coordinates: %v", typ, err))
	}
	return Geometry{Type: typ, Coordinates: raw}
}
