package catalog

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/bewara-landslide-service/internal/domain"
)

func TestDefault_Contents(t *testing.T) {
	c := Default()

	assert.Equal(t, Stats{Zones: 3, Points: 4, Boundaries: 3}, c.Stats())

	var zoneNames []string
	for _, z := range c.Zones() {
		zoneNames = append(zoneNames, z.Name)
	}
	if diff := cmp.Diff([]string{"Zona Merah 1", "Zona Kuning 1", "Zona Hijau 1"}, zoneNames); diff != "" {
		t.Errorf("zone order mismatch (-want +got):\n%s", diff)
	}

	var levels []domain.ZoneLevel
	for _, z := range c.Zones() {
		levels = append(levels, z.Level)
	}
	assert.Equal(t, []domain.ZoneLevel{domain.ZoneHigh, domain.ZoneMedium, domain.ZoneLow}, levels)

	var pointNames []string
	for _, p := range c.Points() {
		pointNames = append(pointNames, p.Name)
	}
	want := []string{"Kampung Cimerak (Tegal Panjang)", "Desa Bencoy", "Bukit Rasamala (Kp. Lio)", "Area SDN Lio"}
	if diff := cmp.Diff(want, pointNames); diff != "" {
		t.Errorf("point order mismatch (-want +got):\n%s", diff)
	}

	var boundaryNames []string
	for _, b := range c.Boundaries() {
		boundaryNames = append(boundaryNames, b.Name)
	}
	assert.Equal(t, []string{"Area Batas 1", "Area Batas 2", "Wilayah Utama Cireunghas"}, boundaryNames)
}

func TestDefault_BoundariesAreLatitudeFirst(t *testing.T) {
	b := Default().Boundaries()[2]
	require.Len(t, b.Polygons, 1)
	first := b.Polygons[0][0]
	assert.InDelta(t, -6.921505385699874, first.Lat, 1e-12)
	assert.InDelta(t, 106.9813571754006, first.Lon, 1e-12)
}

func TestDefault_ViewAndPrediction(t *testing.T) {
	c := Default()
	assert.Equal(t, 13, c.View().Zoom)
	assert.Equal(t, domain.Coordinate{Lat: -6.9450, Lon: 107.0150}, c.View().Center)

	p := c.Prediction()
	assert.Equal(t, MonitoredLocation, p.Center)
	assert.InDelta(t, 800, p.RadiusMeters, 0)
}

func TestCatalog_AccessorsReturnCopies(t *testing.T) {
	c := Default()
	zones := c.Zones()
	zones[0].Name = "mutated"
	zones[0].Polygon[0] = domain.Coordinate{}

	z, ok := c.Zone(1)
	require.True(t, ok)
	assert.Equal(t, "Zona Merah 1", z.Name)
	assert.NotEqual(t, domain.Coordinate{}, z.Polygon[0])

	_, ok = c.Zone(99)
	assert.False(t, ok)
}

func TestZonesAt(t *testing.T) {
	c := Default()

	inside := c.ZonesAt(domain.Coordinate{Lat: -7.1173, Lon: 107.5868})
	require.Len(t, inside, 1)
	assert.Equal(t, 1, inside[0].ID)

	level, ok := c.MaxZoneLevel(domain.Coordinate{Lat: -7.1173, Lon: 107.5868})
	assert.True(t, ok)
	assert.Equal(t, domain.ZoneHigh, level)

	assert.Empty(t, c.ZonesAt(MonitoredLocation))
	_, ok = c.MaxZoneLevel(MonitoredLocation)
	assert.False(t, ok)
}

func TestBoundariesAt(t *testing.T) {
	c := Default()

	got := c.BoundariesAt(MonitoredLocation)
	require.Len(t, got, 1)
	assert.Equal(t, "Wilayah Utama Cireunghas", got[0].Name)

	assert.Empty(t, c.BoundariesAt(domain.Coordinate{Lat: -7.5, Lon: 107.5}))
}

func TestPointIDs(t *testing.T) {
	c := Default()
	seen := map[string]bool{}
	for _, p := range c.Points() {
		assert.Len(t, p.ID, pointIDPrecision)
		assert.Equal(t, PointID(p.Location), p.ID)
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
	}
}

func TestNew_KeepsExplicitPointID(t *testing.T) {
	c, err := New(nil, []domain.PointHazard{{ID: "lio-1", Name: "x", Location: MonitoredLocation}}, nil, defaultView, defaultPrediction)
	require.NoError(t, err)
	assert.Equal(t, "lio-1", c.Points()[0].ID)
}

func TestHighlight(t *testing.T) {
	assert.Equal(t, colorSchool, Highlight(domain.PointHazard{Name: "Area SDN Lio"}))
	assert.Equal(t, colorPoint, Highlight(domain.PointHazard{Name: "Desa Bencoy"}))
}

func TestNew_Rejects(t *testing.T) {
	ring := defaultZones[0].Polygon

	tests := []struct {
		name       string
		zones      []domain.HazardZone
		points     []domain.PointHazard
		boundaries []domain.BoundaryRegion
	}{
		{
			name: "duplicate zone id",
			zones: []domain.HazardZone{
				{ID: 1, Level: domain.ZoneLow, Polygon: ring},
				{ID: 1, Level: domain.ZoneHigh, Polygon: ring},
			},
		},
		{
			name:  "degenerate zone",
			zones: []domain.HazardZone{{ID: 1, Level: domain.ZoneLow, Polygon: ring[:2]}},
		},
		{
			name:   "point out of range",
			points: []domain.PointHazard{{Name: "x", Location: domain.Coordinate{Lat: 120}}},
		},
		{
			name:       "boundary without polygons",
			boundaries: []domain.BoundaryRegion{{Name: "empty"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.zones, tt.points, tt.boundaries, defaultView, defaultPrediction)
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err))
		})
	}
}

func TestGeoJSON_RoundTrip(t *testing.T) {
	orig := Default()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(orig.GeoJSON()))

	loaded, err := Load(&buf)
	require.NoError(t, err)

	assert.Equal(t, orig.Stats(), loaded.Stats())
	assert.Equal(t, orig.Points(), loaded.Points())

	for i, z := range loaded.Zones() {
		want := orig.Zones()[i]
		assert.Equal(t, want.ID, z.ID)
		assert.Equal(t, want.Level, z.Level)
		// Export closes the ring; the first vertices still line up.
		assert.Equal(t, want.Polygon, z.Polygon[:len(want.Polygon)])
	}
	for i, b := range loaded.Boundaries() {
		assert.Equal(t, orig.Boundaries()[i].Name, b.Name)
	}

	got := loaded.BoundariesAt(MonitoredLocation)
	require.Len(t, got, 1)
	assert.Equal(t, "Wilayah Utama Cireunghas", got[0].Name)
}

func TestGeoJSON_PositionsAreLonLat(t *testing.T) {
	fc := Default().GeoJSON()
	require.NotEmpty(t, fc.Features)

	for _, f := range fc.Features {
		if f.Properties["kind"] != KindPoint {
			continue
		}
		var pos []float64
		require.NoError(t, json.Unmarshal(f.Geometry.Coordinates, &pos))
		assert.Greater(t, pos[0], 100.0, "longitude must come first")
		return
	}
	t.Fatal("no point feature exported")
}

func TestLoad_InfersKinds(t *testing.T) {
	doc := `{
	  "type": "FeatureCollection",
	  "features": [
	    {"type": "Feature", "properties": {"name": "Lereng", "risk": "Tinggi"},
	     "geometry": {"type": "Point", "coordinates": [107.02, -6.95]}},
	    {"type": "Feature", "properties": {"id": 7, "name": "Zona", "level": "Sedang"},
	     "geometry": {"type": "Polygon", "coordinates": [[[107.0,-6.9],[107.1,-6.9],[107.1,-7.0],[107.0,-6.9]]]}},
	    {"type": "Feature", "properties": {"name": "Batas"},
	     "geometry": {"type": "MultiPolygon", "coordinates": [
	       [[[107.0,-6.9],[107.1,-6.9],[107.1,-7.0],[107.0,-6.9]]],
	       [[[107.2,-6.9],[107.3,-6.9],[107.3,-7.0],[107.2,-6.9]]]
	     ]}}
	  ]
	}`

	c, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, Stats{Zones: 1, Points: 1, Boundaries: 1}, c.Stats())

	assert.Equal(t, domain.Coordinate{Lat: -6.95, Lon: 107.02}, c.Points()[0].Location)
	assert.Equal(t, domain.ZoneMedium, c.Zones()[0].Level)
	assert.Equal(t, 7, c.Zones()[0].ID)
	assert.Equal(t, "Batas", c.Boundaries()[0].Name)
	assert.Len(t, c.Boundaries()[0].Polygons, 2)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not a collection", `{"type": "Feature"}`},
		{"unknown kind", `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"kind":"river"},"geometry":{"type":"Point","coordinates":[107,-6.9]}}]}`},
		{"zone without id", `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"kind":"zone","level":"Tinggi"},"geometry":{"type":"Polygon","coordinates":[[[107,-6.9],[107.1,-6.9],[107.1,-7]]]}}]}`},
		{"bad zone level", `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"id":1,"level":"extreme"},"geometry":{"type":"Polygon","coordinates":[[[107,-6.9],[107.1,-6.9],[107.1,-7]]]}}]}`},
		{"latitude first point", `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[-6.9,107]}}]}`},
		{"boundary line", `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"kind":"boundary"},"geometry":{"type":"LineString","coordinates":[[107,-6.9],[107.1,-6.9]]}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err), "got %v", err)
		})
	}

	_, err := Load(strings.NewReader("{"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.geojson")
	data, err := json.Marshal(Default().GeoJSON())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Default().Stats(), c.Stats())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.geojson"))
	assert.Error(t, err)
}
