// Command validate performs integrity checks on a hazard catalog GeoJSON
// document before it is deployed through CATALOG_PATH. It verifies that the
// document parses, that zone and boundary geometry is well formed, that point
// hazards fall inside the mapped area, and that the catalog survives an
// export/load round trip unchanged.
//
// Usage:
//
//	go run ./cmd/validate -catalog data/catalog.geojson
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"regexp"

	"github.com/google/go-cmp/cmp"

	"github.com/couchcryptid/bewara-landslide-service/internal/catalog"
	"github.com/couchcryptid/bewara-landslide-service/internal/domain"
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	path := flag.String("catalog", "", "path to catalog GeoJSON document")
	flag.Parse()

	if *path == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*path))
}

func run(path string) int {
	fmt.Println("=== Catalog Integrity Validation ===")
	fmt.Println()

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read catalog: %v\n", err)
		return 1
	}

	var fc catalog.FeatureCollection
	parse := &phase{name: "Phase 1: Parse (GeoJSON + catalog rules)"}
	if err := json.Unmarshal(data, &fc); err != nil {
		parse.errorf("decode: %v", err)
	}
	cat, err := catalog.Load(bytes.NewReader(data))
	if err != nil {
		parse.errorf("load: %v", err)
	}

	phases := []*phase{parse}
	if cat != nil {
		phases = append(phases,
			validateZoneGeometry(cat),
			validatePointBounds(cat),
			validateRingClosure(fc),
			validateRoundTrip(cat),
		)
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	if cat != nil {
		s := cat.Stats()
		fmt.Printf("\nFeatures: %d zones, %d points, %d boundaries\n", s.Zones, s.Points, s.Boundaries)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 2: Zone geometry ──
// Colours must be hex tokens, and no zone vertex may lie inside another zone.

func validateZoneGeometry(cat *catalog.Catalog) *phase {
	p := &phase{name: "Phase 2: Zone Geometry"}

	for _, z := range cat.Zones() {
		if !colorPattern.MatchString(z.Color) {
			p.errorf("zone %d (%s): color %q is not #rrggbb", z.ID, z.Name, z.Color)
		}
		for _, v := range z.Polygon {
			for _, other := range cat.ZonesAt(v) {
				if other.ID != z.ID {
					p.errorf("zone %d (%s): vertex %s lies inside zone %d (%s)", z.ID, z.Name, v, other.ID, other.Name)
				}
			}
		}
	}
	return p
}

// ── Phase 3: Point bounds ──
// Point hazards must sit inside a mapped boundary and have unique IDs.

func validatePointBounds(cat *catalog.Catalog) *phase {
	p := &phase{name: "Phase 3: Point Bounds"}

	checkBounds := cat.Stats().Boundaries > 0
	seen := map[string]string{}
	for _, pt := range cat.Points() {
		if prev, ok := seen[pt.ID]; ok {
			p.errorf("point %q: id %s already used by %q", pt.Name, pt.ID, prev)
		}
		seen[pt.ID] = pt.Name

		if pt.Risk == "" {
			p.errorf("point %q: missing risk label", pt.Name)
		}
		if checkBounds && len(cat.BoundariesAt(pt.Location)) == 0 {
			p.errorf("point %q at %s is outside every boundary", pt.Name, pt.Location)
		}
	}
	return p
}

// ── Phase 4: Ring closure ──
// RFC 7946 rings are closed: at least four positions, first equal to last.

func validateRingClosure(fc catalog.FeatureCollection) *phase {
	p := &phase{name: "Phase 4: Ring Closure (RFC 7946)"}

	for i, f := range fc.Features {
		var rings [][][]float64
		switch f.Geometry.Type {
		case "Polygon":
			if err := json.Unmarshal(f.Geometry.Coordinates, &rings); err != nil {
				p.errorf("feature %d: %v", i, err)
				continue
			}
		case "MultiPolygon":
			var multi [][][][]float64
			if err := json.Unmarshal(f.Geometry.Coordinates, &multi); err != nil {
				p.errorf("feature %d: %v", i, err)
				continue
			}
			for _, poly := range multi {
				rings = append(rings, poly...)
			}
		default:
			continue
		}

		for j, ring := range rings {
			if len(ring) < 4 {
				p.errorf("feature %d ring %d: %d positions, need at least 4", i, j, len(ring))
				continue
			}
			first, last := ring[0], ring[len(ring)-1]
			if len(first) < 2 || len(last) < 2 || first[0] != last[0] || first[1] != last[1] {
				p.errorf("feature %d ring %d: not closed (first %v, last %v)", i, j, first, last)
			}
		}
	}
	return p
}

// ── Phase 5: Round trip ──
// Exporting and reloading must reproduce the same entries.

func validateRoundTrip(cat *catalog.Catalog) *phase {
	p := &phase{name: "Phase 5: Round Trip (export → load)"}

	data, err := json.Marshal(cat.GeoJSON())
	if err != nil {
		p.errorf("export: %v", err)
		return p
	}
	again, err := catalog.Load(bytes.NewReader(data))
	if err != nil {
		p.errorf("reload: %v", err)
		return p
	}

	if diff := cmp.Diff(cat.Stats(), again.Stats()); diff != "" {
		p.errorf("stats differ (-before +after):\n%s", diff)
	}
	if diff := cmp.Diff(cat.Points(), again.Points()); diff != "" {
		p.errorf("points differ (-before +after):\n%s", diff)
	}
	if diff := cmp.Diff(zoneKeys(cat.Zones()), zoneKeys(again.Zones())); diff != "" {
		p.errorf("zones differ (-before +after):\n%s", diff)
	}
	return p
}

type zoneKey struct {
	ID    int
	Name  string
	Level domain.ZoneLevel
	Color string
}

func zoneKeys(zones []domain.HazardZone) []zoneKey {
	out := make([]zoneKey, len(zones))
	for i, z := range zones {
		out[i] = zoneKey{ID: z.ID, Name: z.Name, Level: z.Level, Color: z.Color}
	}
	return out
}
