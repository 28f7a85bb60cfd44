// Command exportcatalog writes the hazard catalog as a GeoJSON
// FeatureCollection. The output can be edited and fed back to the service
// through CATALOG_PATH, or checked with cmd/validate.
//
// Usage:
//
//	go run ./cmd/exportcatalog -out data/catalog.geojson
//	go run ./cmd/exportcatalog -in data/catalog.geojson -out /tmp/normalized.geojson
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/couchcryptid/bewara-landslide-service/internal/catalog"
	"github.com/couchcryptid/bewara-landslide-service/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	in := flag.String("in", "", "optional GeoJSON catalog to re-export instead of the compiled-in one")
	out := flag.String("out", "", "output path for the GeoJSON document")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	cat := catalog.Default()
	if *in != "" {
		var err error
		if cat, err = catalog.LoadFile(*in); err != nil {
			return err
		}
	}

	if err := writeJSON(*out, cat.GeoJSON()); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	log.Printf("wrote catalog: %s", *out)

	printStats(cat)
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(cat *catalog.Catalog) {
	stats := cat.Stats()

	fmt.Println("\n=== Catalog stats ===")
	fmt.Printf("Zones: %d, Points: %d, Boundaries: %d\n", stats.Zones, stats.Points, stats.Boundaries)

	levels := map[domain.ZoneLevel]int{}
	for _, z := range cat.Zones() {
		levels[z.Level]++
	}
	fmt.Printf("By level: %s=%d, %s=%d, %s=%d\n",
		domain.ZoneHigh, levels[domain.ZoneHigh],
		domain.ZoneMedium, levels[domain.ZoneMedium],
		domain.ZoneLow, levels[domain.ZoneLow])

	fmt.Println("\nPoint hazards:")
	for _, p := range cat.Points() {
		fmt.Printf("  %s  %-34s %-14s %s\n", p.ID, p.Name, p.Risk, catalog.Highlight(p))
	}

	at := catalog.MonitoredLocation
	fmt.Printf("\nMonitored location %s:\n", at)
	for _, b := range cat.BoundariesAt(at) {
		fmt.Printf("  inside boundary %q\n", b.Name)
	}
	if level, ok := cat.MaxZoneLevel(at); ok {
		fmt.Printf("  highest zone level: %s\n", level)
	} else {
		fmt.Println("  not inside any hazard zone")
	}
}
