// Command fetchzones snapshots the published drought-restriction zone
// layer to a local GeoJSON file, filtered to surface-water zones and
// normalized to WGS 84. Useful for offline development and for
// inspecting what the dashboard will render.
//
// Usage: go run ./cmd/fetchzones -out data/zones_secheresse.geojson
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"carte.exe.dev/srv/proj"
	"carte.exe.dev/srv/zones"
)

var (
	flagURL      = flag.String("url", "", "zone layer URL (defaults to the data.gouv.fr dataset)")
	flagOut      = flag.String("out", "data/zones_secheresse.geojson", "output file")
	flagTimeout  = flag.Duration("timeout", 30*time.Second, "fetch timeout")
	flagInsecure = flag.Bool("insecure-tls", false, "disable TLS certificate verification")
)

func main() {
	log.SetFlags(log.Ltime)
	flag.Parse()

	client := zones.NewClient(zones.Options{
		URL:         *flagURL,
		Timeout:     *flagTimeout,
		InsecureTLS: *flagInsecure,
	}, slog.Default())

	ctx, cancel := context.WithTimeout(context.Background(), *flagTimeout)
	defer cancel()

	fc, epsg, err := client.Fetch(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch zone layer: %v", err)
	}
	log.Printf("Fetched %d features (EPSG:%d)", len(fc.Features), epsg)

	sup := zones.FilterSUP(fc)
	log.Printf("Kept %d surface-water (SUP) zones", len(sup.Features))

	sup, err = proj.FeatureCollection(sup, epsg, proj.WGS84)
	if err != nil {
		log.Fatalf("Failed to reproject zones: %v", err)
	}
	zones.Colorize(sup)

	output, err := json.MarshalIndent(sup, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal zones: %v", err)
	}
	if err := os.WriteFile(*flagOut, output, 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", *flagOut, err)
	}

	// Summary by severity level
	counts := make(map[string]int)
	for _, f := range sup.Features {
		level, _ := f.Properties["niveauGravite"].(string)
		if level == "" {
			level = "(inconnu)"
		}
		counts[level]++
	}
	log.Printf("=== Summary ===")
	for _, level := range zones.Levels {
		log.Printf("%-18s %d", level, counts[level])
	}
	if n := counts["(inconnu)"]; n > 0 {
		log.Printf("%-18s %d", "(inconnu)", n)
	}
	log.Printf("Saved to %s", *flagOut)
}
