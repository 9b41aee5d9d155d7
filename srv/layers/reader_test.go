package layers

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
)

func TestReadUnsupportedFormat(t *testing.T) {
	_, err := Read("itineraire.shp")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got: %v", err)
	}
}

func TestReadMissingFile(t *testing.T) {
	for _, path := range []string{"nope.gpkg", "nope.gpx", "nope.geojson"} {
		if _, err := Read(filepath.Join(t.TempDir(), path)); err == nil {
			t.Errorf("expected error for missing %s", path)
		}
	}
}

func TestReadGeoJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "itineraire.geojson")
	payload := `{
		"type": "FeatureCollection",
		"features": [
			{
				"type": "Feature",
				"properties": {"name": "Itinéraire COP"},
				"geometry": {"type": "LineString", "coordinates": [[2,45],[3,46]]}
			}
		]
	}`
	if err := os.WriteFile(path, []byte(payload), 0644); err != nil {
		t.Fatal(err)
	}

	layer, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if layer.EPSG != 4326 {
		t.Errorf("EPSG = %d, want 4326", layer.EPSG)
	}
	if len(layer.FC.Features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(layer.FC.Features))
	}
	line, ok := layer.FC.Features[0].Geometry.(orb.LineString)
	if !ok || len(line) != 2 {
		t.Fatalf("expected a 2-point LineString, got %#v", layer.FC.Features[0].Geometry)
	}
}

func TestReadGeoJSONLegacyCRS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "itineraire.geojson")
	payload := `{
		"type": "FeatureCollection",
		"crs": {"type": "name", "properties": {"name": "urn:ogc:def:crs:EPSG::2154"}},
		"features": []
	}`
	if err := os.WriteFile(path, []byte(payload), 0644); err != nil {
		t.Fatal(err)
	}

	layer, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if layer.EPSG != 2154 {
		t.Errorf("EPSG = %d, want 2154", layer.EPSG)
	}
}

func TestReadGPX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "itineraire.gpx")
	payload := `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test">
  <metadata><name>Export COP</name></metadata>
  <trk>
    <name>Étape 1</name>
    <trkseg>
      <trkpt lat="45.0" lon="2.0"></trkpt>
      <trkpt lat="46.0" lon="3.0"></trkpt>
    </trkseg>
  </trk>
</gpx>`
	if err := os.WriteFile(path, []byte(payload), 0644); err != nil {
		t.Fatal(err)
	}

	layer, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if layer.EPSG != 4326 {
		t.Errorf("EPSG = %d, want 4326", layer.EPSG)
	}
	if len(layer.FC.Features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(layer.FC.Features))
	}

	f := layer.FC.Features[0]
	if got := f.Properties["name"]; got != "Étape 1" {
		t.Errorf("name = %v, want Étape 1", got)
	}
	line := f.Geometry.(orb.LineString)
	if len(line) != 2 {
		t.Fatalf("expected 2 points, got %d", len(line))
	}
	// GPX attributes are lat/lon; GeoJSON positions are lon/lat.
	if line[0][0] != 2.0 || line[0][1] != 45.0 {
		t.Errorf("first point = %v, want [2 45]", line[0])
	}
}

// writeGeoPackage builds a minimal single-table GeoPackage fixture.
func writeGeoPackage(t *testing.T, path string, srsID int, line orb.LineString) {
	t.Helper()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE gpkg_contents (
			table_name TEXT PRIMARY KEY,
			data_type TEXT NOT NULL,
			srs_id INTEGER
		)`,
		`CREATE TABLE gpkg_geometry_columns (
			table_name TEXT PRIMARY KEY,
			column_name TEXT NOT NULL,
			geometry_type_name TEXT NOT NULL,
			srs_id INTEGER NOT NULL
		)`,
		`CREATE TABLE itineraire (
			fid INTEGER PRIMARY KEY,
			name TEXT,
			geom BLOB
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := db.Exec(
		`INSERT INTO gpkg_contents (table_name, data_type, srs_id) VALUES ('itineraire', 'features', ?)`,
		srsID); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(
		`INSERT INTO gpkg_geometry_columns (table_name, column_name, geometry_type_name, srs_id)
		 VALUES ('itineraire', 'geom', 'LINESTRING', ?)`, srsID); err != nil {
		t.Fatal(err)
	}

	payload, err := wkb.Marshal(line)
	if err != nil {
		t.Fatal(err)
	}
	blob := append(gpkgHeader(int32(srsID)), payload...)
	if _, err := db.Exec(
		`INSERT INTO itineraire (fid, name, geom) VALUES (1, 'Itinéraire COP', ?)`, blob); err != nil {
		t.Fatal(err)
	}
}

func TestReadGeoPackage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "itineraire.gpkg")
	line := orb.LineString{{700000, 6600000}, {710000, 6610000}}
	writeGeoPackage(t, path, 2154, line)

	layer, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if layer.EPSG != 2154 {
		t.Errorf("EPSG = %d, want 2154", layer.EPSG)
	}
	if len(layer.FC.Features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(layer.FC.Features))
	}

	f := layer.FC.Features[0]
	if got := f.Properties["name"]; got != "Itinéraire COP" {
		t.Errorf("name = %v, want Itinéraire COP", got)
	}
	got, ok := f.Geometry.(orb.LineString)
	if !ok {
		t.Fatalf("expected a LineString, got %#v", f.Geometry)
	}
	if !got.Equal(line) {
		t.Errorf("geometry = %v, want %v", got, line)
	}
}

func TestReadGeoPackageNoFeatureTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.gpkg")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`CREATE TABLE gpkg_contents (table_name TEXT, data_type TEXT, srs_id INTEGER)`); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`CREATE TABLE gpkg_geometry_columns (table_name TEXT, column_name TEXT, geometry_type_name TEXT, srs_id INTEGER)`); err != nil {
		t.Fatal(err)
	}
	db.Close()

	_, err = Read(path)
	if !errors.Is(err, ErrNoFeatureTable) {
		t.Errorf("expected ErrNoFeatureTable, got: %v", err)
	}
}
