// Package layers reads local geospatial files (the itinerary layer)
// into feature collections, memoized for the lifetime of the session.
package layers

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb/geojson"
)

// Layer is a parsed local file: its features plus the EPSG code of the
// reference system the geometries are expressed in.
type Layer struct {
	FC   *geojson.FeatureCollection
	EPSG int
}

// Common errors
var (
	ErrUnsupportedFormat = errors.New("unsupported layer format")
	ErrNoFeatureTable    = errors.New("geopackage has no feature table")
)

// Read parses the file at path based on its extension. Supported:
// .gpkg (GeoPackage), .gpx (GPS exchange), .geojson/.json.
func Read(path string) (*Layer, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gpkg":
		return readGeoPackage(path)
	case ".gpx":
		return readGPX(path)
	case ".geojson", ".json":
		return readGeoJSON(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}
