package layers

import (
	"fmt"
	"os"

	"github.com/paulmach/orb/geojson"
	"github.com/tidwall/gjson"

	"carte.exe.dev/srv/proj"
)

// readGeoJSON reads a GeoJSON feature collection. A legacy crs member
// is honored when present; otherwise coordinates are WGS 84.
func readGeoJSON(path string) (*Layer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	epsg := proj.WGS84
	if name := gjson.GetBytes(data, "crs.properties.name").String(); name != "" {
		code, ok := proj.ParseCRSName(name)
		if !ok {
			return nil, fmt.Errorf("%s: unknown crs %q", path, name)
		}
		epsg = code
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse geojson %s: %w", path, err)
	}

	return &Layer{FC: fc, EPSG: epsg}, nil
}
