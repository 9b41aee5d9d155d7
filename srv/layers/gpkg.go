package layers

import (
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/paulmach/orb/geojson"

	_ "modernc.org/sqlite"
)

// readGeoPackage reads the first feature table of a GeoPackage. A
// GeoPackage is a SQLite database; the gpkg_contents and
// gpkg_geometry_columns tables describe where the features live and
// which reference system they use.
func readGeoPackage(path string) (*Layer, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open geopackage %s: %w", path, err)
	}
	defer db.Close()

	var table, geomCol string
	var srsID int
	err = db.QueryRow(`
		SELECT c.table_name, g.column_name, g.srs_id
		FROM gpkg_contents c
		JOIN gpkg_geometry_columns g ON g.table_name = c.table_name
		WHERE c.data_type = 'features'
		ORDER BY c.table_name
		LIMIT 1
	`).Scan(&table, &geomCol, &srsID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", path, ErrNoFeatureTable)
	}
	if err != nil {
		return nil, fmt.Errorf("read geopackage metadata: %w", err)
	}

	rows, err := db.Query(fmt.Sprintf("SELECT * FROM %q", table))
	if err != nil {
		return nil, fmt.Errorf("read feature table %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	fc := geojson.NewFeatureCollection()
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan feature row: %w", err)
		}

		var feature *geojson.Feature
		props := make(map[string]any, len(cols)-1)
		for i, col := range cols {
			if col == geomCol {
				blob, ok := vals[i].([]byte)
				if !ok || blob == nil {
					continue
				}
				geom, err := decodeGeometry(blob)
				if err != nil {
					return nil, fmt.Errorf("feature table %s: %w", table, err)
				}
				if geom == nil {
					continue
				}
				feature = geojson.NewFeature(geom)
				continue
			}
			if v := columnValue(vals[i]); v != nil {
				props[col] = v
			}
		}
		if feature == nil {
			continue
		}
		for k, v := range props {
			feature.Properties[k] = v
		}
		fc.Append(feature)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &Layer{FC: fc, EPSG: srsID}, nil
}

// decodeGeometry strips the GeoPackage binary header (OGC 12-128r15)
// and decodes the remaining well-known-binary payload. Returns nil for
// blobs flagged as empty geometry.
func decodeGeometry(blob []byte) (orb.Geometry, error) {
	if len(blob) < 8 || blob[0] != 'G' || blob[1] != 'P' {
		return nil, errors.New("not a geopackage geometry blob")
	}
	flags := blob[3]
	if flags&(1<<4) != 0 { // empty geometry flag
		return nil, nil
	}
	var envSize int
	switch (flags >> 1) & 0x7 {
	case 0:
		envSize = 0
	case 1:
		envSize = 32
	case 2, 3:
		envSize = 48
	case 4:
		envSize = 64
	default:
		return nil, errors.New("invalid envelope contents indicator")
	}
	headerSize := 8 + envSize
	if len(blob) < headerSize {
		return nil, errors.New("truncated geometry header")
	}
	return wkb.Unmarshal(blob[headerSize:])
}

func columnValue(v any) any {
	switch v := v.(type) {
	case nil:
		return nil
	case []byte:
		return string(v)
	default:
		return v
	}
}

// gpkgHeader builds the binary header prepended to a WKB payload,
// used when writing fixtures. Little-endian, no envelope.
func gpkgHeader(srsID int32) []byte {
	header := []byte{'G', 'P', 0, 0x01, 0, 0, 0, 0}
	binary.LittleEndian.PutUint32(header[4:], uint32(srsID))
	return header
}
