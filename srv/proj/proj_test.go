package proj

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func lineCollection(points ...orb.Point) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	f := geojson.NewFeature(orb.LineString(points))
	f.Properties["name"] = "itinéraire"
	fc.Append(f)
	return fc
}

func TestSameCRSIsNoOp(t *testing.T) {
	fc := lineCollection(orb.Point{2, 45}, orb.Point{3, 46})

	out, err := FeatureCollection(fc, WGS84, WGS84)
	if err != nil {
		t.Fatalf("FeatureCollection failed: %v", err)
	}
	if out != fc {
		t.Error("expected the input collection back when from == to")
	}
}

func TestReprojectIsIdempotent(t *testing.T) {
	// Lambert-93 coordinates near the projection origin.
	fc := lineCollection(orb.Point{700000, 6600000}, orb.Point{710000, 6610000})

	first, err := FeatureCollection(fc, 2154, WGS84)
	if err != nil {
		t.Fatalf("reproject to WGS84 failed: %v", err)
	}
	second, err := FeatureCollection(first, WGS84, WGS84)
	if err != nil {
		t.Fatalf("second reproject failed: %v", err)
	}

	a := first.Features[0].Geometry.(orb.LineString)
	b := second.Features[0].Geometry.(orb.LineString)
	for i := range a {
		if math.Abs(a[i][0]-b[i][0]) > 1e-9 || math.Abs(a[i][1]-b[i][1]) > 1e-9 {
			t.Errorf("point %d moved on re-reprojection: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestLambert93ToWGS84(t *testing.T) {
	// The Lambert-93 false origin (700000, 6600000) sits at 3°E on the
	// latitude of origin.
	fc := lineCollection(orb.Point{700000, 6600000})

	out, err := FeatureCollection(fc, 2154, WGS84)
	if err != nil {
		t.Fatalf("FeatureCollection failed: %v", err)
	}

	p := out.Features[0].Geometry.(orb.LineString)[0]
	if math.Abs(p[0]-3.0) > 0.05 {
		t.Errorf("longitude = %f, want ~3.0", p[0])
	}
	if math.Abs(p[1]-46.5) > 0.05 {
		t.Errorf("latitude = %f, want ~46.5", p[1])
	}
}

func TestRoundTrip(t *testing.T) {
	fc := lineCollection(orb.Point{2.3522, 48.8566}) // Paris

	forward, err := FeatureCollection(fc, WGS84, 2154)
	if err != nil {
		t.Fatalf("to Lambert-93 failed: %v", err)
	}
	back, err := FeatureCollection(forward, 2154, WGS84)
	if err != nil {
		t.Fatalf("back to WGS84 failed: %v", err)
	}

	p := back.Features[0].Geometry.(orb.LineString)[0]
	if math.Abs(p[0]-2.3522) > 1e-6 || math.Abs(p[1]-48.8566) > 1e-6 {
		t.Errorf("round trip moved the point: got %v", p)
	}
}

func TestPropertiesSurviveReprojection(t *testing.T) {
	fc := lineCollection(orb.Point{700000, 6600000})

	out, err := FeatureCollection(fc, 2154, WGS84)
	if err != nil {
		t.Fatalf("FeatureCollection failed: %v", err)
	}
	if got := out.Features[0].Properties["name"]; got != "itinéraire" {
		t.Errorf("name property = %v, want itinéraire", got)
	}
}

func TestUnsupportedCRS(t *testing.T) {
	fc := lineCollection(orb.Point{0, 0})

	_, err := FeatureCollection(fc, 999999, WGS84)
	if !errors.Is(err, ErrUnsupportedCRS) {
		t.Errorf("expected ErrUnsupportedCRS, got: %v", err)
	}
}

func TestParseCRSName(t *testing.T) {
	tests := []struct {
		name string
		code int
		ok   bool
	}{
		{"EPSG:2154", 2154, true},
		{"urn:ogc:def:crs:EPSG::2154", 2154, true},
		{"urn:ogc:def:crs:EPSG::4326", 4326, true},
		{"urn:ogc:def:crs:OGC:1.3:CRS84", 4326, true},
		{"IGNF:LAMB93", 0, false},
		{"EPSG:", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		code, ok := ParseCRSName(tt.name)
		if code != tt.code || ok != tt.ok {
			t.Errorf("ParseCRSName(%q) = (%d, %v), want (%d, %v)", tt.name, code, ok, tt.code, tt.ok)
		}
	}
}
