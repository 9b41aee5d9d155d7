// Package proj reprojects feature collections between the coordinate
// reference systems used by the zone and itinerary layers.
package proj

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/wroge/wgs84"
)

// WGS84 is the EPSG code of the common geographic reference system all
// layers are normalized to before composition.
const WGS84 = 4326

// ErrUnsupportedCRS reports a reference system the transform table does
// not cover. A layer without a resolvable CRS cannot be rendered.
var ErrUnsupportedCRS = errors.New("unsupported coordinate reference system")

// FeatureCollection returns a copy of fc with every geometry reprojected
// from the `from` EPSG code into the `to` code. When from == to the
// input is returned as is; reprojection is idempotent.
func FeatureCollection(fc *geojson.FeatureCollection, from, to int) (*geojson.FeatureCollection, error) {
	if from == to {
		return fc, nil
	}

	epsg := wgs84.EPSG()
	src := epsg.Code(from)
	if src == nil {
		return nil, fmt.Errorf("%w: EPSG:%d", ErrUnsupportedCRS, from)
	}
	dst := epsg.Code(to)
	if dst == nil {
		return nil, fmt.Errorf("%w: EPSG:%d", ErrUnsupportedCRS, to)
	}
	transform := wgs84.Transform(src, dst)

	out := geojson.NewFeatureCollection()
	for _, f := range fc.Features {
		nf := geojson.NewFeature(Geometry(f.Geometry, transform))
		nf.ID = f.ID
		for k, v := range f.Properties {
			nf.Properties[k] = v
		}
		out.Append(nf)
	}
	return out, nil
}

// Geometry applies a coordinate transform to every position of g,
// returning a new geometry of the same type.
func Geometry(g orb.Geometry, transform wgs84.Func) orb.Geometry {
	switch g := g.(type) {
	case orb.Point:
		return point(g, transform)
	case orb.MultiPoint:
		out := make(orb.MultiPoint, len(g))
		for i, p := range g {
			out[i] = point(p, transform)
		}
		return out
	case orb.LineString:
		out := make(orb.LineString, len(g))
		for i, p := range g {
			out[i] = point(p, transform)
		}
		return out
	case orb.MultiLineString:
		out := make(orb.MultiLineString, len(g))
		for i, ls := range g {
			out[i] = Geometry(ls, transform).(orb.LineString)
		}
		return out
	case orb.Ring:
		out := make(orb.Ring, len(g))
		for i, p := range g {
			out[i] = point(p, transform)
		}
		return out
	case orb.Polygon:
		out := make(orb.Polygon, len(g))
		for i, r := range g {
			out[i] = Geometry(r, transform).(orb.Ring)
		}
		return out
	case orb.MultiPolygon:
		out := make(orb.MultiPolygon, len(g))
		for i, p := range g {
			out[i] = Geometry(p, transform).(orb.Polygon)
		}
		return out
	case orb.Collection:
		out := make(orb.Collection, len(g))
		for i, c := range g {
			out[i] = Geometry(c, transform)
		}
		return out
	case orb.Bound:
		return orb.Bound{
			Min: point(g.Min, transform),
			Max: point(g.Max, transform),
		}
	}
	return g
}

func point(p orb.Point, transform wgs84.Func) orb.Point {
	x, y, _ := transform(p[0], p[1], 0)
	return orb.Point{x, y}
}

// ParseCRSName resolves a legacy GeoJSON crs name to an EPSG code.
// Accepted forms: "EPSG:2154", "urn:ogc:def:crs:EPSG::2154" and the
// RFC 7946 alias "urn:ogc:def:crs:OGC:1.3:CRS84".
func ParseCRSName(name string) (int, bool) {
	if name == "urn:ogc:def:crs:OGC:1.3:CRS84" {
		return WGS84, true
	}
	rest, found := cutCRSPrefix(name)
	if !found {
		return 0, false
	}
	code, err := strconv.Atoi(rest)
	if err != nil || code <= 0 {
		return 0, false
	}
	return code, true
}

func cutCRSPrefix(name string) (string, bool) {
	for _, prefix := range []string{"EPSG:", "urn:ogc:def:crs:EPSG::", "urn:ogc:def:crs:EPSG:"} {
		if rest, ok := strings.CutPrefix(name, prefix); ok {
			return strings.TrimPrefix(rest, ":"), true
		}
	}
	return "", false
}
