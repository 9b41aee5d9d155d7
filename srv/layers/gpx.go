package layers

import (
	"encoding/xml"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"carte.exe.dev/srv/proj"
)

// GPX XML structures for parsing
type gpxFile struct {
	XMLName  xml.Name   `xml:"gpx"`
	Metadata gpxMeta    `xml:"metadata"`
	Tracks   []gpxTrack `xml:"trk"`
	Routes   []gpxRoute `xml:"rte"`
}

type gpxMeta struct {
	Name string `xml:"name"`
}

type gpxTrack struct {
	Name     string       `xml:"name"`
	Segments []gpxSegment `xml:"trkseg"`
}

type gpxSegment struct {
	Points []gpxPoint `xml:"trkpt"`
}

type gpxRoute struct {
	Name   string     `xml:"name"`
	Points []gpxPoint `xml:"rtept"`
}

type gpxPoint struct {
	Lat float64 `xml:"lat,attr"`
	Lon float64 `xml:"lon,attr"`
}

// readGPX parses a GPX file into one line feature per track or route.
// GPX coordinates are always WGS 84.
func readGPX(path string) (*Layer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var gpx gpxFile
	if err := xml.NewDecoder(f).Decode(&gpx); err != nil {
		return nil, fmt.Errorf("parse gpx %s: %w", path, err)
	}

	fc := geojson.NewFeatureCollection()
	for _, trk := range gpx.Tracks {
		var line orb.LineString
		for _, seg := range trk.Segments {
			for _, pt := range seg.Points {
				line = append(line, orb.Point{pt.Lon, pt.Lat})
			}
		}
		appendLine(fc, line, trk.Name, gpx.Metadata.Name)
	}
	for _, rte := range gpx.Routes {
		var line orb.LineString
		for _, pt := range rte.Points {
			line = append(line, orb.Point{pt.Lon, pt.Lat})
		}
		appendLine(fc, line, rte.Name, gpx.Metadata.Name)
	}

	return &Layer{FC: fc, EPSG: proj.WGS84}, nil
}

func appendLine(fc *geojson.FeatureCollection, line orb.LineString, name, fallback string) {
	if len(line) == 0 {
		return
	}
	if name == "" {
		name = fallback
	}
	f := geojson.NewFeature(line)
	if name != "" {
		f.Properties["name"] = name
	}
	fc.Append(f)
}
