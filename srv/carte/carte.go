// Package carte composes the drought map: the itinerary and zone
// layers, a severity legend and a dated title, rendered as a Leaflet
// page.
package carte

import (
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"carte.exe.dev/srv/zones"
)

// CenterMode selects how the initial map extent is chosen.
type CenterMode string

const (
	// FitBounds fits the view to the itinerary layer's bounding box.
	FitBounds CenterMode = "fit"
	// ManualCenter uses a fixed center point and zoom level.
	ManualCenter CenterMode = "manual"
)

// LegendMode selects how the severity legend is rendered. The source
// dashboards experimented with several strategies; they are options of
// one composer here.
type LegendMode string

const (
	LegendNone      LegendMode = "none"
	LegendHTML      LegendMode = "html"
	LegendDraggable LegendMode = "draggable"
)

// NeutralColor styles zone features whose severity is outside the
// published vocabulary.
const NeutralColor = "#999999"

const (
	tileURL         = "https://tile.openstreetmap.org/{z}/{x}/{y}.png"
	tileAttribution = `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`

	itineraryColor  = "#0000ff"
	itineraryWeight = 2
	zoneWeight      = 2
)

// Options configures map composition.
type Options struct {
	CenterMode   CenterMode
	CenterLat    float64
	CenterLon    float64
	Zoom         int
	Legend       LegendMode
	LayerControl bool
	Width        int
	Height       int
}

// DefaultOptions fits the view to the itinerary and embeds the legend,
// in a 700 by 700 pixel box over metropolitan France.
func DefaultOptions() Options {
	return Options{
		CenterMode: FitBounds,
		CenterLat:  46.463,
		CenterLon:  2.661,
		Zoom:       6,
		Legend:     LegendHTML,
		Width:      700,
		Height:     700,
	}
}

// LegendEntry is one severity swatch of the legend, in display order.
type LegendEntry struct {
	Label string
	Color string
}

// Layer is one styled feature layer of the composed map. A layer with
// an empty Stroke is styled per feature from the couleur property.
type Layer struct {
	Name   string
	FC     *geojson.FeatureCollection
	Stroke string
	Weight int
}

// Carte is the composed map, ready to render. It is rebuilt on every
// page load and never persisted.
type Carte struct {
	PageTitle string
	Title     string

	TileURL         string
	TileAttribution string

	FitToBounds bool
	Bounds      orb.Bound
	CenterLat   float64
	CenterLon   float64
	Zoom        int

	Layers []Layer

	Legend        LegendMode
	LegendTitle   string
	LegendEntries []LegendEntry

	LayerControl bool
	Width        int
	Height       int
}

// Compose builds the map from the itinerary and the colored zone
// collection, both already normalized to the same reference system.
// Either collection may be empty; an empty layer still renders.
func Compose(itineraire, zonesFC *geojson.FeatureCollection, opts Options, clock clockwork.Clock) *Carte {
	c := &Carte{
		PageTitle: "Zones d'arrêtés sécheresse en vigueur",
		Title: fmt.Sprintf("Zones d'arrêtés sécheresse en date du %s",
			clock.Now().Format("02/01/2006")),
		TileURL:         tileURL,
		TileAttribution: tileAttribution,
		CenterLat:       opts.CenterLat,
		CenterLon:       opts.CenterLon,
		Zoom:            opts.Zoom,
		Legend:          opts.Legend,
		LegendTitle:     "Niveau de gravité",
		LayerControl:    opts.LayerControl,
		Width:           opts.Width,
		Height:          opts.Height,
		Layers: []Layer{
			{
				Name:   "Zones d'arrêtés sécheresse",
				FC:     zonesFC,
				Weight: zoneWeight,
			},
			{
				Name:   "Itinéraire COP",
				FC:     itineraire,
				Stroke: itineraryColor,
				Weight: itineraryWeight,
			},
		},
	}

	if bound, ok := collectionBound(itineraire); ok && opts.CenterMode == FitBounds {
		c.FitToBounds = true
		c.Bounds = bound
	}

	for _, level := range zones.Levels {
		color, _ := zones.ColorFor(level)
		c.LegendEntries = append(c.LegendEntries, LegendEntry{Label: level, Color: color})
	}
	if hasUncoloredFeature(zonesFC) {
		c.LegendEntries = append(c.LegendEntries, LegendEntry{Label: "autre", Color: NeutralColor})
	}

	return c
}

// collectionBound unions the bounding boxes of all features. ok is
// false for an empty collection, which has no meaningful extent.
func collectionBound(fc *geojson.FeatureCollection) (orb.Bound, bool) {
	var bound orb.Bound
	found := false
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		b := f.Geometry.Bound()
		if !found {
			bound = b
			found = true
			continue
		}
		bound = bound.Union(b)
	}
	return bound, found
}

func hasUncoloredFeature(fc *geojson.FeatureCollection) bool {
	for _, f := range fc.Features {
		if _, ok := f.Properties["couleur"].(string); !ok {
			return true
		}
	}
	return false
}

// LegendIsHTML reports whether the fixed-corner legend is rendered.
func (c *Carte) LegendIsHTML() bool { return c.Legend == LegendHTML }

// LegendIsDraggable reports whether the draggable legend is rendered.
func (c *Carte) LegendIsDraggable() bool { return c.Legend == LegendDraggable }
