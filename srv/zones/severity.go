package zones

import "github.com/paulmach/orb/geojson"

// Severity levels in ascending order. The order is shared with the map
// legend and must not change independently of it.
var Levels = []string{"vigilance", "alerte", "alerte renforcée", "crise"}

var levelColors = map[string]string{
	"vigilance":        "#ffeda0",
	"alerte":           "#feb24c",
	"alerte renforcée": "#fc4e2a",
	"crise":            "#b10026",
}

// ColorFor returns the display color for a severity level. ok is false
// for values outside the published vocabulary; callers must render
// those with a neutral style rather than fail.
func ColorFor(level string) (color string, ok bool) {
	color, ok = levelColors[level]
	return color, ok
}

// Colorize derives the couleur property from niveauGravite on every
// feature of the collection. Features with an unknown severity are left
// without a couleur.
func Colorize(fc *geojson.FeatureCollection) {
	for _, f := range fc.Features {
		level, _ := f.Properties["niveauGravite"].(string)
		if color, ok := ColorFor(level); ok {
			f.Properties["couleur"] = color
		}
	}
}
