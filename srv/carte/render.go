package carte

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"github.com/paulmach/orb/geojson"
)

//go:embed carte.html.tmpl
var templateFS embed.FS

var carteTemplate = template.Must(template.New("carte.html.tmpl").
	Funcs(template.FuncMap{
		"geojson":      marshalCollection,
		"neutralColor": func() string { return NeutralColor },
	}).
	ParseFS(templateFS, "carte.html.tmpl"))

// Render writes the map as a standalone HTML document.
func (c *Carte) Render(w io.Writer) error {
	if err := carteTemplate.Execute(w, c); err != nil {
		return fmt.Errorf("render carte: %w", err)
	}
	return nil
}

func marshalCollection(fc *geojson.FeatureCollection) (template.JS, error) {
	if fc == nil {
		return template.JS(`{"type":"FeatureCollection","features":[]}`), nil
	}
	data, err := json.Marshal(fc)
	if err != nil {
		return "", err
	}
	return template.JS(data), nil
}
