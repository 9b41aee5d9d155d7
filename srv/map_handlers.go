package srv

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/paulmach/orb/geojson"

	"carte.exe.dev/srv/carte"
	"carte.exe.dev/srv/proj"
	"carte.exe.dev/srv/zones"
)

// fetchZones retrieves, filters and colors the surface-water zones,
// normalized to WGS 84.
func (s *Server) fetchZones(ctx context.Context) (*geojson.FeatureCollection, error) {
	start := time.Now()
	fc, epsg, err := s.Zones.Fetch(ctx)
	s.Metrics.ZoneFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.Metrics.ZoneFetches.WithLabelValues("error").Inc()
		return nil, err
	}
	s.Metrics.ZoneFetches.WithLabelValues("success").Inc()

	sup := zones.FilterSUP(fc)
	sup, err = proj.FeatureCollection(sup, epsg, proj.WGS84)
	if err != nil {
		return nil, err
	}
	zones.Colorize(sup)
	s.Metrics.ZoneFeatures.Set(float64(len(sup.Features)))
	return sup, nil
}

// fetchItinerary reads the local itinerary layer, normalized to WGS 84.
func (s *Server) fetchItinerary() (*geojson.FeatureCollection, error) {
	layer, err := s.Layers.Layer(s.Config.ItineraryPath)
	if err != nil {
		return nil, err
	}
	return proj.FeatureCollection(layer.FC, layer.EPSG, proj.WGS84)
}

// composeCarte runs the full fetch-read-reproject-compose cycle. Any
// failure aborts the render; no partial map is produced.
func (s *Server) composeCarte(ctx context.Context) (*carte.Carte, error) {
	start := time.Now()
	defer func() {
		s.Metrics.ComposeDuration.Observe(time.Since(start).Seconds())
	}()

	itineraire, err := s.fetchItinerary()
	if err != nil {
		return nil, err
	}
	sup, err := s.fetchZones(ctx)
	if err != nil {
		return nil, err
	}

	return carte.Compose(itineraire, sup, s.Config.MapOptions(), s.Clock), nil
}

// HandleCarte serves the composed map as a standalone document.
func (s *Server) HandleCarte(w http.ResponseWriter, r *http.Request) {
	c, err := s.composeCarte(r.Context())
	if err != nil {
		s.logger.Error("compose carte", "error", err)
		http.Error(w, "Données sécheresse indisponibles, réessayez plus tard.",
			http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(w); err != nil {
		s.logger.Warn("render carte", "error", err)
	}
}

// HandleAPIZones serves the filtered, colored zone layer as GeoJSON.
func (s *Server) HandleAPIZones(w http.ResponseWriter, r *http.Request) {
	sup, err := s.fetchZones(r.Context())
	if err != nil {
		s.logger.Error("fetch zones", "error", err)
		http.Error(w, "zone data unavailable", http.StatusServiceUnavailable)
		return
	}
	writeGeoJSON(w, sup)
}

// HandleAPIItineraire serves the itinerary layer as GeoJSON.
func (s *Server) HandleAPIItineraire(w http.ResponseWriter, r *http.Request) {
	itineraire, err := s.fetchItinerary()
	if err != nil {
		s.logger.Error("read itinerary", "error", err)
		http.Error(w, "itinerary layer unavailable", http.StatusInternalServerError)
		return
	}
	writeGeoJSON(w, itineraire)
}

func writeGeoJSON(w http.ResponseWriter, fc *geojson.FeatureCollection) {
	w.Header().Set("Content-Type", "application/geo+json")
	json.NewEncoder(w).Encode(fc)
}

// Interaction is the latest map interaction reported by the page:
// the last click position and the visible bounds, both lat/lon pairs.
type Interaction struct {
	Click  []float64   `json:"click,omitempty"`
	Bounds [][]float64 `json:"bounds,omitempty"`
	At     time.Time   `json:"at"`
}

// HandlePostInteraction records the interaction state the map page
// reports on clicks and moves.
func (s *Server) HandlePostInteraction(w http.ResponseWriter, r *http.Request) {
	var in Interaction
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid interaction payload", http.StatusBadRequest)
		return
	}
	in.At = s.Clock.Now()

	s.mu.Lock()
	s.lastInteraction = &in
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

// HandleGetInteraction returns the last recorded interaction, or 204
// when none happened yet.
func (s *Server) HandleGetInteraction(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	in := s.lastInteraction
	s.mu.Unlock()

	if in == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(in)
}
