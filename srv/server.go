// Package srv hosts the drought zone map dashboard: it wires the zone
// fetcher, the local itinerary layer and the map composer behind an
// HTTP server.
package srv

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"carte.exe.dev/srv/config"
	"carte.exe.dev/srv/layers"
	"carte.exe.dev/srv/observability"
	"carte.exe.dev/srv/zones"
)

type Server struct {
	Config       *config.Config
	Zones        *zones.Client
	Layers       *layers.Store
	Metrics      *observability.Metrics
	Clock        clockwork.Clock
	TemplatesDir string

	logger *slog.Logger

	mu              sync.Mutex
	lastInteraction *Interaction
}

type pageData struct {
	Heading string
	Width   int
	Height  int
}

func New(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Server {
	_, thisFile, _, _ := runtime.Caller(0)
	baseDir := filepath.Dir(thisFile)

	store := layers.NewStore()
	store.OnLookup = func(hit bool) {
		result := "miss"
		if hit {
			result = "hit"
		}
		metrics.LayerCache.WithLabelValues(result).Inc()
	}

	return &Server{
		Config: cfg,
		Zones: zones.NewClient(zones.Options{
			URL:         cfg.ZonesURL,
			Timeout:     cfg.ZonesTimeout,
			InsecureTLS: cfg.ZonesInsecureTLS,
		}, logger),
		Layers:       store,
		Metrics:      metrics,
		Clock:        clockwork.NewRealClock(),
		TemplatesDir: filepath.Join(baseDir, "templates"),
		logger:       logger,
	}
}

// HandleRoot serves the dashboard page embedding the map.
func (s *Server) HandleRoot(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		Heading: "Zones d'arrêtés sécheresse en vigueur",
		Width:   s.Config.MapWidth,
		Height:  s.Config.MapHeight,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderTemplate(w, "dashboard.html", data); err != nil {
		s.logger.Warn("render template", "url", r.URL.Path, "error", err)
	}
}

func (s *Server) renderTemplate(w http.ResponseWriter, name string, data any) error {
	path := filepath.Join(s.TemplatesDir, name)
	tmpl, err := template.ParseFiles(path)
	if err != nil {
		return fmt.Errorf("parse template %q: %w", name, err)
	}
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("execute template %q: %w", name, err)
	}
	return nil
}

// Serve starts the HTTP server with the configured routes.
func (s *Server) Serve(addr string) error {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.HandleRoot)
	mux.HandleFunc("GET /carte", s.HandleCarte)

	// API routes
	mux.HandleFunc("GET /api/zones", s.HandleAPIZones)
	mux.HandleFunc("GET /api/itineraire", s.HandleAPIItineraire)
	mux.HandleFunc("GET /api/interaction", s.HandleGetInteraction)
	mux.HandleFunc("POST /api/interaction", s.HandlePostInteraction)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	s.logger.Info("starting server", "addr", addr)
	return http.ListenAndServe(addr, mux)
}
