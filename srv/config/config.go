// Package config loads service settings from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"carte.exe.dev/srv/carte"
)

// Config holds all service settings, populated from environment
// variables with sensible defaults.
type Config struct {
	HTTPAddr string

	// Zone layer fetch.
	ZonesURL         string
	ZonesTimeout     time.Duration
	ZonesInsecureTLS bool

	// Local itinerary layer.
	ItineraryPath string

	// Map composition.
	CenterMode   carte.CenterMode
	CenterLat    float64
	CenterLon    float64
	Zoom         int
	LegendMode   carte.LegendMode
	LayerControl bool
	MapWidth     int
	MapHeight    int

	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables, applying
// defaults where unset.
func Load() (*Config, error) {
	opts := carte.DefaultOptions()

	timeout, err := parseDuration("ZONES_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	centerLat, err := parseFloat("MAP_CENTER_LAT", opts.CenterLat)
	if err != nil {
		return nil, err
	}
	centerLon, err := parseFloat("MAP_CENTER_LON", opts.CenterLon)
	if err != nil {
		return nil, err
	}
	zoom, err := parseInt("MAP_ZOOM", opts.Zoom)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:         envOrDefault("HTTP_ADDR", ":8000"),
		ZonesURL:         envOrDefault("ZONES_URL", ""),
		ZonesTimeout:     timeout,
		ZonesInsecureTLS: os.Getenv("ZONES_INSECURE_TLS") == "true",
		ItineraryPath:    envOrDefault("ITINERARY_PATH", "donnees/Export_Itineraire_COP.gpkg"),
		CenterMode:       carte.CenterMode(envOrDefault("MAP_CENTER_MODE", string(carte.FitBounds))),
		CenterLat:        centerLat,
		CenterLon:        centerLon,
		Zoom:             zoom,
		LegendMode:       carte.LegendMode(envOrDefault("LEGEND_MODE", string(carte.LegendHTML))),
		LayerControl:     os.Getenv("LAYER_CONTROL") == "true",
		MapWidth:         opts.Width,
		MapHeight:        opts.Height,
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		LogFormat:        envOrDefault("LOG_FORMAT", "text"),
	}

	switch cfg.CenterMode {
	case carte.FitBounds, carte.ManualCenter:
	default:
		return nil, fmt.Errorf("invalid MAP_CENTER_MODE %q", cfg.CenterMode)
	}
	switch cfg.LegendMode {
	case carte.LegendNone, carte.LegendHTML, carte.LegendDraggable:
	default:
		return nil, fmt.Errorf("invalid LEGEND_MODE %q", cfg.LegendMode)
	}
	if cfg.ItineraryPath == "" {
		return nil, errors.New("ITINERARY_PATH is required")
	}

	return cfg, nil
}

// MapOptions translates the configuration into composer options.
func (c *Config) MapOptions() carte.Options {
	return carte.Options{
		CenterMode:   c.CenterMode,
		CenterLat:    c.CenterLat,
		CenterLon:    c.CenterLon,
		Zoom:         c.Zoom,
		Legend:       c.LegendMode,
		LayerControl: c.LayerControl,
		Width:        c.MapWidth,
		Height:       c.MapHeight,
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return d, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return f, nil
}

func parseInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return n, nil
}
