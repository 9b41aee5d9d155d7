package main

import (
	"flag"
	"fmt"
	"os"

	"carte.exe.dev/srv"
	"carte.exe.dev/srv/config"
	"carte.exe.dev/srv/observability"
)

var flagListenAddr = flag.String("listen", "", "address to listen on (overrides HTTP_ADDR)")
var flagItinerary = flag.String("itineraire", "", "path to the itinerary layer file (overrides ITINERARY_PATH)")

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *flagListenAddr != "" {
		cfg.HTTPAddr = *flagListenAddr
	}
	if *flagItinerary != "" {
		cfg.ItineraryPath = *flagItinerary
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	server := srv.New(cfg, logger, metrics)
	return server.Serve(cfg.HTTPAddr)
}
