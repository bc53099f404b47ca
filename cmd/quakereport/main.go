// Command quakereport loads the earthquake, city, and country inputs once and
// prints the magnitude ranking and, optionally, the per-country quake tally.
//
// Usage:
//
//	go run ./cmd/quakereport \
//	  -quakes https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/2.5_week.geojson \
//	  -cities data/city-data.json \
//	  -countries data/countries.geo.json \
//	  -top 10 -tally
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/quake-threat-map/internal/adapter/geojson"
	"github.com/couchcryptid/quake-threat-map/internal/adapter/usgs"
	"github.com/couchcryptid/quake-threat-map/internal/config"
	"github.com/couchcryptid/quake-threat-map/internal/observability"
	"github.com/couchcryptid/quake-threat-map/internal/pipeline"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	quakes := flag.String("quakes", config.DefaultQuakeFeedURL, "earthquake GeoJSON feed URL or file")
	cities := flag.String("cities", "data/city-data.json", "city GeoJSON file")
	countries := flag.String("countries", "data/countries.geo.json", "country outline GeoJSON file")
	top := flag.Int("top", 0, "number of quakes to list; 0 lists one per city")
	tally := flag.Bool("tally", false, "print the per-country quake tally")
	timeout := flag.Duration("timeout", 10*time.Second, "feed request timeout")
	attempts := flag.Int("attempts", 3, "feed fetch attempts")
	verbose := flag.Bool("v", false, "log load progress to stderr")
	flag.Parse()

	if *top < 0 {
		flag.Usage()
		return fmt.Errorf("-top must be non-negative")
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if *verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	files := geojson.Files{Quakes: *quakes, Cities: *cities, Countries: *countries}
	var quakeSrc pipeline.QuakeSource = files
	if strings.HasPrefix(*quakes, "http://") || strings.HasPrefix(*quakes, "https://") {
		quakeSrc = usgs.NewClient(*quakes, *timeout, logger)
	}

	loader := pipeline.New(pipeline.Sources{Quakes: quakeSrc, Cities: files, Countries: files},
		nil, nil, logger, observability.NewMetrics(), *attempts)

	res, err := loader.Run(context.Background())
	if err != nil {
		return err
	}

	n := pipeline.ReportSize(*top, len(res.Markers.Cities))
	return pipeline.WriteReport(os.Stdout, res.Markers, res.Boundaries, n, *tally)
}
