package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// DefaultQuakeFeedURL is the USGS summary feed of magnitude 2.5+ quakes from the past week.
const DefaultQuakeFeedURL = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/2.5_week.geojson"

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Input data. QuakeFeedURL may also be a local file path.
	QuakeFeedURL     string
	QuakeFeedTimeout time.Duration
	CityFile         string
	CountryFile      string
	LoadMaxAttempts  int

	// Console report. A ReportSize of 0 reports as many quakes as there are cities.
	ReportSize   int
	CountryTally bool

	LocatorCacheSize int

	// Optional sink for classified quakes.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	feedTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("QUAKE_FEED_TIMEOUT", "10s"))
	if err != nil || feedTimeout <= 0 {
		return nil, errors.New("invalid QUAKE_FEED_TIMEOUT")
	}

	reportSize, err := parseNonNegativeInt("REPORT_SIZE", 0)
	if err != nil {
		return nil, err
	}
	maxAttempts, err := parseNonNegativeInt("LOAD_MAX_ATTEMPTS", 5)
	if err != nil {
		return nil, err
	}
	if maxAttempts == 0 {
		return nil, errors.New("invalid LOAD_MAX_ATTEMPTS: must be at least 1")
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		QuakeFeedURL:     sharedcfg.EnvOrDefault("QUAKE_FEED_URL", DefaultQuakeFeedURL),
		QuakeFeedTimeout: feedTimeout,
		CityFile:         sharedcfg.EnvOrDefault("CITY_FILE", "data/city-data.json"),
		CountryFile:      sharedcfg.EnvOrDefault("COUNTRY_FILE", "data/countries.geo.json"),
		LoadMaxAttempts:  maxAttempts,

		ReportSize:   reportSize,
		CountryTally: os.Getenv("COUNTRY_TALLY") == "true",

		LocatorCacheSize: parseLocatorCacheSize(),

		KafkaEnabled: os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "classified-earthquakes"),
	}

	if cfg.CityFile == "" {
		return nil, errors.New("CITY_FILE is required")
	}
	if cfg.CountryFile == "" {
		return nil, errors.New("COUNTRY_FILE is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_TOPIC is empty")
	}

	return cfg, nil
}

func parseNonNegativeInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.New("invalid " + key + ": must be a non-negative integer")
	}
	return n, nil
}

func parseLocatorCacheSize() int {
	if s := os.Getenv("LOCATOR_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
