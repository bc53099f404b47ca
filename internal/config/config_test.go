package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, DefaultQuakeFeedURL, cfg.QuakeFeedURL)
	assert.Equal(t, 10*time.Second, cfg.QuakeFeedTimeout)
	assert.Equal(t, "data/city-data.json", cfg.CityFile)
	assert.Equal(t, "data/countries.geo.json", cfg.CountryFile)
	assert.Equal(t, 5, cfg.LoadMaxAttempts)
	assert.Equal(t, 0, cfg.ReportSize)
	assert.False(t, cfg.CountryTally)
	assert.Equal(t, 1000, cfg.LocatorCacheSize)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "classified-earthquakes", cfg.KafkaTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("QUAKE_FEED_URL", "testdata/quakes.geojson")
	t.Setenv("QUAKE_FEED_TIMEOUT", "3s")
	t.Setenv("CITY_FILE", "cities.json")
	t.Setenv("COUNTRY_FILE", "countries.json")
	t.Setenv("LOAD_MAX_ATTEMPTS", "2")
	t.Setenv("REPORT_SIZE", "10")
	t.Setenv("COUNTRY_TALLY", "true")
	t.Setenv("LOCATOR_CACHE_SIZE", "50")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "quakes")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "testdata/quakes.geojson", cfg.QuakeFeedURL)
	assert.Equal(t, 3*time.Second, cfg.QuakeFeedTimeout)
	assert.Equal(t, "cities.json", cfg.CityFile)
	assert.Equal(t, "countries.json", cfg.CountryFile)
	assert.Equal(t, 2, cfg.LoadMaxAttempts)
	assert.Equal(t, 10, cfg.ReportSize)
	assert.True(t, cfg.CountryTally)
	assert.Equal(t, 50, cfg.LocatorCacheSize)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "quakes", cfg.KafkaTopic)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"QUAKE_FEED_TIMEOUT", "bad"},
		{"QUAKE_FEED_TIMEOUT", "-1s"},
		{"REPORT_SIZE", "many"},
		{"REPORT_SIZE", "-3"},
		{"LOAD_MAX_ATTEMPTS", "0"},
		{"LOAD_MAX_ATTEMPTS", "x"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_InvalidCacheSizeFallsBack(t *testing.T) {
	t.Setenv("LOCATOR_CACHE_SIZE", "-1")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.LocatorCacheSize)
}
