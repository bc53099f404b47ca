package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the map service.
type Metrics struct {
	// Load metrics.
	QuakesLoaded    *prometheus.CounterVec // labels: kind={land_quake,ocean_quake}
	CitiesLoaded    prometheus.Counter
	CountriesLoaded prometheus.Counter
	LoadDuration    prometheus.Histogram
	FeedFetchErrors prometheus.Counter
	LocatorCache    *prometheus.CounterVec // labels: result={hit,miss}
	Ready           prometheus.Gauge

	// Publishing metrics.
	QuakesPublished prometheus.Counter
	PublishErrors   prometheus.Counter

	// Interaction metrics.
	PointerMoves prometheus.Counter
	Clicks       *prometheus.CounterVec // labels: outcome={quake,city,city_group,empty,dismiss}
	ClickLocked  prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		QuakesLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "quakes_loaded_total",
			Help:      "Earthquake markers built at load, by kind.",
		}, []string{"kind"}),
		CitiesLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "cities_loaded_total",
			Help:      "City markers built at load.",
		}),
		CountriesLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "countries_loaded_total",
			Help:      "Country boundaries loaded for land/ocean classification.",
		}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_map",
			Name:      "load_duration_seconds",
			Help:      "Duration of the startup load and classification.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		FeedFetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "feed_fetch_errors_total",
			Help:      "Failed earthquake feed fetch attempts.",
		}),
		LocatorCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "locator_cache_total",
			Help:      "Country locator cache lookups by result.",
		}, []string{"result"}),
		Ready: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_map",
			Name:      "ready",
			Help:      "1 once markers are loaded, 0 before.",
		}),
		QuakesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "quakes_published_total",
			Help:      "Classified earthquakes written to the sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "publish_errors_total",
			Help:      "Failed publish batches.",
		}),
		PointerMoves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "pointer_moves_total",
			Help:      "Pointer-move events applied to the session.",
		}),
		Clicks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_map",
			Name:      "clicks_total",
			Help:      "Pointer-click events by outcome.",
		}, []string{"outcome"}),
		ClickLocked: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_map",
			Name:      "click_locked",
			Help:      "1 while an inspection mode is active, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.QuakesLoaded,
		m.CitiesLoaded,
		m.CountriesLoaded,
		m.LoadDuration,
		m.FeedFetchErrors,
		m.LocatorCache,
		m.Ready,
		m.QuakesPublished,
		m.PublishErrors,
		m.PointerMoves,
		m.Clicks,
		m.ClickLocked,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		QuakesLoaded:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "quake_map", Name: "quakes_loaded_total"}, []string{"kind"}),
		CitiesLoaded:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_map", Name: "cities_loaded_total"}),
		CountriesLoaded: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_map", Name: "countries_loaded_total"}),
		LoadDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "quake_map", Name: "load_duration_seconds"}),
		FeedFetchErrors: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_map", Name: "feed_fetch_errors_total"}),
		LocatorCache:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "quake_map", Name: "locator_cache_total"}, []string{"result"}),
		Ready:           prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "quake_map", Name: "ready"}),
		QuakesPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_map", Name: "quakes_published_total"}),
		PublishErrors:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_map", Name: "publish_errors_total"}),
		PointerMoves:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_map", Name: "pointer_moves_total"}),
		Clicks:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "quake_map", Name: "clicks_total"}, []string{"outcome"}),
		ClickLocked:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "quake_map", Name: "click_locked"}),
	}
}
