package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/quake-threat-map/internal/domain"
	"github.com/couchcryptid/quake-threat-map/internal/observability"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// QuakeSource fetches the earthquake records.
type QuakeSource interface {
	FetchQuakes(ctx context.Context) ([]domain.QuakeRecord, error)
}

// CitySource loads the city records.
type CitySource interface {
	LoadCities(ctx context.Context) ([]domain.CityRecord, error)
}

// CountrySource loads the country boundaries, in the order used for
// classification and tallies.
type CountrySource interface {
	LoadCountries(ctx context.Context) ([]domain.Boundary, error)
}

// Publisher forwards classified quake markers downstream.
type Publisher interface {
	PublishBatch(ctx context.Context, quakes []*domain.Marker) error
}

// LocatorFactory builds the country locator used for classification.
type LocatorFactory func(boundaries []domain.Boundary) domain.Locator

// Sources groups the three inputs of a load.
type Sources struct {
	Quakes    QuakeSource
	Cities    CitySource
	Countries CountrySource
}

// Result is the outcome of a successful load.
type Result struct {
	Markers    *domain.Markers
	Boundaries []domain.Boundary
}

// Loader reads the inputs once, classifies every quake, and publishes the
// classified quakes when a publisher is configured.
type Loader struct {
	sources     Sources
	newLocator  LocatorFactory
	publisher   Publisher
	logger      *slog.Logger
	metrics     *observability.Metrics
	maxAttempts int
	ready       atomic.Bool
}

// New creates a Loader. newLocator and publisher may be nil; the default
// locator scans boundaries in order.
func New(sources Sources, newLocator LocatorFactory, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics, maxAttempts int) *Loader {
	if newLocator == nil {
		newLocator = func(b []domain.Boundary) domain.Locator { return domain.NewBoundaryLocator(b) }
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Loader{
		sources:     sources,
		newLocator:  newLocator,
		publisher:   publisher,
		logger:      logger,
		metrics:     metrics,
		maxAttempts: maxAttempts,
	}
}

// CheckReadiness returns nil once markers have been loaded, or an error
// describing why the service is not yet ready.
func (l *Loader) CheckReadiness(_ context.Context) error {
	if !l.ready.Load() {
		return errors.New("markers have not been loaded yet")
	}
	return nil
}

// Run performs the load. The three inputs are read concurrently. Any input
// error aborts the load; a publish failure is logged and the load still
// succeeds.
func (l *Loader) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	l.logger.Info("load started", "max_attempts", l.maxAttempts)

	var (
		boundaries []domain.Boundary
		cities     []domain.CityRecord
		quakes     []domain.QuakeRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if boundaries, err = l.sources.Countries.LoadCountries(gctx); err != nil {
			return fmt.Errorf("load countries: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if cities, err = l.sources.Cities.LoadCities(gctx); err != nil {
			return fmt.Errorf("load cities: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if quakes, err = l.fetchQuakes(gctx); err != nil {
			return fmt.Errorf("fetch quakes: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	markers := BuildMarkers(quakes, cities, l.newLocator(boundaries))

	land := 0
	for _, q := range markers.Quakes {
		if q.OnLand() {
			land++
		}
	}
	l.metrics.CountriesLoaded.Add(float64(len(boundaries)))
	l.metrics.CitiesLoaded.Add(float64(len(markers.Cities)))
	l.metrics.QuakesLoaded.WithLabelValues(domain.KindLandQuake.String()).Add(float64(land))
	l.metrics.QuakesLoaded.WithLabelValues(domain.KindOceanQuake.String()).Add(float64(len(markers.Quakes) - land))

	l.publish(ctx, markers.Quakes)

	l.metrics.LoadDuration.Observe(time.Since(start).Seconds())
	l.metrics.Ready.Set(1)
	l.ready.Store(true)
	l.logger.Info("load complete",
		"countries", len(boundaries),
		"cities", len(markers.Cities),
		"land_quakes", land,
		"ocean_quakes", len(markers.Quakes)-land,
		"duration", time.Since(start),
	)

	return &Result{Markers: markers, Boundaries: boundaries}, nil
}

// fetchQuakes retries the quake source with exponential backoff: start at
// 200ms, double each retry, cap at 5s. Malformed records are not retried.
func (l *Loader) fetchQuakes(ctx context.Context) ([]domain.QuakeRecord, error) {
	backoff := initialBackoff
	for attempt := 1; ; attempt++ {
		quakes, err := l.sources.Quakes.FetchQuakes(ctx)
		if err == nil {
			return quakes, nil
		}
		l.metrics.FeedFetchErrors.Inc()
		if ctx.Err() != nil || errors.Is(err, domain.ErrMissingProperty) {
			return nil, err
		}
		if attempt >= l.maxAttempts {
			return nil, fmt.Errorf("after %d attempts: %w", attempt, err)
		}
		l.logger.Warn("quake fetch failed, retrying", "error", err, "attempt", attempt, "backoff", backoff)
		if !sleepWithContext(ctx, backoff) {
			return nil, ctx.Err()
		}
		backoff = nextBackoff(backoff, maxBackoff)
	}
}

func (l *Loader) publish(ctx context.Context, quakes []*domain.Marker) {
	if l.publisher == nil || len(quakes) == 0 {
		return
	}
	if err := l.publisher.PublishBatch(ctx, quakes); err != nil {
		l.logger.Error("publish quakes failed", "error", err, "count", len(quakes))
		l.metrics.PublishErrors.Inc()
		return
	}
	l.metrics.QuakesPublished.Add(float64(len(quakes)))
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
