package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/quake-threat-map/internal/adapter/geojson"
	"github.com/couchcryptid/quake-threat-map/internal/adapter/locator"
	"github.com/couchcryptid/quake-threat-map/internal/domain"
	"github.com/couchcryptid/quake-threat-map/internal/observability"
	"github.com/couchcryptid/quake-threat-map/internal/pipeline"
)

var testFiles = geojson.Files{
	Quakes:    "../adapter/geojson/testdata/quakes.geojson",
	Cities:    "../adapter/geojson/testdata/cities.json",
	Countries: "../adapter/geojson/testdata/countries.geo.json",
}

// --- mocks ---

type flakyQuakes struct {
	failures int
	calls    atomic.Int32
	quakes   []domain.QuakeRecord
}

func (m *flakyQuakes) FetchQuakes(_ context.Context) ([]domain.QuakeRecord, error) {
	n := int(m.calls.Add(1))
	if n <= m.failures {
		return nil, errors.New("feed unavailable")
	}
	return m.quakes, nil
}

type failingCities struct{}

func (failingCities) LoadCities(_ context.Context) ([]domain.CityRecord, error) {
	return nil, errors.New("disk on fire")
}

type mockPublisher struct {
	err       error
	published []*domain.Marker
}

func (m *mockPublisher) PublishBatch(_ context.Context, quakes []*domain.Marker) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, quakes...)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func kinds(ms []*domain.Marker) map[string]domain.Kind {
	out := make(map[string]domain.Kind, len(ms))
	for _, m := range ms {
		out[m.ID] = m.Kind
	}
	return out
}

// --- tests ---

func TestLoader_Run_ClassifiesFromFiles(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	pub := &mockPublisher{}
	l := pipeline.New(pipeline.Sources{Quakes: testFiles, Cities: testFiles, Countries: testFiles},
		nil, pub, discardLogger(), metrics, 1)

	require.Error(t, l.CheckReadiness(context.Background()))

	res, err := l.Run(context.Background())
	require.NoError(t, err)

	want := map[string]domain.Kind{
		"us7000m1": domain.KindLandQuake,
		"us7000m2": domain.KindOceanQuake, // inside Squareland's hole
		"us7000m3": domain.KindLandQuake,
		"us7000m4": domain.KindOceanQuake,
	}
	if diff := cmp.Diff(want, kinds(res.Markers.Quakes)); diff != "" {
		t.Fatalf("quake kinds mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Squareland", res.Markers.Quakes[0].Quake.Country)
	assert.Equal(t, "Islands", res.Markers.Quakes[2].Quake.Country)
	assert.Len(t, res.Markers.Cities, 3)
	assert.Len(t, res.Boundaries, 2)

	assert.Len(t, pub.published, 4)
	require.NoError(t, l.CheckReadiness(context.Background()))

	assert.InDelta(t, 2, testutil.ToFloat64(metrics.QuakesLoaded.WithLabelValues("land_quake")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.QuakesLoaded.WithLabelValues("ocean_quake")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(metrics.CitiesLoaded), 0)
	assert.InDelta(t, 4, testutil.ToFloat64(metrics.QuakesPublished), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Ready), 0)
}

func TestLoader_Run_UsesLocatorFactory(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	var cached *locator.CachedLocator
	factory := func(b []domain.Boundary) domain.Locator {
		cached = locator.NewCachedLocator(domain.NewBoundaryLocator(b), 10, metrics)
		return cached
	}
	l := pipeline.New(pipeline.Sources{Quakes: testFiles, Cities: testFiles, Countries: testFiles},
		factory, nil, discardLogger(), metrics, 1)

	_, err := l.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, 4, cached.Len())
	assert.InDelta(t, 4, testutil.ToFloat64(metrics.LocatorCache.WithLabelValues("miss")), 0)
}

func TestLoader_Run_RetriesFeed(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	src := &flakyQuakes{failures: 2, quakes: []domain.QuakeRecord{{ID: "q1", Magnitude: 4}}}
	l := pipeline.New(pipeline.Sources{Quakes: src, Cities: testFiles, Countries: testFiles},
		nil, nil, discardLogger(), metrics, 3)

	start := time.Now()
	res, err := l.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(3), src.calls.Load())
	assert.GreaterOrEqual(t, time.Since(start), 600*time.Millisecond, "200ms then 400ms backoff")
	assert.Len(t, res.Markers.Quakes, 1)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.FeedFetchErrors), 0)
}

func TestLoader_Run_GivesUpAfterMaxAttempts(t *testing.T) {
	src := &flakyQuakes{failures: 10}
	l := pipeline.New(pipeline.Sources{Quakes: src, Cities: testFiles, Countries: testFiles},
		nil, nil, discardLogger(), observability.NewMetricsForTesting(), 2)

	_, err := l.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
	assert.Contains(t, err.Error(), "feed unavailable")
	assert.Equal(t, int32(2), src.calls.Load())
	assert.Error(t, l.CheckReadiness(context.Background()))
}

func TestLoader_Run_ContextCancelledDuringBackoff(t *testing.T) {
	src := &flakyQuakes{failures: 10}
	l := pipeline.New(pipeline.Sources{Quakes: src, Cities: testFiles, Countries: testFiles},
		nil, nil, discardLogger(), observability.NewMetricsForTesting(), 5)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := l.Run(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestLoader_Run_CityError(t *testing.T) {
	l := pipeline.New(pipeline.Sources{Quakes: testFiles, Cities: failingCities{}, Countries: testFiles},
		nil, nil, discardLogger(), observability.NewMetricsForTesting(), 1)

	_, err := l.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load cities")
}

func TestLoader_Run_MalformedInputIsFatal(t *testing.T) {
	bad := geojson.Files{Quakes: testFiles.Cities} // cities have no magnitude
	l := pipeline.New(pipeline.Sources{Quakes: bad, Cities: testFiles, Countries: testFiles},
		nil, nil, discardLogger(), observability.NewMetricsForTesting(), 3)

	start := time.Now()
	_, err := l.Run(context.Background())
	require.ErrorIs(t, err, domain.ErrMissingProperty)
	assert.Less(t, time.Since(start), 200*time.Millisecond, "malformed input is not retried")
}

func TestLoader_Run_PublishFailureIsNotFatal(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	pub := &mockPublisher{err: errors.New("broker down")}
	l := pipeline.New(pipeline.Sources{Quakes: testFiles, Cities: testFiles, Countries: testFiles},
		nil, pub, discardLogger(), metrics, 1)

	res, err := l.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Markers.Quakes, 4)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.PublishErrors), 0)
	assert.NoError(t, l.CheckReadiness(context.Background()))
}

func TestBuildMarkers_PreservesOrder(t *testing.T) {
	quakes := []domain.QuakeRecord{{ID: "b", Magnitude: 3}, {ID: "a", Magnitude: 5}}
	cities := []domain.CityRecord{{ID: "z"}, {ID: "y"}}

	ms := pipeline.BuildMarkers(quakes, cities, domain.NewBoundaryLocator(nil))

	assert.Equal(t, "b", ms.Quakes[0].ID)
	assert.Equal(t, "a", ms.Quakes[1].ID)
	assert.Equal(t, "z", ms.Cities[0].ID)
	assert.Equal(t, domain.KindOceanQuake, ms.Quakes[0].Kind)
	assert.Equal(t, domain.KindCity, ms.Cities[1].Kind)
}

func TestReportSize(t *testing.T) {
	assert.Equal(t, 7, pipeline.ReportSize(0, 7))
	assert.Equal(t, 3, pipeline.ReportSize(3, 7))
	assert.Equal(t, 0, pipeline.ReportSize(0, 0))
}

func TestWriteReport(t *testing.T) {
	l := pipeline.New(pipeline.Sources{Quakes: testFiles, Cities: testFiles, Countries: testFiles},
		nil, nil, discardLogger(), observability.NewMetricsForTesting(), 1)
	res, err := l.Run(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	top := pipeline.ReportSize(0, len(res.Markers.Cities))
	require.NoError(t, pipeline.WriteReport(&buf, res.Markers, res.Boundaries, top, true))

	want := "M 6.1 - Squareland interior\n" +
		"M 5.2 - East Islands\n" +
		"M 4.4 - Squareland lake\n" +
		"Squareland: 1\n" +
		"Islands: 1\n" +
		"OCEAN QUAKES: 2\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteReport_NoTally(t *testing.T) {
	ms := pipeline.BuildMarkers([]domain.QuakeRecord{{ID: "q", Title: "M 3.0", Magnitude: 3}}, nil, nil)

	var buf bytes.Buffer
	require.NoError(t, pipeline.WriteReport(&buf, ms, nil, 0, false))
	assert.Empty(t, buf.String())

	require.NoError(t, pipeline.WriteReport(&buf, ms, nil, 5, false))
	assert.Equal(t, "M 3.0\n", buf.String())
}
