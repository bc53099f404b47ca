package usgs

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/quake-threat-map/internal/domain"
)

const feedBody = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "id": "ak024abc",
      "properties": {"mag": 3.4, "title": "M 3.4 - 20 km S of Town, Alaska", "time": 1714196400000},
      "geometry": {"type": "Point", "coordinates": [-150.1, 61.2, 42.3]}
    }
  ]
}`

func testClient(url string) *Client {
	return NewClient(url, 5*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_FetchQuakes_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/feed/2.5_week.geojson", r.URL.Path)
		w.Header().Set("Content-Type", "application/geo+json")
		_, _ = io.WriteString(w, feedBody)
	}))
	defer srv.Close()

	quakes, err := testClient(srv.URL + "/feed/2.5_week.geojson").FetchQuakes(context.Background())
	require.NoError(t, err)
	require.Len(t, quakes, 1)
	assert.Equal(t, "ak024abc", quakes[0].ID)
	assert.InDelta(t, 3.4, quakes[0].Magnitude, 1e-9)
	assert.InDelta(t, 42.3, quakes[0].Depth, 1e-9)
	assert.InDelta(t, 61.2, quakes[0].Location.Lat, 1e-9)
	assert.InDelta(t, -150.1, quakes[0].Location.Lon, 1e-9)
}

func TestClient_FetchQuakes_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, "maintenance")
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchQuakes(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
	assert.Contains(t, err.Error(), "maintenance")
}

func TestClient_FetchQuakes_InvalidFeature(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"type":"FeatureCollection","features":[
			{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[1,2,3]}}]}`)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchQuakes(context.Background())
	require.ErrorIs(t, err, domain.ErrMissingProperty)
}

func TestClient_FetchQuakes_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 50*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := c.FetchQuakes(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "feed request")
}

func TestClient_FetchQuakes_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, feedBody)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient(srv.URL).FetchQuakes(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
