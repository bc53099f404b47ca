package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/couchcryptid/quake-threat-map/internal/domain"
	"github.com/couchcryptid/quake-threat-map/internal/interaction"
	"github.com/couchcryptid/quake-threat-map/internal/observability"
	"github.com/couchcryptid/quake-threat-map/internal/pipeline"
)

// maxEventBytes bounds a pointer event request body.
const maxEventBytes = 1 << 10

var errNotLoaded = errors.New("markers are not loaded yet")

// Controller serialises pointer events onto a single interaction session.
// Events are applied strictly in arrival order.
type Controller struct {
	mu         sync.Mutex
	session    *interaction.Session
	boundaries []domain.Boundary
	reportSize int

	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewController creates a controller with no session attached. reportSize
// is the default row count of GET /report; 0 means one row per city.
func NewController(reportSize int, metrics *observability.Metrics, logger *slog.Logger) *Controller {
	return &Controller{reportSize: reportSize, metrics: metrics, logger: logger}
}

// Attach installs the session and the boundaries used for the tally.
func (c *Controller) Attach(session *interaction.Session, boundaries []domain.Boundary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = session
	c.boundaries = boundaries
}

type pointerEvent struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

type clickResponse struct {
	Outcome interaction.Outcome `json:"outcome"`
	Frame   interaction.Frame   `json:"frame"`
}

type reportQuake struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Kind      domain.Kind `json:"kind"`
	Magnitude float64     `json:"magnitude"`
	Country   string      `json:"country,omitempty"`
}

type reportResponse struct {
	Quakes []reportQuake `json:"quakes"`
	Tally  domain.Tally  `json:"tally"`
}

func (c *Controller) handleMove(w http.ResponseWriter, r *http.Request) {
	x, y, err := decodePointer(w, r)
	if err != nil {
		c.writeError(w, http.StatusBadRequest, err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		c.writeError(w, http.StatusServiceUnavailable, errNotLoaded)
		return
	}

	hovered := c.session.PointerMoved(x, y)
	c.metrics.PointerMoves.Inc()
	if hovered != nil {
		c.logger.Debug("marker hovered", "id", hovered.ID, "kind", hovered.Kind)
	}
	c.writeJSON(w, http.StatusOK, c.session.Frame())
}

func (c *Controller) handleClick(w http.ResponseWriter, r *http.Request) {
	x, y, err := decodePointer(w, r)
	if err != nil {
		c.writeError(w, http.StatusBadRequest, err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		c.writeError(w, http.StatusServiceUnavailable, errNotLoaded)
		return
	}

	outcome := c.session.Clicked(x, y)
	c.metrics.Clicks.WithLabelValues(string(outcome)).Inc()
	if c.session.ClickState() == interaction.Idle {
		c.metrics.ClickLocked.Set(0)
	} else {
		c.metrics.ClickLocked.Set(1)
	}
	c.logger.Debug("click applied", "x", x, "y", y, "outcome", outcome, "state", c.session.ClickState())

	c.writeJSON(w, http.StatusOK, clickResponse{Outcome: outcome, Frame: c.session.Frame()})
}

func (c *Controller) handleFrame(w http.ResponseWriter, _ *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		c.writeError(w, http.StatusServiceUnavailable, errNotLoaded)
		return
	}
	c.writeJSON(w, http.StatusOK, c.session.Frame())
}

func (c *Controller) handleReport(w http.ResponseWriter, r *http.Request) {
	top := -1
	if s := r.URL.Query().Get("top"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			c.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid top %q", s))
			return
		}
		top = n
	}
	var kind *domain.Kind
	if s := r.URL.Query().Get("kind"); s != "" {
		var k domain.Kind
		if err := k.UnmarshalText([]byte(s)); err != nil || k == domain.KindCity {
			c.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid quake kind %q", s))
			return
		}
		kind = &k
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		c.writeError(w, http.StatusServiceUnavailable, errNotLoaded)
		return
	}
	if top < 0 {
		top = pipeline.ReportSize(c.reportSize, len(c.session.Markers().Cities))
	}

	quakes := c.session.Markers().Quakes
	if kind != nil {
		quakes = filterKind(quakes, *kind)
	}
	resp := reportResponse{
		Quakes: []reportQuake{},
		Tally:  domain.TallyByCountry(c.boundaries, quakes),
	}
	if top > 0 {
		for _, q := range domain.TopByMagnitude(quakes, top) {
			resp.Quakes = append(resp.Quakes, reportQuake{
				ID:        q.ID,
				Title:     q.Title(),
				Kind:      q.Kind,
				Magnitude: q.Magnitude(),
				Country:   q.Quake.Country,
			})
		}
	}
	c.writeJSON(w, http.StatusOK, resp)
}

func filterKind(markers []*domain.Marker, kind domain.Kind) []*domain.Marker {
	var out []*domain.Marker
	for _, m := range markers {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

func decodePointer(w http.ResponseWriter, r *http.Request) (float64, float64, error) {
	var ev pointerEvent
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ev); err != nil {
		return 0, 0, fmt.Errorf("decode pointer event: %w", err)
	}
	if ev.X == nil || ev.Y == nil {
		return 0, 0, errors.New("pointer event requires x and y")
	}
	return *ev.X, *ev.Y, nil
}

// writeJSON encodes v before writing the header so an encoding failure
// becomes a 500 instead of an empty 200.
func (c *Controller) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		c.logger.Error("encode response", "error", err)
		status = http.StatusInternalServerError
		body = []byte(`{"error":"failed to encode response"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body = append(body, '\n')
	if _, err := w.Write(body); err != nil {
		c.logger.Warn("write response", "error", err)
	}
}

func (c *Controller) writeError(w http.ResponseWriter, status int, err error) {
	c.writeJSON(w, status, map[string]string{"error": err.Error()})
}
