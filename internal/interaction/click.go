package interaction

import "github.com/couchcryptid/quake-threat-map/internal/domain"

// ClickState is the state of the click-lock machine.
type ClickState int

const (
	Idle ClickState = iota
	MarkerLocked
	CityGroupLocked
)

func (s ClickState) String() string {
	switch s {
	case MarkerLocked:
		return "marker_locked"
	case CityGroupLocked:
		return "city_group_locked"
	default:
		return "idle"
	}
}

// MarshalText encodes the state by name.
func (s ClickState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Outcome describes what a click did.
type Outcome string

const (
	OutcomeQuake     Outcome = "quake"
	OutcomeCity      Outcome = "city"
	OutcomeCityGroup Outcome = "city_group"
	OutcomeEmpty     Outcome = "empty"
	OutcomeDismiss   Outcome = "dismiss"
)

// Click tracks the click-locked marker and the visibility cascade.
type Click struct {
	state            ClickState
	target           *domain.Marker
	cityGroupClicked bool
}

// State returns the current lock state.
func (c *Click) State() ClickState {
	return c.state
}

// Target returns the clicked marker, or nil.
func (c *Click) Target() *domain.Marker {
	return c.target
}

// CityGroupClicked reports whether the active lock is the city-group mode.
func (c *Click) CityGroupClicked() bool {
	return c.cityGroupClicked
}

// Apply handles one click at (x, y). guideY is the vertical position of the
// guide line; cities projected above it are revealed in city-group mode.
func (c *Click) Apply(ms *domain.Markers, b Backend, h *Hover, x, y, guideY float64) Outcome {
	if c.state != Idle {
		c.dismiss(ms, h)
		return OutcomeDismiss
	}

	ms.SetHidden(true)

	if quake := firstHit(ms.Quakes, b, x, y); quake != nil {
		c.lock(quake, h)
		for _, city := range domain.ThreatenedCities(quake, ms.Cities) {
			city.Hidden = false
		}
		return OutcomeQuake
	}

	if city := firstHit(ms.Cities, b, x, y); city != nil {
		c.lock(city, h)
		for _, quake := range domain.ThreateningQuakes(city, ms.Quakes) {
			quake.Hidden = false
		}
		return OutcomeCity
	}

	if b.InBounds(x, y) {
		for _, city := range ms.Cities {
			if _, cy := b.Project(city.Location); cy < guideY {
				city.Hidden = false
			}
		}
		c.cityGroupClicked = true
		c.state = CityGroupLocked
		return OutcomeCityGroup
	}

	ms.SetHidden(false)
	c.cityGroupClicked = false
	return OutcomeEmpty
}

// lock makes m the clicked marker. The clicked marker also takes over the
// hover target so only one marker is ever Selected.
func (c *Click) lock(m *domain.Marker, h *Hover) {
	m.Clicked = true
	m.Hidden = false
	h.set(m)
	c.target = m
	c.state = MarkerLocked
}

func (c *Click) dismiss(ms *domain.Markers, h *Hover) {
	if c.target != nil {
		if h.Target() == c.target {
			h.clear()
		}
		c.target.Selected = false
		c.target = nil
	}
	for _, m := range ms.Quakes {
		m.Clicked = false
	}
	for _, m := range ms.Cities {
		m.Clicked = false
	}
	ms.SetHidden(false)
	c.cityGroupClicked = false
	c.state = Idle
}
