package interaction

import "github.com/couchcryptid/quake-threat-map/internal/domain"

// HoverState is the state of the selection machine.
type HoverState int

const (
	NoHover HoverState = iota
	Hovering
)

func (s HoverState) String() string {
	if s == Hovering {
		return "hovering"
	}
	return "no_hover"
}

// Hover tracks the single marker under the pointer.
type Hover struct {
	target *domain.Marker
}

// State returns NoHover or Hovering.
func (h *Hover) State() HoverState {
	if h.target == nil {
		return NoHover
	}
	return Hovering
}

// Target returns the hovered marker, or nil.
func (h *Hover) Target() *domain.Marker {
	return h.target
}

// Move re-evaluates the hover target for a pointer at (x, y). Quakes are
// scanned before cities and the first hit wins. It returns the new target.
func (h *Hover) Move(ms *domain.Markers, b Backend, x, y float64) *domain.Marker {
	h.clear()

	m := firstHit(ms.Quakes, b, x, y)
	if m == nil {
		m = firstHit(ms.Cities, b, x, y)
	}
	if m != nil {
		h.set(m)
	}
	return m
}

func (h *Hover) set(m *domain.Marker) {
	h.clear()
	m.Selected = true
	h.target = m
}

func (h *Hover) clear() {
	if h.target == nil {
		return
	}
	h.target.Selected = false
	h.target = nil
}
