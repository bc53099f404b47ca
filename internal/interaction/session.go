package interaction

import "github.com/couchcryptid/quake-threat-map/internal/domain"

// Session is the application context: both marker populations, the
// rendering backend, and the hover and click machines.
type Session struct {
	markers *domain.Markers
	backend Backend
	hover   Hover
	click   Click

	// Last pointer position seen by a move event. The city-group cascade
	// uses this y rather than the click's own y, so the revealed set matches
	// the guide line drawn on the previous frame.
	pointerX, pointerY float64
	pointerSeen        bool
}

// NewSession creates a session over markers rendered by backend.
func NewSession(markers *domain.Markers, backend Backend) *Session {
	return &Session{markers: markers, backend: backend}
}

// Markers returns the marker populations owned by the session.
func (s *Session) Markers() *domain.Markers {
	return s.markers
}

// HoverState returns the selection machine state.
func (s *Session) HoverState() HoverState {
	return s.hover.State()
}

// HoverTarget returns the hovered marker, or nil.
func (s *Session) HoverTarget() *domain.Marker {
	return s.hover.Target()
}

// ClickState returns the click-lock machine state.
func (s *Session) ClickState() ClickState {
	return s.click.State()
}

// ClickTarget returns the clicked marker, or nil.
func (s *Session) ClickTarget() *domain.Marker {
	return s.click.Target()
}

// CityGroupClicked reports whether the city-group mode is active.
func (s *Session) CityGroupClicked() bool {
	return s.click.CityGroupClicked()
}

// PointerMoved applies a pointer-move event and returns the hovered marker.
func (s *Session) PointerMoved(x, y float64) *domain.Marker {
	s.pointerX, s.pointerY, s.pointerSeen = x, y, true
	return s.hover.Move(s.markers, s.backend, x, y)
}

// Clicked applies a pointer-click event.
func (s *Session) Clicked(x, y float64) Outcome {
	return s.click.Apply(s.markers, s.backend, &s.hover, x, y, s.guideY(y))
}

// guideY is the y of the guide line: the last moved-to pointer y, or the
// click's own y when no move has been seen yet.
func (s *Session) guideY(clickY float64) float64 {
	if !s.pointerSeen {
		return clickY
	}
	return s.pointerY
}

// guideVisible reports whether the guide line is drawn this frame.
func (s *Session) guideVisible() bool {
	return s.pointerSeen && s.backend.InBounds(s.pointerX, s.pointerY)
}
