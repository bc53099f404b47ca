package interaction

import "github.com/couchcryptid/quake-threat-map/internal/domain"

// Backend is the part of the rendering backend the state machines consult.
type Backend interface {
	// Project returns the screen position of a location.
	Project(loc domain.Location) (x, y float64)

	// IsInside reports whether screen point (x, y) hits the marker.
	IsInside(m *domain.Marker, x, y float64) bool

	// InBounds reports whether (x, y) lies inside the visible map rectangle.
	InBounds(x, y float64) bool
}

// firstHit returns the first marker in population order hit by (x, y).
func firstHit(markers []*domain.Marker, b Backend, x, y float64) *domain.Marker {
	for _, m := range markers {
		if b.IsInside(m, x, y) {
			return m
		}
	}
	return nil
}
