// Package screen maps WGS-84 marker locations onto the pixel rectangle of
// the rendered map and answers the hit tests the interaction core needs.
package screen

import (
	"math"

	"github.com/wroge/wgs84"

	"github.com/couchcryptid/quake-threat-map/internal/domain"
)

const (
	// mercatorExtent is the half width of the EPSG:3857 plane in metres.
	mercatorExtent = 20037508.342789244

	// maxLatitude is the Web Mercator latitude limit.
	maxLatitude = 85.05112878
)

// Rect is an axis-aligned screen rectangle.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Contains reports whether (x, y) is strictly inside r.
func (r Rect) Contains(x, y float64) bool {
	return x > r.MinX && x < r.MaxX && y > r.MinY && y < r.MaxY
}

// Viewport is the map drawn at (X, Y) with the given size, projected with
// Web Mercator. It implements interaction.Backend.
type Viewport struct {
	X, Y, Width, Height float64

	// Guide is the region where pointer y drives the guide line and where an
	// empty-map click enters the city-group mode.
	Guide Rect

	scale   float64
	project func(lon, lat float64) (float64, float64)
}

// NewViewport creates a viewport whose guide region is the map rectangle.
func NewViewport(x, y, width, height float64) *Viewport {
	f := wgs84.EPSG().Transform(4326, 3857)
	return &Viewport{
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
		Guide:  Rect{MinX: x, MinY: y, MaxX: x + width, MaxY: y + height},
		scale:  math.Min(width, height) / (2 * mercatorExtent),
		project: func(lon, lat float64) (float64, float64) {
			mx, my, _ := f(lon, lat, 0)
			return mx, my
		},
	}
}

// DefaultViewport is the 650x600 map at (200, 50). Its guide region ends at
// x=750, the width of the drawn legend-free area.
func DefaultViewport() *Viewport {
	v := NewViewport(200, 50, 650, 600)
	v.Guide = Rect{MinX: 200, MinY: 50, MaxX: 750, MaxY: 650}
	return v
}

// Project returns the screen position of loc. Latitudes beyond the Web
// Mercator limit are clamped.
func (v *Viewport) Project(loc domain.Location) (float64, float64) {
	lat := math.Max(-maxLatitude, math.Min(maxLatitude, loc.Lat))
	mx, my := v.project(loc.Lon, lat)
	sx := v.X + v.Width/2 + mx*v.scale
	sy := v.Y + v.Height/2 - my*v.scale
	return sx, sy
}

// IsInside reports whether (x, y) lies within m's on-screen radius.
func (v *Viewport) IsInside(m *domain.Marker, x, y float64) bool {
	sx, sy := v.Project(m.Location)
	return math.Hypot(x-sx, y-sy) < m.Radius()
}

// InBounds reports whether (x, y) is inside the guide region.
func (v *Viewport) InBounds(x, y float64) bool {
	return v.Guide.Contains(x, y)
}
