package domain

import (
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// GeometryKind distinguishes single-region from multi-region boundaries.
type GeometryKind int

const (
	SinglePolygon GeometryKind = iota
	MultiPolygon
)

// Boundary is a named country outline. A SinglePolygon boundary has exactly
// one part; a MultiPolygon boundary has one part per region.
type Boundary struct {
	Name  string
	Kind  GeometryKind
	Parts []*geom.Polygon
}

// NewPolygonBoundary wraps a single polygon.
func NewPolygonBoundary(name string, p *geom.Polygon) Boundary {
	return Boundary{Name: name, Kind: SinglePolygon, Parts: []*geom.Polygon{p}}
}

// NewMultiPolygonBoundary wraps every polygon of mp as a separate part.
func NewMultiPolygonBoundary(name string, mp *geom.MultiPolygon) Boundary {
	parts := make([]*geom.Polygon, 0, mp.NumPolygons())
	for i := 0; i < mp.NumPolygons(); i++ {
		parts = append(parts, mp.Polygon(i))
	}
	return Boundary{Name: name, Kind: MultiPolygon, Parts: parts}
}

// Contains reports whether loc falls inside any part of the boundary.
// Points on a ring edge count as inside.
func (b Boundary) Contains(loc Location) bool {
	c := geom.Coord{loc.Lon, loc.Lat}
	for _, p := range b.Parts {
		if polygonContains(p, c) {
			return true
		}
	}
	return false
}

// polygonContains tests the exterior ring, then excludes holes.
func polygonContains(p *geom.Polygon, c geom.Coord) bool {
	if p == nil || p.NumLinearRings() == 0 {
		return false
	}
	if !p.Bounds().OverlapsPoint(p.Layout(), c) {
		return false
	}
	if !xy.IsPointInRing(p.Layout(), c, p.LinearRing(0).FlatCoords()) {
		return false
	}
	for i := 1; i < p.NumLinearRings(); i++ {
		if xy.IsPointInRing(p.Layout(), c, p.LinearRing(i).FlatCoords()) {
			return false
		}
	}
	return true
}

// Locator resolves the country containing a location.
type Locator interface {
	// Locate returns the containing country name, or ok=false over the ocean.
	Locate(loc Location) (country string, ok bool)
}

// BoundaryLocator scans boundaries in order; the first containing one wins.
type BoundaryLocator struct {
	boundaries []Boundary
}

// NewBoundaryLocator creates a locator over the given boundaries.
func NewBoundaryLocator(boundaries []Boundary) *BoundaryLocator {
	return &BoundaryLocator{boundaries: boundaries}
}

func (l *BoundaryLocator) Locate(loc Location) (string, bool) {
	for _, b := range l.boundaries {
		if b.Contains(loc) {
			return b.Name, true
		}
	}
	return "", false
}

// Classify promotes quake to a land quake when locator finds a containing
// country. It returns true for land quakes. Cities and already-classified
// land quakes are left unchanged.
func Classify(quake *Marker, locator Locator) bool {
	if quake.Kind != KindOceanQuake {
		return quake.Kind == KindLandQuake
	}
	if locator == nil {
		return false
	}
	country, ok := locator.Locate(quake.Location)
	if !ok {
		return false
	}
	quake.markLand(country)
	return true
}
