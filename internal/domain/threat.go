package domain

import "math"

const (
	kmPerMile     = 1.6
	earthRadiusKm = 6371.0
)

// ThreatRadiusKm returns the radius of a quake's threat circle in kilometers:
// 20 * 1.8^(2*magnitude - 5) miles. The result is not clamped.
func ThreatRadiusKm(magnitude float64) float64 {
	miles := 20.0 * math.Pow(1.8, 2*magnitude-5)
	return miles * kmPerMile
}

// DistanceKm returns the great-circle distance between two locations.
func DistanceKm(a, b Location) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180.0
	dLon := (b.Lon - a.Lon) * math.Pi / 180.0
	la1 := a.Lat * math.Pi / 180.0
	la2 := b.Lat * math.Pi / 180.0

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(la1)*math.Cos(la2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// Rounding can push h just past 1 for antipodal points.
	h = math.Min(1, math.Max(0, h))
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

// IsWithinThreat reports whether point lies strictly inside the circle of
// radiusKm around quake.
func IsWithinThreat(point, quake Location, radiusKm float64) bool {
	return DistanceKm(point, quake) < radiusKm
}

// Threatens reports whether target lies inside quake's threat circle.
func Threatens(quake, target *Marker) bool {
	return IsWithinThreat(target.Location, quake.Location, quake.ThreatRadiusKm())
}

// ThreatenedCities returns the cities inside quake's threat circle, in population order.
func ThreatenedCities(quake *Marker, cities []*Marker) []*Marker {
	var out []*Marker
	for _, c := range cities {
		if Threatens(quake, c) {
			out = append(out, c)
		}
	}
	return out
}

// ThreateningQuakes returns the quakes whose own threat circle contains city,
// in population order.
func ThreateningQuakes(city *Marker, quakes []*Marker) []*Marker {
	var out []*Marker
	for _, q := range quakes {
		if Threatens(q, city) {
			out = append(out, q)
		}
	}
	return out
}
