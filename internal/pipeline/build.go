package pipeline

import "github.com/couchcryptid/quake-threat-map/internal/domain"

// BuildMarkers builds the city markers and the quake markers, classifying
// each quake as land or ocean through locator. Input order is preserved.
func BuildMarkers(quakes []domain.QuakeRecord, cities []domain.CityRecord, locator domain.Locator) *domain.Markers {
	ms := &domain.Markers{
		Quakes: make([]*domain.Marker, 0, len(quakes)),
		Cities: make([]*domain.Marker, 0, len(cities)),
	}
	for _, rec := range cities {
		ms.Cities = append(ms.Cities, domain.NewCityMarker(rec))
	}
	for _, rec := range quakes {
		q := domain.NewQuakeMarker(rec)
		domain.Classify(q, locator)
		ms.Quakes = append(ms.Quakes, q)
	}
	return ms
}
