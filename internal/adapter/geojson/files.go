package geojson

import (
	"context"
	"fmt"
	"os"

	"github.com/couchcryptid/quake-threat-map/internal/domain"
)

// Files reads the map inputs from local GeoJSON files.
type Files struct {
	Quakes    string
	Cities    string
	Countries string
}

// FetchQuakes reads and decodes the earthquake file.
func (f Files) FetchQuakes(_ context.Context) ([]domain.QuakeRecord, error) {
	data, err := os.ReadFile(f.Quakes)
	if err != nil {
		return nil, fmt.Errorf("read quakes: %w", err)
	}
	quakes, err := DecodeQuakes(data)
	if err != nil {
		return nil, fmt.Errorf("decode quakes %s: %w", f.Quakes, err)
	}
	return quakes, nil
}

// LoadCities reads and decodes the city file.
func (f Files) LoadCities(_ context.Context) ([]domain.CityRecord, error) {
	data, err := os.ReadFile(f.Cities)
	if err != nil {
		return nil, fmt.Errorf("read cities: %w", err)
	}
	cities, err := DecodeCities(data)
	if err != nil {
		return nil, fmt.Errorf("decode cities %s: %w", f.Cities, err)
	}
	return cities, nil
}

// LoadCountries reads and decodes the country outline file.
func (f Files) LoadCountries(_ context.Context) ([]domain.Boundary, error) {
	data, err := os.ReadFile(f.Countries)
	if err != nil {
		return nil, fmt.Errorf("read countries: %w", err)
	}
	boundaries, err := DecodeCountries(data)
	if err != nil {
		return nil, fmt.Errorf("decode countries %s: %w", f.Countries, err)
	}
	return boundaries, nil
}
