// Package geojson decodes the three map inputs (earthquake feed, city list,
// country outlines) from GeoJSON FeatureCollections into domain records.
package geojson

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/twpayne/go-geom"
	gj "github.com/twpayne/go-geom/encoding/geojson"

	"github.com/couchcryptid/quake-threat-map/internal/domain"
)

// DecodeQuakes reads an earthquake FeatureCollection. Each feature must be a
// Point with a magnitude ("mag") and a depth, taken from the "depth" property
// or the third coordinate.
func DecodeQuakes(data []byte) ([]domain.QuakeRecord, error) {
	features, err := decodeCollection(data)
	if err != nil {
		return nil, err
	}

	quakes := make([]domain.QuakeRecord, 0, len(features))
	for i, f := range features {
		p, err := point(i, f)
		if err != nil {
			return nil, err
		}
		mag, err := floatProperty(i, f.Properties, "mag", "magnitude")
		if err != nil {
			return nil, err
		}
		depth, err := quakeDepth(i, f.Properties, p)
		if err != nil {
			return nil, err
		}

		rec := domain.QuakeRecord{
			ID:         featureID(f, i),
			Location:   domain.Location{Lat: p.Y(), Lon: p.X()},
			Magnitude:  mag,
			Depth:      depth,
			Title:      stringProperty(f.Properties, "title", "place"),
			Properties: f.Properties,
		}
		if rec.Title == "" {
			rec.Title = rec.ID
		}
		if ms, ok := number(f.Properties["time"]); ok {
			rec.Time = time.UnixMilli(int64(ms)).UTC()
		}
		rec.Age = stringProperty(f.Properties, "age")
		if rec.Age == "" {
			rec.Age = domain.AgeCategory(rec.Time)
		}
		quakes = append(quakes, rec)
	}
	return quakes, nil
}

// DecodeCities reads a city FeatureCollection. Population is in millions and
// may be encoded as a number or a numeric string.
func DecodeCities(data []byte) ([]domain.CityRecord, error) {
	features, err := decodeCollection(data)
	if err != nil {
		return nil, err
	}

	cities := make([]domain.CityRecord, 0, len(features))
	for i, f := range features {
		p, err := point(i, f)
		if err != nil {
			return nil, err
		}
		pop, err := floatProperty(i, f.Properties, "population")
		if err != nil {
			return nil, err
		}
		name := stringProperty(f.Properties, "name")
		id := f.ID
		if id == "" {
			id = name
		}
		if id == "" {
			id = "city-" + strconv.Itoa(i)
		}
		cities = append(cities, domain.CityRecord{
			ID:         id,
			Location:   domain.Location{Lat: p.Y(), Lon: p.X()},
			Name:       name,
			Country:    stringProperty(f.Properties, "country"),
			Population: pop,
			Properties: f.Properties,
		})
	}
	return cities, nil
}

// DecodeCountries reads a country FeatureCollection of Polygon and
// MultiPolygon features, preserving feature order.
func DecodeCountries(data []byte) ([]domain.Boundary, error) {
	features, err := decodeCollection(data)
	if err != nil {
		return nil, err
	}

	boundaries := make([]domain.Boundary, 0, len(features))
	for i, f := range features {
		name := stringProperty(f.Properties, "name", "ADMIN", "admin")
		if name == "" {
			name = f.ID
		}
		switch g := f.Geometry.(type) {
		case *geom.Polygon:
			boundaries = append(boundaries, domain.NewPolygonBoundary(name, g))
		case *geom.MultiPolygon:
			boundaries = append(boundaries, domain.NewMultiPolygonBoundary(name, g))
		default:
			return nil, fmt.Errorf("feature %d (%s): unsupported country geometry %T", i, name, f.Geometry)
		}
	}
	return boundaries, nil
}

func decodeCollection(data []byte) ([]*gj.Feature, error) {
	var fc gj.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("decode feature collection: %w", err)
	}
	return fc.Features, nil
}

func point(i int, f *gj.Feature) (*geom.Point, error) {
	p, ok := f.Geometry.(*geom.Point)
	if !ok || p == nil || p.Empty() {
		return nil, fmt.Errorf("feature %d: expected Point geometry, got %T", i, f.Geometry)
	}
	return p, nil
}

func featureID(f *gj.Feature, i int) string {
	if f.ID != "" {
		return f.ID
	}
	if code, ok := f.Properties["code"].(string); ok && code != "" {
		return code
	}
	return "quake-" + strconv.Itoa(i)
}

func quakeDepth(i int, props map[string]any, p *geom.Point) (float64, error) {
	if _, ok := props["depth"]; ok {
		return floatProperty(i, props, "depth")
	}
	if p.Layout().ZIndex() != -1 {
		return p.Z(), nil
	}
	return 0, fmt.Errorf("feature %d: %w: depth", i, domain.ErrMissingProperty)
}

// floatProperty returns the first of keys present in props as a number.
func floatProperty(i int, props map[string]any, keys ...string) (float64, error) {
	for _, k := range keys {
		v, ok := props[k]
		if !ok || v == nil {
			continue
		}
		n, ok := number(v)
		if !ok {
			return 0, fmt.Errorf("feature %d: %w: %s is not numeric (%v)", i, domain.ErrMissingProperty, k, v)
		}
		return n, nil
	}
	return 0, fmt.Errorf("feature %d: %w: %s", i, domain.ErrMissingProperty, keys[0])
}

// number reads v as a finite float. NaN and infinities are rejected.
func number(v any) (float64, bool) {
	var (
		f   float64
		err error
	)
	switch n := v.(type) {
	case float64:
		f = n
	case json.Number:
		f, err = n.Float64()
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0, false
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func stringProperty(props map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := props[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
