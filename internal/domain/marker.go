package domain

import (
	"fmt"
	"maps"
	"strconv"
	"time"
)

const (
	// quakeRadiusFactor scales magnitude to the on-screen marker radius.
	quakeRadiusFactor = 1.75

	// CityRadius is the on-screen half size of a city marker.
	CityRadius = 5.0
)

// Location is a WGS-84 latitude/longitude pair.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Kind tags the marker variant.
type Kind int

const (
	KindCity Kind = iota
	KindLandQuake
	KindOceanQuake
)

func (k Kind) String() string {
	switch k {
	case KindCity:
		return "city"
	case KindLandQuake:
		return "land_quake"
	case KindOceanQuake:
		return "ocean_quake"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name produced by MarshalText.
func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "city":
		*k = KindCity
	case "land_quake":
		*k = KindLandQuake
	case "ocean_quake":
		*k = KindOceanQuake
	default:
		return fmt.Errorf("unknown marker kind %q", b)
	}
	return nil
}

// QuakeRecord is an earthquake as delivered by the ingestion adapters.
type QuakeRecord struct {
	ID         string
	Location   Location
	Magnitude  float64
	Depth      float64
	Title      string
	Time       time.Time
	Age        string
	Properties map[string]any
}

// CityRecord is a city as delivered by the ingestion adapters.
type CityRecord struct {
	ID         string
	Location   Location
	Name       string
	Country    string
	Population float64 // millions
	Properties map[string]any
}

// QuakeAttrs is the earthquake payload of a marker.
type QuakeAttrs struct {
	Magnitude float64   `json:"magnitude"`
	Depth     float64   `json:"depth"`
	Title     string    `json:"title"`
	Age       string    `json:"age,omitempty"`
	Time      time.Time `json:"time,omitzero"`
	Country   string    `json:"country,omitempty"` // set for land quakes only
}

// CityAttrs is the city payload of a marker.
type CityAttrs struct {
	Name       string  `json:"name"`
	Country    string  `json:"country"`
	Population float64 `json:"population"`
}

// Marker is a single map marker. Exactly one of Quake or City is set,
// matching Kind.
type Marker struct {
	ID         string         `json:"id"`
	Kind       Kind           `json:"kind"`
	Location   Location       `json:"location"`
	Properties map[string]any `json:"properties,omitempty"`
	Quake      *QuakeAttrs    `json:"quake,omitempty"`
	City       *CityAttrs     `json:"city,omitempty"`

	Selected bool `json:"selected"`
	Clicked  bool `json:"clicked"`
	Hidden   bool `json:"hidden"`
}

// NewQuakeMarker builds an ocean quake marker from an ingested record.
// Use Classify to promote it to a land quake.
func NewQuakeMarker(rec QuakeRecord) *Marker {
	props := make(map[string]any, len(rec.Properties)+4)
	maps.Copy(props, rec.Properties)
	props["magnitude"] = rec.Magnitude
	props["depth"] = rec.Depth
	props["title"] = rec.Title
	if rec.Age != "" {
		props["age"] = rec.Age
	}

	return &Marker{
		ID:         rec.ID,
		Kind:       KindOceanQuake,
		Location:   rec.Location,
		Properties: props,
		Quake: &QuakeAttrs{
			Magnitude: rec.Magnitude,
			Depth:     rec.Depth,
			Title:     rec.Title,
			Age:       rec.Age,
			Time:      rec.Time,
		},
	}
}

// NewCityMarker builds a city marker from an ingested record.
func NewCityMarker(rec CityRecord) *Marker {
	props := make(map[string]any, len(rec.Properties)+3)
	maps.Copy(props, rec.Properties)
	props["name"] = rec.Name
	props["country"] = rec.Country
	props["population"] = rec.Population

	return &Marker{
		ID:         rec.ID,
		Kind:       KindCity,
		Location:   rec.Location,
		Properties: props,
		City: &CityAttrs{
			Name:       rec.Name,
			Country:    rec.Country,
			Population: rec.Population,
		},
	}
}

// IsQuake reports whether the marker is a land or ocean quake.
func (m *Marker) IsQuake() bool {
	return m.Kind == KindLandQuake || m.Kind == KindOceanQuake
}

// OnLand reports whether the marker is a quake classified inside a country.
func (m *Marker) OnLand() bool {
	return m.Kind == KindLandQuake
}

// Magnitude returns the quake magnitude, or 0 for cities.
func (m *Marker) Magnitude() float64 {
	if m.Quake == nil {
		return 0
	}
	return m.Quake.Magnitude
}

// Radius is the on-screen marker radius derived from the marker kind.
func (m *Marker) Radius() float64 {
	if m.IsQuake() {
		return quakeRadiusFactor * m.Magnitude()
	}
	return CityRadius
}

// ThreatRadiusKm returns the quake's threat circle radius, or 0 for cities.
func (m *Marker) ThreatRadiusKm() float64 {
	if !m.IsQuake() {
		return 0
	}
	return ThreatRadiusKm(m.Magnitude())
}

// Title is the label shown while the marker is selected.
func (m *Marker) Title() string {
	switch {
	case m.Quake != nil:
		return m.Quake.Title
	case m.City != nil:
		return fmt.Sprintf("%s, %s, %s Millions",
			m.City.Name, m.City.Country, strconv.FormatFloat(m.City.Population, 'f', -1, 64))
	default:
		return m.ID
	}
}

// markLand promotes an ocean quake to a land quake located in country.
func (m *Marker) markLand(country string) {
	m.Kind = KindLandQuake
	m.Quake.Country = country
	m.Properties["country"] = country
}

// Markers owns the two marker populations. Order is population order and is
// significant for hit-testing.
type Markers struct {
	Quakes []*Marker
	Cities []*Marker
}

// All returns quakes followed by cities.
func (ms *Markers) All() []*Marker {
	all := make([]*Marker, 0, len(ms.Quakes)+len(ms.Cities))
	all = append(all, ms.Quakes...)
	return append(all, ms.Cities...)
}

// SetHidden sets the hidden flag on every marker in both populations.
func (ms *Markers) SetHidden(hidden bool) {
	for _, m := range ms.Quakes {
		m.Hidden = hidden
	}
	for _, m := range ms.Cities {
		m.Hidden = hidden
	}
}
