package domain

import (
	"strconv"
	"strings"
)

const (
	cityImpactHeading  = "Earthquakes that will impact the selected city:"
	quakeImpactHeading = "Cities inside the threat circle of the selected earthquake:"

	// NoEarthquakeDetected is reported for a clicked city outside every threat circle.
	NoEarthquakeDetected = "No earthquake detected"
)

// Summary is the text panel shown while a marker is clicked.
type Summary struct {
	Heading          string   `json:"heading"`
	Affected         []string `json:"affected"`
	AverageMagnitude *float64 `json:"average_magnitude,omitempty"`
	Message          string   `json:"message,omitempty"`
}

// SummarizeCity lists the quakes threatening city and their average magnitude.
func SummarizeCity(city *Marker, quakes []*Marker) Summary {
	s := Summary{Heading: cityImpactHeading}

	var sum float64
	for _, q := range ThreateningQuakes(city, quakes) {
		s.Affected = append(s.Affected, q.Title())
		sum += q.Magnitude()
	}

	if len(s.Affected) == 0 {
		s.Message = NoEarthquakeDetected
		return s
	}
	avg := sum / float64(len(s.Affected))
	s.AverageMagnitude = &avg
	return s
}

// SummarizeQuake lists the cities inside quake's threat circle.
func SummarizeQuake(quake *Marker, cities []*Marker) Summary {
	s := Summary{Heading: quakeImpactHeading}
	for _, c := range ThreatenedCities(quake, cities) {
		s.Affected = append(s.Affected, c.Title())
	}
	return s
}

// Text renders the summary as the multi-line panel content.
func (s Summary) Text() string {
	var b strings.Builder
	b.WriteString(s.Heading)
	b.WriteByte('\n')
	if s.Message != "" {
		b.WriteString(s.Message)
		return b.String()
	}
	for _, a := range s.Affected {
		b.WriteString(a)
		b.WriteByte('\n')
	}
	if s.AverageMagnitude != nil {
		b.WriteString("Average magnitude: ")
		b.WriteString(strconv.FormatFloat(*s.AverageMagnitude, 'f', 2, 64))
	}
	return strings.TrimRight(b.String(), "\n")
}
