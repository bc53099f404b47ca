package domain

import (
	"cmp"
	"fmt"
	"slices"
)

// RankByMagnitudeDescending returns a copy of quakes ordered by descending
// magnitude. The sort is stable: equal magnitudes keep their input order.
func RankByMagnitudeDescending(quakes []*Marker) []*Marker {
	ranked := slices.Clone(quakes)
	slices.SortStableFunc(ranked, func(a, b *Marker) int {
		return cmp.Compare(b.Magnitude(), a.Magnitude())
	})
	return ranked
}

// TopByMagnitude returns at most n quakes from the ranking. n <= 0 returns
// the full ranking.
func TopByMagnitude(quakes []*Marker, n int) []*Marker {
	ranked := RankByMagnitudeDescending(quakes)
	if n <= 0 || n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}

// CountryCount is the number of land quakes located in one country.
type CountryCount struct {
	Country string `json:"country"`
	Quakes  int    `json:"quakes"`
}

// Tally counts land quakes per country and the remaining ocean quakes.
type Tally struct {
	Countries []CountryCount `json:"countries"`
	Ocean     int            `json:"ocean"`
}

// TallyByCountry counts quakes per boundary, in boundary order, skipping
// countries without quakes.
func TallyByCountry(boundaries []Boundary, quakes []*Marker) Tally {
	counts := make(map[string]int)
	var t Tally
	for _, q := range quakes {
		if q.OnLand() {
			counts[q.Quake.Country]++
			continue
		}
		if q.Kind == KindOceanQuake {
			t.Ocean++
		}
	}

	seen := make(map[string]bool, len(boundaries))
	for _, b := range boundaries {
		if seen[b.Name] {
			continue
		}
		seen[b.Name] = true
		if n := counts[b.Name]; n > 0 {
			t.Countries = append(t.Countries, CountryCount{Country: b.Name, Quakes: n})
		}
	}
	return t
}

// Lines renders the tally for the operator console.
func (t Tally) Lines() []string {
	lines := make([]string, 0, len(t.Countries)+1)
	for _, c := range t.Countries {
		lines = append(lines, fmt.Sprintf("%s: %d", c.Country, c.Quakes))
	}
	return append(lines, fmt.Sprintf("OCEAN QUAKES: %d", t.Ocean))
}
