package pipeline

import (
	"fmt"
	"io"

	"github.com/couchcryptid/quake-threat-map/internal/domain"
)

// ReportSize resolves the number of quakes in the console report. A
// configured size of 0 means one line per city.
func ReportSize(configured, cities int) int {
	if configured > 0 {
		return configured
	}
	return cities
}

// WriteReport prints the titles of the top quakes by descending magnitude,
// then the per-country tally when tally is set.
func WriteReport(w io.Writer, markers *domain.Markers, boundaries []domain.Boundary, top int, tally bool) error {
	if top > 0 {
		for _, q := range domain.TopByMagnitude(markers.Quakes, top) {
			if _, err := fmt.Fprintln(w, q.Title()); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
		}
	}
	if !tally {
		return nil
	}
	for _, line := range domain.TallyByCountry(boundaries, markers.Quakes).Lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("write tally: %w", err)
		}
	}
	return nil
}
