// Command validate performs data integrity checks on the three map inputs:
// the earthquake feed, the city list, and the country outlines. It verifies
// field presence and ranges, geometry well-formedness, and that land/ocean
// classification is self-consistent.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -quakes data/quakes.geojson \
//	  -cities data/city-data.json \
//	  -countries data/countries.geo.json
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/twpayne/go-geom"

	"github.com/couchcryptid/quake-threat-map/internal/adapter/geojson"
	"github.com/couchcryptid/quake-threat-map/internal/adapter/locator"
	"github.com/couchcryptid/quake-threat-map/internal/domain"
	"github.com/couchcryptid/quake-threat-map/internal/pipeline"
)

const (
	minMagnitude = -2.0
	maxMagnitude = 10.0
	minDepth     = -10.0 // km; shallow events above the geoid report negative depth
	maxDepth     = 800.0
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	quakes := flag.String("quakes", "", "earthquake GeoJSON file")
	cities := flag.String("cities", "data/city-data.json", "city GeoJSON file")
	countries := flag.String("countries", "data/countries.geo.json", "country outline GeoJSON file")
	flag.Parse()

	if *quakes == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(geojson.Files{Quakes: *quakes, Cities: *cities, Countries: *countries}); code != 0 {
		os.Exit(code)
	}
}

func run(files geojson.Files) int {
	ctx := context.Background()

	// ── Load all data sources ──
	fmt.Println("=== Quake Map Data Integrity Validation ===")
	fmt.Println()

	quakes, err := files.FetchQuakes(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load quakes: %v\n", err)
		return 1
	}
	cities, err := files.LoadCities(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load cities: %v\n", err)
		return 1
	}
	boundaries, err := files.LoadCountries(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load countries: %v\n", err)
		return 1
	}

	// ── Run validation phases ──
	markers := pipeline.BuildMarkers(quakes, cities, domain.NewBoundaryLocator(boundaries))
	phases := []*phase{
		validateQuakes(quakes),
		validateCities(cities),
		validateBoundaries(boundaries),
		validateClassification(markers, boundaries),
	}

	// ── Report results ──
	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	tally := domain.TallyByCountry(boundaries, markers.Quakes)
	fmt.Println()
	fmt.Printf("Records: %d quakes (%d ocean), %d cities, %d countries (%d with quakes)\n",
		len(quakes), tally.Ocean, len(cities), len(boundaries), len(tally.Countries))

	// Print detailed errors.
	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func validLocation(loc domain.Location) bool {
	return loc.Lat >= -90 && loc.Lat <= 90 && loc.Lon >= -180 && loc.Lon <= 180
}

func validateQuakes(quakes []domain.QuakeRecord) *phase {
	p := &phase{name: "Phase 1: Quake Records"}
	seen := make(map[string]int, len(quakes))
	for i, q := range quakes {
		if prev, dup := seen[q.ID]; dup {
			p.errorf("quake %d: duplicate id %q (first at %d)", i, q.ID, prev)
		} else {
			seen[q.ID] = i
		}
		if !validLocation(q.Location) {
			p.errorf("quake %s: location out of range (%.4f, %.4f)", q.ID, q.Location.Lat, q.Location.Lon)
		}
		if q.Magnitude < minMagnitude || q.Magnitude > maxMagnitude {
			p.errorf("quake %s: magnitude %.2f outside [%.0f, %.0f]", q.ID, q.Magnitude, minMagnitude, maxMagnitude)
		}
		if q.Depth < minDepth || q.Depth > maxDepth {
			p.errorf("quake %s: depth %.2f km outside [%.0f, %.0f]", q.ID, q.Depth, minDepth, maxDepth)
		}
		if q.Title == "" {
			p.errorf("quake %s: empty title", q.ID)
		}
	}
	return p
}

func validateCities(cities []domain.CityRecord) *phase {
	p := &phase{name: "Phase 2: City Records"}
	seen := make(map[string]bool, len(cities))
	for i, c := range cities {
		if seen[c.ID] {
			p.errorf("city %d: duplicate id %q", i, c.ID)
		}
		seen[c.ID] = true
		if c.Name == "" {
			p.errorf("city %d: empty name", i)
		}
		if c.Country == "" {
			p.errorf("city %s: empty country", c.ID)
		}
		if c.Population < 0 {
			p.errorf("city %s: negative population %.2f", c.ID, c.Population)
		}
		if !validLocation(c.Location) {
			p.errorf("city %s: location out of range (%.4f, %.4f)", c.ID, c.Location.Lat, c.Location.Lon)
		}
	}
	return p
}

func validateBoundaries(boundaries []domain.Boundary) *phase {
	p := &phase{name: "Phase 3: Country Boundaries"}
	seen := make(map[string]bool, len(boundaries))
	for i, b := range boundaries {
		if b.Name == "" {
			p.errorf("country %d: empty name", i)
		}
		if seen[b.Name] {
			p.errorf("country %d: duplicate name %q", i, b.Name)
		}
		seen[b.Name] = true
		if len(b.Parts) == 0 {
			p.errorf("country %s: no polygons", b.Name)
		}
		if b.Kind == domain.SinglePolygon && len(b.Parts) != 1 {
			p.errorf("country %s: single polygon with %d parts", b.Name, len(b.Parts))
		}
		for j, poly := range b.Parts {
			checkPolygon(p, b.Name, j, poly)
		}
	}
	return p
}

func checkPolygon(p *phase, name string, part int, poly *geom.Polygon) {
	if poly.NumLinearRings() == 0 {
		p.errorf("country %s part %d: no rings", name, part)
		return
	}
	for r := 0; r < poly.NumLinearRings(); r++ {
		ring := poly.LinearRing(r)
		n := ring.NumCoords()
		if n < 4 {
			p.errorf("country %s part %d ring %d: %d coordinates, need at least 4", name, part, r, n)
			continue
		}
		first, last := ring.Coord(0), ring.Coord(n-1)
		if first.X() != last.X() || first.Y() != last.Y() {
			p.errorf("country %s part %d ring %d: not closed", name, part, r)
		}
		for k := 0; k < n; k++ {
			c := ring.Coord(k)
			if !validLocation(domain.Location{Lat: c.Y(), Lon: c.X()}) {
				p.errorf("country %s part %d ring %d: coordinate %d out of range", name, part, r, k)
				break
			}
		}
	}
}

// validateClassification re-locates every quake through the cached locator
// and checks it agrees with the load-time classification and the tally.
func validateClassification(markers *domain.Markers, boundaries []domain.Boundary) *phase {
	p := &phase{name: "Phase 4: Land/Ocean Classification"}
	names := make(map[string]bool, len(boundaries))
	for _, b := range boundaries {
		names[b.Name] = true
	}

	cached := locator.NewCachedLocator(domain.NewBoundaryLocator(boundaries), len(markers.Quakes)+1, nil)
	for _, q := range markers.Quakes {
		country, onLand := cached.Locate(q.Location)
		if onLand != q.OnLand() {
			p.errorf("quake %s: classified on_land=%t, relocated on_land=%t", q.ID, q.OnLand(), onLand)
			continue
		}
		if onLand && country != q.Quake.Country {
			p.errorf("quake %s: classified in %q, relocated in %q", q.ID, q.Quake.Country, country)
		}
		if q.OnLand() && !names[q.Quake.Country] {
			p.errorf("quake %s: country %q has no boundary", q.ID, q.Quake.Country)
		}
	}

	tally := domain.TallyByCountry(boundaries, markers.Quakes)
	total := tally.Ocean
	for _, c := range tally.Countries {
		total += c.Quakes
	}
	if total != len(markers.Quakes) {
		p.errorf("tally covers %d quakes, loaded %d", total, len(markers.Quakes))
	}
	return p
}
