package domain

import "time"

// Depth thresholds in kilometers.
const (
	ThresholdIntermediate = 70.0
	ThresholdDeep         = 300.0
)

// Magnitude thresholds.
const (
	ThresholdLight    = 4.0
	ThresholdModerate = 5.0
)

// Age categories, matching the labels used by the USGS Atom feeds.
const (
	AgePastHour  = "Past Hour"
	AgePastDay   = "Past Day"
	AgePastWeek  = "Past Week"
	AgePastMonth = "Past Month"
)

// DepthClass maps a hypocenter depth to shallow, intermediate or deep.
func DepthClass(depth float64) string {
	switch {
	case depth < ThresholdIntermediate:
		return "shallow"
	case depth < ThresholdDeep:
		return "intermediate"
	default:
		return "deep"
	}
}

// MagnitudeClass maps a magnitude to minor, light or moderate.
func MagnitudeClass(magnitude float64) string {
	switch {
	case magnitude < ThresholdLight:
		return "minor"
	case magnitude < ThresholdModerate:
		return "light"
	default:
		return "moderate"
	}
}

// AgeCategory buckets an event time relative to the package clock.
// A zero time yields an empty category.
func AgeCategory(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	age := clock.Since(t)
	switch {
	case age < time.Hour:
		return AgePastHour
	case age < 24*time.Hour:
		return AgePastDay
	case age < 7*24*time.Hour:
		return AgePastWeek
	default:
		return AgePastMonth
	}
}

// IsRecent reports whether an age category gets the recency cross.
func IsRecent(age string) bool {
	return age == AgePastHour || age == AgePastDay
}
