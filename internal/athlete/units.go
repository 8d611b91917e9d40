package athlete

import (
	"fmt"
	"strconv"
	"strings"
)

// Centimeters, Kilograms, and MetersPerSecond are distinct wrapper types
// so that arithmetic across units (adding a height to a weight, say) is
// a compile-time error rather than a silent bug. Conversion happens only
// at the boundary, in the functions below.
type Centimeters float64
type Kilograms float64
type MetersPerSecond float64

// FeetInchesToCM parses heights in every encoding the providers emit:
// 6'2", 6-2, or a bare inches string like "74".
func FeetInchesToCM(raw string) (Centimeters, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("empty height string")
	}

	if inches, err := strconv.ParseFloat(raw, 64); err == nil {
		return Centimeters(inches * 2.54), nil
	}

	sep := "-"
	if strings.ContainsAny(raw, "'′") {
		sep = "'"
	}

	parts := strings.SplitN(raw, sep, 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("unrecognized height encoding: %q", raw)
	}

	feet, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, fmt.Errorf("unrecognized height encoding: %q", raw)
	}

	inchesPart := strings.TrimSpace(parts[1])
	inchesPart = strings.TrimSuffix(inchesPart, `"`)
	inchesPart = strings.TrimSuffix(inchesPart, "″")
	inches, err := strconv.Atoi(inchesPart)
	if err != nil {
		return 0, fmt.Errorf("unrecognized height encoding: %q", raw)
	}

	totalInches := float64(feet*12 + inches)
	return Centimeters(totalInches * 2.54), nil
}

// PoundsToKG converts a pounds value to the canonical Kilograms wrapper.
func PoundsToKG(lb float64) Kilograms {
	return Kilograms(lb * 0.45359237)
}

// MPHToMPS converts miles-per-hour to the canonical MetersPerSecond wrapper.
func MPHToMPS(mph float64) MetersPerSecond {
	return MetersPerSecond(mph * 0.44704)
}
