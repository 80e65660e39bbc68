// Package geo provides the coordinate math used by photo-evidence verification:
// great-circle distance and EXIF DMS to decimal-degree conversion.
package geo

import (
	"math"
	"strconv"
	"strings"
)

const earthRadiusKm = 6371.0

// Haversine returns the great-circle distance in kilometers between two points
// given in decimal degrees. Callers are responsible for validating coordinate
// presence; the formula itself has no error cases.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// DMSToDecimal converts a degree/minute/second triple to decimal degrees,
// negated for the southern and western hemispheres and rounded to 7 decimals.
// Each component may be a plain number or a "numerator/denominator" fraction
// as found in EXIF rational tags; a malformed or zero-denominator component
// contributes 0 instead of failing the conversion.
func DMSToDecimal(degrees, minutes, seconds, hemisphere string) float64 {
	decimal := parseRational(degrees) + parseRational(minutes)/60 + parseRational(seconds)/3600

	switch strings.ToUpper(strings.TrimSpace(hemisphere)) {
	case "S", "W":
		decimal = -decimal
	}

	return math.Round(decimal*1e7) / 1e7
}

func parseRational(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	if num, den, ok := strings.Cut(raw, "/"); ok {
		n, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
		if err != nil {
			return 0
		}
		d, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err != nil || d == 0 {
			return 0
		}
		return n / d
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return value
}
