package utils

import "strings"

// NormalizePlate normalizes a plate number to a single format:
// spaces and dashes removed, upper case.
func NormalizePlate(raw string) string {
	normalized := strings.TrimSpace(raw)
	normalized = strings.ReplaceAll(normalized, " ", "")
	normalized = strings.ReplaceAll(normalized, "-", "")
	normalized = strings.ToUpper(normalized)
	return normalized
}

// NormalizeVIN normalizes a VIN the same way. VIN is the primary correlation
// key for odometer history, so lookups and writes must agree on the format.
func NormalizeVIN(raw string) string {
	return NormalizePlate(raw)
}
