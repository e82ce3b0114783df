package util

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	decimalPattern  = regexp.MustCompile(`[0-9]+(\.[0-9]+)?`)
	currencyStrip   = regexp.MustCompile(`(?i)r?\$|\s|\x{00A0}`)
	currencyAllowed = regexp.MustCompile(`^[0-9.,\-]+$`)
)

// ParseCapacity pulls the first decimal magnitude out of a free-text capacity
// cell ("500 KWp", "1,5 MW") and keeps it as a string. Nothing parsable
// yields "0".
func ParseCapacity(input string) string {
	s := strings.ReplaceAll(input, ",", ".")
	if m := decimalPattern.FindString(s); m != "" {
		return m
	}
	return "0"
}

// ParseCurrency parses Brazilian- and plain-format currency text. The
// rightmost "."/"," is trusted as the decimal separator and every separator
// before it is treated as a thousands mark, so "R$ 120.000.000,00" and
// "150000000" both parse. Anything malformed, empty or negative yields 0.
func ParseCurrency(input string) float64 {
	s := currencyStrip.ReplaceAllString(input, "")
	if s == "" || !currencyAllowed.MatchString(s) {
		return 0
	}

	if last := strings.LastIndexAny(s, ".,"); last >= 0 {
		intPart := strings.NewReplacer(".", "", ",", "").Replace(s[:last])
		s = intPart + "." + s[last+1:]
	}

	parsed, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) || parsed < 0 {
		return 0
	}
	return parsed
}

// ParsePercent parses "10%", "7,5 %" or bare numbers. Failure falls back to
// the caller's default rather than 0: an unspecified percentage is not the
// same business fact as 0%.
func ParsePercent(input string, fallback float64) float64 {
	s := strings.TrimSpace(input)
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return fallback
	}

	parsed, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) || parsed < 0 {
		return fallback
	}
	return parsed
}
