package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	reNonAllowed = regexp.MustCompile(`[^A-Z0-9\s]`)
	reSpaces     = regexp.MustCompile(`\s+`)
)

// NormalizeHeader canonicalizes a human-typed column header into a comparable
// token: trim, uppercase, strip diacritics, drop everything outside [A-Z0-9],
// collapse whitespace. Total and idempotent.
func NormalizeHeader(input string) string {
	s := strings.ToUpper(strings.TrimSpace(input))
	s = stripDiacritics(s)
	s = reNonAllowed.ReplaceAllString(s, " ")
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// stripDiacritics NFD-decomposes the string and drops combining marks, so
// "COMISSÃO" and "COMISSAO" come out identical.
func stripDiacritics(s string) string {
	decomposed := norm.NFD.String(s)
	out := strings.Builder{}
	out.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}

func CollapseSpaces(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(input, " "))
}

func ContainsDigit(input string) bool {
	for _, r := range input {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

func StringPtr(v string) *string { return &v }

func FloatPtr(v float64) *float64 { return &v }

func IntPtr(v int) *int { return &v }
