package pipeline

import (
	"strings"

	"github.com/fernandisraphael-art/solinvestti-sub000/internal"
	"github.com/fernandisraphael-art/solinvestti-sub000/internal/util"
)

// minPartialLen keeps short tokens ("UF", "CEP") out of substring fallback
// matching, where they would hit unrelated long headers.
const minPartialLen = 4

// HeaderIndex maps a row's normalized header tokens to their cell text. Built
// once per row, used for lookups, then discarded.
type HeaderIndex struct {
	tokens []string
	values map[string]string
}

func BuildHeaderIndex(row *internal.RawRow) *HeaderIndex {
	idx := &HeaderIndex{values: map[string]string{}}
	for _, header := range row.Headers() {
		token := util.NormalizeHeader(header)
		if token == "" {
			continue
		}
		if _, exists := idx.values[token]; exists {
			continue
		}
		idx.tokens = append(idx.tokens, token)
		idx.values[token] = strings.TrimSpace(row.Get(header).Text())
	}
	return idx
}

// Resolve finds the cell for a field given its alias list. Exact matches win
// outright, in alias order; only when no alias matches exactly does the
// substring fallback run. The fallback accepts containment in either
// direction and takes the first hit in column order.
func (idx *HeaderIndex) Resolve(aliases []string) (string, bool) {
	for _, alias := range aliases {
		token := util.NormalizeHeader(alias)
		if token == "" {
			continue
		}
		if value, ok := idx.values[token]; ok {
			return value, true
		}
	}

	for _, alias := range aliases {
		token := util.NormalizeHeader(alias)
		if len(token) < minPartialLen {
			continue
		}
		for _, header := range idx.tokens {
			if len(header) < minPartialLen {
				continue
			}
			if strings.Contains(header, token) || strings.Contains(token, header) {
				return idx.values[header], true
			}
		}
	}

	return "", false
}
