package httpx

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// StrTrue represents the string "true" for boolean form and query parameters.
	StrTrue = "true"
	// StrFalse represents the string "false" for boolean form and query parameters.
	StrFalse = "false"

	searchParam   = "q"
	maxSearchTerm = 100
)

// ParseSearchTerm returns the visitor search term from the query as typed,
// capped so a pasted blob cannot blow up the filter.
func ParseSearchTerm(q url.Values) string {
	term := q.Get(searchParam)
	if r := []rune(term); len(r) > maxSearchTerm {
		term = string(r[:maxSearchTerm])
	}
	return term
}

// ParseBoolParam parses "true"/"false" (any case, trimmed).
func ParseBoolParam(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case StrTrue:
		return true, nil
	case StrFalse:
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", raw)
	}
}
