package app

import (
	"regexp"
	"strings"
)

// Query text attached to DB spans is collapsed to one line and capped so
// bulk upserts do not blow up trace payloads.
const maxTracedQueryLength = 512

var tracedQueryWhitespace = regexp.MustCompile(`\s+`)

func formatDBQueryForTrace(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	normalized := tracedQueryWhitespace.ReplaceAllString(query, " ")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	return normalized[:maxTracedQueryLength] + "..."
}
