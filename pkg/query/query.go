// Package query selects the records a renderer should display: filtering
// by relation, case-insensitive vertex search and the combined view
// pipeline.
package query

import (
	"slices"
	"strings"

	"github.com/haivivi/kgview/pkg/record"
)

// FilterByRelations returns the records whose relation is in allowed, in
// input order. Placeholder records have an empty relation and are kept
// only when "" is allowed.
func FilterByRelations(records []record.Record, allowed []string) []record.Record {
	out := make([]record.Record, 0, len(records))
	for _, r := range records {
		if slices.Contains(allowed, r.Relation) {
			out = append(out, r)
		}
	}
	return out
}

// Search returns the records whose head or tail contains q, ignoring case.
// An empty q returns records unchanged. When nothing matches, Search
// returns records unchanged with fallback set.
func Search(records []record.Record, q string) (matches []record.Record, fallback bool) {
	if q == "" {
		return records, false
	}
	needle := strings.ToLower(q)
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Head), needle) ||
			strings.Contains(strings.ToLower(r.Tail), needle) {
			matches = append(matches, r)
		}
	}
	if len(matches) == 0 {
		return records, true
	}
	return matches, false
}

// Relations returns the distinct non-empty relations in first-seen order.
func Relations(records []record.Record) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range records {
		if r.Relation == "" || seen[r.Relation] {
			continue
		}
		seen[r.Relation] = true
		out = append(out, r.Relation)
	}
	return out
}
