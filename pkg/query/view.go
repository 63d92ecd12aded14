package query

import (
	"github.com/haivivi/kgview/pkg/record"
)

// View is the display state chosen by a user.
type View struct {
	// Relations is the relation filter. Ignored when AllRelations is set.
	Relations []string `json:"relations,omitempty" yaml:"relations,omitempty" msgpack:"relations,omitempty"`

	// AllRelations selects every relation present in the records.
	AllRelations bool `json:"all_relations,omitempty" yaml:"all_relations,omitempty" msgpack:"all_relations,omitempty"`

	// Query is the vertex search text.
	Query string `json:"query,omitempty" yaml:"query,omitempty" msgpack:"query,omitempty"`
}

// DefaultView is the view of a session that has not chosen one: every
// relation selected and no search.
func DefaultView() View {
	return View{AllRelations: true}
}

// Status reports how a View was applied.
type Status int

const (
	// StatusOK means the records are the filtered and searched set.
	StatusOK Status = iota
	// StatusNoRelations means no relation was selected; the records are
	// unfiltered.
	StatusNoRelations
	// StatusSearchFallback means the search matched nothing; the records
	// are the relation-filtered set.
	StatusSearchFallback
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoRelations:
		return "no_relations"
	case StatusSearchFallback:
		return "search_fallback"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is the outcome of Apply.
type Result struct {
	Records []record.Record `json:"records" yaml:"records"`
	Status  Status          `json:"status" yaml:"status"`
	Message string          `json:"message,omitempty" yaml:"message,omitempty"`
}

// Status messages shown next to a result.
const (
	MsgNoRelations    = "select at least one relation filter"
	MsgSearchFallback = "no vertices matched the search"
)

// Apply runs the relation filter and then the search. An empty relation
// selection yields the unfiltered records with StatusNoRelations.
func Apply(records []record.Record, v View) Result {
	allowed := v.Relations
	if v.AllRelations {
		allowed = Relations(records)
	}
	if len(allowed) == 0 {
		return Result{Records: records, Status: StatusNoRelations, Message: MsgNoRelations}
	}
	filtered := FilterByRelations(records, allowed)
	matches, fallback := Search(filtered, v.Query)
	if fallback {
		return Result{Records: matches, Status: StatusSearchFallback, Message: MsgSearchFallback}
	}
	return Result{Records: matches, Status: StatusOK}
}
