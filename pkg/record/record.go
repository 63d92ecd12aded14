// Package record converts between persisted table rows and graph facts.
//
// A table is CSV with a fixed header:
//
//	head,relation,tail
//
// Each row is either an edge (head -relation-> tail) or a placeholder for an
// isolated vertex, where relation and tail are both empty.
package record

import (
	"errors"
	"fmt"

	"github.com/haivivi/kgview/pkg/graph"
)

// ErrMalformedRecord is returned when a row cannot be decoded.
var ErrMalformedRecord = errors.New("record: malformed record")

// Header is the fixed column order of a table.
var Header = []string{"head", "relation", "tail"}

// Record is one persisted row.
type Record struct {
	Head     string `json:"head" yaml:"head"`
	Relation string `json:"relation" yaml:"relation"`
	Tail     string `json:"tail" yaml:"tail"`
}

// IsPlaceholder reports whether the record only declares its head vertex.
func (r Record) IsPlaceholder() bool {
	return r.Relation == "" && r.Tail == ""
}

// Fields returns the record in column order.
func (r Record) Fields() []string {
	return []string{r.Head, r.Relation, r.Tail}
}

// Decode parses a row. Columns past the third are ignored.
func Decode(fields []string) (Record, error) {
	if len(fields) < len(Header) {
		return Record{}, fmt.Errorf("%w: want %d fields, got %d", ErrMalformedRecord, len(Header), len(fields))
	}
	r := Record{Head: fields[0], Relation: fields[1], Tail: fields[2]}
	if r.Head == "" {
		return Record{}, fmt.Errorf("%w: empty head", ErrMalformedRecord)
	}
	if r.Tail == "" && r.Relation != "" {
		return Record{}, fmt.Errorf("%w: relation %q has no tail", ErrMalformedRecord, r.Relation)
	}
	return r, nil
}

// Encode serializes an edge.
func Encode(e graph.Edge) Record {
	return Record{Head: e.SourceLabel, Relation: e.Relation, Tail: e.TargetLabel}
}

// EncodePlaceholder serializes an isolated vertex.
func EncodePlaceholder(v graph.Vertex) Record {
	return Record{Head: v.Label}
}

// LineError reports the table line of a decoding failure.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }
