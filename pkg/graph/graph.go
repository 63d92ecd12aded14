// Package graph provides an in-memory labeled multigraph. Vertices are
// identified by unique string labels. Edges connect two vertices with a
// relation label; they are stored with a fixed source/target order for
// display and persistence, but adjacency is symmetric.
//
// Vertices and edges live in arenas owned by a Store. Adjacency sequences
// and edge endpoints are indices into those arenas, so removing a vertex is
// a bounds-checked sweep over index lists rather than a walk over live
// references.
//
// A Store is not safe for concurrent use. Callers that share one across
// goroutines must serialise access (see persist.Workspace).
package graph

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrUnknownVertex is returned when an operation names a vertex label
	// that does not exist.
	ErrUnknownVertex = errors.New("graph: unknown vertex")

	// ErrDuplicateVertex is returned by InsertVertex when the label is
	// already taken. Labels are unique keys.
	ErrDuplicateVertex = errors.New("graph: duplicate vertex")

	// ErrInvalidLabel is returned for the empty vertex label, which is
	// reserved for the tail of placeholder records, and for labels or
	// relations containing "\r\n", which a CSV reader folds to "\n".
	ErrInvalidLabel = errors.New("graph: invalid label")
)

// VertexID is the arena index of a vertex. IDs are never reused within a
// Store, including after removal.
type VertexID int

// EdgeID is the arena index of an edge.
type EdgeID int

// Vertex is a labeled node.
type Vertex struct {
	ID    VertexID `json:"id"`
	Label string   `json:"label"`
}

// Edge is a relation between two vertices. Source and Target keep the
// order in which the edge was inserted.
type Edge struct {
	ID          EdgeID   `json:"id"`
	Source      VertexID `json:"source"`
	Target      VertexID `json:"target"`
	SourceLabel string   `json:"source_label"`
	TargetLabel string   `json:"target_label"`
	Relation    string   `json:"relation"`
}

// Key returns the (source, relation, target) identity of the edge.
func (e Edge) Key() EdgeKey {
	return EdgeKey{Source: e.SourceLabel, Relation: e.Relation, Target: e.TargetLabel}
}

// String formats the edge as "(source - relation - target)".
func (e Edge) String() string {
	return fmt.Sprintf("(%s - %s - %s)", e.SourceLabel, e.Relation, e.TargetLabel)
}

// IsLoop reports whether the edge connects a vertex to itself.
func (e Edge) IsLoop() bool {
	return e.Source == e.Target
}

// EdgeKey identifies an edge by labels when the caller holds no EdgeID.
// Parallel edges with identical keys are indistinguishable; removal by key
// removes exactly one of them.
type EdgeKey struct {
	Source   string `json:"source" yaml:"source"`
	Relation string `json:"relation" yaml:"relation"`
	Target   string `json:"target" yaml:"target"`
}

// UnknownVertexError lists the labels that could not be resolved. It
// matches ErrUnknownVertex with errors.Is.
type UnknownVertexError struct {
	Labels []string
}

func (e *UnknownVertexError) Error() string {
	if len(e.Labels) == 1 {
		return fmt.Sprintf("%v: %q", ErrUnknownVertex, e.Labels[0])
	}
	return fmt.Sprintf("%v: %q", ErrUnknownVertex, e.Labels)
}

func (e *UnknownVertexError) Is(target error) bool {
	return target == ErrUnknownVertex
}
