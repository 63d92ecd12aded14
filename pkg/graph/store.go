package graph

import (
	"fmt"
	"slices"
	"strings"
)

type vertexSlot struct {
	label string
	// adj holds one entry per incident edge: the opposite endpoint, or the
	// vertex itself for a self-loop.
	adj  []VertexID
	live bool
}

type edgeSlot struct {
	source   VertexID
	target   VertexID
	relation string
	live     bool
}

// Store is the in-memory multigraph. The zero value is not usable; create
// one with New.
type Store struct {
	vertices []vertexSlot
	edges    []edgeSlot
	byLabel  map[string]VertexID

	numVertices int
	numEdges    int
}

// New creates an empty Store.
func New() *Store {
	return &Store{byLabel: make(map[string]VertexID)}
}

// VertexCount returns the number of live vertices.
func (s *Store) VertexCount() int { return s.numVertices }

// EdgeCount returns the number of live edges.
func (s *Store) EdgeCount() int { return s.numEdges }

func (s *Store) lookup(label string) (VertexID, bool) {
	id, ok := s.byLabel[label]
	return id, ok
}

func (s *Store) resolve(labels ...string) ([]VertexID, error) {
	ids := make([]VertexID, len(labels))
	var missing []string
	for i, l := range labels {
		id, ok := s.lookup(l)
		if !ok {
			if !slices.Contains(missing, l) {
				missing = append(missing, l)
			}
			continue
		}
		ids[i] = id
	}
	if len(missing) > 0 {
		return nil, &UnknownVertexError{Labels: missing}
	}
	return ids, nil
}

func (s *Store) vertex(id VertexID) Vertex {
	return Vertex{ID: id, Label: s.vertices[id].label}
}

func (s *Store) edge(id EdgeID) Edge {
	e := s.edges[id]
	return Edge{
		ID:          id,
		Source:      e.source,
		Target:      e.target,
		SourceLabel: s.vertices[e.source].label,
		TargetLabel: s.vertices[e.target].label,
		Relation:    e.relation,
	}
}

// Vertex looks up a live vertex by label.
func (s *Store) Vertex(label string) (Vertex, bool) {
	id, ok := s.lookup(label)
	if !ok {
		return Vertex{}, false
	}
	return s.vertex(id), true
}

// Vertices returns all live vertices in insertion order.
func (s *Store) Vertices() []Vertex {
	out := make([]Vertex, 0, s.numVertices)
	for i, v := range s.vertices {
		if v.live {
			out = append(out, s.vertex(VertexID(i)))
		}
	}
	return out
}

// Edges returns all live edges in insertion order.
func (s *Store) Edges() []Edge {
	out := make([]Edge, 0, s.numEdges)
	for i, e := range s.edges {
		if e.live {
			out = append(out, s.edge(EdgeID(i)))
		}
	}
	return out
}

// Degree returns the number of edges incident to the vertex, counted from
// the edge set. A self-loop counts once.
func (s *Store) Degree(label string) (int, error) {
	ids, err := s.resolve(label)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range s.edges {
		if e.live && (e.source == ids[0] || e.target == ids[0]) {
			n++
		}
	}
	return n, nil
}

// IncidentEdges returns every edge where the vertex is source or target,
// in insertion order.
func (s *Store) IncidentEdges(label string) ([]Edge, error) {
	ids, err := s.resolve(label)
	if err != nil {
		return nil, err
	}
	var out []Edge
	for i, e := range s.edges {
		if e.live && (e.source == ids[0] || e.target == ids[0]) {
			out = append(out, s.edge(EdgeID(i)))
		}
	}
	return out, nil
}

// AdjacentVertices returns the opposite endpoint of every incident edge in
// edge insertion order. Parallel edges yield duplicate entries.
func (s *Store) AdjacentVertices(label string) ([]Vertex, error) {
	ids, err := s.resolve(label)
	if err != nil {
		return nil, err
	}
	v := ids[0]
	var out []Vertex
	for _, e := range s.edges {
		if !e.live {
			continue
		}
		switch v {
		case e.source:
			out = append(out, s.vertex(e.target))
		case e.target:
			out = append(out, s.vertex(e.source))
		}
	}
	return out, nil
}

// Adjacency returns the cached adjacency sequence of the vertex. Its length
// always equals Degree.
func (s *Store) Adjacency(label string) ([]Vertex, error) {
	ids, err := s.resolve(label)
	if err != nil {
		return nil, err
	}
	adj := s.vertices[ids[0]].adj
	out := make([]Vertex, len(adj))
	for i, id := range adj {
		out[i] = s.vertex(id)
	}
	return out, nil
}

// AreAdjacent reports whether b appears in a's adjacency sequence.
func (s *Store) AreAdjacent(a, b string) (bool, error) {
	ids, err := s.resolve(a, b)
	if err != nil {
		return false, err
	}
	return slices.Contains(s.vertices[ids[0]].adj, ids[1]), nil
}

// EdgesBetween returns the edges stored from source to target, in insertion
// order. Unknown labels yield no edges.
func (s *Store) EdgesBetween(source, target string) []Edge {
	src, ok1 := s.lookup(source)
	dst, ok2 := s.lookup(target)
	if !ok1 || !ok2 {
		return nil
	}
	var out []Edge
	for i, e := range s.edges {
		if e.live && e.source == src && e.target == dst {
			out = append(out, s.edge(EdgeID(i)))
		}
	}
	return out
}

// InsertVertex adds a vertex. It fails with ErrDuplicateVertex if the label
// is taken and ErrInvalidLabel if the label is empty or contains "\r\n".
func (s *Store) InsertVertex(label string) (Vertex, error) {
	if label == "" {
		return Vertex{}, fmt.Errorf("%w: empty label", ErrInvalidLabel)
	}
	if strings.Contains(label, "\r\n") {
		return Vertex{}, fmt.Errorf("%w: %q contains CRLF", ErrInvalidLabel, label)
	}
	if _, ok := s.lookup(label); ok {
		return Vertex{}, fmt.Errorf("%w: %q", ErrDuplicateVertex, label)
	}
	id := VertexID(len(s.vertices))
	s.vertices = append(s.vertices, vertexSlot{label: label, live: true})
	s.byLabel[label] = id
	s.numVertices++
	return s.vertex(id), nil
}

// EnsureVertex returns the vertex with the given label, inserting it first
// if it does not exist.
func (s *Store) EnsureVertex(label string) (Vertex, error) {
	if v, ok := s.Vertex(label); ok {
		return v, nil
	}
	return s.InsertVertex(label)
}

// InsertEdge connects two existing vertices. The relation may be any string
// without "\r\n". Self-loops and parallel edges are allowed.
func (s *Store) InsertEdge(source, target, relation string) (Edge, error) {
	if strings.Contains(relation, "\r\n") {
		return Edge{}, fmt.Errorf("%w: relation %q contains CRLF", ErrInvalidLabel, relation)
	}
	ids, err := s.resolve(source, target)
	if err != nil {
		return Edge{}, err
	}
	src, dst := ids[0], ids[1]
	id := EdgeID(len(s.edges))
	s.edges = append(s.edges, edgeSlot{source: src, target: dst, relation: relation, live: true})
	s.vertices[src].adj = append(s.vertices[src].adj, dst)
	if src != dst {
		s.vertices[dst].adj = append(s.vertices[dst].adj, src)
	}
	s.numEdges++
	return s.edge(id), nil
}

// RemoveVertex deletes the vertex, every edge incident to it, and every
// adjacency entry that references it. It returns the number of vertices
// removed: 1, or 0 if the label is unknown.
func (s *Store) RemoveVertex(label string) int {
	id, ok := s.lookup(label)
	if !ok {
		return 0
	}
	for i := range s.edges {
		e := &s.edges[i]
		if e.live && (e.source == id || e.target == id) {
			e.live = false
			s.numEdges--
		}
	}
	for i := range s.vertices {
		v := &s.vertices[i]
		if !v.live || VertexID(i) == id {
			continue
		}
		v.adj = slices.DeleteFunc(v.adj, func(n VertexID) bool { return n == id })
	}
	s.vertices[id] = vertexSlot{label: label}
	delete(s.byLabel, label)
	s.numVertices--
	return 1
}

// RemoveEdge removes exactly one edge matching key, the earliest inserted,
// and reports whether one was found.
func (s *Store) RemoveEdge(key EdgeKey) bool {
	src, ok1 := s.lookup(key.Source)
	dst, ok2 := s.lookup(key.Target)
	if !ok1 || !ok2 {
		return false
	}
	for i, e := range s.edges {
		if e.live && e.source == src && e.target == dst && e.relation == key.Relation {
			s.removeEdgeAt(EdgeID(i))
			return true
		}
	}
	return false
}

// RemoveEdgeByID removes the edge with the given handle.
func (s *Store) RemoveEdgeByID(id EdgeID) bool {
	if id < 0 || int(id) >= len(s.edges) || !s.edges[id].live {
		return false
	}
	s.removeEdgeAt(id)
	return true
}

// removeEdgeAt strips one occurrence of each endpoint from the other's
// adjacency, leaving entries for parallel edges in place.
func (s *Store) removeEdgeAt(id EdgeID) {
	e := &s.edges[id]
	e.live = false
	s.numEdges--
	s.vertices[e.source].adj = removeOne(s.vertices[e.source].adj, e.target)
	if e.source != e.target {
		s.vertices[e.target].adj = removeOne(s.vertices[e.target].adj, e.source)
	}
}

func removeOne(adj []VertexID, v VertexID) []VertexID {
	if i := slices.Index(adj, v); i >= 0 {
		return slices.Delete(adj, i, i+1)
	}
	return adj
}

// Clone returns a deep copy. IDs are preserved.
func (s *Store) Clone() *Store {
	c := &Store{
		vertices:    make([]vertexSlot, len(s.vertices)),
		edges:       slices.Clone(s.edges),
		byLabel:     make(map[string]VertexID, len(s.byLabel)),
		numVertices: s.numVertices,
		numEdges:    s.numEdges,
	}
	for i, v := range s.vertices {
		v.adj = slices.Clone(v.adj)
		c.vertices[i] = v
	}
	for l, id := range s.byLabel {
		c.byLabel[l] = id
	}
	return c
}

// Validate checks the referential invariants: every live edge has live
// endpoints, and every adjacency sequence has exactly one entry per
// incident edge.
func (s *Store) Validate() error {
	want := make([][]VertexID, len(s.vertices))
	for i, e := range s.edges {
		if !e.live {
			continue
		}
		if !s.vertices[e.source].live || !s.vertices[e.target].live {
			return fmt.Errorf("graph: edge %d references a removed vertex", i)
		}
		want[e.source] = append(want[e.source], e.target)
		if e.source != e.target {
			want[e.target] = append(want[e.target], e.source)
		}
	}
	for i, v := range s.vertices {
		if !v.live {
			continue
		}
		got := slices.Clone(v.adj)
		exp := want[i]
		slices.Sort(got)
		slices.Sort(exp)
		if !slices.Equal(got, exp) {
			return fmt.Errorf("graph: adjacency of %q is %v, want %v", v.label, got, exp)
		}
	}
	return nil
}
