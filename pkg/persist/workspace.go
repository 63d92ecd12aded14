package persist

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/haivivi/kgview/pkg/graph"
	"github.com/haivivi/kgview/pkg/record"
)

// ChangeKind names the mutation behind a Change.
type ChangeKind string

const (
	VertexInserted ChangeKind = "vertex_inserted"
	VertexRemoved  ChangeKind = "vertex_removed"
	EdgeInserted   ChangeKind = "edge_inserted"
	EdgeRemoved    ChangeKind = "edge_removed"
)

// Change describes a committed mutation and the resulting graph size.
type Change struct {
	Kind     ChangeKind     `json:"kind"`
	Label    string         `json:"label,omitempty"`
	Edge     *graph.EdgeKey `json:"edge,omitempty"`
	Vertices int            `json:"vertices"`
	Edges    int            `json:"edges"`
}

// subscriberBuffer is how many changes a slow subscriber may fall behind
// before further changes are dropped for it.
const subscriberBuffer = 16

// Workspace holds the current graph for one table. Each mutation runs on
// a copy of the graph; the copy is persisted and replaces the current
// graph only if the write succeeds.
//
// A Workspace serialises its own callers. It does not coordinate with
// other processes writing the same table.
type Workspace struct {
	gw  *Gateway
	log *zap.Logger

	mu  sync.RWMutex
	cur *graph.Store

	subMu sync.Mutex
	subs  map[chan Change]struct{}
}

// Open loads the table behind g.
func Open(ctx context.Context, g *Gateway) (*Workspace, error) {
	s, err := g.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &Workspace{
		gw:   g,
		log:  g.log,
		cur:  s,
		subs: make(map[chan Change]struct{}),
	}, nil
}

// Read calls fn with the current graph under a read lock. fn must not
// retain or mutate the store.
func (w *Workspace) Read(fn func(*graph.Store) error) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return fn(w.cur)
}

// Records returns the persisted form of the current graph.
func (w *Workspace) Records() []record.Record {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return Snapshot(w.cur)
}

// InsertVertex adds a vertex and rewrites the table.
func (w *Workspace) InsertVertex(ctx context.Context, label string) (graph.Vertex, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	next := w.cur.Clone()
	v, err := next.InsertVertex(label)
	if err != nil {
		return graph.Vertex{}, err
	}
	if err := w.commit(ctx, next, Change{Kind: VertexInserted, Label: label}); err != nil {
		return graph.Vertex{}, err
	}
	return v, nil
}

// InsertEdge adds an edge between existing vertices and rewrites the table.
func (w *Workspace) InsertEdge(ctx context.Context, source, target, relation string) (graph.Edge, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	next := w.cur.Clone()
	e, err := next.InsertEdge(source, target, relation)
	if err != nil {
		return graph.Edge{}, err
	}
	key := e.Key()
	if err := w.commit(ctx, next, Change{Kind: EdgeInserted, Edge: &key}); err != nil {
		return graph.Edge{}, err
	}
	return e, nil
}

// RemoveVertex removes a vertex and its incident edges. It returns 0
// without touching the table when no vertex has that label.
func (w *Workspace) RemoveVertex(ctx context.Context, label string) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.cur.Vertex(label); !ok {
		return 0, nil
	}
	next := w.cur.Clone()
	n := next.RemoveVertex(label)
	if err := w.commit(ctx, next, Change{Kind: VertexRemoved, Label: label}); err != nil {
		return 0, err
	}
	return n, nil
}

// RemoveEdge removes the earliest edge matching key. It returns false
// without touching the table when nothing matches.
func (w *Workspace) RemoveEdge(ctx context.Context, key graph.EdgeKey) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	next := w.cur.Clone()
	if !next.RemoveEdge(key) {
		return false, nil
	}
	if err := w.commit(ctx, next, Change{Kind: EdgeRemoved, Edge: &key}); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveEdgeByID removes the edge with the given handle.
func (w *Workspace) RemoveEdgeByID(ctx context.Context, id graph.EdgeID) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var key graph.EdgeKey
	found := false
	for _, e := range w.cur.Edges() {
		if e.ID == id {
			key, found = e.Key(), true
			break
		}
	}
	if !found {
		return false, nil
	}
	next := w.cur.Clone()
	next.RemoveEdgeByID(id)
	if err := w.commit(ctx, next, Change{Kind: EdgeRemoved, Edge: &key}); err != nil {
		return false, err
	}
	return true, nil
}

// commit persists next and makes it current. Must hold w.mu.
func (w *Workspace) commit(ctx context.Context, next *graph.Store, ch Change) error {
	if err := w.gw.Persist(ctx, next); err != nil {
		w.log.Warn("mutation rolled back", zap.String("kind", string(ch.Kind)), zap.Error(err))
		return err
	}
	w.cur = next
	ch.Vertices = next.VertexCount()
	ch.Edges = next.EdgeCount()
	w.publish(ch)
	return nil
}

// Subscribe returns a channel of committed changes and a function that
// cancels the subscription and closes the channel. Changes are dropped
// for subscribers that fall behind.
func (w *Workspace) Subscribe() (<-chan Change, func()) {
	ch := make(chan Change, subscriberBuffer)
	w.subMu.Lock()
	w.subs[ch] = struct{}{}
	w.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			w.subMu.Lock()
			delete(w.subs, ch)
			w.subMu.Unlock()
			close(ch)
		})
	}
}

func (w *Workspace) publish(c Change) {
	w.subMu.Lock()
	defer w.subMu.Unlock()
	for ch := range w.subs {
		select {
		case ch <- c:
		default:
			w.log.Debug("subscriber behind, change dropped", zap.String("kind", string(c.Kind)))
		}
	}
}
