// Package persist keeps a graph.Store and its CSV table in step.
//
// Gateway converts between a table stored in a [storage.FileStore] and a
// [graph.Store]. Workspace owns the current store for one table and
// rewrites the table after every successful mutation.
package persist

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"go.uber.org/zap"

	"github.com/haivivi/kgview/pkg/graph"
	"github.com/haivivi/kgview/pkg/record"
	"github.com/haivivi/kgview/pkg/storage"
)

// ErrIO is returned when the table cannot be read or written.
var ErrIO = errors.New("persist: table i/o failed")

// Gateway loads and persists one table.
type Gateway struct {
	files storage.FileStore
	path  string
	log   *zap.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.log = l
		}
	}
}

// NewGateway returns a Gateway for the table at path within files.
func NewGateway(files storage.FileStore, path string, opts ...Option) *Gateway {
	g := &Gateway{files: files, path: path, log: zap.NewNop()}
	for _, opt := range opts {
		opt(g)
	}
	g.log = g.log.With(zap.String("table", path))
	return g
}

// Path returns the table path within the file store.
func (g *Gateway) Path() string { return g.path }

// Load reads the table and builds a store from it. A table that does not
// exist yet loads as an empty graph.
func (g *Gateway) Load(ctx context.Context) (*graph.Store, error) {
	rc, err := g.files.Read(ctx, g.path)
	if errors.Is(err, fs.ErrNotExist) {
		g.log.Info("table not found, starting empty")
		return graph.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrIO, g.path, err)
	}
	defer rc.Close()

	records, err := record.NewReader(rc).ReadAll()
	if err != nil {
		if errors.Is(err, record.ErrMalformedRecord) {
			return nil, fmt.Errorf("persist: load %s: %w", g.path, err)
		}
		return nil, fmt.Errorf("%w: read %s: %w", ErrIO, g.path, err)
	}
	s, err := Build(records)
	if err != nil {
		return nil, fmt.Errorf("persist: load %s: %w", g.path, err)
	}
	g.log.Debug("table loaded",
		zap.Int("records", len(records)),
		zap.Int("vertices", s.VertexCount()),
		zap.Int("edges", s.EdgeCount()))
	return s, nil
}

// Persist rewrites the whole table from s. The previous table stays in
// place if any step fails.
func (g *Gateway) Persist(ctx context.Context, s *graph.Store) error {
	w, err := g.files.Write(ctx, g.path)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", ErrIO, g.path, err)
	}
	records := Snapshot(s)
	if err := record.NewWriter(w).WriteAll(records); err != nil {
		w.Abort(err)
		return fmt.Errorf("%w: write %s: %w", ErrIO, g.path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("%w: commit %s: %w", ErrIO, g.path, err)
	}
	g.log.Debug("table written", zap.Int("records", len(records)))
	return nil
}

// Build constructs a store from decoded records. Each record ensures its
// head vertex; non-placeholder records also ensure the tail and add an
// edge.
func Build(records []record.Record) (*graph.Store, error) {
	s := graph.New()
	for i, r := range records {
		if _, err := s.EnsureVertex(r.Head); err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		if r.IsPlaceholder() {
			continue
		}
		if _, err := s.EnsureVertex(r.Tail); err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		if _, err := s.InsertEdge(r.Head, r.Tail, r.Relation); err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
	}
	return s, nil
}

// Snapshot returns the records that persist s: one per edge in insertion
// order, then one placeholder per isolated vertex in insertion order.
func Snapshot(s *graph.Store) []record.Record {
	edges := s.Edges()
	out := make([]record.Record, 0, len(edges))
	linked := make(map[graph.VertexID]bool, s.VertexCount())
	for _, e := range edges {
		out = append(out, record.Encode(e))
		linked[e.Source] = true
		linked[e.Target] = true
	}
	for _, v := range s.Vertices() {
		if !linked[v.ID] {
			out = append(out, record.EncodePlaceholder(v))
		}
	}
	return out
}
