package persist_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haivivi/kgview/pkg/graph"
	"github.com/haivivi/kgview/pkg/persist"
	"github.com/haivivi/kgview/pkg/record"
	"github.com/haivivi/kgview/pkg/storage"
)

const tablePath = "graph.csv"

func newLocal(t *testing.T) *storage.Local {
	t.Helper()
	s, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	return s
}

func writeTable(t *testing.T, s *storage.Local, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(s.Root(), tablePath), []byte(content), 0o644))
}

func readTable(t *testing.T, s *storage.Local) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(s.Root(), tablePath))
	require.NoError(t, err)
	return string(b)
}

func vertexLabels(s *graph.Store) []string {
	var out []string
	for _, v := range s.Vertices() {
		out = append(out, v.Label)
	}
	slices.Sort(out)
	return out
}

func edgeTriples(s *graph.Store) []string {
	var out []string
	for _, e := range s.Edges() {
		out = append(out, e.SourceLabel+"|"+e.Relation+"|"+e.TargetLabel)
	}
	slices.Sort(out)
	return out
}

func TestLoadScenario(t *testing.T) {
	files := newLocal(t)
	writeTable(t, files, "head,relation,tail\nA,likes,B\nB,knows,C\n")

	s, err := persist.NewGateway(files, tablePath).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, s.VertexCount())
	assert.Equal(t, 2, s.EdgeCount())
	d, err := s.Degree("B")
	require.NoError(t, err)
	assert.Equal(t, 2, d)

	adj, err := s.AdjacentVertices("B")
	require.NoError(t, err)
	require.Len(t, adj, 2)
	assert.Equal(t, "A", adj[0].Label)
	assert.Equal(t, "C", adj[1].Label)
}

func TestLoadMissingTable(t *testing.T) {
	s, err := persist.NewGateway(newLocal(t), tablePath).Load(context.Background())
	require.NoError(t, err)
	assert.Zero(t, s.VertexCount())
	assert.Zero(t, s.EdgeCount())
}

func TestLoadMalformed(t *testing.T) {
	files := newLocal(t)
	writeTable(t, files, "head,relation,tail\nA,likes,B\nC,knows\n")

	_, err := persist.NewGateway(files, tablePath).Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, record.ErrMalformedRecord)
	assert.NotErrorIs(t, err, persist.ErrIO)

	var le *record.LineError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, 3, le.Line)
}

func TestLoadPlaceholdersAndParallelEdges(t *testing.T) {
	files := newLocal(t)
	writeTable(t, files, "head,relation,tail\nA,likes,B\nA,likes,B\nB,,B\nZ,,\n")

	s, err := persist.NewGateway(files, tablePath).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "Z"}, vertexLabels(s))
	assert.Equal(t, 3, s.EdgeCount())
	d, _ := s.Degree("Z")
	assert.Zero(t, d)
}

func TestPersistLayout(t *testing.T) {
	s := graph.New()
	for _, l := range []string{"A", "lonely", "B", "C"} {
		_, err := s.InsertVertex(l)
		require.NoError(t, err)
	}
	_, err := s.InsertEdge("B", "C", "knows")
	require.NoError(t, err)
	_, err = s.InsertEdge("A", "B", "likes")
	require.NoError(t, err)

	files := newLocal(t)
	require.NoError(t, persist.NewGateway(files, tablePath).Persist(context.Background(), s))

	assert.Equal(t, "head,relation,tail\nB,knows,C\nA,likes,B\nlonely,,\n", readTable(t, files))
}

func TestPersistEmptyGraph(t *testing.T) {
	files := newLocal(t)
	require.NoError(t, persist.NewGateway(files, tablePath).Persist(context.Background(), graph.New()))
	assert.Equal(t, "head,relation,tail\n", readTable(t, files))
}

func TestRoundTrip(t *testing.T) {
	s := graph.New()
	for _, l := range []string{"A", "B", "C, with comma", `D "quoted"`, "E"} {
		_, err := s.InsertVertex(l)
		require.NoError(t, err)
	}
	for _, e := range [][3]string{
		{"A", "B", "likes"},
		{"A", "B", "likes"},
		{"B", "A", "likes"},
		{"C, with comma", `D "quoted"`, "multi\nline"},
		{"A", "A", "self"},
		{"B", "C, with comma", ""},
	} {
		_, err := s.InsertEdge(e[0], e[1], e[2])
		require.NoError(t, err)
	}

	ctx := context.Background()
	gw := persist.NewGateway(newLocal(t), tablePath)
	require.NoError(t, gw.Persist(ctx, s))
	loaded, err := gw.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, vertexLabels(s), vertexLabels(loaded))
	assert.Equal(t, edgeTriples(s), edgeTriples(loaded))
	require.NoError(t, loaded.Validate())

	// A second round trip writes the same bytes.
	first := persist.Snapshot(loaded)
	require.NoError(t, gw.Persist(ctx, loaded))
	again, err := gw.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, persist.Snapshot(again))
}

func TestRoundTripCarriageReturns(t *testing.T) {
	ctx := context.Background()
	files := newLocal(t)
	ws, err := persist.Open(ctx, persist.NewGateway(files, tablePath))
	require.NoError(t, err)

	for _, l := range []string{"a\rb", "c\r", "d\ne"} {
		_, err := ws.InsertVertex(ctx, l)
		require.NoError(t, err)
	}
	_, err = ws.InsertEdge(ctx, "a\rb", "c\r", "x\ry")
	require.NoError(t, err)

	_, err = ws.InsertVertex(ctx, "a\r\nb")
	assert.ErrorIs(t, err, graph.ErrInvalidLabel)
	_, err = ws.InsertEdge(ctx, "a\rb", "d\ne", "x\r\ny")
	assert.ErrorIs(t, err, graph.ErrInvalidLabel)

	loaded, err := persist.NewGateway(files, tablePath).Load(ctx)
	require.NoError(t, err)
	var mem []string
	require.NoError(t, ws.Read(func(g *graph.Store) error {
		mem = vertexLabels(g)
		assert.Equal(t, edgeTriples(g), edgeTriples(loaded))
		return nil
	}))
	assert.Equal(t, mem, vertexLabels(loaded))
	assert.Equal(t, 1, loaded.RemoveVertex("c\r"))
}

func TestSnapshotPlaceholdersFollowEdges(t *testing.T) {
	s := graph.New()
	for _, l := range []string{"iso1", "A", "B", "iso2", "loop"} {
		_, err := s.InsertVertex(l)
		require.NoError(t, err)
	}
	_, err := s.InsertEdge("A", "B", "r")
	require.NoError(t, err)
	_, err = s.InsertEdge("loop", "loop", "self")
	require.NoError(t, err)

	assert.Equal(t, []record.Record{
		{Head: "A", Relation: "r", Tail: "B"},
		{Head: "loop", Relation: "self", Tail: "loop"},
		{Head: "iso1"},
		{Head: "iso2"},
	}, persist.Snapshot(s))
}

func TestBuildSkipsNothing(t *testing.T) {
	s, err := persist.Build([]record.Record{
		{Head: "A", Relation: "likes", Tail: "B"},
		{Head: "C"},
		{Head: "A"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, vertexLabels(s))
	assert.Equal(t, 1, s.EdgeCount())
}

// failingStore wraps a FileStore and fails writes on demand.
type failingStore struct {
	storage.FileStore
	failOpen  bool
	failClose bool
	writes    int
}

var errDiskFull = errors.New("disk full")

func (f *failingStore) Write(ctx context.Context, path string) (storage.Writer, error) {
	f.writes++
	if f.failOpen {
		return nil, errDiskFull
	}
	w, err := f.FileStore.Write(ctx, path)
	if err != nil {
		return nil, err
	}
	if f.failClose {
		return failingWriter{w}, nil
	}
	return w, nil
}

type failingWriter struct{ storage.Writer }

func (w failingWriter) Close() error {
	w.Writer.Abort(errDiskFull)
	return errDiskFull
}

func TestPersistFailureWrapsErrIO(t *testing.T) {
	ctx := context.Background()
	for _, tc := range []struct {
		name  string
		store *failingStore
	}{
		{"open", &failingStore{FileStore: newLocal(t), failOpen: true}},
		{"commit", &failingStore{FileStore: newLocal(t), failClose: true}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := persist.NewGateway(tc.store, tablePath).Persist(ctx, graph.New())
			assert.ErrorIs(t, err, persist.ErrIO)
			assert.ErrorIs(t, err, errDiskFull)
			assert.True(t, strings.Contains(err.Error(), tablePath))
		})
	}
}
