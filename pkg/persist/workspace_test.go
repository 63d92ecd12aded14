package persist_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/haivivi/kgview/pkg/graph"
	"github.com/haivivi/kgview/pkg/persist"
)

func TestWorkspaceMutationsRewriteTable(t *testing.T) {
	ctx := context.Background()
	local := newLocal(t)
	files := &failingStore{FileStore: local}
	ws, err := persist.Open(ctx, persist.NewGateway(files, tablePath))
	require.NoError(t, err)

	_, err = ws.InsertVertex(ctx, "A")
	require.NoError(t, err)
	_, err = ws.InsertVertex(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, "head,relation,tail\nA,,\nB,,\n", readTable(t, local))

	e, err := ws.InsertEdge(ctx, "A", "B", "likes")
	require.NoError(t, err)
	assert.Equal(t, "A", e.SourceLabel)
	assert.Equal(t, "head,relation,tail\nA,likes,B\n", readTable(t, local))

	removed, err := ws.RemoveEdge(ctx, graph.EdgeKey{Source: "A", Relation: "likes", Target: "B"})
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, "head,relation,tail\nA,,\nB,,\n", readTable(t, local))

	n, err := ws.RemoveVertex(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "head,relation,tail\nB,,\n", readTable(t, local))
	assert.Equal(t, 5, files.writes)
}

func TestWorkspaceRemoveVertexScenario(t *testing.T) {
	ctx := context.Background()
	local := newLocal(t)
	writeTable(t, local, "head,relation,tail\nA,likes,B\nB,knows,C\n")
	ws, err := persist.Open(ctx, persist.NewGateway(local, tablePath))
	require.NoError(t, err)

	n, err := ws.RemoveVertex(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, ws.Read(func(s *graph.Store) error {
		assert.Equal(t, []string{"A", "C"}, vertexLabels(s))
		assert.Zero(t, s.EdgeCount())
		return s.Validate()
	}))
	assert.Equal(t, "head,relation,tail\nA,,\nC,,\n", readTable(t, local))
}

func TestWorkspaceNoopRemovalsSkipWrite(t *testing.T) {
	ctx := context.Background()
	local := newLocal(t)
	writeTable(t, local, "head,relation,tail\nA,likes,B\n")
	files := &failingStore{FileStore: local}
	ws, err := persist.Open(ctx, persist.NewGateway(files, tablePath))
	require.NoError(t, err)

	n, err := ws.RemoveVertex(ctx, "nobody")
	require.NoError(t, err)
	assert.Zero(t, n)

	ok, err := ws.RemoveEdge(ctx, graph.EdgeKey{Source: "A", Relation: "hates", Target: "B"})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = ws.RemoveEdgeByID(ctx, graph.EdgeID(99))
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Zero(t, files.writes)
}

func TestWorkspaceFailedWriteRollsBack(t *testing.T) {
	ctx := context.Background()
	local := newLocal(t)
	const table = "head,relation,tail\nA,likes,B\n"
	writeTable(t, local, table)
	files := &failingStore{FileStore: local}
	ws, err := persist.Open(ctx, persist.NewGateway(files, tablePath))
	require.NoError(t, err)
	before := ws.Records()

	files.failClose = true
	_, err = ws.InsertVertex(ctx, "C")
	assert.ErrorIs(t, err, persist.ErrIO)
	_, err = ws.InsertEdge(ctx, "B", "A", "likes")
	assert.ErrorIs(t, err, persist.ErrIO)
	_, err = ws.RemoveVertex(ctx, "A")
	assert.ErrorIs(t, err, persist.ErrIO)

	files.failClose, files.failOpen = false, true
	_, err = ws.RemoveEdge(ctx, graph.EdgeKey{Source: "A", Relation: "likes", Target: "B"})
	assert.ErrorIs(t, err, persist.ErrIO)

	assert.Equal(t, before, ws.Records())
	assert.Equal(t, table, readTable(t, local))
}

func TestWorkspaceGraphErrorsDoNotWrite(t *testing.T) {
	ctx := context.Background()
	files := &failingStore{FileStore: newLocal(t)}
	ws, err := persist.Open(ctx, persist.NewGateway(files, tablePath))
	require.NoError(t, err)

	_, err = ws.InsertVertex(ctx, "A")
	require.NoError(t, err)
	_, err = ws.InsertVertex(ctx, "A")
	assert.ErrorIs(t, err, graph.ErrDuplicateVertex)
	_, err = ws.InsertVertex(ctx, "")
	assert.ErrorIs(t, err, graph.ErrInvalidLabel)
	_, err = ws.InsertVertex(ctx, "B\r\nC")
	assert.ErrorIs(t, err, graph.ErrInvalidLabel)
	_, err = ws.InsertEdge(ctx, "A", "ghost", "r")
	assert.ErrorIs(t, err, graph.ErrUnknownVertex)
	assert.Equal(t, 1, files.writes)
}

func TestWorkspaceReadReturnsError(t *testing.T) {
	ctx := context.Background()
	ws, err := persist.Open(ctx, persist.NewGateway(newLocal(t), tablePath))
	require.NoError(t, err)

	err = ws.Read(func(s *graph.Store) error {
		_, err := s.Degree("ghost")
		return err
	})
	assert.ErrorIs(t, err, graph.ErrUnknownVertex)
}

func TestWorkspaceRemoveEdgeByID(t *testing.T) {
	ctx := context.Background()
	local := newLocal(t)
	writeTable(t, local, "head,relation,tail\nA,likes,B\nA,likes,B\n")
	ws, err := persist.Open(ctx, persist.NewGateway(local, tablePath))
	require.NoError(t, err)

	var second graph.EdgeID
	require.NoError(t, ws.Read(func(s *graph.Store) error {
		second = s.Edges()[1].ID
		return nil
	}))
	ok, err := ws.RemoveEdgeByID(ctx, second)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "head,relation,tail\nA,likes,B\n", readTable(t, local))
}

func TestWorkspaceSubscribe(t *testing.T) {
	ctx := context.Background()
	ws, err := persist.Open(ctx, persist.NewGateway(newLocal(t), tablePath))
	require.NoError(t, err)

	changes, cancel := ws.Subscribe()
	_, err = ws.InsertVertex(ctx, "A")
	require.NoError(t, err)
	_, err = ws.InsertEdge(ctx, "A", "A", "self")
	require.NoError(t, err)

	next := func() persist.Change {
		select {
		case c := <-changes:
			return c
		case <-time.After(time.Second):
			t.Fatal("no change received")
			return persist.Change{}
		}
	}
	c := next()
	assert.Equal(t, persist.VertexInserted, c.Kind)
	assert.Equal(t, "A", c.Label)
	assert.Equal(t, 1, c.Vertices)

	c = next()
	assert.Equal(t, persist.EdgeInserted, c.Kind)
	require.NotNil(t, c.Edge)
	assert.Equal(t, graph.EdgeKey{Source: "A", Relation: "self", Target: "A"}, *c.Edge)
	assert.Equal(t, 1, c.Edges)

	cancel()
	cancel()
	_, open := <-changes
	assert.False(t, open)

	// Mutations after cancel must not panic on the closed channel.
	_, err = ws.InsertVertex(ctx, "B")
	require.NoError(t, err)
}

func TestWorkspaceLogsRollback(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zapcore.DebugLevel)
	files := &failingStore{FileStore: newLocal(t)}
	ws, err := persist.Open(ctx, persist.NewGateway(files, tablePath, persist.WithLogger(zap.New(core))))
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("table not found, starting empty").Len())

	files.failOpen = true
	_, err = ws.InsertVertex(ctx, "A")
	require.ErrorIs(t, err, persist.ErrIO)

	rolled := logs.FilterMessage("mutation rolled back").All()
	require.Len(t, rolled, 1)
	assert.Equal(t, zapcore.WarnLevel, rolled[0].Level)
	assert.Equal(t, string(persist.VertexInserted), rolled[0].ContextMap()["kind"])
	assert.Equal(t, tablePath, rolled[0].ContextMap()["table"])
}
