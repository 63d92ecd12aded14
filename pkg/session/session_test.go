package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haivivi/kgview/pkg/kv"
	"github.com/haivivi/kgview/pkg/query"
	"github.com/haivivi/kgview/pkg/session"
)

func newStore(t *testing.T, opts ...session.Option) (*session.Store, kv.Store) {
	t.Helper()
	store := kv.NewMemory(nil)
	t.Cleanup(func() { store.Close() })
	return session.NewStore(store, opts...), store
}

func TestNewAndGet(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	view := query.View{Relations: []string{"knows"}, Query: "b"}
	st, err := s.New(ctx, "graph.csv", view)
	require.NoError(t, err)
	_, err = uuid.Parse(st.ID)
	require.NoError(t, err)
	assert.False(t, st.UpdatedAt.IsZero())

	got, err := s.Get(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, st.ID, got.ID)
	assert.Equal(t, "graph.csv", got.Table)
	assert.Equal(t, view, got.View)
	assert.True(t, st.UpdatedAt.Equal(got.UpdatedAt))
}

func TestGetMissing(t *testing.T) {
	s, _ := newStore(t)
	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestLoadDefaultsToFreshState(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	st, err := s.Load(ctx, session.DefaultID, "graph.csv")
	require.NoError(t, err)
	assert.Equal(t, session.DefaultID, st.ID)
	assert.Equal(t, query.DefaultView(), st.View)

	st.View = query.View{Relations: []string{"knows"}}
	require.NoError(t, s.Save(ctx, st))

	again, err := s.Load(ctx, session.DefaultID, "graph.csv")
	require.NoError(t, err)
	assert.False(t, again.View.AllRelations)
	assert.Equal(t, []string{"knows"}, again.View.Relations)
}

func TestInvalidID(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	for _, id := range []string{"", "a:b", "a/b"} {
		_, err := s.Get(ctx, id)
		assert.ErrorIs(t, err, session.ErrInvalidID, "id %q", id)
		assert.ErrorIs(t, s.Save(ctx, &session.State{ID: id}), session.ErrInvalidID)
	}
}

func TestListAndDelete(t *testing.T) {
	ctx := context.Background()
	s, store := newStore(t)

	for _, id := range []string{"b", "a"} {
		require.NoError(t, s.Save(ctx, &session.State{ID: id}))
	}
	require.NoError(t, store.Set(ctx, kv.Key{"session", "junk"}, []byte{0xc1}, 0))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "b", list[1].ID)

	require.NoError(t, s.Delete(ctx, "a"))
	require.NoError(t, s.Delete(ctx, "a"))
	list, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].ID)
}

func TestTTLPassedToStore(t *testing.T) {
	ctx := context.Background()
	store, err := kv.NewBadger(kv.BadgerOptions{InMemory: true})
	require.NoError(t, err)
	defer store.Close()

	s := session.NewStore(store, session.WithTTL(time.Hour))
	require.NoError(t, s.Save(ctx, &session.State{ID: "x"}))
	_, err = s.Get(ctx, "x")
	require.NoError(t, err)
}
