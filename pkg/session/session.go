// Package session stores per-session view state: the relation filter and
// search text a user chose, keyed by session ID. State is passed
// explicitly to each request instead of living in process globals.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/haivivi/kgview/pkg/kv"
	"github.com/haivivi/kgview/pkg/query"
)

// Sentinel errors.
var (
	ErrNotFound  = errors.New("session: not found")
	ErrInvalidID = errors.New("session: invalid id")
)

// DefaultID is the session used when the caller names none.
const DefaultID = "default"

// State is the view state of one session.
type State struct {
	ID        string     `msgpack:"id" json:"id" yaml:"id"`
	Table     string     `msgpack:"table" json:"table,omitempty" yaml:"table,omitempty"`
	View      query.View `msgpack:"view" json:"view" yaml:"view"`
	UpdatedAt time.Time  `msgpack:"updated_at" json:"updated_at" yaml:"updated_at"`
}

// Store persists session state in a kv.Store under the "session" prefix.
type Store struct {
	kv  kv.Store
	ttl time.Duration
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithTTL expires sessions that have not been saved for d. Zero keeps
// sessions forever.
func WithTTL(d time.Duration) Option {
	return func(s *Store) { s.ttl = d }
}

// NewStore wraps a kv.Store.
func NewStore(store kv.Store, opts ...Option) *Store {
	s := &Store{kv: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func key(id string) kv.Key { return kv.Key{"session", id} }

func validID(id string) error {
	if id == "" || strings.ContainsAny(id, ":/") {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// New creates and saves a session with a random ID.
func (s *Store) New(ctx context.Context, table string, view query.View) (*State, error) {
	st := &State{ID: uuid.NewString(), Table: table, View: view}
	if err := s.Save(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Get returns the session with the given ID.
func (s *Store) Get(ctx context.Context, id string) (*State, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	data, err := s.kv.Get(ctx, key(id))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	var st State
	if err := msgpack.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("session: decode %s: %w", id, err)
	}
	return &st, nil
}

// Load returns the session with the given ID, or a fresh unsaved state
// carrying query.DefaultView when none is stored.
func (s *Store) Load(ctx context.Context, id, table string) (*State, error) {
	st, err := s.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return &State{ID: id, Table: table, View: query.DefaultView()}, nil
	}
	return st, err
}

// Save stores st and stamps UpdatedAt. It also restarts the TTL.
func (s *Store) Save(ctx context.Context, st *State) error {
	if err := validID(st.ID); err != nil {
		return err
	}
	st.UpdatedAt = s.now().UTC()
	data, err := msgpack.Marshal(st)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, key(st.ID), data, s.ttl)
}

// Delete removes a session. Deleting an unknown session is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := validID(id); err != nil {
		return err
	}
	return s.kv.Delete(ctx, key(id))
}

// List returns every stored session ordered by ID. Entries that fail to
// decode are skipped.
func (s *Store) List(ctx context.Context) ([]*State, error) {
	var out []*State
	for entry, err := range s.kv.List(ctx, kv.Key{"session"}) {
		if err != nil {
			return nil, err
		}
		var st State
		if err := msgpack.Unmarshal(entry.Value, &st); err != nil {
			continue
		}
		out = append(out, &st)
	}
	return out, nil
}
