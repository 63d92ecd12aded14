package kv

import (
	"bytes"
	"context"
	"iter"
	"slices"
	"sort"
	"sync"
	"time"
)

type memEntry struct {
	val     []byte
	expires time.Time
}

func (e memEntry) expired(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

// Memory is an in-memory Store. It is safe for concurrent use.
type Memory struct {
	mu   sync.RWMutex
	data map[string]memEntry
	opts *Options
	now  func() time.Time
}

// NewMemory creates a new in-memory Store.
// Pass nil for default options.
func NewMemory(opts *Options) *Memory {
	return &Memory{
		data: make(map[string]memEntry),
		opts: opts,
		now:  time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key Key) ([]byte, error) {
	k := string(m.opts.encode(key))
	m.mu.RLock()
	e, ok := m.data[k]
	m.mu.RUnlock()
	if !ok || e.expired(m.now()) {
		return nil, ErrNotFound
	}
	return slices.Clone(e.val), nil
}

func (m *Memory) Set(_ context.Context, key Key, value []byte, ttl time.Duration) error {
	e := memEntry{val: slices.Clone(value)}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.data[string(m.opts.encode(key))] = e
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, key Key) error {
	m.mu.Lock()
	delete(m.data, string(m.opts.encode(key)))
	m.mu.Unlock()
	return nil
}

func (m *Memory) List(_ context.Context, prefix Key) iter.Seq2[Entry, error] {
	p := m.opts.listPrefix(prefix)
	now := m.now()

	// Snapshot under the read lock so callers may mutate while iterating.
	m.mu.RLock()
	var keys []string
	snap := make(map[string][]byte)
	for k, e := range m.data {
		if e.expired(now) || !bytes.HasPrefix([]byte(k), p) {
			continue
		}
		keys = append(keys, k)
		snap[k] = slices.Clone(e.val)
	}
	m.mu.RUnlock()
	sort.Strings(keys)

	return func(yield func(Entry, error) bool) {
		for _, k := range keys {
			if !yield(Entry{Key: m.opts.decode([]byte(k)), Value: snap[k]}, nil) {
				return
			}
		}
	}
}

func (m *Memory) Close() error {
	return nil
}
