// Package cached wraps a conversation store with a read-through snapshot
// cache. Reads check the cache first; writes go to the inner store and
// refresh the cached entry, so a conversation's own turns always observe
// their latest commit.
package cached

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aerodesk/aerodesk/internal/domain/conversation"
	"github.com/aerodesk/aerodesk/internal/port/cache"
	"github.com/aerodesk/aerodesk/internal/port/store"
)

const keyPrefix = "convo:"

// Store layers a cache.Cache over another store.Store.
type Store struct {
	inner store.Store
	cache cache.Cache
	ttl   time.Duration
}

// New creates a cached store. ttl bounds how long an idle snapshot stays
// in the cache.
func New(inner store.Store, c cache.Cache, ttl time.Duration) *Store {
	return &Store{inner: inner, cache: c, ttl: ttl}
}

// Get returns the cached snapshot when present, falling back to the inner
// store and backfilling on a miss. Cache failures degrade to the inner
// store rather than failing the read.
func (s *Store) Get(ctx context.Context, id string) (*conversation.State, error) {
	if data, ok, err := s.cache.Get(ctx, keyPrefix+id); err == nil && ok {
		var state conversation.State
		if err := json.Unmarshal(data, &state); err == nil {
			return &state, nil
		}
		// Unreadable entry: drop it and fall through to the inner store.
		_ = s.cache.Delete(ctx, keyPrefix+id)
	}

	state, err := s.inner.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.fill(ctx, state)
	return state, nil
}

// Save writes through to the inner store and refreshes the cache entry.
func (s *Store) Save(ctx context.Context, state *conversation.State) error {
	if err := s.inner.Save(ctx, state); err != nil {
		return err
	}
	s.fill(ctx, state)
	return nil
}

func (s *Store) fill(ctx context.Context, state *conversation.State) {
	data, err := json.Marshal(state)
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, keyPrefix+state.ID, data, s.ttl)
}
