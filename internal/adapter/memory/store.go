// Package memory implements the conversation store port with an in-process
// map. Entries are never evicted; this backend is intended for development
// and tests, the postgres adapter is the durable option.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aerodesk/aerodesk/internal/domain"
	"github.com/aerodesk/aerodesk/internal/domain/conversation"
)

// Store holds conversation snapshots keyed by id.
type Store struct {
	mu     sync.RWMutex
	states map[string]*conversation.State
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{states: make(map[string]*conversation.State)}
}

// Get returns a deep copy of the snapshot for id.
func (s *Store) Get(_ context.Context, id string) (*conversation.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[id]
	if !ok {
		return nil, fmt.Errorf("get conversation %s: %w", id, domain.ErrNotFound)
	}
	return state.Clone(), nil
}

// Save stores a deep copy of the snapshot, overwriting any previous one.
func (s *Store) Save(_ context.Context, state *conversation.State) error {
	if state.ID == "" {
		return fmt.Errorf("save conversation: %w: empty id", domain.ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state.ID] = state.Clone()
	return nil
}

// Len reports the number of stored conversations.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}
