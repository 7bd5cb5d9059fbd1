package service

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// conversationLocks serializes turns per conversation id. At most one turn
// may run the read-adapt-guardrail-engine-commit pipeline for a given id;
// turns on different ids proceed in parallel. Entries are created lazily
// and kept for the life of the process, which is bounded by the number of
// distinct conversations served.
type conversationLocks struct {
	mu    sync.Mutex
	locks map[string]*semaphore.Weighted
}

func newConversationLocks() *conversationLocks {
	return &conversationLocks{locks: make(map[string]*semaphore.Weighted)}
}

// Acquire blocks until the id's slot is free or ctx is cancelled. The
// returned release func must be called exactly once.
func (l *conversationLocks) Acquire(ctx context.Context, id string) (release func(), err error) {
	l.mu.Lock()
	sem, ok := l.locks[id]
	if !ok {
		sem = semaphore.NewWeighted(1)
		l.locks[id] = sem
	}
	l.mu.Unlock()

	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { sem.Release(1) }, nil
}
