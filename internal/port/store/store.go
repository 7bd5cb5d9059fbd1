// Package store defines the conversation store port (interface).
package store

import (
	"context"

	"github.com/aerodesk/aerodesk/internal/domain/conversation"
)

// Store persists full conversation snapshots keyed by conversation id.
// Get returns domain.ErrNotFound for unknown ids. Save overwrites the
// snapshot atomically; implementations must not alias the caller's state.
type Store interface {
	Get(ctx context.Context, id string) (*conversation.State, error)
	Save(ctx context.Context, state *conversation.State) error
}
