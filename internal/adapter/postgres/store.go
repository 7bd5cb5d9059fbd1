package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aerodesk/aerodesk/internal/domain"
	"github.com/aerodesk/aerodesk/internal/domain/conversation"
)

// Store implements the conversation store port on PostgreSQL. The full
// snapshot is kept as a JSONB document; current_agent is denormalized for
// inspection queries.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store backed by the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Get loads the snapshot for id.
func (s *Store) Get(ctx context.Context, id string) (*conversation.State, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT state FROM conversations WHERE id = $1`, id,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get conversation %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get conversation %s: %w", id, err)
	}

	var state conversation.State
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decode conversation %s: %w", id, err)
	}
	return &state, nil
}

// Save upserts the full snapshot.
func (s *Store) Save(ctx context.Context, state *conversation.State) error {
	if state.ID == "" {
		return fmt.Errorf("save conversation: %w: empty id", domain.ErrValidation)
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode conversation %s: %w", state.ID, err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO conversations (id, current_agent, state, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE
		 SET current_agent = EXCLUDED.current_agent,
		     state         = EXCLUDED.state,
		     updated_at    = EXCLUDED.updated_at`,
		state.ID, state.CurrentAgent, raw, state.CreatedAt, state.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save conversation %s: %w", state.ID, err)
	}
	return nil
}
