package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/aerodesk/aerodesk/internal/domain"
	"github.com/aerodesk/aerodesk/internal/domain/conversation"
)

func TestGetUnknownID(t *testing.T) {
	s := NewStore()
	_, err := s.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveRequiresID(t *testing.T) {
	s := NewStore()
	err := s.Save(context.Background(), &conversation.State{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestSaveAndGetDoNotAlias(t *testing.T) {
	s := NewStore()
	state := &conversation.State{
		ID:           "c1",
		CurrentAgent: "Triage Agent",
		Messages:     []conversation.Message{{Role: conversation.RoleUser, Content: "hi"}},
	}
	if err := s.Save(context.Background(), state); err != nil {
		t.Fatal(err)
	}

	// Mutating the caller's copy must not affect the stored snapshot.
	state.Messages[0].Content = "changed"

	got, err := s.Get(context.Background(), "c1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Messages[0].Content != "hi" {
		t.Error("store aliases the caller's message slice")
	}

	// Mutating the returned copy must not affect later reads.
	got.Messages[0].Content = "changed again"
	again, err := s.Get(context.Background(), "c1")
	if err != nil {
		t.Fatal(err)
	}
	if again.Messages[0].Content != "hi" {
		t.Error("store aliases the returned snapshot")
	}
}

func TestSaveOverwrites(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	if err := s.Save(ctx, &conversation.State{ID: "c1", CurrentAgent: "Triage Agent"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, &conversation.State{ID: "c1", CurrentAgent: "Baggage Agent"}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, "c1")
	if err != nil {
		t.Fatal(err)
	}
	if got.CurrentAgent != "Baggage Agent" {
		t.Errorf("expected overwrite, got %s", got.CurrentAgent)
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 stored conversation, got %d", s.Len())
	}
}
