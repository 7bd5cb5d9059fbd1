package agent

import (
	"errors"
	"testing"

	"github.com/aerodesk/aerodesk/internal/domain"
	"github.com/aerodesk/aerodesk/internal/domain/conversation"
)

func testAgents() []*Agent {
	triage := &Agent{
		Name:         "Triage",
		Domain:       conversation.DomainGeneral,
		Instructions: Static("route the customer"),
		Handoffs:     []Handoff{{Target: "Baggage"}},
	}
	baggage := &Agent{
		Name:         "Baggage",
		Domain:       conversation.DomainBaggage,
		Instructions: Static("handle baggage"),
		Handoffs:     []Handoff{{Target: "Triage"}},
	}
	return []*Agent{triage, baggage}
}

func TestNewRegistryAcceptsCycles(t *testing.T) {
	r, err := NewRegistry("Triage", testAgents()...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := r.Default().Name; got != "Triage" {
		t.Errorf("expected default Triage, got %s", got)
	}
}

func TestNewRegistryValidation(t *testing.T) {
	tests := []struct {
		name        string
		defaultName Name
		agents      []*Agent
	}{
		{
			name:        "empty agent name",
			defaultName: "Triage",
			agents:      []*Agent{{Name: ""}},
		},
		{
			name:        "duplicate agent",
			defaultName: "Triage",
			agents:      []*Agent{{Name: "Triage"}, {Name: "Triage"}},
		},
		{
			name:        "unregistered default",
			defaultName: "Missing",
			agents:      []*Agent{{Name: "Triage"}},
		},
		{
			name:        "dangling handoff edge",
			defaultName: "Triage",
			agents:      []*Agent{{Name: "Triage", Handoffs: []Handoff{{Target: "Ghost"}}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.defaultName, tt.agents...)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestResolveFallsBackToDefault(t *testing.T) {
	r, err := NewRegistry("Triage", testAgents()...)
	if err != nil {
		t.Fatal(err)
	}

	if got := r.Resolve("Baggage").Name; got != "Baggage" {
		t.Errorf("expected Baggage, got %s", got)
	}
	if got := r.Resolve("Nonexistent").Name; got != "Triage" {
		t.Errorf("expected fallback to Triage, got %s", got)
	}
}

func TestLookupIsStrict(t *testing.T) {
	r, err := NewRegistry("Triage", testAgents()...)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := r.Lookup("Baggage"); !ok {
		t.Error("expected Baggage to be found")
	}
	if _, ok := r.Lookup("Nonexistent"); ok {
		t.Error("expected unknown name to be not found")
	}
}

func TestListPreservesRegistrationOrder(t *testing.T) {
	r, err := NewRegistry("Triage", testAgents()...)
	if err != nil {
		t.Fatal(err)
	}
	list := r.List()
	if len(list) != 2 || list[0].Name != "Triage" || list[1].Name != "Baggage" {
		t.Errorf("unexpected order: %v", list)
	}
}
