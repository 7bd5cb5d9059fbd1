package service

import (
	"errors"
	"testing"

	"github.com/aerodesk/aerodesk/internal/airline"
	"github.com/aerodesk/aerodesk/internal/domain"
)

func newDirectory(t *testing.T) *DirectoryService {
	t.Helper()
	registry, err := airline.NewRegistry()
	if err != nil {
		t.Fatal(err)
	}
	return NewDirectoryService(registry)
}

func TestDirectoryAgents(t *testing.T) {
	dir := newDirectory(t)

	list := dir.Agents("")
	if list.CurrentAgent != airline.AgentTriage.String() {
		t.Errorf("expected triage as current agent, got %s", list.CurrentAgent)
	}
	if len(list.Agents) != 6 {
		t.Fatalf("expected 6 agents, got %d", len(list.Agents))
	}
	if list.Agents[0].Name != airline.AgentTriage.String() {
		t.Errorf("expected the default agent listed first, got %s", list.Agents[0].Name)
	}

	byName := map[string]AgentInfo{}
	for _, a := range list.Agents {
		if a.Status != "available" {
			t.Errorf("agent %s: expected status available, got %s", a.Name, a.Status)
		}
		if a.Specialty == "" || a.Description == "" {
			t.Errorf("agent %s: expected specialty and description", a.Name)
		}
		byName[a.Name] = a
	}

	triage := byName[airline.AgentTriage.String()]
	if len(triage.Handoffs) != 5 {
		t.Errorf("expected triage to hand off to 5 specialists, got %v", triage.Handoffs)
	}
	if len(triage.Tools) != 0 {
		t.Errorf("triage carries no tools, got %v", triage.Tools)
	}

	baggage := byName[airline.AgentBaggage.String()]
	if len(baggage.Tools) != 3 {
		t.Errorf("expected 3 baggage tools, got %v", baggage.Tools)
	}
	if len(baggage.Handoffs) != 1 || baggage.Handoffs[0] != airline.AgentTriage.String() {
		t.Errorf("expected a single return edge to triage, got %v", baggage.Handoffs)
	}
}

func TestDirectoryAgentsCurrentAgent(t *testing.T) {
	dir := newDirectory(t)

	if got := dir.Agents(airline.AgentBaggage.String()).CurrentAgent; got != airline.AgentBaggage.String() {
		t.Errorf("expected baggage as current agent, got %s", got)
	}
	// Unregistered names fall back to the default.
	if got := dir.Agents("Nope Agent").CurrentAgent; got != airline.AgentTriage.String() {
		t.Errorf("expected triage fallback, got %s", got)
	}
}

func TestDirectoryTools(t *testing.T) {
	dir := newDirectory(t)

	list, err := dir.Tools(airline.AgentSeatBooking.String())
	if err != nil {
		t.Fatal(err)
	}
	if list.AgentName != airline.AgentSeatBooking.String() {
		t.Errorf("unexpected agent name %s", list.AgentName)
	}
	if len(list.Tools) != 1 || list.Tools[0].Name != "update_seat" {
		t.Fatalf("expected the update_seat tool, got %+v", list.Tools)
	}

	args := list.Tools[0].Arguments
	seat, ok := args["seatNumber"]
	if !ok {
		t.Fatalf("expected a seatNumber argument, got %v", args)
	}
	if seat.Type != "string" || !seat.Required {
		t.Errorf("expected a required string argument, got %+v", seat)
	}
	if seat.Description == "" {
		t.Error("expected an argument description")
	}
}

func TestDirectoryToolArgumentTypes(t *testing.T) {
	dir := newDirectory(t)

	list, err := dir.Tools(airline.AgentBaggage.String())
	if err != nil {
		t.Fatal(err)
	}
	var fees *ToolInfo
	for i := range list.Tools {
		if list.Tools[i].Name == "baggage_fees_calculator" {
			fees = &list.Tools[i]
		}
	}
	if fees == nil {
		t.Fatalf("baggage_fees_calculator not listed: %+v", list.Tools)
	}
	weight, ok := fees.Arguments["weight"]
	if !ok {
		t.Fatalf("expected a weight argument, got %v", fees.Arguments)
	}
	if weight.Type != "number" || !weight.Required {
		t.Errorf("expected a required number argument, got %+v", weight)
	}
}

func TestDirectoryGuardrails(t *testing.T) {
	dir := newDirectory(t)

	list, err := dir.Guardrails(airline.AgentTriage.String())
	if err != nil {
		t.Fatal(err)
	}
	if len(list.Guardrails) != 2 {
		t.Fatalf("expected 2 guardrails, got %d", len(list.Guardrails))
	}
	if list.Guardrails[0].Type != "input" || list.Guardrails[1].Type != "output" {
		t.Errorf("expected input listed before output, got %+v", list.Guardrails)
	}
	if list.Guardrails[0].Name != "Relevance Guardrail" {
		t.Errorf("unexpected guardrail name %s", list.Guardrails[0].Name)
	}
}

func TestDirectoryUnknownAgent(t *testing.T) {
	dir := newDirectory(t)

	if _, err := dir.Tools("Nope Agent"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Tools: expected ErrNotFound, got %v", err)
	}
	if _, err := dir.Guardrails("Nope Agent"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Guardrails: expected ErrNotFound, got %v", err)
	}
}
