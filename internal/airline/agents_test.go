package airline

import (
	"reflect"
	"strings"
	"testing"

	"github.com/aerodesk/aerodesk/internal/domain/agent"
	"github.com/aerodesk/aerodesk/internal/domain/conversation"
)

func TestNewRegistryTopology(t *testing.T) {
	r, err := NewRegistry()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := r.Default().Name; got != AgentTriage {
		t.Errorf("expected default %s, got %s", AgentTriage, got)
	}

	triage := r.Resolve(AgentTriage)
	if len(triage.Handoffs) != 5 {
		t.Errorf("expected 5 outbound edges from triage, got %d", len(triage.Handoffs))
	}

	specialists := []agent.Name{AgentFAQ, AgentSeatBooking, AgentFlightStatus, AgentCancellation, AgentBaggage}
	for _, name := range specialists {
		a, ok := r.Lookup(name)
		if !ok {
			t.Fatalf("agent %s not registered", name)
		}
		if _, ok := a.HandoffTo(AgentTriage); !ok {
			t.Errorf("agent %s is missing the return edge to triage", name)
		}
	}
}

func TestBaggageAgentDomain(t *testing.T) {
	r, err := NewRegistry()
	if err != nil {
		t.Fatal(err)
	}
	if d := r.Resolve(AgentBaggage).Domain; d != conversation.DomainBaggage {
		t.Errorf("expected baggage domain, got %s", d)
	}
	if d := r.Resolve(AgentSeatBooking).Domain; d != conversation.DomainGeneral {
		t.Errorf("expected general domain, got %s", d)
	}
}

func TestSeedBaggageDefaultsFillsOnlyEmptyFields(t *testing.T) {
	c := conversation.Context{Domain: conversation.DomainGeneral}
	seedBaggageDefaults(&c)

	if c.ConfirmationNumber == "" || c.FlightNumber == "" {
		t.Errorf("expected booking numbers seeded, got %+v", c)
	}
	if !strings.HasPrefix(c.BaggageClaimNumber, "BAG-") {
		t.Errorf("expected claim number seeded, got %q", c.BaggageClaimNumber)
	}
	if c.BaggageType != conversation.BaggageChecked {
		t.Errorf("expected checked default, got %s", c.BaggageType)
	}

	// Existing values survive a repeat application.
	before := c
	seedBaggageDefaults(&c)
	if !reflect.DeepEqual(c, before) {
		t.Errorf("seeding is not idempotent: %+v vs %+v", before, c)
	}
}

func TestInstructionsRenderContextValues(t *testing.T) {
	r, err := NewRegistry()
	if err != nil {
		t.Fatal(err)
	}
	seat := r.Resolve(AgentSeatBooking)

	withNumber := seat.Instructions(conversation.Context{ConfirmationNumber: "LKCH52"})
	if !strings.Contains(withNumber, "LKCH52") {
		t.Errorf("expected confirmation number in instructions: %s", withNumber)
	}

	without := seat.Instructions(conversation.Context{})
	if !strings.Contains(without, "unknown") {
		t.Errorf("expected unknown placeholder in instructions: %s", without)
	}
}

func TestNewContextStartsGeneralWithAccount(t *testing.T) {
	c := NewContext()
	if c.Domain != conversation.DomainGeneral {
		t.Errorf("expected general domain, got %s", c.Domain)
	}
	if len(c.AccountNumber) != 8 {
		t.Errorf("expected generated account number, got %q", c.AccountNumber)
	}
}
