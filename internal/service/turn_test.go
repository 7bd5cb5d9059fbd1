package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/aerodesk/aerodesk/internal/adapter/memory"
	"github.com/aerodesk/aerodesk/internal/airline"
	"github.com/aerodesk/aerodesk/internal/domain"
	"github.com/aerodesk/aerodesk/internal/domain/agent"
	"github.com/aerodesk/aerodesk/internal/domain/conversation"
	"github.com/aerodesk/aerodesk/internal/domain/event"
	"github.com/aerodesk/aerodesk/internal/port/engine"
)

// fakeEngine returns a scripted result and counts invocations.
type fakeEngine struct {
	mu    sync.Mutex
	calls int
	run   func(a *agent.Agent, transcript []conversation.Message, c *conversation.Context) (*engine.Result, error)
}

func (f *fakeEngine) Run(_ context.Context, a *agent.Agent, transcript []conversation.Message, c *conversation.Context) (*engine.Result, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.run(a, transcript, c)
}

func (f *fakeEngine) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func replyWith(text string) *fakeEngine {
	return &fakeEngine{run: func(a *agent.Agent, _ []conversation.Message, _ *conversation.Context) (*engine.Result, error) {
		return &engine.Result{
			FinalOutput: text,
			Items: []event.Item{
				{Kind: event.ItemMessageOutput, Agent: a.Name.String(), Content: text},
			},
		}, nil
	}}
}

func newTurnService(t *testing.T, eng engine.Engine) (*TurnService, *memory.Store) {
	t.Helper()
	registry, err := airline.NewRegistry()
	if err != nil {
		t.Fatal(err)
	}
	st := memory.NewStore()
	profile := Profile{Refusal: airline.RefusalMessage, NewContext: airline.NewContext}
	return NewTurnService(st, registry, eng, profile, nil, nil, nil, nil), st
}

func TestRunCreatesNewConversation(t *testing.T) {
	svc, st := newTurnService(t, replyWith("Your flight FLT-476 is on time today."))

	resp, err := svc.Run(context.Background(), TurnRequest{Message: "Is my flight on time?"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.ConversationID == "" {
		t.Fatal("expected a minted conversation id")
	}
	if resp.CurrentAgent != airline.AgentTriage.String() {
		t.Errorf("expected triage agent, got %s", resp.CurrentAgent)
	}
	if len(resp.Messages) != 2 {
		t.Fatalf("expected 2 new messages, got %d", len(resp.Messages))
	}
	if resp.Messages[0].Role != conversation.RoleUser || resp.Messages[1].Role != conversation.RoleAssistant {
		t.Errorf("unexpected message roles: %+v", resp.Messages)
	}
	if resp.Messages[0].TurnID == "" || resp.Messages[0].TurnID != resp.Messages[1].TurnID {
		t.Error("expected both messages stamped with the same turn id")
	}
	if resp.Context.AccountNumber == "" {
		t.Error("expected a fresh context with a generated account number")
	}

	saved, err := st.Get(context.Background(), resp.ConversationID)
	if err != nil {
		t.Fatalf("expected persisted state: %v", err)
	}
	if len(saved.Messages) != 2 {
		t.Errorf("expected 2 persisted messages, got %d", len(saved.Messages))
	}
}

func TestRunUnknownIDMintsFreshID(t *testing.T) {
	svc, _ := newTurnService(t, replyWith("Happy to help with your booking."))

	resp, err := svc.Run(context.Background(), TurnRequest{ConversationID: "does-not-exist", Message: "seat change please"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.ConversationID == "does-not-exist" {
		t.Error("expected a freshly minted id for an unknown conversation")
	}
}

func TestRunEmptyMessageOpensConversation(t *testing.T) {
	eng := replyWith("unused")
	svc, st := newTurnService(t, eng)

	resp, err := svc.Run(context.Background(), TurnRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Messages) != 0 {
		t.Errorf("expected no messages, got %d", len(resp.Messages))
	}
	if len(resp.Guardrails) != 0 || len(resp.Events) != 0 {
		t.Error("expected no guardrail results or events on an empty opening turn")
	}
	if eng.callCount() != 0 {
		t.Error("engine must not run on an empty opening turn")
	}

	saved, err := st.Get(context.Background(), resp.ConversationID)
	if err != nil {
		t.Fatalf("expected the empty state persisted: %v", err)
	}
	if len(saved.Messages) != 0 || saved.CurrentAgent != airline.AgentTriage.String() {
		t.Errorf("unexpected persisted state: %+v", saved)
	}
}

func TestRunTripwireBlocksTurn(t *testing.T) {
	eng := replyWith("unused")
	svc, st := newTurnService(t, eng)

	resp, err := svc.Run(context.Background(), TurnRequest{Message: "What is the capital of France right now?"})
	if err != nil {
		t.Fatal(err)
	}
	if eng.callCount() != 0 {
		t.Error("engine must not run on a tripwired turn")
	}
	if len(resp.Messages) != 2 {
		t.Fatalf("expected exactly user + refusal, got %d messages", len(resp.Messages))
	}
	if resp.Messages[1].Content != airline.RefusalMessage {
		t.Errorf("expected the fixed refusal, got %q", resp.Messages[1].Content)
	}
	if len(resp.Guardrails) != 1 || resp.Guardrails[0].Passed {
		t.Errorf("expected exactly one failing guardrail result, got %+v", resp.Guardrails)
	}
	if len(resp.Events) != 0 {
		t.Errorf("expected no events, got %d", len(resp.Events))
	}
	if resp.CurrentAgent != airline.AgentTriage.String() {
		t.Errorf("agent must not advance on a blocked turn, got %s", resp.CurrentAgent)
	}

	saved, err := st.Get(context.Background(), resp.ConversationID)
	if err != nil {
		t.Fatal(err)
	}
	if len(saved.Messages) != 2 {
		t.Errorf("expected blocked turn committed, got %d messages", len(saved.Messages))
	}
}

func TestRunEngineTripwireSignal(t *testing.T) {
	eng := &fakeEngine{run: func(*agent.Agent, []conversation.Message, *conversation.Context) (*engine.Result, error) {
		return nil, &engine.TripwireError{GuardrailName: "Relevance Guardrail", Reasoning: "off topic"}
	}}
	svc, _ := newTurnService(t, eng)

	resp, err := svc.Run(context.Background(), TurnRequest{Message: "Tell me about my flight and also philosophy"})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Guardrails) != 1 || resp.Guardrails[0].Passed {
		t.Fatalf("expected one failing result, got %+v", resp.Guardrails)
	}
	if resp.Guardrails[0].Reasoning != "off topic" {
		t.Errorf("expected engine reasoning carried over, got %q", resp.Guardrails[0].Reasoning)
	}
	if resp.Messages[1].Content != airline.RefusalMessage {
		t.Errorf("expected the fixed refusal, got %q", resp.Messages[1].Content)
	}
}

func TestRunHandoffSwitchesAgentAndShape(t *testing.T) {
	eng := &fakeEngine{run: func(a *agent.Agent, _ []conversation.Message, _ *conversation.Context) (*engine.Result, error) {
		return &engine.Result{
			FinalOutput: "I can help you track that bag right away.",
			Handoff:     &engine.HandoffTaken{Source: a.Name, Target: airline.AgentBaggage},
			Items: []event.Item{
				{Kind: event.ItemHandoffOutput, Source: a.Name.String(), Target: airline.AgentBaggage.String()},
				{Kind: event.ItemMessageOutput, Agent: airline.AgentBaggage.String(), Content: "I can help you track that bag right away."},
			},
		}, nil
	}}
	svc, st := newTurnService(t, eng)

	resp, err := svc.Run(context.Background(), TurnRequest{Message: "I lost my bag on flight 123"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.CurrentAgent != airline.AgentBaggage.String() {
		t.Fatalf("expected baggage agent after handoff, got %s", resp.CurrentAgent)
	}
	if resp.Context.Domain != conversation.DomainBaggage {
		t.Errorf("expected baggage-shaped context, got %s", resp.Context.Domain)
	}
	if resp.Context.BaggageClaimNumber == "" || resp.Context.ConfirmationNumber == "" {
		t.Errorf("expected handoff initializer to seed claim and confirmation numbers: %+v", resp.Context)
	}
	if resp.Messages[1].Agent != airline.AgentBaggage.String() {
		t.Errorf("assistant message must be attributed to the post-handoff agent, got %s", resp.Messages[1].Agent)
	}

	saved, err := st.Get(context.Background(), resp.ConversationID)
	if err != nil {
		t.Fatal(err)
	}
	if saved.CurrentAgent != airline.AgentBaggage.String() {
		t.Errorf("expected committed agent switch, got %s", saved.CurrentAgent)
	}
}

func TestRunEngineFailureCommitsNothing(t *testing.T) {
	boom := errors.New("model unavailable")
	okEngine := replyWith("Sure, your booking is confirmed for tomorrow.")
	svc, st := newTurnService(t, okEngine)

	first, err := svc.Run(context.Background(), TurnRequest{Message: "check my booking please"})
	if err != nil {
		t.Fatal(err)
	}

	svc.engine = &fakeEngine{run: func(*agent.Agent, []conversation.Message, *conversation.Context) (*engine.Result, error) {
		return nil, boom
	}}

	_, err = svc.Run(context.Background(), TurnRequest{ConversationID: first.ConversationID, Message: "and my flight status"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected engine error to propagate, got %v", err)
	}

	saved, err := st.Get(context.Background(), first.ConversationID)
	if err != nil {
		t.Fatal(err)
	}
	if len(saved.Messages) != 2 {
		t.Errorf("failed turn must not commit, history has %d messages", len(saved.Messages))
	}
}

func TestRunGuardrailResultsCoverBothCategories(t *testing.T) {
	svc, _ := newTurnService(t, replyWith("Flight FLT-476 departs on time from gate A10."))

	resp, err := svc.Run(context.Background(), TurnRequest{Message: "what is the status of my flight"})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Guardrails) != 2 {
		t.Fatalf("expected one input and one output result, got %d", len(resp.Guardrails))
	}
	for _, g := range resp.Guardrails {
		if !g.Passed {
			t.Errorf("expected passing results, got %+v", g)
		}
	}
}

func TestRunSerializesTurnsPerConversation(t *testing.T) {
	svc, st := newTurnService(t, replyWith("Noted, your seat preference is saved."))

	first, err := svc.Run(context.Background(), TurnRequest{Message: "window seat please"})
	if err != nil {
		t.Fatal(err)
	}

	const turns = 8
	var wg sync.WaitGroup
	for range turns {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Run(context.Background(), TurnRequest{
				ConversationID: first.ConversationID,
				Message:        "actually make that an aisle seat",
			})
			if err != nil {
				t.Errorf("turn failed: %v", err)
			}
		}()
	}
	wg.Wait()

	saved, err := st.Get(context.Background(), first.ConversationID)
	if err != nil {
		t.Fatal(err)
	}
	want := 2 + 2*turns
	if len(saved.Messages) != want {
		t.Errorf("expected %d messages after %d turns, got %d", want, turns+1, len(saved.Messages))
	}
}

func TestConversationLookup(t *testing.T) {
	svc, _ := newTurnService(t, replyWith("Welcome aboard, how can I help?"))

	_, err := svc.Conversation(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	resp, err := svc.Run(context.Background(), TurnRequest{Message: "hi"})
	if err != nil {
		t.Fatal(err)
	}
	got, err := svc.Conversation(context.Background(), resp.ConversationID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != resp.ConversationID {
		t.Errorf("expected %s, got %s", resp.ConversationID, got.ID)
	}
}
