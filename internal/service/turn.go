// Package service contains the application services: the turn orchestrator
// that drives one conversation turn end to end, and the read-only
// directory projections over the routing graph.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aerodesk/aerodesk/internal/adapter/otel"
	"github.com/aerodesk/aerodesk/internal/domain"
	"github.com/aerodesk/aerodesk/internal/domain/agent"
	"github.com/aerodesk/aerodesk/internal/domain/conversation"
	"github.com/aerodesk/aerodesk/internal/domain/event"
	"github.com/aerodesk/aerodesk/internal/domain/guardrail"
	"github.com/aerodesk/aerodesk/internal/port/broadcast"
	"github.com/aerodesk/aerodesk/internal/port/engine"
	"github.com/aerodesk/aerodesk/internal/port/messagequeue"
	"github.com/aerodesk/aerodesk/internal/port/store"
)

// TurnRequest is one inbound user turn. An empty ConversationID starts a
// new conversation; an unknown one does too, under a freshly minted id.
type TurnRequest struct {
	ConversationID string `json:"conversationId"`
	Message        string `json:"message"`
}

// TurnResponse is the outcome of one turn. Messages carries only the
// entries appended by this turn, not the full history.
type TurnResponse struct {
	ConversationID string                 `json:"conversationId"`
	CurrentAgent   string                 `json:"currentAgent"`
	Messages       []conversation.Message `json:"messages"`
	Context        conversation.Context   `json:"context"`
	Guardrails     []guardrail.Result     `json:"guardrails"`
	Events         []event.Event          `json:"events"`
}

// Profile carries the deployment-specific turn policy: the fixed refusal
// text used when an input guardrail trips, and the factory for a new
// conversation's default context.
type Profile struct {
	Refusal    string
	NewContext func() conversation.Context
}

// TurnService orchestrates conversation turns: it owns the only read-write
// path to the conversation store and serializes turns per conversation id.
// hub, queue and metrics may be nil; the corresponding side channels are
// then skipped.
type TurnService struct {
	store    store.Store
	registry *agent.Registry
	engine   engine.Engine
	profile  Profile
	hub      broadcast.Broadcaster
	queue    messagequeue.Queue
	metrics  *otel.Metrics
	log      *slog.Logger
	locks    *conversationLocks
}

// NewTurnService creates the orchestrator.
func NewTurnService(st store.Store, registry *agent.Registry, eng engine.Engine, profile Profile, hub broadcast.Broadcaster, queue messagequeue.Queue, metrics *otel.Metrics, log *slog.Logger) *TurnService {
	if log == nil {
		log = slog.Default()
	}
	return &TurnService{
		store:    st,
		registry: registry,
		engine:   eng,
		profile:  profile,
		hub:      hub,
		queue:    queue,
		metrics:  metrics,
		log:      log,
		locks:    newConversationLocks(),
	}
}

// Conversation returns the stored snapshot for id.
func (s *TurnService) Conversation(ctx context.Context, id string) (*conversation.State, error) {
	return s.store.Get(ctx, id)
}

// Run drives one full turn. Any engine error other than the tripwire
// signal is fatal for the turn: nothing is committed and the stored state
// keeps its last good snapshot, so the same message is safely retryable.
func (s *TurnService) Run(ctx context.Context, req TurnRequest) (*TurnResponse, error) {
	started := time.Now()
	turnID := uuid.NewString()

	st, release, isNew, err := s.resolve(ctx, req.ConversationID)
	if err != nil {
		return nil, err
	}
	defer release()

	ctx, span := otel.StartTurnSpan(ctx, st.ID, turnID, st.CurrentAgent)
	defer span.End()
	if s.metrics != nil {
		s.metrics.TurnsStarted.Add(ctx, 1)
	}

	// A brand-new conversation opened without a message is persisted
	// empty and returned as-is. No guardrail or engine work happens.
	if isNew && req.Message == "" {
		if err := s.store.Save(ctx, st); err != nil {
			return nil, fmt.Errorf("save conversation: %w", err)
		}
		return &TurnResponse{
			ConversationID: st.ID,
			CurrentAgent:   st.CurrentAgent,
			Messages:       []conversation.Message{},
			Context:        st.Context,
		}, nil
	}

	current := s.registry.Resolve(agent.Name(st.CurrentAgent))
	working := conversation.Adapt(st.Context, current.Domain)

	userMsg := conversation.Message{
		Role:      conversation.RoleUser,
		Content:   req.Message,
		TurnID:    turnID,
		CreatedAt: time.Now().UTC(),
	}
	transcript := append(append([]conversation.Message{}, st.Messages...), userMsg)

	inputResults, err := guardrail.Run(ctx, current.InputGuardrails, req.Message, working)
	if err != nil {
		return nil, fmt.Errorf("input guardrails: %w", err)
	}
	if failure, tripped := guardrail.FirstFailure(inputResults); tripped {
		return s.commitBlocked(ctx, st, current, userMsg, turnID, failure, started)
	}

	engCtx, engSpan := otel.StartEngineSpan(ctx, current.Name.String())
	res, err := s.engine.Run(engCtx, current, transcript, &working)
	engSpan.End()
	if err != nil {
		var trip *engine.TripwireError
		if errors.As(err, &trip) {
			failure := guardrail.Result{
				ID:        trip.GuardrailName,
				Name:      trip.GuardrailName,
				Input:     req.Message,
				Reasoning: trip.Reasoning,
				Passed:    false,
				Timestamp: time.Now().UTC(),
			}
			return s.commitBlocked(ctx, st, current, userMsg, turnID, failure, started)
		}
		if s.metrics != nil {
			s.metrics.TurnsFailed.Add(ctx, 1)
		}
		s.log.Error("turn failed", "conversation_id", st.ID, "turn_id", turnID, "error", err)
		return nil, fmt.Errorf("engine run: %w", err)
	}

	events := event.Record(turnID, res.Items)

	// Handoff application: edge mutation runs against the current-shape
	// context, then the shape follows the target's domain. Initializers
	// only fill empty fields, so an engine that already applied the edge
	// in-run is not double-counted.
	if res.Handoff != nil {
		if edge, ok := current.HandoffTo(res.Handoff.Target); ok && edge.OnHandoff != nil {
			edge.OnHandoff(&working)
		}
		current = s.registry.Resolve(res.Handoff.Target)
		working = conversation.Adapt(working, current.Domain)
		if s.metrics != nil {
			s.metrics.Handoffs.Add(ctx, 1)
		}
	}

	outputResults, err := guardrail.Run(ctx, current.OutputGuardrails, res.FinalOutput, working)
	if err != nil {
		return nil, fmt.Errorf("output guardrails: %w", err)
	}

	guardrails := mergeResults(current.InputGuardrails, inputResults, res.InputGuardrails, req.Message)
	guardrails = append(guardrails, mergeResults(current.OutputGuardrails, outputResults, res.OutputGuardrails, res.FinalOutput)...)

	assistantMsg := conversation.Message{
		Role:      conversation.RoleAssistant,
		Content:   res.FinalOutput,
		Agent:     current.Name.String(),
		TurnID:    turnID,
		CreatedAt: time.Now().UTC(),
	}
	st.Messages = append(st.Messages, userMsg, assistantMsg)
	st.CurrentAgent = current.Name.String()
	st.Context = working
	st.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, st); err != nil {
		return nil, fmt.Errorf("save conversation: %w", err)
	}

	resp := &TurnResponse{
		ConversationID: st.ID,
		CurrentAgent:   st.CurrentAgent,
		Messages:       []conversation.Message{userMsg, assistantMsg},
		Context:        st.Context,
		Guardrails:     guardrails,
		Events:         events,
	}
	s.publish(ctx, st.ID, events)
	s.broadcast(ctx, resp)
	if s.metrics != nil {
		s.metrics.TurnsCompleted.Add(ctx, 1)
		s.metrics.TurnDuration.Record(ctx, time.Since(started).Seconds())
	}
	return resp, nil
}

// resolve loads the conversation for id under its per-id lock, or creates
// a fresh one under a minted id when the id is empty or unknown.
func (s *TurnService) resolve(ctx context.Context, id string) (st *conversation.State, release func(), isNew bool, err error) {
	if id != "" {
		release, err = s.locks.Acquire(ctx, id)
		if err != nil {
			return nil, nil, false, err
		}
		st, err = s.store.Get(ctx, id)
		if err == nil {
			return st, release, false, nil
		}
		release()
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, nil, false, fmt.Errorf("load conversation: %w", err)
		}
	}

	id = uuid.NewString()
	release, err = s.locks.Acquire(ctx, id)
	if err != nil {
		return nil, nil, false, err
	}
	now := time.Now().UTC()
	st = &conversation.State{
		ID:           id,
		Messages:     []conversation.Message{},
		CurrentAgent: s.registry.Default().Name.String(),
		Context:      s.freshContext(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return st, release, true, nil
}

// freshContext builds the default context for a new conversation, adapted
// to the default agent's domain.
func (s *TurnService) freshContext() conversation.Context {
	var c conversation.Context
	if s.profile.NewContext != nil {
		c = s.profile.NewContext()
	}
	return conversation.Adapt(c, s.registry.Default().Domain)
}

// commitBlocked is the tripwire terminal state: the user message and the
// fixed refusal are appended and persisted, but agent and context stay
// untouched. The response carries exactly the failing guardrail result
// and no events.
func (s *TurnService) commitBlocked(ctx context.Context, st *conversation.State, current *agent.Agent, userMsg conversation.Message, turnID string, failure guardrail.Result, started time.Time) (*TurnResponse, error) {
	refusalMsg := conversation.Message{
		Role:      conversation.RoleAssistant,
		Content:   s.profile.Refusal,
		Agent:     current.Name.String(),
		TurnID:    turnID,
		CreatedAt: time.Now().UTC(),
	}
	st.Messages = append(st.Messages, userMsg, refusalMsg)
	st.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, st); err != nil {
		return nil, fmt.Errorf("save conversation: %w", err)
	}

	if s.metrics != nil {
		s.metrics.TurnsBlocked.Add(ctx, 1)
		s.metrics.TurnDuration.Record(ctx, time.Since(started).Seconds())
	}
	s.log.Info("turn blocked by input guardrail",
		"conversation_id", st.ID, "turn_id", turnID, "guardrail", failure.Name)

	return &TurnResponse{
		ConversationID: st.ID,
		CurrentAgent:   st.CurrentAgent,
		Messages:       []conversation.Message{userMsg, refusalMsg},
		Context:        st.Context,
		Guardrails:     []guardrail.Result{failure},
	}, nil
}

// publish pushes the turn's events to the durable queue. Failures are
// logged, never fatal: the turn is already committed.
func (s *TurnService) publish(ctx context.Context, conversationID string, events []event.Event) {
	if s.queue == nil || len(events) == 0 {
		return
	}
	data, err := json.Marshal(events)
	if err != nil {
		s.log.Error("marshal turn events", "error", err)
		return
	}
	if err := s.queue.Publish(ctx, "conversations.turns."+conversationID, data); err != nil {
		s.log.Error("publish turn events", "conversation_id", conversationID, "error", err)
	}
}

// broadcast pushes the turn response to connected websocket clients.
func (s *TurnService) broadcast(ctx context.Context, resp *TurnResponse) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastEvent(ctx, "turn.completed", resp)
}

// mergeResults folds orchestrator- and engine-evaluated results for one
// guardrail category, synthesizing a passed result per configured
// guardrail when neither side evaluated any. The response then always
// carries at least one entry per configured category.
func mergeResults(configured []guardrail.Guardrail, ran, engineRan []guardrail.Result, input string) []guardrail.Result {
	out := make([]guardrail.Result, 0, len(ran)+len(engineRan))
	out = append(out, ran...)
	out = append(out, engineRan...)
	if len(out) == 0 {
		for _, g := range configured {
			out = append(out, guardrail.Passed(g, input, "not evaluated this turn"))
		}
	}
	return out
}
