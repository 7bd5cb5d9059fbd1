// Package engine defines the port for the external agent execution
// engine: the collaborator that performs the actual reasoning and tool
// invocation for one agent given a transcript and context.
package engine

import (
	"context"
	"fmt"

	"github.com/aerodesk/aerodesk/internal/domain/agent"
	"github.com/aerodesk/aerodesk/internal/domain/conversation"
	"github.com/aerodesk/aerodesk/internal/domain/event"
	"github.com/aerodesk/aerodesk/internal/domain/guardrail"
)

// HandoffTaken reports that the engine resolved a handoff during the run.
// An engine takes at most one handoff per run.
type HandoffTaken struct {
	Source agent.Name
	Target agent.Name
}

// Result is the outcome of one engine run. Items preserve emission order.
// The guardrail result slices are populated only when the engine evaluated
// guardrails itself; the orchestrator synthesizes defaults otherwise.
type Result struct {
	FinalOutput      string
	Items            []event.Item
	Handoff          *HandoffTaken
	InputGuardrails  []guardrail.Result
	OutputGuardrails []guardrail.Result
}

// Engine runs one agent over a transcript. The context value is the turn's
// working copy: tools invoked by the engine may mutate it through the
// pointer, and the orchestrator decides whether the mutation is committed.
// Run blocks for the duration of the reasoning step; cancellation is
// delivered through ctx.
type Engine interface {
	Run(ctx context.Context, a *agent.Agent, transcript []conversation.Message, c *conversation.Context) (*Result, error)
}

// TripwireError is the distinguished signal an engine raises when an input
// guardrail it evaluated internally trips. The orchestrator converts it
// into the fixed refusal response; it never surfaces as a server error.
type TripwireError struct {
	GuardrailName string
	Reasoning     string
}

func (e *TripwireError) Error() string {
	return fmt.Sprintf("input guardrail %q tripped: %s", e.GuardrailName, e.Reasoning)
}
