// Package canned implements the execution engine port with deterministic
// keyword routing and direct tool invocation. It needs no network or API
// key, which makes it the default backend for local development; the
// openai adapter is the model-backed alternative.
package canned

import (
	"context"
	"fmt"
	"strings"

	"github.com/aerodesk/aerodesk/internal/airline"
	"github.com/aerodesk/aerodesk/internal/domain/agent"
	"github.com/aerodesk/aerodesk/internal/domain/conversation"
	"github.com/aerodesk/aerodesk/internal/domain/event"
	"github.com/aerodesk/aerodesk/internal/port/engine"
)

// Engine routes triage turns by keyword and answers specialist turns by
// invoking the agent's first applicable tool with arguments lifted from
// the context.
type Engine struct {
	registry *agent.Registry
}

// New creates a canned engine over the routing graph.
func New(registry *agent.Registry) *Engine {
	return &Engine{registry: registry}
}

// Run implements engine.Engine.
func (e *Engine) Run(ctx context.Context, a *agent.Agent, transcript []conversation.Message, c *conversation.Context) (*engine.Result, error) {
	input := lastUserMessage(transcript)

	if a.Name == airline.AgentTriage {
		if target, ok := routeByKeyword(input); ok {
			return e.runWithHandoff(ctx, a, target, transcript, c)
		}
		reply := "I can help with FAQ questions, seat changes, flight status, cancellations and baggage. What do you need?"
		return &engine.Result{
			FinalOutput: reply,
			Items: []event.Item{
				{Kind: event.ItemMessageOutput, Agent: a.Name.String(), Content: reply},
			},
		}, nil
	}

	return e.runSpecialist(ctx, a, input, c, nil)
}

// runWithHandoff resolves the handoff edge to target, then answers as the
// target agent. The edge's OnHandoff initializer is left to the turn
// service; the engine only reports that the handoff was taken.
func (e *Engine) runWithHandoff(ctx context.Context, source *agent.Agent, target agent.Name, transcript []conversation.Message, c *conversation.Context) (*engine.Result, error) {
	if _, ok := source.HandoffTo(target); !ok {
		return nil, fmt.Errorf("agent %q has no handoff edge to %q", source.Name, target)
	}
	handoffItem := event.Item{
		Kind:   event.ItemHandoffOutput,
		Source: source.Name.String(),
		Target: target.String(),
	}

	targetAgent := e.registry.Resolve(target)
	res, err := e.runSpecialist(ctx, targetAgent, lastUserMessage(transcript), c, []event.Item{handoffItem})
	if err != nil {
		return nil, err
	}
	res.Handoff = &engine.HandoffTaken{Source: source.Name, Target: target}
	return res, nil
}

// runSpecialist produces a reply for a non-triage agent, invoking the
// agent's first tool when the message warrants it.
func (e *Engine) runSpecialist(ctx context.Context, a *agent.Agent, input string, c *conversation.Context, items []event.Item) (*engine.Result, error) {
	toolName, args, ok := pickToolCall(a, input, c)
	if !ok {
		reply := fmt.Sprintf("Could you share a few more details so I can help? I handle %s.", strings.ToLower(a.Specialty))
		items = append(items, event.Item{Kind: event.ItemMessageOutput, Agent: a.Name.String(), Content: reply})
		return &engine.Result{FinalOutput: reply, Items: items}, nil
	}

	t, found := a.FindTool(toolName)
	if !found {
		return nil, fmt.Errorf("agent %q does not declare tool %q", a.Name, toolName)
	}

	items = append(items, event.Item{
		Kind:     event.ItemToolCall,
		ToolName: t.Name,
		ToolArgs: encodeArgs(args),
	})
	output, err := t.Execute(ctx, args, c)
	if err != nil {
		return nil, fmt.Errorf("tool %s: %w", t.Name, err)
	}
	items = append(items,
		event.Item{Kind: event.ItemToolOutput, ToolResult: output},
		event.Item{Kind: event.ItemMessageOutput, Agent: a.Name.String(), Content: output},
	)
	return &engine.Result{FinalOutput: output, Items: items}, nil
}
