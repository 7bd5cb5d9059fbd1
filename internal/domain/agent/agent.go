// Package agent defines agent definitions and the static routing graph
// they form through directed handoff edges.
package agent

import (
	"github.com/aerodesk/aerodesk/internal/domain/conversation"
	"github.com/aerodesk/aerodesk/internal/domain/guardrail"
	"github.com/aerodesk/aerodesk/internal/domain/tool"
)

// Name is the enumerated identifier of an agent. All live names are
// declared by the registry at construction; resolving any other value
// falls back to the registry default.
type Name string

// String implements fmt.Stringer.
func (n Name) String() string { return string(n) }

// InstructionsFunc renders an agent's system instructions for the current
// customer context. Static instructions ignore the context.
type InstructionsFunc func(c conversation.Context) string

// Static wraps fixed instruction text as an InstructionsFunc.
func Static(text string) InstructionsFunc {
	return func(conversation.Context) string { return text }
}

// Handoff is a directed edge from one agent to another. OnHandoff, when
// set, runs against the source-shape context before the domain conversion
// so that values it seeds survive the shape change. InputSchema describes
// handoff-carried data and may be empty.
type Handoff struct {
	Target      Name
	OnHandoff   func(c *conversation.Context)
	InputSchema map[string]any
}

// Agent is an immutable agent definition. Agents are registered once at
// process start; nothing mutates them afterwards.
type Agent struct {
	Name             Name
	Description      string
	Specialty        string
	Domain           conversation.Domain
	Instructions     InstructionsFunc
	Tools            []tool.Tool
	InputGuardrails  []guardrail.Guardrail
	OutputGuardrails []guardrail.Guardrail
	Handoffs         []Handoff
}

// HandoffTo returns the outbound edge to target, if one exists.
func (a *Agent) HandoffTo(target Name) (Handoff, bool) {
	for _, h := range a.Handoffs {
		if h.Target == target {
			return h, true
		}
	}
	return Handoff{}, false
}

// FindTool returns the named tool, if the agent declares it.
func (a *Agent) FindTool(name string) (tool.Tool, bool) {
	for _, t := range a.Tools {
		if t.Name == name {
			return t, true
		}
	}
	return tool.Tool{}, false
}
