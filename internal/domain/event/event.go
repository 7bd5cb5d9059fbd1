// Package event defines turn-scoped audit events and the recorder that
// translates execution-engine items into them.
package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type identifies the kind of turn event.
type Type string

const (
	TypeMessage    Type = "message"
	TypeHandoff    Type = "handoff"
	TypeToolCall   Type = "tool_call"
	TypeToolOutput Type = "tool_output"
)

// Event is one entry in a turn's audit trail. All events produced by one
// orchestrator invocation share the same TurnID and preserve the engine's
// item order.
type Event struct {
	ID        string         `json:"id"`
	Type      Type           `json:"type"`
	TurnID    string         `json:"turnId"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// ItemKind identifies the kind of raw item an execution engine emitted.
type ItemKind string

const (
	ItemMessageOutput ItemKind = "message_output"
	ItemHandoffOutput ItemKind = "handoff_output"
	ItemToolCall      ItemKind = "tool_call"
	ItemToolOutput    ItemKind = "tool_call_output"
)

// Item is one raw output item from an execution engine run. Only the
// fields relevant to the item's kind are populated.
type Item struct {
	Kind ItemKind

	Agent   string // message_output: speaking agent
	Content string // message_output: message text

	Source string // handoff_output
	Target string // handoff_output

	ToolName string // tool_call
	ToolArgs string // tool_call: raw argument payload, usually JSON

	ToolResult string // tool_call_output
}

// Record maps engine items to events, one each, all stamped with turnID.
// Tool-call arguments are parsed as JSON where possible; a payload that
// does not parse is kept raw rather than failing the turn.
func Record(turnID string, items []Item) []Event {
	events := make([]Event, 0, len(items))
	for _, it := range items {
		ev := Event{
			ID:        uuid.NewString(),
			TurnID:    turnID,
			Timestamp: time.Now().UTC(),
		}
		switch it.Kind {
		case ItemMessageOutput:
			ev.Type = TypeMessage
			ev.Content = it.Content
			ev.Metadata = map[string]any{"agent": it.Agent}
		case ItemHandoffOutput:
			ev.Type = TypeHandoff
			ev.Content = fmt.Sprintf("%s -> %s", it.Source, it.Target)
			ev.Metadata = map[string]any{
				"source_agent": it.Source,
				"target_agent": it.Target,
			}
		case ItemToolCall:
			ev.Type = TypeToolCall
			ev.Content = it.ToolName
			ev.Metadata = map[string]any{"tool_args": parseArgs(it.ToolArgs)}
		case ItemToolOutput:
			ev.Type = TypeToolOutput
			ev.Content = it.ToolResult
			ev.Metadata = map[string]any{"tool_result": it.ToolResult}
		default:
			continue
		}
		events = append(events, ev)
	}
	return events
}

// parseArgs attempts a structured parse of a tool argument payload,
// falling back to the raw string.
func parseArgs(raw string) any {
	if raw == "" {
		return map[string]any{}
	}
	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return raw
	}
	return parsed
}
