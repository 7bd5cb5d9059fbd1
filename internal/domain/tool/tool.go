// Package tool defines the callable tool surface exposed to agents.
package tool

import (
	"context"

	"github.com/aerodesk/aerodesk/internal/domain/conversation"
)

// Tool exposes a plain Go function to the execution engine. Parameters is
// a minimal JSON-Schema-shaped map ("type", "properties", "required")
// describing the arguments the engine may supply.
//
// Execute receives the turn's working context by pointer and may mutate it
// (e.g. recording an updated seat or a filed baggage claim); the turn
// service decides whether the mutation is committed. A Tool has no mutable
// state of its own and is safe for concurrent use.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
	Execute     func(ctx context.Context, args map[string]any, c *conversation.Context) (string, error)
}

// ArgString returns the string argument under key, or "" when absent or
// of another type.
func ArgString(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

// ArgFloat returns the numeric argument under key, or 0 when absent.
// JSON numbers decode as float64.
func ArgFloat(args map[string]any, key string) float64 {
	f, _ := args[key].(float64)
	return f
}
