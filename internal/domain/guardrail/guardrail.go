// Package guardrail defines input/output safety checks and the pipeline
// that runs them around an agent turn.
package guardrail

import (
	"context"
	"strings"
	"time"

	"github.com/aerodesk/aerodesk/internal/domain/conversation"
)

// Kind distinguishes where in the turn a guardrail runs.
type Kind string

const (
	KindInput  Kind = "input"
	KindOutput Kind = "output"
)

// CheckFunc evaluates text against a customer context. It must be free of
// side effects on the context; it may block (e.g. a semantic relevance
// check backed by a model call), so it receives a context.Context.
type CheckFunc func(ctx context.Context, text string, c conversation.Context) (passed bool, reasoning string, err error)

// Guardrail is a named check applied to agent input or output.
type Guardrail struct {
	Name        string
	Description string
	Kind        Kind
	Check       CheckFunc
}

// ID returns the stable snake_case identifier derived from the name.
func (g Guardrail) ID() string {
	return strings.ReplaceAll(strings.ToLower(g.Name), " ", "_")
}

// Result is the outcome of one guardrail check for one turn. Results are
// ephemeral: they travel on the turn response and are not persisted.
type Result struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Input     string    `json:"input"`
	Reasoning string    `json:"reasoning"`
	Passed    bool      `json:"passed"`
	Timestamp time.Time `json:"timestamp"`
}

// Run executes every guardrail in registration order against text and
// collects all results. It never short-circuits: a failing check does not
// prevent later checks from running, so callers see the full picture.
func Run(ctx context.Context, guards []Guardrail, text string, c conversation.Context) ([]Result, error) {
	results := make([]Result, 0, len(guards))
	for _, g := range guards {
		passed, reasoning, err := g.Check(ctx, text, c)
		if err != nil {
			return nil, err
		}
		results = append(results, Result{
			ID:        g.ID(),
			Name:      g.Name,
			Input:     text,
			Reasoning: reasoning,
			Passed:    passed,
			Timestamp: time.Now().UTC(),
		})
	}
	return results, nil
}

// FirstFailure returns the first failing result, if any.
func FirstFailure(results []Result) (Result, bool) {
	for _, r := range results {
		if !r.Passed {
			return r, true
		}
	}
	return Result{}, false
}

// Passed synthesizes a passing result for a guardrail that was configured
// but not evaluated this turn, keeping the response contract uniform.
func Passed(g Guardrail, input, reasoning string) Result {
	return Result{
		ID:        g.ID(),
		Name:      g.Name,
		Input:     input,
		Reasoning: reasoning,
		Passed:    true,
		Timestamp: time.Now().UTC(),
	}
}
