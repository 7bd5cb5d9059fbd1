package guardrail

import (
	"context"
	"errors"
	"testing"

	"github.com/aerodesk/aerodesk/internal/domain/conversation"
)

func passing(name string) Guardrail {
	return Guardrail{
		Name: name,
		Kind: KindInput,
		Check: func(context.Context, string, conversation.Context) (bool, string, error) {
			return true, "ok", nil
		},
	}
}

func failing(name, reason string) Guardrail {
	return Guardrail{
		Name: name,
		Kind: KindInput,
		Check: func(context.Context, string, conversation.Context) (bool, string, error) {
			return false, reason, nil
		},
	}
}

func TestRunDoesNotShortCircuit(t *testing.T) {
	guards := []Guardrail{
		failing("First Check", "nope"),
		passing("Second Check"),
	}
	results, err := Run(context.Background(), guards, "hello", conversation.Context{})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Passed || !results[1].Passed {
		t.Errorf("unexpected pass flags: %+v", results)
	}
	if results[0].Input != "hello" {
		t.Errorf("expected checked input recorded, got %q", results[0].Input)
	}
}

func TestRunPropagatesCheckError(t *testing.T) {
	boom := errors.New("boom")
	guards := []Guardrail{{
		Name: "Broken",
		Check: func(context.Context, string, conversation.Context) (bool, string, error) {
			return false, "", boom
		},
	}}
	_, err := Run(context.Background(), guards, "x", conversation.Context{})
	if !errors.Is(err, boom) {
		t.Errorf("expected check error, got %v", err)
	}
}

func TestFirstFailure(t *testing.T) {
	results, err := Run(context.Background(), []Guardrail{passing("A"), failing("B", "bad"), failing("C", "worse")}, "x", conversation.Context{})
	if err != nil {
		t.Fatal(err)
	}
	f, ok := FirstFailure(results)
	if !ok {
		t.Fatal("expected a failure")
	}
	if f.Name != "B" {
		t.Errorf("expected first failure B, got %s", f.Name)
	}

	passed, err := Run(context.Background(), []Guardrail{passing("A")}, "x", conversation.Context{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := FirstFailure(passed); ok {
		t.Error("expected no failure")
	}
}

func TestID(t *testing.T) {
	g := Guardrail{Name: "Relevance Guardrail"}
	if got := g.ID(); got != "relevance_guardrail" {
		t.Errorf("expected relevance_guardrail, got %s", got)
	}
}
