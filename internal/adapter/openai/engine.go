// Package openai implements the execution engine port on the OpenAI Chat
// Completions API with function calling. Agent tools are exposed as
// functions, and every handoff edge becomes a synthetic transfer function
// the model may call to route the conversation.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openaigo "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/aerodesk/aerodesk/internal/domain/agent"
	"github.com/aerodesk/aerodesk/internal/domain/conversation"
	"github.com/aerodesk/aerodesk/internal/domain/event"
	"github.com/aerodesk/aerodesk/internal/port/engine"
)

// transferPrefix names the synthetic routing functions. The suffix is the
// snake_cased target agent name.
const transferPrefix = "transfer_to_"

// maxSteps bounds the completion loop so a model that keeps calling tools
// cannot spin a turn forever.
const maxSteps = 8

// Options configure the engine. Zero values fall back to the client's
// environment-based defaults.
type Options struct {
	APIKey              string
	BaseURL             string
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Engine drives one agent turn through the Chat Completions API. It takes
// at most one handoff per run; transfer calls after the first are answered
// with a refusal so the model finishes as the already-selected agent.
type Engine struct {
	client   *openaigo.Client
	registry *agent.Registry
	opts     Options
}

// New creates an OpenAI engine over the routing graph.
func New(registry *agent.Registry, optFns ...func(o *Options)) *Engine {
	opts := Options{
		Model:               openaigo.ChatModelGPT4oMini,
		Temperature:         0.3,
		MaxCompletionTokens: 1024,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}
	client := openaigo.NewClient(clientOpts...)
	return &Engine{client: &client, registry: registry, opts: opts}
}

// Run implements engine.Engine.
func (e *Engine) Run(ctx context.Context, a *agent.Agent, transcript []conversation.Message, c *conversation.Context) (*engine.Result, error) {
	active := a
	messages := buildMessages(active, transcript, *c)

	res := &engine.Result{}
	for step := 0; step < maxSteps; step++ {
		params := openaigo.ChatCompletionNewParams{
			Messages:            messages,
			Model:               e.opts.Model,
			Temperature:         openaigo.Float(e.opts.Temperature),
			MaxCompletionTokens: openaigo.Int(e.opts.MaxCompletionTokens),
		}
		if tools := toolParams(active, res.Handoff == nil); len(tools) > 0 {
			params.Tools = tools
		}

		completion, err := e.client.Chat.Completions.New(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("chat completion: %w", err)
		}
		if len(completion.Choices) == 0 {
			return nil, fmt.Errorf("chat completion returned no choices")
		}
		msg := completion.Choices[0].Message

		if len(msg.ToolCalls) == 0 {
			res.FinalOutput = msg.Content
			res.Items = append(res.Items, event.Item{
				Kind:    event.ItemMessageOutput,
				Agent:   active.Name.String(),
				Content: msg.Content,
			})
			return res, nil
		}

		messages = append(messages, msg.ToParam())
		for _, tc := range msg.ToolCalls {
			output, next, err := e.dispatch(ctx, active, tc.Function.Name, tc.Function.Arguments, c, res)
			if err != nil {
				return nil, err
			}
			messages = append(messages, openaigo.ToolMessage(output, tc.ID))
			if next != nil {
				active = next
				messages[0] = openaigo.SystemMessage(active.Instructions(*c))
			}
		}
	}
	return nil, fmt.Errorf("agent %q exceeded %d completion steps", a.Name, maxSteps)
}

// dispatch executes one tool call. A transfer call switches the active
// agent and returns it as next; a domain tool call runs against the
// working context. Unknown names are reported back to the model rather
// than failing the turn.
func (e *Engine) dispatch(ctx context.Context, active *agent.Agent, name, rawArgs string, c *conversation.Context, res *engine.Result) (output string, next *agent.Agent, err error) {
	if target, ok := transferTarget(active, name); ok {
		if res.Handoff != nil {
			return "handoff already completed for this turn", nil, nil
		}
		edge, _ := active.HandoffTo(target)
		if edge.OnHandoff != nil {
			edge.OnHandoff(c)
		}
		*c = conversation.Adapt(*c, e.registry.Resolve(target).Domain)

		res.Handoff = &engine.HandoffTaken{Source: active.Name, Target: target}
		res.Items = append(res.Items, event.Item{
			Kind:   event.ItemHandoffOutput,
			Source: active.Name.String(),
			Target: target.String(),
		})
		return fmt.Sprintf("transferred to %s", target), e.registry.Resolve(target), nil
	}

	t, found := active.FindTool(name)
	if !found {
		return fmt.Sprintf("unknown tool %q", name), nil, nil
	}

	args := map[string]any{}
	if rawArgs != "" {
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			return fmt.Sprintf("invalid arguments for %s: %v", name, err), nil, nil
		}
	}

	res.Items = append(res.Items, event.Item{
		Kind:     event.ItemToolCall,
		ToolName: t.Name,
		ToolArgs: rawArgs,
	})
	result, err := t.Execute(ctx, args, c)
	if err != nil {
		return "", nil, fmt.Errorf("tool %s: %w", t.Name, err)
	}
	res.Items = append(res.Items, event.Item{Kind: event.ItemToolOutput, ToolResult: result})
	return result, nil, nil
}

// buildMessages converts the stored transcript into chat messages,
// prefixed with the active agent's rendered instructions.
func buildMessages(a *agent.Agent, transcript []conversation.Message, c conversation.Context) []openaigo.ChatCompletionMessageParamUnion {
	messages := make([]openaigo.ChatCompletionMessageParamUnion, 0, len(transcript)+1)
	messages = append(messages, openaigo.SystemMessage(a.Instructions(c)))
	for _, m := range transcript {
		switch m.Role {
		case conversation.RoleAssistant:
			messages = append(messages, openaigo.AssistantMessage(m.Content))
		default:
			messages = append(messages, openaigo.UserMessage(m.Content))
		}
	}
	return messages
}

// toolParams builds the function declarations for the active agent: its
// domain tools plus, while no handoff has been taken, one transfer
// function per outbound edge.
func toolParams(a *agent.Agent, includeTransfers bool) []openaigo.ChatCompletionToolParam {
	tools := make([]openaigo.ChatCompletionToolParam, 0, len(a.Tools)+len(a.Handoffs))
	for _, t := range a.Tools {
		tools = append(tools, openaigo.ChatCompletionToolParam{
			Type: "function",
			Function: openaigo.FunctionDefinitionParam{
				Name:        t.Name,
				Description: openaigo.String(t.Description),
				Parameters:  t.Parameters,
			},
		})
	}
	if !includeTransfers {
		return tools
	}
	for _, h := range a.Handoffs {
		params := h.InputSchema
		if params == nil {
			params = map[string]any{"type": "object", "properties": map[string]any{}}
		}
		tools = append(tools, openaigo.ChatCompletionToolParam{
			Type: "function",
			Function: openaigo.FunctionDefinitionParam{
				Name:        transferToolName(h.Target),
				Description: openaigo.String(fmt.Sprintf("Hand the conversation off to the %s.", h.Target)),
				Parameters:  params,
			},
		})
	}
	return tools
}

// transferTarget resolves a transfer function name against the active
// agent's outbound edges.
func transferTarget(a *agent.Agent, toolName string) (agent.Name, bool) {
	if !strings.HasPrefix(toolName, transferPrefix) {
		return "", false
	}
	for _, h := range a.Handoffs {
		if transferToolName(h.Target) == toolName {
			return h.Target, true
		}
	}
	return "", false
}

func transferToolName(target agent.Name) string {
	return transferPrefix + strings.ReplaceAll(strings.ToLower(target.String()), " ", "_")
}
