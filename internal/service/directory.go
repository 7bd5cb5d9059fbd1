package service

import (
	"fmt"

	"github.com/aerodesk/aerodesk/internal/domain"
	"github.com/aerodesk/aerodesk/internal/domain/agent"
	"github.com/aerodesk/aerodesk/internal/domain/guardrail"
)

// AgentInfo is the directory view of one agent.
type AgentInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Handoffs    []string `json:"handoffs"`
	Tools       []string `json:"tools"`
	Status      string   `json:"status"`
	Specialty   string   `json:"specialty"`
}

// AgentList is the full directory plus the name a fresh conversation
// starts on.
type AgentList struct {
	Agents       []AgentInfo `json:"agents"`
	CurrentAgent string      `json:"currentAgent"`
}

// ArgumentInfo describes one tool argument.
type ArgumentInfo struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// ToolInfo is the directory view of one tool.
type ToolInfo struct {
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Arguments   map[string]ArgumentInfo `json:"arguments"`
}

// ToolList is the tool directory of one agent.
type ToolList struct {
	AgentName string     `json:"agentName"`
	Tools     []ToolInfo `json:"tools"`
}

// GuardrailInfo is the directory view of one guardrail.
type GuardrailInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// GuardrailList is the guardrail directory of one agent, input guardrails
// first.
type GuardrailList struct {
	AgentName  string          `json:"agentName"`
	Guardrails []GuardrailInfo `json:"guardrails"`
}

// DirectoryService serves read-only projections of the routing graph for
// UI consumption. It carries no orchestration logic; unknown agent names
// are a not-found error here, not a triage fallback.
type DirectoryService struct {
	registry *agent.Registry
}

// NewDirectoryService creates a directory over the routing graph.
func NewDirectoryService(registry *agent.Registry) *DirectoryService {
	return &DirectoryService{registry: registry}
}

// Agents lists every registered agent in registration order. currentAgent
// names the agent a conversation is parked on; empty or unregistered
// values report the registry default, the agent a fresh conversation
// starts on.
func (s *DirectoryService) Agents(currentAgent string) AgentList {
	current := s.registry.Default().Name
	if _, ok := s.registry.Lookup(agent.Name(currentAgent)); ok {
		current = agent.Name(currentAgent)
	}

	agents := s.registry.List()
	out := AgentList{
		Agents:       make([]AgentInfo, 0, len(agents)),
		CurrentAgent: current.String(),
	}
	for _, a := range agents {
		info := AgentInfo{
			Name:        a.Name.String(),
			Description: a.Description,
			Handoffs:    make([]string, 0, len(a.Handoffs)),
			Tools:       make([]string, 0, len(a.Tools)),
			Status:      "available",
			Specialty:   a.Specialty,
		}
		for _, h := range a.Handoffs {
			info.Handoffs = append(info.Handoffs, h.Target.String())
		}
		for _, t := range a.Tools {
			info.Tools = append(info.Tools, t.Name)
		}
		out.Agents = append(out.Agents, info)
	}
	return out
}

// Tools lists the named agent's tools with their argument schemas.
func (s *DirectoryService) Tools(name string) (*ToolList, error) {
	a, ok := s.registry.Lookup(agent.Name(name))
	if !ok {
		return nil, fmt.Errorf("%w: agent %q", domain.ErrNotFound, name)
	}
	out := &ToolList{
		AgentName: a.Name.String(),
		Tools:     make([]ToolInfo, 0, len(a.Tools)),
	}
	for _, t := range a.Tools {
		out.Tools = append(out.Tools, ToolInfo{
			Name:        t.Name,
			Description: t.Description,
			Arguments:   argumentInfos(t.Parameters),
		})
	}
	return out, nil
}

// Guardrails lists the named agent's guardrails, input before output.
func (s *DirectoryService) Guardrails(name string) (*GuardrailList, error) {
	a, ok := s.registry.Lookup(agent.Name(name))
	if !ok {
		return nil, fmt.Errorf("%w: agent %q", domain.ErrNotFound, name)
	}
	out := &GuardrailList{
		AgentName:  a.Name.String(),
		Guardrails: make([]GuardrailInfo, 0, len(a.InputGuardrails)+len(a.OutputGuardrails)),
	}
	for _, g := range a.InputGuardrails {
		out.Guardrails = append(out.Guardrails, guardrailInfo(g))
	}
	for _, g := range a.OutputGuardrails {
		out.Guardrails = append(out.Guardrails, guardrailInfo(g))
	}
	return out, nil
}

func guardrailInfo(g guardrail.Guardrail) GuardrailInfo {
	return GuardrailInfo{
		Name:        g.Name,
		Description: g.Description,
		Type:        string(g.Kind),
	}
}

// argumentInfos flattens a JSON-Schema-shaped parameter map into per-
// argument entries. Unknown or malformed schema fragments degrade to
// empty strings rather than failing the listing.
func argumentInfos(params map[string]any) map[string]ArgumentInfo {
	out := map[string]ArgumentInfo{}
	props, _ := params["properties"].(map[string]any)
	required := map[string]bool{}
	if reqList, ok := params["required"].([]string); ok {
		for _, r := range reqList {
			required[r] = true
		}
	} else if reqList, ok := params["required"].([]any); ok {
		for _, r := range reqList {
			if s, ok := r.(string); ok {
				required[s] = true
			}
		}
	}
	for key, raw := range props {
		prop, _ := raw.(map[string]any)
		typ, _ := prop["type"].(string)
		if typ == "" {
			typ = "string"
		}
		desc, _ := prop["description"].(string)
		out[key] = ArgumentInfo{
			Type:        typ,
			Description: desc,
			Required:    required[key],
		}
	}
	return out
}
