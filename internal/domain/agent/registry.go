package agent

import (
	"fmt"

	"github.com/aerodesk/aerodesk/internal/domain"
)

// Registry is the static routing graph: agent definitions plus their
// directed handoff edges. It is built once at process start and is
// immutable and safe for concurrent reads thereafter.
type Registry struct {
	order       []Name
	agents      map[Name]*Agent
	defaultName Name
}

// NewRegistry builds a registry with the given default agent. Every
// handoff edge must reference a registered agent; the default must be
// registered. Cycles between agents are expected (each specialist carries
// a return edge to the default), so only dangling edges are rejected.
func NewRegistry(defaultName Name, agents ...*Agent) (*Registry, error) {
	r := &Registry{
		agents:      make(map[Name]*Agent, len(agents)),
		defaultName: defaultName,
	}
	for _, a := range agents {
		if a.Name == "" {
			return nil, fmt.Errorf("%w: agent with empty name", domain.ErrValidation)
		}
		if _, dup := r.agents[a.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate agent %q", domain.ErrValidation, a.Name)
		}
		r.agents[a.Name] = a
		r.order = append(r.order, a.Name)
	}
	if _, ok := r.agents[defaultName]; !ok {
		return nil, fmt.Errorf("%w: default agent %q is not registered", domain.ErrValidation, defaultName)
	}
	for _, a := range agents {
		for _, h := range a.Handoffs {
			if _, ok := r.agents[h.Target]; !ok {
				return nil, fmt.Errorf("%w: agent %q hands off to unregistered agent %q",
					domain.ErrValidation, a.Name, h.Target)
			}
		}
	}
	return r, nil
}

// Resolve returns the named agent. Unknown names resolve to the default
// agent: resolution never fails outward. The permissive fallback is a
// deliberate policy, not an accident of lookup.
func (r *Registry) Resolve(name Name) *Agent {
	if a, ok := r.agents[name]; ok {
		return a
	}
	return r.agents[r.defaultName]
}

// Lookup returns the named agent without the default fallback. Directory
// projections use it so that unknown names surface as not-found instead
// of silently showing the triage agent.
func (r *Registry) Lookup(name Name) (*Agent, bool) {
	a, ok := r.agents[name]
	return a, ok
}

// Default returns the default (triage) agent.
func (r *Registry) Default() *Agent {
	return r.agents[r.defaultName]
}

// List returns all agents in registration order.
func (r *Registry) List() []*Agent {
	out := make([]*Agent, 0, len(r.order))
	for _, n := range r.order {
		out = append(out, r.agents[n])
	}
	return out
}
