package http

import "net/http"

// HandleListAgents returns the full agent directory. With conversation_id
// set, currentAgent reflects that conversation; otherwise it is the agent
// a fresh conversation starts on.
func (h *Handlers) HandleListAgents(w http.ResponseWriter, r *http.Request) {
	var current string
	if id := r.URL.Query().Get("conversation_id"); id != "" {
		if st, err := h.turns.Conversation(r.Context(), id); err == nil {
			current = st.CurrentAgent
		}
	}
	writeJSON(w, http.StatusOK, h.directory.Agents(current))
}

// HandleListAgentTools returns the named agent's tools with argument
// schemas.
func (h *Handlers) HandleListAgentTools(w http.ResponseWriter, r *http.Request) {
	name := decodedParam(r, "name")
	tools, err := h.directory.Tools(name)
	if err != nil {
		writeDomainError(w, err, "agent not found")
		return
	}
	writeJSON(w, http.StatusOK, tools)
}

// HandleListAgentGuardrails returns the named agent's guardrails.
func (h *Handlers) HandleListAgentGuardrails(w http.ResponseWriter, r *http.Request) {
	name := decodedParam(r, "name")
	guardrails, err := h.directory.Guardrails(name)
	if err != nil {
		writeDomainError(w, err, "agent not found")
		return
	}
	writeJSON(w, http.StatusOK, guardrails)
}
