package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MountRoutes registers all API routes on the given chi router.
func MountRoutes(r chi.Router, h *Handlers) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"version":"0.1.0"}`))
		})

		// Turns
		r.Post("/chat", h.HandleChat)
		r.Get("/conversations/{id}", h.HandleGetConversation)

		// Agent directory
		r.Get("/agents", h.HandleListAgents)
		r.Get("/agents/{name}/tools", h.HandleListAgentTools)
		r.Get("/agents/{name}/guardrails", h.HandleListAgentGuardrails)
	})

	if h.hub != nil {
		r.Get("/ws", h.hub.HandleWS)
	}
}
