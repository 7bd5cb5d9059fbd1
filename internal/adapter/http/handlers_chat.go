package http

import (
	"net/http"
	"net/url"

	"github.com/aerodesk/aerodesk/internal/service"
)

// HandleChat runs one conversation turn. An absent or unknown
// conversationId starts a new conversation; message may be empty only
// in that case.
func (h *Handlers) HandleChat(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[service.TurnRequest](w, r)
	if !ok {
		return
	}
	// An empty message is only allowed when opening a new conversation.
	if req.Message == "" && req.ConversationID != "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	resp, err := h.turns.Run(r.Context(), req)
	if err != nil {
		h.log.Error("chat turn failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to process message")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleGetConversation returns the stored snapshot for a conversation id.
func (h *Handlers) HandleGetConversation(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")
	st, err := h.turns.Conversation(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "conversation not found")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// decodedParam returns the URL-decoded path parameter. Agent names carry
// spaces, which arrive percent-encoded.
func decodedParam(r *http.Request, name string) string {
	raw := urlParam(r, name)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}
