// Package conversation defines the conversation state, message history and
// customer context threaded through agent turns.
package conversation

import "time"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single entry in a conversation's history.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Agent     string    `json:"agent,omitempty"`  // speaking agent, assistant messages only
	TurnID    string    `json:"turnId,omitempty"` // set on messages appended by a turn
	CreatedAt time.Time `json:"timestamp"`
}

// State is the full persisted snapshot of one conversation. It is mutated
// only by the turn service at commit time; history is append-only and
// CurrentAgent always names a registered agent whose domain matches the
// context shape.
type State struct {
	ID           string    `json:"conversationId"`
	Messages     []Message `json:"messages"`
	CurrentAgent string    `json:"currentAgent"`
	Context      Context   `json:"context"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Clone returns a deep copy of the state so callers cannot alias the
// stored history slice.
func (s *State) Clone() *State {
	out := *s
	out.Messages = make([]Message, len(s.Messages))
	copy(out.Messages, s.Messages)
	if s.Context.SpecialRequests != nil {
		out.Context.SpecialRequests = append([]string(nil), s.Context.SpecialRequests...)
	}
	return &out
}
