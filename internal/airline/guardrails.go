package airline

import (
	"context"
	"fmt"
	"strings"

	"github.com/aerodesk/aerodesk/internal/domain/conversation"
	"github.com/aerodesk/aerodesk/internal/domain/guardrail"
)

// RefusalMessage is the fixed reply used when the relevance guardrail
// trips. The turn is answered with this text and the agent is not invoked.
const RefusalMessage = "I'm sorry, but I can only help with airline-related questions. Please ask me about flights, bookings, seat changes, baggage, or other airline services."

// airlineVocabulary are terms that mark a message as travel-related. The
// check evaluates only the most recent user message, never the history.
var airlineVocabulary = []string{
	"flight", "fly", "plane", "airline", "airport", "travel", "trip",
	"book", "booking", "reservation", "confirmation", "ticket",
	"seat", "cabin", "class", "boarding", "gate", "check-in", "check in",
	"bag", "baggage", "luggage", "suitcase", "claim",
	"cancel", "refund", "delay", "departure", "arrival",
	"wifi", "meal", "loyalty", "miles", "upgrade",
}

// conversationalPhrases are short messages that are acceptable regardless
// of topic ("Hi", "OK", "thanks", ...).
var conversationalPhrases = map[string]struct{}{
	"hi": {}, "hello": {}, "hey": {}, "ok": {}, "okay": {}, "yes": {},
	"no": {}, "sure": {}, "thanks": {}, "thank you": {}, "bye": {},
	"goodbye": {}, "please": {}, "great": {}, "good morning": {},
	"good afternoon": {}, "good evening": {},
}

// RelevanceGuardrail gates whether a user message belongs in an airline
// customer-service conversation. Purely conversational messages pass; a
// substantive message must touch airline travel somewhere.
func RelevanceGuardrail() guardrail.Guardrail {
	return guardrail.Guardrail{
		Name:        "Relevance Guardrail",
		Description: "Checks that the customer's message relates to airline travel",
		Kind:        guardrail.KindInput,
		Check: func(_ context.Context, text string, _ conversation.Context) (bool, string, error) {
			normalized := strings.ToLower(strings.Trim(strings.TrimSpace(text), ".!?,"))
			if _, ok := conversationalPhrases[normalized]; ok {
				return true, "Message is conversational", nil
			}
			if len(strings.Fields(normalized)) <= 2 {
				return true, "Short message treated as conversational", nil
			}
			for _, term := range airlineVocabulary {
				if strings.Contains(normalized, term) {
					return true, "Message is relevant to airline customer service topics", nil
				}
			}
			return false, "Message is unrelated to airline customer service", nil
		},
	}
}

// ContentLengthGuardrail checks that an assistant reply stays within a
// reasonable length. It is advisory: a failure is reported on the
// response but never blocks the reply.
func ContentLengthGuardrail() guardrail.Guardrail {
	const minLen, maxLen = 10, 2000
	return guardrail.Guardrail{
		Name:        "Content Length Guardrail",
		Description: "Checks that the response length stays within acceptable bounds",
		Kind:        guardrail.KindOutput,
		Check: func(_ context.Context, text string, _ conversation.Context) (bool, string, error) {
			n := len(text)
			if n >= minLen && n <= maxLen {
				return true, "Response length is appropriate", nil
			}
			return false, fmt.Sprintf("Response length (%d) is outside acceptable range (%d-%d characters)", n, minLen, maxLen), nil
		},
	}
}
