package canned

import (
	"encoding/json"
	"strings"

	"github.com/aerodesk/aerodesk/internal/airline"
	"github.com/aerodesk/aerodesk/internal/domain/agent"
	"github.com/aerodesk/aerodesk/internal/domain/conversation"
)

// routeByKeyword maps a triage-level message onto a specialist agent.
// Order matters: baggage terms are checked before seat terms so that
// "lost my bag on seat 4A" routes to baggage handling.
func routeByKeyword(input string) (agent.Name, bool) {
	q := strings.ToLower(input)
	switch {
	case containsAny(q, "bag", "baggage", "luggage", "suitcase"):
		return airline.AgentBaggage, true
	case containsAny(q, "cancel", "refund"):
		return airline.AgentCancellation, true
	case containsAny(q, "seat"):
		return airline.AgentSeatBooking, true
	case containsAny(q, "status", "delayed", "on time", "gate", "departure"):
		return airline.AgentFlightStatus, true
	case containsAny(q, "wifi", "how many", "allowance", "policy", "?"):
		return airline.AgentFAQ, true
	default:
		return "", false
	}
}

// pickToolCall decides which of the agent's tools to invoke for the
// message and builds its arguments from the message and context.
func pickToolCall(a *agent.Agent, input string, c *conversation.Context) (string, map[string]any, bool) {
	q := strings.ToLower(input)

	switch a.Name {
	case airline.AgentFAQ:
		return "faq_lookup_tool", map[string]any{"question": input}, true

	case airline.AgentSeatBooking:
		seat := extractSeat(input)
		if seat == "" || c.ConfirmationNumber == "" {
			return "", nil, false
		}
		return "update_seat", map[string]any{
			"confirmationNumber": c.ConfirmationNumber,
			"seatNumber":         seat,
		}, true

	case airline.AgentFlightStatus:
		if c.FlightNumber == "" {
			return "", nil, false
		}
		return "flight_status_tool", map[string]any{"flightNumber": c.FlightNumber}, true

	case airline.AgentCancellation:
		if c.ConfirmationNumber == "" {
			return "", nil, false
		}
		return "cancel_flight", map[string]any{"confirmationNumber": c.ConfirmationNumber}, true

	case airline.AgentBaggage:
		switch {
		case containsAny(q, "lost", "missing", "delayed"):
			return "report_lost_baggage", map[string]any{
				"confirmationNumber": c.ConfirmationNumber,
				"baggageDescription": input,
				"contactInfo":        "customer on file",
			}, true
		case containsAny(q, "fee", "cost", "charge", "weigh"):
			return "baggage_fees_calculator", map[string]any{
				"weight":      float64(55),
				"baggageType": "checked",
			}, true
		case c.BaggageClaimNumber != "":
			return "baggage_status_tool", map[string]any{"claimNumber": c.BaggageClaimNumber}, true
		default:
			return "", nil, false
		}
	}
	return "", nil, false
}

func containsAny(s string, terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// extractSeat finds a seat designator like "12A" in the message.
func extractSeat(input string) string {
	for _, f := range strings.Fields(input) {
		f = strings.Trim(f, ".,!?")
		if len(f) < 2 || len(f) > 3 {
			continue
		}
		last := f[len(f)-1]
		if last < 'A' || last > 'F' {
			continue
		}
		digits := f[:len(f)-1]
		allDigits := true
		for i := 0; i < len(digits); i++ {
			if digits[i] < '0' || digits[i] > '9' {
				allDigits = false
				break
			}
		}
		if allDigits {
			return f
		}
	}
	return ""
}

func encodeArgs(args map[string]any) string {
	data, err := json.Marshal(args)
	if err != nil {
		return ""
	}
	return string(data)
}

// lastUserMessage returns the text of the most recent user entry.
func lastUserMessage(transcript []conversation.Message) string {
	for i := len(transcript) - 1; i >= 0; i-- {
		if transcript[i].Role == conversation.RoleUser {
			return transcript[i].Content
		}
	}
	return ""
}
