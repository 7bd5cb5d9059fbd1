// Package airline declares the airline customer-service agents: their
// instructions, tools, guardrails and the handoff graph between them.
package airline

import (
	"fmt"
	"strings"

	"github.com/aerodesk/aerodesk/internal/domain/agent"
	"github.com/aerodesk/aerodesk/internal/domain/conversation"
	"github.com/aerodesk/aerodesk/internal/domain/guardrail"
	"github.com/aerodesk/aerodesk/internal/domain/tool"
)

// Agent names. AgentTriage is the registry default: unknown names resolve
// to it and every specialist carries a return edge back to it.
const (
	AgentTriage       agent.Name = "Triage Agent"
	AgentFAQ          agent.Name = "FAQ Agent"
	AgentSeatBooking  agent.Name = "Seat Booking Agent"
	AgentFlightStatus agent.Name = "Flight Status Agent"
	AgentCancellation agent.Name = "Cancellation Agent"
	AgentBaggage      agent.Name = "Baggage Agent"
)

// NewContext returns the fresh context seeded into a new conversation.
func NewContext() conversation.Context {
	return conversation.Context{
		Domain:        conversation.DomainGeneral,
		AccountNumber: NewAccountNumber(),
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "[unknown]"
	}
	return s
}

var emptyInputSchema = map[string]any{"type": "object", "properties": map[string]any{}}

// seedBookingNumbers backfills a missing confirmation and flight number.
// Shared by every booking-oriented handoff initializer.
func seedBookingNumbers(c *conversation.Context) {
	if c.FlightNumber == "" {
		c.FlightNumber = NewFlightNumber()
	}
	if c.ConfirmationNumber == "" {
		c.ConfirmationNumber = NewConfirmationNumber()
	}
}

// seedBaggageDefaults prepares a context for the baggage agent: booking
// numbers plus a claim number and a default baggage type. It runs against
// the pre-conversion shape, so the seeded values survive the domain change.
func seedBaggageDefaults(c *conversation.Context) {
	seedBookingNumbers(c)
	if c.BaggageClaimNumber == "" {
		c.BaggageClaimNumber = NewBaggageClaimNumber()
	}
	if c.BaggageType == "" {
		c.BaggageType = conversation.BaggageChecked
	}
}

// NewRegistry builds the full airline routing graph. The topology is a
// star around the triage agent plus a return edge from every specialist.
func NewRegistry() (*agent.Registry, error) {
	inputGuards := []guardrail.Guardrail{RelevanceGuardrail()}
	outputGuards := []guardrail.Guardrail{ContentLengthGuardrail()}

	returnToTriage := agent.Handoff{Target: AgentTriage}

	faq := &agent.Agent{
		Name:        AgentFAQ,
		Description: "A helpful agent that can answer questions about the airline",
		Specialty:   "General Information",
		Domain:      conversation.DomainGeneral,
		Instructions: agent.Static(strings.Join([]string{
			"You are an FAQ agent for an airline customer service system.",
			"Use the faq_lookup_tool to answer customer questions.",
			"Respond to the customer with the answer.",
		}, " ")),
		Tools:            []tool.Tool{FAQLookupTool()},
		InputGuardrails:  inputGuards,
		OutputGuardrails: outputGuards,
		Handoffs:         []agent.Handoff{returnToTriage},
	}

	seatBooking := &agent.Agent{
		Name:        AgentSeatBooking,
		Description: "A helpful agent that can update a seat on a flight",
		Specialty:   "Seat Management",
		Domain:      conversation.DomainGeneral,
		Instructions: func(c conversation.Context) string {
			return strings.Join([]string{
				"You are a seat booking agent for an airline customer service system.",
				fmt.Sprintf("The customer's confirmation number is %s.", orUnknown(c.ConfirmationNumber)),
				"If confirmation number is not available, ask the customer for it.",
				"Ask the customer what their desired seat number is.",
				"Use the update_seat tool to update the seat on the flight.",
				"If the customer asks something unrelated, transfer back to the triage agent.",
			}, " ")
		},
		Tools:            []tool.Tool{UpdateSeatTool()},
		InputGuardrails:  inputGuards,
		OutputGuardrails: outputGuards,
		Handoffs:         []agent.Handoff{returnToTriage},
	}

	flightStatus := &agent.Agent{
		Name:        AgentFlightStatus,
		Description: "An agent to provide flight status information",
		Specialty:   "Flight Information",
		Domain:      conversation.DomainGeneral,
		Instructions: func(c conversation.Context) string {
			return strings.Join([]string{
				"You are a Flight Status Agent for an airline customer service system.",
				fmt.Sprintf("The customer's confirmation number is %s and flight number is %s.",
					orUnknown(c.ConfirmationNumber), orUnknown(c.FlightNumber)),
				"If either is not available, ask the customer for the missing information.",
				"Use the flight_status_tool to report the status of the flight.",
				"If the customer asks something unrelated to flight status, transfer back to the triage agent.",
			}, " ")
		},
		Tools:            []tool.Tool{FlightStatusTool()},
		InputGuardrails:  inputGuards,
		OutputGuardrails: outputGuards,
		Handoffs:         []agent.Handoff{returnToTriage},
	}

	cancellation := &agent.Agent{
		Name:        AgentCancellation,
		Description: "An agent to cancel flights",
		Specialty:   "Booking Cancellation",
		Domain:      conversation.DomainGeneral,
		Instructions: func(c conversation.Context) string {
			return strings.Join([]string{
				"You are a Cancellation Agent for an airline customer service system.",
				fmt.Sprintf("The customer's confirmation number is %s and flight number is %s.",
					orUnknown(c.ConfirmationNumber), orUnknown(c.FlightNumber)),
				"If either is not available, ask the customer for the missing information.",
				"If the customer confirms, use the cancel_flight tool to cancel their flight.",
				"If the customer asks anything else, transfer back to the triage agent.",
			}, " ")
		},
		Tools:            []tool.Tool{CancelFlightTool()},
		InputGuardrails:  inputGuards,
		OutputGuardrails: outputGuards,
		Handoffs:         []agent.Handoff{returnToTriage},
	}

	baggage := &agent.Agent{
		Name:        AgentBaggage,
		Description: "A specialized agent for handling all baggage-related inquiries and issues",
		Specialty:   "Baggage Services",
		Domain:      conversation.DomainBaggage,
		Instructions: func(c conversation.Context) string {
			return strings.Join([]string{
				"You are a Baggage Agent for an airline customer service system.",
				fmt.Sprintf("The customer's confirmation number is %s and flight number is %s.",
					orUnknown(c.ConfirmationNumber), orUnknown(c.FlightNumber)),
				"You specialize in handling all baggage-related inquiries including:",
				"- Baggage allowance and fees",
				"- Lost or delayed baggage reports",
				"- Baggage status tracking",
				"- Oversized or special baggage handling",
				"If confirmation number or flight number is not available, ask the customer for the missing information.",
				"Use the appropriate baggage tools to help customers with their baggage needs.",
				"If the customer asks something unrelated to baggage, transfer back to the triage agent.",
			}, " ")
		},
		Tools:            []tool.Tool{BaggageStatusTool(), ReportLostBaggageTool(), BaggageFeesTool()},
		InputGuardrails:  inputGuards,
		OutputGuardrails: outputGuards,
		Handoffs:         []agent.Handoff{returnToTriage},
	}

	triage := &agent.Agent{
		Name:        AgentTriage,
		Description: "A triage agent that can delegate requests to appropriate agents",
		Specialty:   "Customer Request Routing",
		Domain:      conversation.DomainGeneral,
		Instructions: agent.Static(strings.Join([]string{
			"You are a helpful triaging agent for an airline customer service system.",
			"You can delegate questions to other appropriate agents based on customer needs.",
			"For FAQ questions, transfer to FAQ Agent.",
			"For seat changes, transfer to Seat Booking Agent.",
			"For flight status inquiries, transfer to Flight Status Agent.",
			"For cancellations, transfer to Cancellation Agent.",
			"For baggage-related inquiries (lost baggage, baggage fees, baggage status, etc.), transfer to Baggage Agent.",
		}, " ")),
		InputGuardrails:  inputGuards,
		OutputGuardrails: outputGuards,
		Handoffs: []agent.Handoff{
			{Target: AgentFAQ},
			{Target: AgentSeatBooking, OnHandoff: seedBookingNumbers, InputSchema: emptyInputSchema},
			{Target: AgentFlightStatus, OnHandoff: seedBookingNumbers, InputSchema: emptyInputSchema},
			{Target: AgentCancellation, OnHandoff: seedBookingNumbers, InputSchema: emptyInputSchema},
			{Target: AgentBaggage, OnHandoff: seedBaggageDefaults, InputSchema: emptyInputSchema},
		},
	}

	return agent.NewRegistry(AgentTriage, triage, faq, seatBooking, flightStatus, cancellation, baggage)
}
