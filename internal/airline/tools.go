package airline

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/aerodesk/aerodesk/internal/domain/conversation"
	"github.com/aerodesk/aerodesk/internal/domain/tool"
)

func stringParam(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

// FAQLookupTool answers a small set of canned airline questions.
func FAQLookupTool() tool.Tool {
	return tool.Tool{
		Name:        "faq_lookup_tool",
		Description: "Lookup frequently asked questions",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question": stringParam("The question to lookup"),
			},
			"required": []string{"question"},
		},
		Execute: func(_ context.Context, args map[string]any, _ *conversation.Context) (string, error) {
			q := strings.ToLower(tool.ArgString(args, "question"))
			switch {
			case strings.Contains(q, "bag"), strings.Contains(q, "baggage"):
				return "You are allowed to bring one bag on the plane. It must be under 50 pounds and 22 inches x 14 inches x 9 inches.", nil
			case strings.Contains(q, "seats"), strings.Contains(q, "plane"):
				return "There are 120 seats on the plane. There are 22 business class seats and 98 economy seats. Exit rows are rows 4 and 16. Rows 5-8 are Economy Plus, with extra legroom.", nil
			case strings.Contains(q, "wifi"):
				return "We have free wifi on the plane, join Airline-Wifi", nil
			default:
				return "I'm sorry, I don't know the answer to that question.", nil
			}
		},
	}
}

// UpdateSeatTool records a new seat for a confirmation number.
func UpdateSeatTool() tool.Tool {
	return tool.Tool{
		Name:        "update_seat",
		Description: "Update the seat for a given confirmation number",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"confirmationNumber": stringParam("The confirmation number"),
				"seatNumber":         stringParam("The new seat number"),
			},
			"required": []string{"confirmationNumber", "seatNumber"},
		},
		Execute: func(_ context.Context, args map[string]any, c *conversation.Context) (string, error) {
			confirmation := tool.ArgString(args, "confirmationNumber")
			seat := tool.ArgString(args, "seatNumber")
			if c != nil {
				c.SeatNumber = seat
			}
			return fmt.Sprintf("Updated seat to %s for confirmation number %s", seat, confirmation), nil
		},
	}
}

// FlightStatusTool reports a canned on-time status for a flight.
func FlightStatusTool() tool.Tool {
	return tool.Tool{
		Name:        "flight_status_tool",
		Description: "Lookup status for a flight",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"flightNumber": stringParam("The flight number to check"),
			},
			"required": []string{"flightNumber"},
		},
		Execute: func(_ context.Context, args map[string]any, _ *conversation.Context) (string, error) {
			flight := tool.ArgString(args, "flightNumber")
			return fmt.Sprintf("Flight %s is on time and scheduled to depart at gate A10.", flight), nil
		},
	}
}

// CancelFlightTool cancels a flight by confirmation number.
func CancelFlightTool() tool.Tool {
	return tool.Tool{
		Name:        "cancel_flight",
		Description: "Cancel a flight",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"confirmationNumber": stringParam("The confirmation number"),
			},
			"required": []string{"confirmationNumber"},
		},
		Execute: func(_ context.Context, args map[string]any, _ *conversation.Context) (string, error) {
			confirmation := tool.ArgString(args, "confirmationNumber")
			return fmt.Sprintf("Flight with confirmation %s successfully cancelled", confirmation), nil
		},
	}
}

// BaggageStatusTool reports the tracking status of checked baggage and
// records the claim number and status on the context.
func BaggageStatusTool() tool.Tool {
	statuses := []conversation.BaggageState{
		conversation.BaggageStateChecked,
		conversation.BaggageStateLost,
		conversation.BaggageStateDelayed,
		conversation.BaggageStateDelivered,
	}
	return tool.Tool{
		Name:        "baggage_status_tool",
		Description: "Check the status of checked baggage",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"claimNumber": stringParam("The baggage claim number"),
			},
			"required": []string{"claimNumber"},
		},
		Execute: func(_ context.Context, args map[string]any, c *conversation.Context) (string, error) {
			claim := tool.ArgString(args, "claimNumber")
			status := statuses[rand.IntN(len(statuses))]
			if c != nil {
				c.BaggageClaimNumber = claim
				c.BaggageStatus = status
			}
			delivery := time.Now().Add(2 * time.Hour).Format(time.Kitchen)
			return fmt.Sprintf("Baggage with claim number %s is currently %s. Expected delivery time: %s.",
				claim, status, delivery), nil
		},
	}
}

// ReportLostBaggageTool files a lost baggage report and seeds the lost
// claim number on the context.
func ReportLostBaggageTool() tool.Tool {
	return tool.Tool{
		Name:        "report_lost_baggage",
		Description: "Report lost or delayed baggage",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"confirmationNumber": stringParam("The confirmation number for the flight"),
				"baggageDescription": stringParam("Description of the lost baggage"),
				"contactInfo":        stringParam("Contact information for follow-up"),
			},
			"required": []string{"confirmationNumber", "baggageDescription", "contactInfo"},
		},
		Execute: func(_ context.Context, args map[string]any, c *conversation.Context) (string, error) {
			confirmation := tool.ArgString(args, "confirmationNumber")
			contact := tool.ArgString(args, "contactInfo")
			lostClaim := NewLostBaggageClaimNumber()
			if c != nil {
				c.ConfirmationNumber = confirmation
				c.BaggageLostClaimNumber = lostClaim
				c.BaggageStatus = conversation.BaggageStateLost
			}
			return fmt.Sprintf("ConfirmationNumber %s Lost baggage report filed successfully. Your claim number is %s. We will contact you at %s with updates. Expected resolution time: 24-48 hours.",
				confirmation, lostClaim, contact), nil
		},
	}
}

// BaggageFeesTool calculates overweight and heavy bag fees.
func BaggageFeesTool() tool.Tool {
	return tool.Tool{
		Name:        "baggage_fees_calculator",
		Description: "Calculate baggage fees based on weight and dimensions",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"weight": map[string]any{
					"type":        "number",
					"description": "Weight of the baggage in kilograms",
				},
				"baggageType": map[string]any{
					"type":        "string",
					"enum":        []string{"carry-on", "checked", "oversized"},
					"description": "Type of baggage",
				},
			},
			"required": []string{"weight", "baggageType"},
		},
		Execute: func(_ context.Context, args map[string]any, c *conversation.Context) (string, error) {
			weight := tool.ArgFloat(args, "weight")
			baggageType := conversation.BaggageType(tool.ArgString(args, "baggageType"))

			fee := 0
			var breakdown strings.Builder
			if baggageType == conversation.BaggageChecked || baggageType == conversation.BaggageOversized {
				if weight > 50 {
					fee += 75
					fmt.Fprintf(&breakdown, "Overweight fee (%v lbs): $75. ", weight)
				}
				if weight > 70 {
					fee += 200
					fmt.Fprintf(&breakdown, "Heavy bag fee (%v lbs): $200. ", weight)
				}
			}

			if fee == 0 {
				return fmt.Sprintf("No additional fees for your %s baggage.", baggageType), nil
			}
			if c != nil {
				c.BaggageType = baggageType
				c.BaggageWeight = weight
			}
			return fmt.Sprintf("Total baggage fees: $%d. %s", fee, breakdown.String()), nil
		},
	}
}
