package conversation

// Domain tags which shape of the customer context is current. Exactly one
// domain is active at any time; Adapt converts between them.
type Domain string

const (
	// DomainGeneral is the booking-oriented shape used by the triage, FAQ,
	// seat booking, flight status and cancellation agents.
	DomainGeneral Domain = "general"
	// DomainBaggage extends the shared fields with baggage handling data.
	DomainBaggage Domain = "baggage"
)

// BaggageType classifies a piece of baggage.
type BaggageType string

const (
	BaggageCarryOn   BaggageType = "carry-on"
	BaggageChecked   BaggageType = "checked"
	BaggageOversized BaggageType = "oversized"
	BaggageSpecial   BaggageType = "special"
)

// BaggageState is the tracking status of checked baggage.
type BaggageState string

const (
	BaggageStateChecked   BaggageState = "checked"
	BaggageStateLost      BaggageState = "lost"
	BaggageStateDelayed   BaggageState = "delayed"
	BaggageStateDelivered BaggageState = "delivered"
)

// Context is the customer state threaded through a conversation. It is a
// tagged union of two shapes: the general shape carries only the shared
// booking fields, the baggage shape additionally carries the Baggage*
// fields. Fields outside the current domain are always zero.
type Context struct {
	Domain Domain `json:"domain"`

	// Shared booking fields, present in both shapes.
	PassengerName      string `json:"passengerName,omitempty"`
	ConfirmationNumber string `json:"confirmationNumber,omitempty"`
	SeatNumber         string `json:"seatNumber,omitempty"`
	FlightNumber       string `json:"flightNumber,omitempty"`
	AccountNumber      string `json:"accountNumber,omitempty"`

	// Baggage-domain extension. Zero unless Domain == DomainBaggage.
	BaggageType            BaggageType  `json:"baggageType,omitempty"`
	BaggageWeight          float64      `json:"baggageWeight,omitempty"`
	BaggageCount           int          `json:"baggageCount,omitempty"`
	BaggageDimensions      string       `json:"baggageDimensions,omitempty"`
	BaggageStatus          BaggageState `json:"baggageStatus,omitempty"`
	BaggageClaimNumber     string       `json:"baggageClaimNumber,omitempty"`
	BaggageLostClaimNumber string       `json:"baggageLostClaimNumber,omitempty"`
	SpecialRequests        []string     `json:"specialRequests,omitempty"`
}

// Adapt converts c to the target domain. It is pure and total: adapting a
// context already in the target domain returns it unchanged, and shared
// fields survive every conversion. Converting to the general domain drops
// the baggage extension; converting to the baggage domain keeps whatever
// extension values a handoff initializer set beforehand. Nothing is ever
// invented.
func Adapt(c Context, target Domain) Context {
	if c.Domain == target {
		return c
	}

	out := Context{
		Domain:             target,
		PassengerName:      c.PassengerName,
		ConfirmationNumber: c.ConfirmationNumber,
		SeatNumber:         c.SeatNumber,
		FlightNumber:       c.FlightNumber,
		AccountNumber:      c.AccountNumber,
	}
	if target == DomainBaggage {
		out.BaggageType = c.BaggageType
		out.BaggageWeight = c.BaggageWeight
		out.BaggageCount = c.BaggageCount
		out.BaggageDimensions = c.BaggageDimensions
		out.BaggageStatus = c.BaggageStatus
		out.BaggageClaimNumber = c.BaggageClaimNumber
		out.BaggageLostClaimNumber = c.BaggageLostClaimNumber
		out.SpecialRequests = c.SpecialRequests
	}
	return out
}
