package airline

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

const confirmationChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewAccountNumber returns a random 8-digit account number. Every fresh
// conversation context is seeded with one.
func NewAccountNumber() string {
	return fmt.Sprintf("%d", 10000000+rand.IntN(90000000))
}

// NewConfirmationNumber returns a 6-character booking confirmation code.
func NewConfirmationNumber() string {
	var b strings.Builder
	for range 6 {
		b.WriteByte(confirmationChars[rand.IntN(len(confirmationChars))])
	}
	return b.String()
}

// NewFlightNumber returns a flight number in the FLT-NNN form.
func NewFlightNumber() string {
	return fmt.Sprintf("FLT-%d", 100+rand.IntN(900))
}

// NewBaggageClaimNumber returns a claim number for tracked baggage.
func NewBaggageClaimNumber() string {
	return fmt.Sprintf("BAG-%d", 100000+rand.IntN(900000))
}

// NewLostBaggageClaimNumber returns a claim number for a lost baggage
// report, zero-padded to six digits.
func NewLostBaggageClaimNumber() string {
	return fmt.Sprintf("BAG-%06d", rand.IntN(999999))
}
