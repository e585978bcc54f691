package services

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TaxRate is the flat tax applied to the reservation subtotal when the
// operator has not entered taxes manually.
const TaxRate = 0.07

// Payment status values derived from amountDue/amountPaid.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPartial  = "partial"
	PaymentStatusComplete = "complete"
)

// QuoteInput carries the raw monetary fields of a reservation. Taxes is
// a pointer: nil means "recompute from the subtotal", non-nil means the
// operator typed a value and it must be used verbatim.
type QuoteInput struct {
	PricePerNight float64
	Nights        int
	CleaningFee   float64
	ParkingFee    float64
	OtherExpenses float64
	Taxes         *float64
	AmountPaid    float64
}

// QuoteResult is the derived side of a reservation. Computed is false
// when the inputs did not meet the computation precondition (no nights
// or no nightly price yet), in which case callers leave the stored
// derived fields untouched.
type QuoteResult struct {
	Subtotal      float64
	Taxes         float64
	TotalAmount   float64
	AmountDue     float64
	PaymentStatus string
	Computed      bool
}

// Quote derives subtotal, taxes, total, amount due and payment status
// from the raw inputs. All outputs are rounded to 2 decimal places so
// repeated recomputation never accumulates float drift. AmountDue is
// not clamped: overpayment yields a negative due.
func Quote(in QuoteInput) QuoteResult {
	if in.Nights <= 0 || in.PricePerNight <= 0 {
		return QuoteResult{Computed: false, PaymentStatus: uncomputedStatus(in.AmountPaid)}
	}

	subtotal := in.PricePerNight*float64(in.Nights) + in.CleaningFee + in.ParkingFee + in.OtherExpenses

	var taxes float64
	if in.Taxes != nil {
		taxes = Round2(*in.Taxes)
	} else {
		taxes = Round2(subtotal * TaxRate)
	}

	total := Round2(subtotal + taxes)
	due := Round2(total - in.AmountPaid)

	return QuoteResult{
		Subtotal:      Round2(subtotal),
		Taxes:         taxes,
		TotalAmount:   total,
		AmountDue:     due,
		PaymentStatus: paymentStatus(in.AmountPaid, due),
		Computed:      true,
	}
}

// paymentStatus applies the status rule: complete when nothing (or
// less than nothing) is due, partial when something was paid, else
// pending.
func paymentStatus(amountPaid, amountDue float64) string {
	if amountDue <= 0 {
		return PaymentStatusComplete
	}
	if amountPaid > 0 {
		return PaymentStatusPartial
	}
	return PaymentStatusPending
}

// uncomputedStatus is the fallback when no total exists yet: nothing is
// due, but a staged payment still marks the reservation partial.
func uncomputedStatus(amountPaid float64) string {
	if amountPaid > 0 {
		return PaymentStatusPartial
	}
	return PaymentStatusPending
}

// Round2 rounds a monetary amount to 2 decimal places half-up.
func Round2(v float64) float64 {
	out, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return out
}

// Nights counts billable nights between check-in and check-out,
// rounding partial days up and never returning less than 1.
func Nights(checkIn, checkOut time.Time) int {
	if !checkIn.Before(checkOut) {
		return 1
	}
	n := int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
	if n < 1 {
		n = 1
	}
	return n
}

// CoerceAmount parses a user-entered amount, mapping empty or malformed
// strings to 0 rather than an error. This mirrors the form behavior the
// back office has always had; tightening it would change observable
// pricing outcomes.
func CoerceAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
