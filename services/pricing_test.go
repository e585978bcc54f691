package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteWorkedExample(t *testing.T) {
	// 3 nights at 100, cleaning 50, parking 20, other 10.
	q := Quote(QuoteInput{
		PricePerNight: 100,
		Nights:        3,
		CleaningFee:   50,
		ParkingFee:    20,
		OtherExpenses: 10,
	})
	require.True(t, q.Computed)
	assert.Equal(t, 380.0, q.Subtotal)
	assert.Equal(t, 26.60, q.Taxes)
	assert.Equal(t, 406.60, q.TotalAmount)
	assert.Equal(t, 406.60, q.AmountDue)
	assert.Equal(t, PaymentStatusPending, q.PaymentStatus)
}

func TestQuoteManualTaxesWinOverRate(t *testing.T) {
	taxes := 5.0
	q := Quote(QuoteInput{PricePerNight: 100, Nights: 2, Taxes: &taxes})
	require.True(t, q.Computed)
	assert.Equal(t, 200.0, q.Subtotal)
	assert.Equal(t, 5.0, q.Taxes)
	assert.Equal(t, 205.0, q.TotalAmount)
}

func TestQuoteIsDeterministic(t *testing.T) {
	in := QuoteInput{
		PricePerNight: 123.45,
		Nights:        7,
		CleaningFee:   33.33,
		ParkingFee:    12.12,
		OtherExpenses: 0.01,
		AmountPaid:    100,
	}
	first := Quote(in)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Quote(in))
	}
}

func TestQuoteRecomputeFromOwnOutputIsStable(t *testing.T) {
	in := QuoteInput{PricePerNight: 99.99, Nights: 3, CleaningFee: 45.55}
	q := Quote(in)
	// Feeding the rounded taxes back in as a manual override must not
	// move the total.
	taxes := q.Taxes
	in.Taxes = &taxes
	again := Quote(in)
	assert.Equal(t, q.TotalAmount, again.TotalAmount)
	assert.Equal(t, q.AmountDue, again.AmountDue)
}

func TestQuotePreconditionNotMet(t *testing.T) {
	for name, in := range map[string]QuoteInput{
		"no nights":      {PricePerNight: 100, Nights: 0},
		"no price":       {PricePerNight: 0, Nights: 3},
		"negative price": {PricePerNight: -10, Nights: 3},
	} {
		q := Quote(in)
		assert.False(t, q.Computed, name)
		assert.Equal(t, 0.0, q.TotalAmount, name)
		assert.Equal(t, PaymentStatusPending, q.PaymentStatus, name)
	}

	// A staged payment against an uncomputed total still reads partial.
	q := Quote(QuoteInput{PricePerNight: 0, Nights: 0, AmountPaid: 50})
	assert.False(t, q.Computed)
	assert.Equal(t, PaymentStatusPartial, q.PaymentStatus)
}

func TestQuotePaymentStatusBoundaries(t *testing.T) {
	base := QuoteInput{PricePerNight: 100, Nights: 1} // total 107

	q := Quote(base)
	assert.Equal(t, PaymentStatusPending, q.PaymentStatus)

	base.AmountPaid = 50
	q = Quote(base)
	assert.Equal(t, PaymentStatusPartial, q.PaymentStatus)
	assert.Equal(t, 57.0, q.AmountDue)

	base.AmountPaid = 107
	q = Quote(base)
	assert.Equal(t, PaymentStatusComplete, q.PaymentStatus)
	assert.Equal(t, 0.0, q.AmountDue)

	// Overpayment: due goes negative, status stays complete.
	base.AmountPaid = 150
	q = Quote(base)
	assert.Equal(t, PaymentStatusComplete, q.PaymentStatus)
	assert.Equal(t, -43.0, q.AmountDue)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 26.60, Round2(26.599999999999998))
	assert.Equal(t, 0.1, Round2(0.1))
	assert.Equal(t, 2.68, Round2(2.675)) // decimal half-up, not float banker's
	assert.Equal(t, -1.23, Round2(-1.234))
}

func TestNights(t *testing.T) {
	day := func(d int, hour int) time.Time {
		return time.Date(2026, 3, d, hour, 0, 0, 0, time.UTC)
	}

	assert.Equal(t, 3, Nights(day(1, 15), day(4, 15)))
	// Partial day rounds up.
	assert.Equal(t, 4, Nights(day(1, 15), day(4, 16)))
	// Same-day stay still bills one night.
	assert.Equal(t, 1, Nights(day(1, 10), day(1, 18)))
	// Inverted or equal range clamps to the minimum.
	assert.Equal(t, 1, Nights(day(4, 15), day(1, 15)))
	assert.Equal(t, 1, Nights(day(1, 15), day(1, 15)))
}

func TestCoerceAmount(t *testing.T) {
	assert.Equal(t, 120.5, CoerceAmount("120.5"))
	assert.Equal(t, 120.5, CoerceAmount("  120.5  "))
	assert.Equal(t, 0.0, CoerceAmount(""))
	assert.Equal(t, 0.0, CoerceAmount("abc"))
	assert.Equal(t, 0.0, CoerceAmount("12,50"))
	assert.Equal(t, 0.0, CoerceAmount("NaN"))
	assert.Equal(t, 0.0, CoerceAmount("Inf"))
	assert.Equal(t, -5.0, CoerceAmount("-5"))
}
