package wire

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"miami-getaway-server/models"
)

func modelReservation() *models.Reservation {
	clientID := uint(9)
	r := &models.Reservation{
		ApartmentID:     3,
		ClientID:        &clientID,
		CheckIn:         time.Date(2026, 7, 1, 15, 0, 0, 0, time.UTC),
		CheckOut:        time.Date(2026, 7, 4, 11, 0, 0, 0, time.UTC),
		Nights:          3,
		PricePerNight:   100,
		CleaningFee:     50,
		ParkingFee:      20,
		OtherExpenses:   10,
		CancellationFee: 75,
		Taxes:           26.60,
		TotalAmount:     406.60,
		AmountPaid:      100,
		AmountDue:       306.60,
		PaymentStatus:   "partial",
		Status:          "confirmed",
		ClientName:      "Ana Torres",
		ClientEmail:     "ana@example.com",
		ClientPhone:     "+1 305 555 0100",
		ClientCity:      "Miami",
		ClientCountry:   "US",
		Notes:           "late arrival",
	}
	r.ID = 42
	return r
}

func TestReservationToWireIsSnakeCase(t *testing.T) {
	out, err := json.Marshal(ReservationToWire(modelReservation()))
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &raw))

	for _, key := range []string{
		"check_in_date", "check_out_date", "price_per_night", "cleaning_fee",
		"parking_fee", "other_expenses", "cancellation_fee", "taxes",
		"total_amount", "amount_paid", "amount_due", "payment_status",
		"client_name", "client_email",
	} {
		assert.Contains(t, raw, key)
	}
	assert.Equal(t, "07-01-2026 15:00", raw["check_in_date"])
	assert.Equal(t, 406.60, raw["total_amount"])
	// The cancellation fee rides along for display but is not folded
	// into the total.
	assert.Equal(t, 75.0, raw["cancellation_fee"])
}

func TestReservationRoundTrip(t *testing.T) {
	orig := modelReservation()
	back := ReservationFromWire(ReservationToWire(orig))

	assert.Equal(t, orig.ID, back.ID)
	assert.Equal(t, orig.ApartmentID, back.ApartmentID)
	require.NotNil(t, back.ClientID)
	assert.Equal(t, *orig.ClientID, *back.ClientID)
	assert.True(t, orig.CheckIn.Equal(back.CheckIn))
	assert.True(t, orig.CheckOut.Equal(back.CheckOut))
	assert.Equal(t, orig.PricePerNight, back.PricePerNight)
	assert.Equal(t, orig.CancellationFee, back.CancellationFee)
	assert.Equal(t, orig.Taxes, back.Taxes)
	assert.Equal(t, orig.TotalAmount, back.TotalAmount)
	assert.Equal(t, orig.AmountDue, back.AmountDue)
	assert.Equal(t, orig.PaymentStatus, back.PaymentStatus)
	assert.Equal(t, orig.ClientName, back.ClientName)
	assert.Equal(t, orig.Notes, back.Notes)
}

func TestReservationFromWireMissingFieldsAreZero(t *testing.T) {
	// A sparse payload (old dashboard builds omit most fields) must
	// normalize to zero values, never nulls or garbage.
	var w Reservation
	require.NoError(t, json.Unmarshal([]byte(`{"apartment_id": 3, "client_name": "Ana"}`), &w))

	r := ReservationFromWire(w)
	assert.Equal(t, uint(3), r.ApartmentID)
	assert.Equal(t, "Ana", r.ClientName)
	assert.Nil(t, r.ClientID)
	assert.True(t, r.CheckIn.IsZero())
	assert.Equal(t, 0.0, r.PricePerNight)
	assert.Equal(t, 0.0, r.TotalAmount)
	assert.Equal(t, "", r.PaymentStatus)
}

func TestPaymentToWire(t *testing.T) {
	p := &models.Payment{
		ReservationID: 42,
		Amount:        100,
		Method:        "card",
		Reference:     "PAY-abc",
		PaidAt:        time.Date(2026, 7, 2, 10, 15, 0, 0, time.UTC),
	}
	p.ID = 7

	out, err := json.Marshal(PaymentToWire(p))
	require.NoError(t, err)
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &raw))
	assert.Equal(t, 42.0, raw["reservation_id"])
	assert.Equal(t, "07-02-2026 10:15", raw["payment_date"])
	assert.Equal(t, "card", raw["method"])
}
