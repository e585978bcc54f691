package routes

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"miami-getaway-server/models"
	"miami-getaway-server/storage"
)

func TestRegisterPaymentUpdatesReservation(t *testing.T) {
	app, mail := buildTestApp(t)
	res := seedReservation(t, seedApartment(t))

	resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/reservations/%d/payments", res.ID), map[string]interface{}{
		"amount": 100.0,
		"method": "card",
		"note":   "deposit",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	body := decodeBody(t, resp)
	payment := body["data"].(map[string]interface{})
	assert.Equal(t, 100.0, payment["amount"])
	assert.Equal(t, "card", payment["method"])
	assert.Contains(t, payment["reference"], "PAY-")

	reservation := body["meta"].(map[string]interface{})["reservation"].(map[string]interface{})
	assert.Equal(t, 100.0, reservation["amount_paid"])
	assert.Equal(t, 306.60, reservation["amount_due"])
	assert.Equal(t, "partial", reservation["payment_status"])

	var stored models.Reservation
	require.NoError(t, storage.DB.First(&stored, res.ID).Error)
	assert.Equal(t, 100.0, stored.AmountPaid)
	assert.Equal(t, 306.60, stored.AmountDue)
	assert.Equal(t, "partial", stored.PaymentStatus)

	// The payment email went out best-effort.
	assert.Len(t, mail.sent, 1)
}

func TestRegisterPaymentCompletesReservation(t *testing.T) {
	app, _ := buildTestApp(t)
	res := seedReservation(t, seedApartment(t))

	resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/reservations/%d/payments", res.ID), map[string]interface{}{
		"amount": 406.60,
		"method": "transfer",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var stored models.Reservation
	require.NoError(t, storage.DB.First(&stored, res.ID).Error)
	assert.Equal(t, 0.0, stored.AmountDue)
	assert.Equal(t, "complete", stored.PaymentStatus)
}

func TestRegisterPaymentRejectedBeforePersistence(t *testing.T) {
	app, mail := buildTestApp(t)
	res := seedReservation(t, seedApartment(t))

	cases := []map[string]interface{}{
		{"amount": 0.0, "method": "cash"},
		{"amount": -50.0, "method": "cash"},
		{"amount": 500.0, "method": "cash"}, // exceeds 406.60 due
		{"amount": 100.0, "method": "iou"},  // unknown method
	}
	for _, payload := range cases {
		resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/reservations/%d/payments", res.ID), payload)
		assert.True(t, resp.Code == http.StatusUnprocessableEntity || resp.Code == http.StatusBadRequest,
			"payload %v got %d: %s", payload, resp.Code, resp.Body.String())
	}

	// Nothing was persisted and nothing was emailed.
	var paymentCount int64
	storage.DB.Model(&models.Payment{}).Count(&paymentCount)
	assert.Equal(t, int64(0), paymentCount)

	var stored models.Reservation
	require.NoError(t, storage.DB.First(&stored, res.ID).Error)
	assert.Equal(t, 0.0, stored.AmountPaid)
	assert.Equal(t, 406.60, stored.AmountDue)
	assert.Equal(t, "pending", stored.PaymentStatus)
	assert.Empty(t, mail.sent)
}

func TestRegisterPaymentSequenceIsCumulative(t *testing.T) {
	app, _ := buildTestApp(t)
	res := seedReservation(t, seedApartment(t))

	for _, amount := range []float64{100, 200, 106.60} {
		resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/reservations/%d/payments", res.ID), map[string]interface{}{
			"amount": amount,
			"method": "cash",
		})
		require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	}

	var stored models.Reservation
	require.NoError(t, storage.DB.First(&stored, res.ID).Error)
	assert.Equal(t, 406.60, stored.AmountPaid)
	assert.Equal(t, 0.0, stored.AmountDue)
	assert.Equal(t, "complete", stored.PaymentStatus)

	// One more dollar is now over the (zero) remaining due.
	resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/reservations/%d/payments", res.ID), map[string]interface{}{
		"amount": 1.0,
		"method": "cash",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestGetReservationPayments(t *testing.T) {
	app, _ := buildTestApp(t)
	res := seedReservation(t, seedApartment(t))

	for _, amount := range []float64{50, 75} {
		resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/reservations/%d/payments", res.ID), map[string]interface{}{
			"amount": amount,
			"method": "zelle",
		})
		require.Equal(t, http.StatusCreated, resp.Code)
	}

	resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/reservations/%d/payments", res.ID), nil)
	require.Equal(t, http.StatusOK, resp.Code)
	body := decodeBody(t, resp)
	payments := body["data"].([]interface{})
	assert.Len(t, payments, 2)
}
