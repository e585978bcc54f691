package routes

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"miami-getaway-server/storage"
)

func TestApartmentAvailabilityListsStaysAndBlocks(t *testing.T) {
	app, _ := buildTestApp(t)
	apt := seedApartment(t)
	seedReservation(t, apt) // 07-01 to 07-04

	resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/admin-apartments/%d/blocks", apt.ID), map[string]interface{}{
		"start_date":  "07-10-2026 00:00",
		"end_date":    "07-12-2026 00:00",
		"reason":      "AC repair",
		"maintenance": true,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = doJSON(t, app, http.MethodGet,
		fmt.Sprintf("/api/apartments/%d/availability?start_date=07-01-2026&end_date=07-31-2026", apt.ID), nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	data := dataField(t, resp)
	busy := data["busy"].([]interface{})
	require.Len(t, busy, 2)

	kinds := map[string]bool{}
	for _, entry := range busy {
		kinds[entry.(map[string]interface{})["kind"].(string)] = true
	}
	assert.True(t, kinds["reservation"])
	assert.True(t, kinds["block"])

	// A window past both ranges is clear.
	resp = doJSON(t, app, http.MethodGet,
		fmt.Sprintf("/api/apartments/%d/availability?start_date=08-01-2026&end_date=08-31-2026", apt.ID), nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, dataField(t, resp)["busy"])
}

func TestApartmentAvailabilityCancelledStaysExcluded(t *testing.T) {
	app, _ := buildTestApp(t)
	apt := seedApartment(t)
	res := seedReservation(t, apt)
	res.Status = "cancelled"
	require.NoError(t, storage.DB.Save(res).Error)

	resp := doJSON(t, app, http.MethodGet,
		fmt.Sprintf("/api/apartments/%d/availability?start_date=07-01-2026&end_date=07-31-2026", apt.ID), nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, dataField(t, resp)["busy"])
}

func TestCreateApartmentReviewVerifiedByStay(t *testing.T) {
	app, _ := buildTestApp(t)
	apt := seedApartment(t)
	res := seedReservation(t, apt)
	res.Status = "checked_out"
	require.NoError(t, storage.DB.Save(res).Error)

	resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/apartments/%d/reviews", apt.ID), map[string]interface{}{
		"guest_name":  "Ana Torres",
		"guest_email": "Ana@Example.com", // matches the stay after normalization
		"stars":       5,
		"title":       "Great stay",
		"body":        "Clean, great view.",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	data := dataField(t, resp)
	assert.Equal(t, true, data["verified"])

	// Second review from the same guest is a conflict.
	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/apartments/%d/reviews", apt.ID), map[string]interface{}{
		"guest_name":  "Ana Torres",
		"guest_email": "ana@example.com",
		"stars":       4,
	})
	assert.Equal(t, http.StatusConflict, resp.Code)

	// A guest with no stay posts unverified.
	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/apartments/%d/reviews", apt.ID), map[string]interface{}{
		"guest_name":  "Walk In",
		"guest_email": "walkin@example.com",
		"stars":       3,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	assert.Equal(t, false, dataField(t, resp)["verified"])

	// The public list aggregates both.
	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/apartments/%d/reviews", apt.ID), nil)
	require.Equal(t, http.StatusOK, resp.Code)
	body := decodeBody(t, resp)
	meta := body["meta"].(map[string]interface{})
	assert.Equal(t, 2.0, meta["review_count"])
	assert.Equal(t, 4.0, meta["average_rating"])
}
