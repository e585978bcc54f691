package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"miami-getaway-server/models"
)

func storedReservation() *models.Reservation {
	checkIn := time.Date(2026, 7, 1, 15, 0, 0, 0, time.UTC)
	return &models.Reservation{
		CheckIn:       checkIn,
		CheckOut:      checkIn.AddDate(0, 0, 4),
		PricePerNight: 150,
		CleaningFee:   60,
		ParkingFee:    20,
		OtherExpenses: 0,
		Status:        "confirmed",
		ClientName:    "Ana Torres",
	}
}

func updateFrom(r *models.Reservation) ReservationUpdate {
	return ReservationUpdate{
		CheckIn:       r.CheckIn,
		CheckOut:      r.CheckOut,
		PricePerNight: r.PricePerNight,
		CleaningFee:   r.CleaningFee,
		ParkingFee:    r.ParkingFee,
		OtherExpenses: r.OtherExpenses,
		Status:        r.Status,
		ClientName:    r.ClientName,
	}
}

func TestClassifyUpdateFeesOnly(t *testing.T) {
	current := storedReservation()
	update := updateFrom(current)
	update.ParkingFee = 35

	fees, feesOnly := ClassifyUpdate(current, update)
	require.True(t, feesOnly)
	require.NotNil(t, fees.ParkingFee)
	assert.Equal(t, 35.0, *fees.ParkingFee)
	assert.Nil(t, fees.CleaningFee)
	assert.Nil(t, fees.OtherExpenses)
}

func TestClassifyUpdateMultipleFees(t *testing.T) {
	current := storedReservation()
	update := updateFrom(current)
	update.CleaningFee = 80
	update.OtherExpenses = 15

	fees, feesOnly := ClassifyUpdate(current, update)
	require.True(t, feesOnly)
	assert.NotNil(t, fees.CleaningFee)
	assert.NotNil(t, fees.OtherExpenses)
	assert.Nil(t, fees.ParkingFee)
}

func TestClassifyUpdateStructuralChangeForcesFullPath(t *testing.T) {
	t.Run("date moved", func(t *testing.T) {
		current := storedReservation()
		update := updateFrom(current)
		update.ParkingFee = 35
		update.CheckIn = current.CheckIn.AddDate(0, 0, 1)

		_, feesOnly := ClassifyUpdate(current, update)
		assert.False(t, feesOnly)
	})

	t.Run("nightly price moved", func(t *testing.T) {
		current := storedReservation()
		update := updateFrom(current)
		update.ParkingFee = 35
		update.PricePerNight = 175

		_, feesOnly := ClassifyUpdate(current, update)
		assert.False(t, feesOnly)
	})

	t.Run("status moved", func(t *testing.T) {
		current := storedReservation()
		update := updateFrom(current)
		update.CleaningFee = 90
		update.Status = "checked_in"

		_, feesOnly := ClassifyUpdate(current, update)
		assert.False(t, feesOnly)
	})

	t.Run("client renamed", func(t *testing.T) {
		current := storedReservation()
		update := updateFrom(current)
		update.CleaningFee = 90
		update.ClientName = "Ana T. Torres"

		_, feesOnly := ClassifyUpdate(current, update)
		assert.False(t, feesOnly)
	})
}

func TestClassifyUpdateNoFeeChangeIsNotFeesOnly(t *testing.T) {
	current := storedReservation()
	update := updateFrom(current)

	fees, feesOnly := ClassifyUpdate(current, update)
	assert.False(t, feesOnly)
	assert.True(t, fees.Empty())
}

func TestClassifyUpdateToleranceAbsorbsFloatNoise(t *testing.T) {
	current := storedReservation()
	update := updateFrom(current)
	update.ParkingFee = current.ParkingFee + 0.0005

	fees, feesOnly := ClassifyUpdate(current, update)
	assert.False(t, feesOnly)
	assert.True(t, fees.Empty())

	// Just past the tolerance counts as a real change.
	update.ParkingFee = current.ParkingFee + 0.002
	fees, feesOnly = ClassifyUpdate(current, update)
	assert.True(t, feesOnly)
	assert.NotNil(t, fees.ParkingFee)
}
