package services

import (
	"math"
	"time"

	"miami-getaway-server/models"
)

// amountTolerance treats sub-millicent float noise as "unchanged" when
// comparing submitted amounts against the stored row.
const amountTolerance = 0.001

// ReservationUpdate is the fully-parsed update form for an existing
// reservation, after wire normalization. Taxes keeps pointer semantics
// (nil = recompute).
type ReservationUpdate struct {
	CheckIn         time.Time
	CheckOut        time.Time
	PricePerNight   float64
	CleaningFee     float64
	ParkingFee      float64
	OtherExpenses   float64
	CancellationFee float64
	Taxes           *float64
	Status          string
	ClientName      string
	ClientEmail     string
	ClientPhone     string
	ClientAddress   string
	ClientCity      string
	ClientCountry   string
	Notes           string
}

// FeeChanges holds only the fee fields that actually changed, for the
// narrow update path. Nil pointers mean "not touched".
type FeeChanges struct {
	CleaningFee   *float64
	ParkingFee    *float64
	OtherExpenses *float64
}

// Empty reports whether no fee changed beyond tolerance.
func (fc FeeChanges) Empty() bool {
	return fc.CleaningFee == nil && fc.ParkingFee == nil && fc.OtherExpenses == nil
}

// ClassifyUpdate compares a submitted update against the stored
// reservation and decides whether it can take the narrow fees-only path.
// The edit is fees-only iff at least one of cleaning/parking/other
// changed beyond tolerance AND none of the structural fields (nightly
// price, dates, status, client name) moved. Everything else is a full
// update.
func ClassifyUpdate(current *models.Reservation, update ReservationUpdate) (FeeChanges, bool) {
	fees := FeeChanges{}
	if amountChanged(current.CleaningFee, update.CleaningFee) {
		v := update.CleaningFee
		fees.CleaningFee = &v
	}
	if amountChanged(current.ParkingFee, update.ParkingFee) {
		v := update.ParkingFee
		fees.ParkingFee = &v
	}
	if amountChanged(current.OtherExpenses, update.OtherExpenses) {
		v := update.OtherExpenses
		fees.OtherExpenses = &v
	}

	if fees.Empty() {
		return fees, false
	}
	if amountChanged(current.PricePerNight, update.PricePerNight) {
		return fees, false
	}
	if !current.CheckIn.Equal(update.CheckIn) || !current.CheckOut.Equal(update.CheckOut) {
		return fees, false
	}
	if update.Status != "" && update.Status != current.Status {
		return fees, false
	}
	if update.ClientName != "" && update.ClientName != current.ClientName {
		return fees, false
	}
	return fees, true
}

func amountChanged(a, b float64) bool {
	return math.Abs(a-b) > amountTolerance
}
