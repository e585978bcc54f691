package models

import (
	"time"

	"gorm.io/gorm"
)

// Reservation is the central booking record. Monetary derived fields
// (Taxes, TotalAmount, AmountDue, PaymentStatus) are always recomputed
// server-side by services.Quote; clients never persist their own arithmetic.
type Reservation struct {
	gorm.Model
	ApartmentID uint  `json:"apartmentID" gorm:"index;not null"`
	ClientID    *uint `json:"clientID" gorm:"index"`

	CheckIn  time.Time `json:"checkIn"`
	CheckOut time.Time `json:"checkOut"`
	Nights   int       `json:"nights"`

	PricePerNight   float64 `json:"pricePerNight"`
	CleaningFee     float64 `json:"cleaningFee"`
	ParkingFee      float64 `json:"parkingFee"`
	OtherExpenses   float64 `json:"otherExpenses"`
	CancellationFee float64 `json:"cancellationFee"` // informational, never part of the subtotal

	Taxes           float64 `json:"taxes"`
	TaxesOverridden bool    `json:"taxesOverridden"` // manual tax entry wins over the 7% recomputation
	TotalAmount     float64 `json:"totalAmount"`
	AmountPaid      float64 `json:"amountPaid"`
	AmountDue       float64 `json:"amountDue"`
	PaymentStatus   string  `json:"paymentStatus" gorm:"type:varchar(20);default:pending;index"` // pending, partial, complete

	Status string `json:"status" gorm:"type:varchar(20);default:pending;index"` // pending, confirmed, checked_in, checked_out, cancelled, completed

	// Client snapshot. Copied from the linked client record, or supplied
	// inline at creation time when no ClientID is given.
	ClientName    string `json:"clientName"`
	ClientEmail   string `json:"clientEmail" gorm:"index"`
	ClientPhone   string `json:"clientPhone"`
	ClientAddress string `json:"clientAddress"`
	ClientCity    string `json:"clientCity"`
	ClientCountry string `json:"clientCountry"`
	Notes         string `json:"notes"`

	Apartment *Apartment `json:"apartment,omitempty" gorm:"foreignKey:ApartmentID"`
	Client    *User      `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Payments  []Payment  `json:"payments,omitempty" gorm:"foreignKey:ReservationID"`
}

// ReservationStatuses is the closed lifecycle enum for Reservation.Status.
var ReservationStatuses = []string{"pending", "confirmed", "checked_in", "checked_out", "cancelled", "completed"}
