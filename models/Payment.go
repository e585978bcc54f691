package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment is an append-only history entry: rows are never updated or
// deleted once written, only inserted alongside the reservation patch.
type Payment struct {
	gorm.Model
	ReservationID uint      `json:"reservationID" gorm:"index;not null"`
	Amount        float64   `json:"amount"`
	Method        string    `json:"method" gorm:"type:varchar(20)"` // cash, card, transfer, paypal, zelle, stripe, other
	Reference     string    `json:"reference" gorm:"size:64;uniqueIndex"`
	Note          string    `json:"note"`
	PaidAt        time.Time `json:"paidAt"`

	Reservation *Reservation `json:"reservation,omitempty" gorm:"foreignKey:ReservationID"`
}

// PaymentMethods is the accepted payment method enum.
var PaymentMethods = []string{"cash", "card", "transfer", "paypal", "zelle", "stripe", "other"}
