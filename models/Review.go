package models

import "gorm.io/gorm"

// Review is a guest review of an apartment, optionally tied to the stay
// it came from. Verified is set when the reviewer's email matches a
// checked-out reservation for the unit.
type Review struct {
	gorm.Model
	ApartmentID   uint         `json:"apartmentID" gorm:"not null;index"`
	ReservationID *uint        `json:"reservationID" gorm:"index"`
	Apartment     Apartment    `json:"-" gorm:"foreignKey:ApartmentID"`
	Reservation   *Reservation `json:"reservation,omitempty" gorm:"foreignKey:ReservationID"`
	GuestName     string       `json:"guestName"`
	GuestEmail    string       `json:"-"`
	Title         string       `json:"title"`
	Body          string       `json:"body" gorm:"type:text"`
	Stars         int          `json:"stars" gorm:"not null;check:stars >= 1 AND stars <= 5"`
	Verified      bool         `json:"verified" gorm:"default:false"`
}
