package models

import (
	"time"

	"gorm.io/gorm"
)

// ApartmentBlock takes a unit off the calendar for a date range without
// a reservation, typically for maintenance. Blocks surface in the
// availability endpoint alongside booked stays.
type ApartmentBlock struct {
	gorm.Model
	ApartmentID uint      `json:"apartmentID" gorm:"not null;index"`
	StartDate   time.Time `json:"startDate" gorm:"not null"`
	EndDate     time.Time `json:"endDate" gorm:"not null"`
	Reason      string    `json:"reason"`
	Maintenance bool      `json:"maintenance" gorm:"default:false"`
}
