package models

import (
	"time"

	"gorm.io/datatypes"
)

// MonthlySummary is the persisted aggregate report for one calendar
// month: reservation counts, revenue totals and a per-apartment
// breakdown. Regenerating a month overwrites the existing row.
type MonthlySummary struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Month     int       `json:"month" gorm:"index:idx_summary_month_year,unique"`
	Year      int       `json:"year" gorm:"index:idx_summary_month_year,unique"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	TotalReservations int     `json:"totalReservations"`
	TotalNights       int     `json:"totalNights"`
	TotalRevenue      float64 `json:"totalRevenue"`
	TotalTaxes        float64 `json:"totalTaxes"`
	TotalPaid         float64 `json:"totalPaid"`
	TotalOutstanding  float64 `json:"totalOutstanding"`

	Apartments datatypes.JSON `json:"apartments"` // []ApartmentSummary
}

// ApartmentSummary is one row of the per-apartment breakdown stored in
// MonthlySummary.Apartments.
type ApartmentSummary struct {
	ApartmentID   uint    `json:"apartment_id"`
	ApartmentName string  `json:"apartment_name"`
	Reservations  int     `json:"reservations"`
	Nights        int     `json:"nights"`
	Revenue       float64 `json:"revenue"`
}
