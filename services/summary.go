package services

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"miami-getaway-server/models"
)

// GenerateMonthlySummary aggregates all reservations whose check-in
// falls inside the given month and upserts the MonthlySummary row.
// Cancelled reservations are excluded from revenue.
func GenerateMonthlySummary(db *gorm.DB, month, year int) (*models.MonthlySummary, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid month %d", month)
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var reservations []models.Reservation
	if err := db.Preload("Apartment").
		Where("check_in >= ? AND check_in < ? AND status <> ?", start, end, "cancelled").
		Find(&reservations).Error; err != nil {
		return nil, fmt.Errorf("failed to load reservations for %02d/%d: %w", month, year, err)
	}

	summary := models.MonthlySummary{Month: month, Year: year}
	perApartment := map[uint]*models.ApartmentSummary{}

	for i := range reservations {
		r := &reservations[i]
		summary.TotalReservations++
		summary.TotalNights += r.Nights
		summary.TotalRevenue += r.TotalAmount
		summary.TotalTaxes += r.Taxes
		summary.TotalPaid += r.AmountPaid
		summary.TotalOutstanding += r.AmountDue

		row, ok := perApartment[r.ApartmentID]
		if !ok {
			name := ""
			if r.Apartment != nil {
				name = r.Apartment.Name
			}
			row = &models.ApartmentSummary{ApartmentID: r.ApartmentID, ApartmentName: name}
			perApartment[r.ApartmentID] = row
		}
		row.Reservations++
		row.Nights += r.Nights
		row.Revenue = Round2(row.Revenue + r.TotalAmount)
	}

	summary.TotalRevenue = Round2(summary.TotalRevenue)
	summary.TotalTaxes = Round2(summary.TotalTaxes)
	summary.TotalPaid = Round2(summary.TotalPaid)
	summary.TotalOutstanding = Round2(summary.TotalOutstanding)

	rows := make([]models.ApartmentSummary, 0, len(perApartment))
	for _, row := range perApartment {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ApartmentID < rows[j].ApartmentID })

	breakdown, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to encode apartment breakdown: %w", err)
	}
	summary.Apartments = datatypes.JSON(breakdown)

	// Regenerating a month replaces the previous aggregate.
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "month"}, {Name: "year"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_reservations", "total_nights", "total_revenue",
			"total_taxes", "total_paid", "total_outstanding", "apartments", "updated_at",
		}),
	}).Create(&summary).Error; err != nil {
		return nil, fmt.Errorf("failed to store summary %02d/%d: %w", month, year, err)
	}

	var stored models.MonthlySummary
	if err := db.Where("month = ? AND year = ?", month, year).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}
