package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"miami-getaway-server/models"
)

func setupSummaryDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Apartment{}, &models.Reservation{}, &models.MonthlySummary{}))
	return db
}

func seedStay(t *testing.T, db *gorm.DB, apt *models.Apartment, checkIn time.Time, nights int, total, paid float64, status string) {
	t.Helper()
	res := &models.Reservation{
		ApartmentID:   apt.ID,
		CheckIn:       checkIn,
		CheckOut:      checkIn.AddDate(0, 0, nights),
		Nights:        nights,
		PricePerNight: apt.PricePerNight,
		Taxes:         Round2(total * 0.07 / 1.07),
		TotalAmount:   total,
		AmountPaid:    paid,
		AmountDue:     Round2(total - paid),
		Status:        status,
		ClientName:    "Guest",
	}
	require.NoError(t, db.Create(res).Error)
}

func TestGenerateMonthlySummaryAggregatesMonth(t *testing.T) {
	db := setupSummaryDB(t)
	loft := &models.Apartment{Name: "Brickell Loft", PricePerNight: 100}
	tower := &models.Apartment{Name: "Edgewater Tower", PricePerNight: 200}
	require.NoError(t, db.Create(loft).Error)
	require.NoError(t, db.Create(tower).Error)

	july := time.Date(2026, 7, 1, 15, 0, 0, 0, time.UTC)
	seedStay(t, db, loft, july, 3, 406.60, 406.60, "checked_out")
	seedStay(t, db, loft, july.AddDate(0, 0, 10), 2, 260, 100, "confirmed")
	seedStay(t, db, tower, july.AddDate(0, 0, 5), 4, 900, 0, "confirmed")
	// Outside the month and cancelled: neither counts.
	seedStay(t, db, loft, july.AddDate(0, 1, 0), 2, 260, 0, "confirmed")
	seedStay(t, db, tower, july.AddDate(0, 0, 20), 1, 225, 225, "cancelled")

	summary, err := GenerateMonthlySummary(db, 7, 2026)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalReservations)
	assert.Equal(t, 9, summary.TotalNights)
	assert.InDelta(t, 1566.60, summary.TotalRevenue, 0.001)
	assert.InDelta(t, 506.60, summary.TotalPaid, 0.001)
	assert.InDelta(t, 1060, summary.TotalOutstanding, 0.001)

	var rows []models.ApartmentSummary
	require.NoError(t, json.Unmarshal(summary.Apartments, &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, loft.ID, rows[0].ApartmentID)
	assert.Equal(t, "Brickell Loft", rows[0].ApartmentName)
	assert.Equal(t, 2, rows[0].Reservations)
	assert.Equal(t, 5, rows[0].Nights)
	assert.InDelta(t, 666.60, rows[0].Revenue, 0.001)
	assert.Equal(t, tower.ID, rows[1].ApartmentID)
	assert.Equal(t, 1, rows[1].Reservations)
	assert.InDelta(t, 900, rows[1].Revenue, 0.001)
}

func TestGenerateMonthlySummaryRegenerateReplaces(t *testing.T) {
	db := setupSummaryDB(t)
	apt := &models.Apartment{Name: "Brickell Loft", PricePerNight: 100}
	require.NoError(t, db.Create(apt).Error)

	july := time.Date(2026, 7, 1, 15, 0, 0, 0, time.UTC)
	seedStay(t, db, apt, july, 3, 406.60, 0, "confirmed")

	first, err := GenerateMonthlySummary(db, 7, 2026)
	require.NoError(t, err)
	assert.Equal(t, 1, first.TotalReservations)

	seedStay(t, db, apt, july.AddDate(0, 0, 10), 2, 260, 260, "confirmed")

	second, err := GenerateMonthlySummary(db, 7, 2026)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.TotalReservations)
	assert.InDelta(t, 666.60, second.TotalRevenue, 0.001)

	var count int64
	require.NoError(t, db.Model(&models.MonthlySummary{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGenerateMonthlySummaryEmptyMonthAndBadMonth(t *testing.T) {
	db := setupSummaryDB(t)

	summary, err := GenerateMonthlySummary(db, 2, 2026)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalReservations)
	assert.Zero(t, summary.TotalRevenue)

	_, err = GenerateMonthlySummary(db, 13, 2026)
	assert.Error(t, err)

	_, err = GenerateMonthlySummary(db, 0, 2026)
	assert.Error(t, err)
}
