package routes

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"miami-getaway-server/models"
	"miami-getaway-server/services"
	"miami-getaway-server/storage"
)

type recordingMailer struct {
	sent []string // notification subjects, in order
}

func (m *recordingMailer) Send(toEmail, toName, subject, textBody string) error {
	m.sent = append(m.sent, subject)
	return nil
}

// buildTestApp wires an in-memory database and the reservation routes
// without the JWT layer; RBAC has its own coverage.
func buildTestApp(t *testing.T) (*iris.Application, *recordingMailer) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Apartment{},
		&models.Reservation{},
		&models.Payment{},
		&models.MonthlySummary{},
		&models.NotificationLog{},
		&models.AuditLog{},
		&models.Review{},
		&models.ApartmentBlock{},
	))
	storage.DB = db

	mail := &recordingMailer{}
	Notifications = services.NewNotificationService(services.NewMemoryCooldownStore(), mail)
	t.Cleanup(func() { Notifications = nil })

	app := iris.New()
	app.Validator = validator.New()

	reservations := app.Party("/api/reservations")
	{
		reservations.Get("/", GetReservations)
		reservations.Post("/", CreateReservation)
		reservations.Get("/{id:uint}", GetReservation)
		reservations.Put("/{id:uint}", UpdateReservation)
		reservations.Delete("/{id:uint}", DeleteReservation)
		reservations.Patch("/{id:uint}/fees", UpdateReservationFees)
		reservations.Patch("/{id:uint}/payment-status", UpdateReservationPaymentStatus)
		reservations.Patch("/{id:uint}/status", UpdateReservationStatus)
		reservations.Post("/{id:uint}/payments", RegisterPayment)
		reservations.Get("/{id:uint}/payments", GetReservationPayments)
		reservations.Post("/{id:uint}/send-confirmation", SendReservationNotification)
		reservations.Get("/{id:uint}/notifications", GetReservationNotifications)
	}
	publicApartments := app.Party("/api/apartments")
	{
		publicApartments.Get("/{id:uint}/availability", GetApartmentAvailability)
		publicApartments.Get("/{id:uint}/reviews", ListApartmentReviews)
		publicApartments.Post("/{id:uint}/reviews", CreateApartmentReview)
	}
	apartments := app.Party("/api/admin-apartments")
	{
		apartments.Delete("/{id:uint}", DeleteApartment)
		apartments.Post("/{id:uint}/blocks", CreateApartmentBlock)
	}
	users := app.Party("/api/users")
	{
		users.Delete("/{id:uint}", DeleteUser)
	}
	require.NoError(t, app.Build())
	return app, mail
}

func doJSON(t *testing.T, app *iris.Application, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(payload)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out), "body: %s", resp.Body.String())
	return out
}

func dataField(t *testing.T, resp *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	body := decodeBody(t, resp)
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "missing data object in %s", resp.Body.String())
	return data
}

func seedApartment(t *testing.T) *models.Apartment {
	t.Helper()
	apt := &models.Apartment{Name: "Brickell Loft", PricePerNight: 100, CleaningFee: 50, Active: true}
	require.NoError(t, storage.DB.Create(apt).Error)
	return apt
}

// seedReservation stores a 3-night stay priced at the worked example:
// subtotal 380, taxes 26.60, total 406.60.
func seedReservation(t *testing.T, apt *models.Apartment) *models.Reservation {
	t.Helper()
	checkIn := time.Date(2026, 7, 1, 15, 0, 0, 0, time.UTC)
	res := &models.Reservation{
		ApartmentID:   apt.ID,
		CheckIn:       checkIn,
		CheckOut:      checkIn.AddDate(0, 0, 3),
		Nights:        3,
		PricePerNight: 100,
		CleaningFee:   50,
		ParkingFee:    20,
		OtherExpenses: 10,
		Taxes:         26.60,
		TotalAmount:   406.60,
		AmountDue:     406.60,
		PaymentStatus: services.PaymentStatusPending,
		Status:        "confirmed",
		ClientName:    "Ana Torres",
		ClientEmail:   "ana@example.com",
	}
	require.NoError(t, storage.DB.Create(res).Error)
	return res
}
