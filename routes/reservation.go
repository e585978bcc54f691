package routes

import (
	"fmt"
	"net/http"
	"time"

	"github.com/kataras/iris/v12"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"

	"miami-getaway-server/models"
	"miami-getaway-server/services"
	"miami-getaway-server/storage"
	"miami-getaway-server/utils"
	"miami-getaway-server/wire"
)

// GET /api/reservations
// Filters: start_date, end_date (wire date format, on check-in), status,
// q (free text over client name/email/notes), client_email, and
// upcoming=true with from_date + within_days for the arrival board.
func GetReservations(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	q := storage.DB.Model(&models.Reservation{})

	if startDate := ctx.URLParamDefault("start_date", ""); startDate != "" {
		if t, err := wire.ParseTime(startDate); err == nil {
			q = q.Where("check_in >= ?", t)
		}
	}
	if endDate := ctx.URLParamDefault("end_date", ""); endDate != "" {
		if t, err := wire.ParseTime(endDate); err == nil {
			q = q.Where("check_in <= ?", t)
		}
	}
	if status := ctx.URLParamDefault("status", ""); status != "" {
		q = q.Where("status = ?", status)
	}
	if email := ctx.URLParamDefault("client_email", ""); email != "" {
		q = q.Where("lower(client_email) = lower(?)", email)
	}
	if search := ctx.URLParamDefault("q", ""); search != "" {
		like := "%" + search + "%"
		q = q.Where("lower(client_name) LIKE lower(?) OR lower(client_email) LIKE lower(?) OR lower(notes) LIKE lower(?)", like, like, like)
	}
	if ctx.URLParamDefault("upcoming", "") == "true" {
		from := time.Now()
		if fromDate := ctx.URLParamDefault("from_date", ""); fromDate != "" {
			if t, err := wire.ParseTime(fromDate); err == nil {
				from = t
			}
		}
		within := ctx.URLParamIntDefault("within_days", 7)
		q = q.Where("check_in >= ? AND check_in < ?", from, from.AddDate(0, 0, within))
	}

	var total int64
	q.Count(&total)

	var reservations []models.Reservation
	if err := q.Preload("Apartment").Preload("Client").
		Offset((page - 1) * perPage).Limit(perPage).
		Order("check_in ASC").Find(&reservations).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	data := make([]wire.Reservation, 0, len(reservations))
	for i := range reservations {
		data = append(data, wire.ReservationToWire(&reservations[i]))
	}
	utils.JSONPage(ctx, data, page, perPage, total)
}

// GET /api/reservations/:id
func GetReservation(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var res models.Reservation
	if err := storage.DB.Preload("Apartment").Preload("Client").Preload("Payments").First(&res, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "reservation not found")
		return
	}
	ctx.JSON(iris.Map{"data": wire.ReservationToWire(&res)})
}

// CreateReservationInput is the creation payload. Exactly one of
// client_id / the inline client block is authoritative; an inline block
// creates the client record and links it. An optional initial payment
// is applied atomically with the insert.
type CreateReservationInput struct {
	ApartmentID  uint      `json:"apartment_id" validate:"required"`
	ClientID     *uint     `json:"client_id"`
	CheckInDate  wire.Time `json:"check_in_date" validate:"required"`
	CheckOutDate wire.Time `json:"check_out_date" validate:"required"`

	PricePerNight   float64  `json:"price_per_night"`
	CleaningFee     float64  `json:"cleaning_fee"`
	ParkingFee      float64  `json:"parking_fee"`
	OtherExpenses   float64  `json:"other_expenses"`
	CancellationFee float64  `json:"cancellation_fee"`
	Taxes           *float64 `json:"taxes"`

	Status string `json:"status"`
	Notes  string `json:"notes"`

	ClientName    string `json:"client_name"`
	ClientEmail   string `json:"client_email"`
	ClientPhone   string `json:"client_phone"`
	ClientAddress string `json:"client_address"`
	ClientCity    string `json:"client_city"`
	ClientCountry string `json:"client_country"`

	InitialPayment *StagedPaymentInput `json:"initial_payment"`
}

// StagedPaymentInput is a payment entered while the reservation is
// still being created; it is persisted in the same transaction as the
// reservation instead of a second round trip.
type StagedPaymentInput struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Method string  `json:"method" validate:"required"`
	Note   string  `json:"note"`
}

// POST /api/reservations
func CreateReservation(ctx iris.Context) {
	var input CreateReservationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !input.CheckInDate.Before(input.CheckOutDate.Time) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "check_in_date must be before check_out_date", ctx)
		return
	}
	if input.ClientID != nil && input.ClientName != "" {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "provide either client_id or inline client data, not both", ctx)
		return
	}
	if input.ClientID == nil && input.ClientName == "" {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "client_id or inline client data required", ctx)
		return
	}
	if input.Status != "" && !slices.Contains(models.ReservationStatuses, input.Status) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", fmt.Sprintf("unknown status %q", input.Status), ctx)
		return
	}
	if input.InitialPayment != nil && !slices.Contains(models.PaymentMethods, input.InitialPayment.Method) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", fmt.Sprintf("unknown payment method %q", input.InitialPayment.Method), ctx)
		return
	}

	var apartment models.Apartment
	if err := storage.DB.First(&apartment, input.ApartmentID).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "apartment not found")
		return
	}

	res := models.Reservation{
		ApartmentID:     input.ApartmentID,
		CheckIn:         input.CheckInDate.Time,
		CheckOut:        input.CheckOutDate.Time,
		PricePerNight:   input.PricePerNight,
		CleaningFee:     input.CleaningFee,
		ParkingFee:      input.ParkingFee,
		OtherExpenses:   input.OtherExpenses,
		CancellationFee: input.CancellationFee,
		Status:          input.Status,
		Notes:           input.Notes,
	}
	if res.Status == "" {
		res.Status = "pending"
	}
	if res.PricePerNight == 0 {
		res.PricePerNight = apartment.PricePerNight
	}
	if res.CleaningFee == 0 {
		res.CleaningFee = apartment.CleaningFee
	}
	res.Nights = services.Nights(res.CheckIn, res.CheckOut)
	res.TaxesOverridden = input.Taxes != nil

	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		if input.ClientID != nil {
			var client models.User
			if err := tx.First(&client, *input.ClientID).Error; err != nil {
				return fmt.Errorf("client not found")
			}
			res.ClientID = input.ClientID
			res.ClientName = client.FullName()
			res.ClientEmail = client.Email
			res.ClientPhone = client.Phone
			res.ClientAddress = client.Address
			res.ClientCity = client.City
			res.ClientCountry = client.Country
		} else {
			client := models.User{
				FirstName: input.ClientName,
				Email:     utils.NormalizeEmail(input.ClientEmail),
				Phone:     input.ClientPhone,
				Address:   input.ClientAddress,
				City:      input.ClientCity,
				Country:   input.ClientCountry,
				Role:      "client",
			}
			if err := tx.Create(&client).Error; err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}
			res.ClientID = &client.ID
			res.ClientName = input.ClientName
			res.ClientEmail = client.Email
			res.ClientPhone = input.ClientPhone
			res.ClientAddress = input.ClientAddress
			res.ClientCity = input.ClientCity
			res.ClientCountry = input.ClientCountry
		}

		if input.InitialPayment != nil {
			res.AmountPaid = services.Round2(input.InitialPayment.Amount)
		}

		applyQuote(&res, input.Taxes)

		if input.InitialPayment != nil && res.TotalAmount > 0 && input.InitialPayment.Amount > res.TotalAmount {
			return fmt.Errorf("initial payment exceeds total amount")
		}

		if err := tx.Create(&res).Error; err != nil {
			return fmt.Errorf("failed to create reservation: %w", err)
		}

		if input.InitialPayment != nil {
			payment := models.Payment{
				ReservationID: res.ID,
				Amount:        services.Round2(input.InitialPayment.Amount),
				Method:        input.InitialPayment.Method,
				Note:          input.InitialPayment.Note,
				Reference:     newPaymentReference(),
				PaidAt:        time.Now(),
			}
			if err := tx.Create(&payment).Error; err != nil {
				return fmt.Errorf("failed to record initial payment: %w", err)
			}
		}
		return nil
	})
	if txErr != nil {
		utils.CreateError(iris.StatusUnprocessableEntity, "Create Failed", txErr.Error(), ctx)
		return
	}

	storage.DB.Preload("Payments").First(&res, res.ID)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"data": wire.ReservationToWire(&res)})
}

// UpdateReservationInput is the full-edit payload. UpdatedAt echoes the
// snapshot the form was loaded from; a mismatch means someone else
// saved in between and the edit is rejected instead of silently
// overwriting.
type UpdateReservationInput struct {
	CheckInDate  wire.Time `json:"check_in_date"`
	CheckOutDate wire.Time `json:"check_out_date"`

	PricePerNight   float64  `json:"price_per_night"`
	CleaningFee     float64  `json:"cleaning_fee"`
	ParkingFee      float64  `json:"parking_fee"`
	OtherExpenses   float64  `json:"other_expenses"`
	CancellationFee float64  `json:"cancellation_fee"`
	Taxes           *float64 `json:"taxes"`

	Status string `json:"status"`
	Notes  string `json:"notes"`

	ClientName    string `json:"client_name"`
	ClientEmail   string `json:"client_email"`
	ClientPhone   string `json:"client_phone"`
	ClientAddress string `json:"client_address"`
	ClientCity    string `json:"client_city"`
	ClientCountry string `json:"client_country"`

	UpdatedAt wire.Time `json:"updated_at"`
}

// PUT /api/reservations/:id
// Runs the change-set differ: an edit confined to the three fee fields
// takes the narrow path (only those columns move, totals recomputed);
// anything else is a full update. Either way the response carries the
// server-recomputed derived fields, which are authoritative.
func UpdateReservation(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var input UpdateReservationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var res models.Reservation
	if err := storage.DB.First(&res, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "reservation not found")
		return
	}

	if !input.UpdatedAt.IsZero() && !input.UpdatedAt.Equal(res.UpdatedAt.Truncate(time.Minute)) {
		utils.JSONError(ctx, http.StatusConflict, "stale_write", "reservation changed since it was loaded, reload and retry")
		return
	}
	if input.Status != "" && !slices.Contains(models.ReservationStatuses, input.Status) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", fmt.Sprintf("unknown status %q", input.Status), ctx)
		return
	}

	update := services.ReservationUpdate{
		CheckIn:         input.CheckInDate.Time,
		CheckOut:        input.CheckOutDate.Time,
		PricePerNight:   input.PricePerNight,
		CleaningFee:     input.CleaningFee,
		ParkingFee:      input.ParkingFee,
		OtherExpenses:   input.OtherExpenses,
		CancellationFee: input.CancellationFee,
		Taxes:           input.Taxes,
		Status:          input.Status,
		ClientName:      input.ClientName,
		ClientEmail:     input.ClientEmail,
		ClientPhone:     input.ClientPhone,
		ClientAddress:   input.ClientAddress,
		ClientCity:      input.ClientCity,
		ClientCountry:   input.ClientCountry,
		Notes:           input.Notes,
	}

	before := res
	fees, feesOnly := services.ClassifyUpdate(&res, update)

	if feesOnly {
		if fees.CleaningFee != nil {
			res.CleaningFee = *fees.CleaningFee
		}
		if fees.ParkingFee != nil {
			res.ParkingFee = *fees.ParkingFee
		}
		if fees.OtherExpenses != nil {
			res.OtherExpenses = *fees.OtherExpenses
		}
	} else {
		if !input.CheckInDate.IsZero() {
			res.CheckIn = input.CheckInDate.Time
		}
		if !input.CheckOutDate.IsZero() {
			res.CheckOut = input.CheckOutDate.Time
		}
		if !input.CheckInDate.IsZero() && !res.CheckIn.Before(res.CheckOut) {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "check_in_date must be before check_out_date", ctx)
			return
		}
		res.Nights = services.Nights(res.CheckIn, res.CheckOut)
		if input.PricePerNight > 0 {
			res.PricePerNight = input.PricePerNight
		}
		res.CleaningFee = input.CleaningFee
		res.ParkingFee = input.ParkingFee
		res.OtherExpenses = input.OtherExpenses
		res.CancellationFee = input.CancellationFee
		if input.Status != "" {
			res.Status = input.Status
		}
		if input.ClientName != "" {
			res.ClientName = input.ClientName
		}
		if input.ClientEmail != "" {
			res.ClientEmail = utils.NormalizeEmail(input.ClientEmail)
		}
		if input.ClientPhone != "" {
			res.ClientPhone = input.ClientPhone
		}
		if input.ClientAddress != "" {
			res.ClientAddress = input.ClientAddress
		}
		if input.ClientCity != "" {
			res.ClientCity = input.ClientCity
		}
		if input.ClientCountry != "" {
			res.ClientCountry = input.ClientCountry
		}
		if input.Notes != "" {
			res.Notes = input.Notes
		}
	}

	// Manual taxes stick no matter which path the edit took; later fee
	// recomputations must not revert them to the 7% default.
	if input.Taxes != nil {
		res.TaxesOverridden = true
	}

	var taxes *float64
	if input.Taxes != nil {
		taxes = input.Taxes
	} else if res.TaxesOverridden {
		v := res.Taxes
		taxes = &v
	}
	applyQuote(&res, taxes)

	if err := storage.DB.Save(&res).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	utils.Audit(ctx, "reservation.update", "reservation", res.ID, before, res)

	// Re-read: the stored row, not the in-memory arithmetic, is the
	// source of truth for the client after any persisted change.
	storage.DB.Preload("Payments").First(&res, res.ID)
	ctx.JSON(iris.Map{"data": wire.ReservationToWire(&res), "meta": iris.Map{"fees_only": feesOnly}})
}

// UpdateFeesInput carries only the three fee fields; omitted fields are
// left untouched.
type UpdateFeesInput struct {
	CleaningFee   *float64 `json:"cleaning_fee"`
	ParkingFee    *float64 `json:"parking_fee"`
	OtherExpenses *float64 `json:"other_expenses"`
}

// PATCH /api/reservations/:id/fees
// The narrow fee-correction path. Taxes, total and amount due are
// recomputed here regardless of what the caller displayed locally.
func UpdateReservationFees(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var input UpdateFeesInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if input.CleaningFee == nil && input.ParkingFee == nil && input.OtherExpenses == nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "at least one fee field required", ctx)
		return
	}

	var res models.Reservation
	if err := storage.DB.First(&res, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "reservation not found")
		return
	}

	before := res
	if input.CleaningFee != nil {
		res.CleaningFee = *input.CleaningFee
	}
	if input.ParkingFee != nil {
		res.ParkingFee = *input.ParkingFee
	}
	if input.OtherExpenses != nil {
		res.OtherExpenses = *input.OtherExpenses
	}

	var taxes *float64
	if res.TaxesOverridden {
		v := res.Taxes
		taxes = &v
	}
	applyQuote(&res, taxes)

	if err := storage.DB.Save(&res).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	utils.Audit(ctx, "reservation.update_fees", "reservation", res.ID, before, res)
	ctx.JSON(iris.Map{"data": wire.ReservationToWire(&res)})
}

// PATCH /api/reservations/:id/payment-status
// Narrow patch for the payment fields; amount paid is re-derived from
// the stored history, never taken from the client.
func UpdateReservationPaymentStatus(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var res models.Reservation
	if err := storage.DB.First(&res, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "reservation not found")
		return
	}

	var paid float64
	storage.DB.Model(&models.Payment{}).Where("reservation_id = ?", res.ID).
		Select("COALESCE(SUM(amount), 0)").Scan(&paid)

	before := res
	res.AmountPaid = services.Round2(paid)
	var taxes *float64
	if res.TaxesOverridden {
		v := res.Taxes
		taxes = &v
	}
	applyQuote(&res, taxes)

	if err := storage.DB.Save(&res).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	utils.Audit(ctx, "reservation.payment_status", "reservation", res.ID, before, res)
	ctx.JSON(iris.Map{"data": wire.ReservationToWire(&res)})
}

// PATCH /api/reservations/:id/status
func UpdateReservationStatus(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := ctx.ReadJSON(&body); err != nil || body.Status == "" {
		utils.JSONError(ctx, http.StatusUnprocessableEntity, "invalid_payload", "status required")
		return
	}
	if !slices.Contains(models.ReservationStatuses, body.Status) {
		utils.JSONError(ctx, http.StatusUnprocessableEntity, "invalid_payload", fmt.Sprintf("unknown status %q", body.Status))
		return
	}

	var res models.Reservation
	if err := storage.DB.First(&res, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "reservation not found")
		return
	}
	before := res
	res.Status = body.Status
	if err := storage.DB.Save(&res).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	utils.Audit(ctx, "reservation.status_update", "reservation", res.ID, before, res)
	ctx.JSON(iris.Map{"data": wire.ReservationToWire(&res)})
}

// DELETE /api/reservations/:id
func DeleteReservation(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var res models.Reservation
	if err := storage.DB.First(&res, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "reservation not found")
		return
	}
	if err := storage.DB.Delete(&res).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	utils.Audit(ctx, "reservation.delete", "reservation", res.ID, res, nil)
	ctx.StatusCode(iris.StatusNoContent)
}

// POST /api/reservations/:id/pdf
func GetReservationPDF(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var res models.Reservation
	if err := storage.DB.Preload("Payments").First(&res, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "reservation not found")
		return
	}
	doc, err := services.ReservationPDF(&res)
	if err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	ctx.ContentType("application/pdf")
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="reservation-%d.pdf"`, res.ID))
	ctx.Write(doc)
}

// applyQuote recomputes the derived monetary fields in place. When the
// quote preconditions are not met every stored derived value, payment
// status included, is left untouched; only a brand-new row with no
// status yet gets the no-total fallback.
func applyQuote(res *models.Reservation, taxes *float64) {
	quote := services.Quote(services.QuoteInput{
		PricePerNight: res.PricePerNight,
		Nights:        res.Nights,
		CleaningFee:   res.CleaningFee,
		ParkingFee:    res.ParkingFee,
		OtherExpenses: res.OtherExpenses,
		Taxes:         taxes,
		AmountPaid:    res.AmountPaid,
	})
	if !quote.Computed {
		if res.PaymentStatus == "" {
			res.PaymentStatus = quote.PaymentStatus
		}
		return
	}
	res.Taxes = quote.Taxes
	res.TotalAmount = quote.TotalAmount
	res.AmountDue = quote.AmountDue
	res.PaymentStatus = quote.PaymentStatus
}
