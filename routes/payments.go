package routes

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/kataras/iris/v12"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"

	"miami-getaway-server/models"
	"miami-getaway-server/services"
	"miami-getaway-server/storage"
	"miami-getaway-server/utils"
	"miami-getaway-server/wire"
)

// RegisterPaymentInput is the payment registration payload.
type RegisterPaymentInput struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Method string  `json:"method" validate:"required"`
	Note   string  `json:"note"`
}

// POST /api/reservations/:id/payments
// Validation happens before anything is persisted: zero, negative or
// overshooting amounts never touch the database. The history insert and
// the reservation patch commit in one transaction, so a failure leaves
// amountPaid/amountDue/history exactly as they were.
func RegisterPayment(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var input RegisterPaymentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if input.Amount <= 0 {
		utils.CreateError(iris.StatusUnprocessableEntity, "Validation Error", "payment amount must be greater than 0", ctx)
		return
	}
	if !slices.Contains(models.PaymentMethods, input.Method) {
		utils.CreateError(iris.StatusUnprocessableEntity, "Validation Error", fmt.Sprintf("unknown payment method %q", input.Method), ctx)
		return
	}

	var res models.Reservation
	if err := storage.DB.First(&res, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "reservation not found")
		return
	}

	amount := services.Round2(input.Amount)
	if amount > res.AmountDue {
		utils.CreateError(iris.StatusUnprocessableEntity, "Validation Error",
			fmt.Sprintf("payment of %.2f exceeds amount due %.2f", amount, res.AmountDue), ctx)
		return
	}

	before := res
	payment := models.Payment{
		ReservationID: res.ID,
		Amount:        amount,
		Method:        input.Method,
		Note:          input.Note,
		Reference:     newPaymentReference(),
		PaidAt:        time.Now(),
	}

	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}
		res.AmountPaid = services.Round2(res.AmountPaid + amount)
		res.AmountDue = services.Round2(res.TotalAmount - res.AmountPaid)
		if res.AmountDue <= 0 {
			res.PaymentStatus = services.PaymentStatusComplete
		} else {
			res.PaymentStatus = services.PaymentStatusPartial
		}
		if err := tx.Save(&res).Error; err != nil {
			return fmt.Errorf("failed to update reservation: %w", err)
		}
		return nil
	})
	if txErr != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", txErr.Error())
		return
	}

	utils.Audit(ctx, "reservation.register_payment", "reservation", res.ID, before, res)

	// Payment email is best-effort: a failure is logged by the
	// notification service, never surfaced as a payment error.
	if Notifications != nil {
		if err := Notifications.SendReservationNotification(ctx.Request().Context(), &res, "payment"); err != nil {
			ctx.Application().Logger().Warnf("payment email for reservation %d: %v", res.ID, err)
		}
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{
		"data": wire.PaymentToWire(&payment),
		"meta": iris.Map{"reservation": wire.ReservationToWire(&res)},
	})
}

// GET /api/reservations/:id/payments
func GetReservationPayments(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var payments []models.Payment
	if err := storage.DB.Where("reservation_id = ?", id).Order("paid_at DESC").Find(&payments).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	data := make([]wire.Payment, 0, len(payments))
	for i := range payments {
		data = append(data, wire.PaymentToWire(&payments[i]))
	}
	ctx.JSON(iris.Map{"data": data})
}

func newPaymentReference() string {
	return "PAY-" + uuid.NewString()
}
