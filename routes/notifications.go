package routes

import (
	"errors"
	"net/http"

	"github.com/kataras/iris/v12"
	"golang.org/x/exp/slices"

	"miami-getaway-server/models"
	"miami-getaway-server/services"
	"miami-getaway-server/storage"
	"miami-getaway-server/utils"
)

// Notifications is the shared dispatcher; main wires the production
// service, tests substitute fakes.
var Notifications *services.NotificationService

// SendConfirmationInput selects the email type to send.
type SendConfirmationInput struct {
	Type string `json:"type"`
}

// POST /api/reservations/:id/send-confirmation
// Blocked with 429 and a remaining-seconds message while the
// (reservation, type) cooldown holds. A different type for the same
// reservation is unaffected.
func SendReservationNotification(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var input SendConfirmationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if input.Type == "" {
		input.Type = "confirmation"
	}
	if !slices.Contains(models.NotificationTypes, input.Type) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "type must be one of confirmation, status_update, payment", ctx)
		return
	}

	var res models.Reservation
	if err := storage.DB.First(&res, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "reservation not found")
		return
	}

	if Notifications == nil {
		utils.JSONError(ctx, http.StatusServiceUnavailable, "unavailable", "notification service not configured")
		return
	}

	sendErr := Notifications.SendReservationNotification(ctx.Request().Context(), &res, input.Type)
	if sendErr != nil {
		var cooldown services.ErrCooldown
		if errors.As(sendErr, &cooldown) {
			ctx.StatusCode(iris.StatusTooManyRequests)
			ctx.JSON(iris.Map{
				"error":             "cooldown",
				"message":           cooldown.Error(),
				"remaining_seconds": int(cooldown.Remaining.Seconds()),
			})
			return
		}
		utils.JSONError(ctx, http.StatusInternalServerError, "send_failed", sendErr.Error())
		return
	}

	ctx.JSON(iris.Map{"success": true, "message": "notification sent", "type": input.Type})
}

// GET /api/reservations/:id/notifications
// Dispatch history, reconciled from the database rather than any
// client-side bookkeeping.
func GetReservationNotifications(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var logs []models.NotificationLog
	if err := storage.DB.Where("reservation_id = ?", id).Order("created_at DESC").Limit(50).Find(&logs).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	ctx.JSON(iris.Map{"data": logs})
}
