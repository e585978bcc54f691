package routes

import (
	"net/http"
	"time"

	"github.com/kataras/iris/v12"

	"miami-getaway-server/models"
	"miami-getaway-server/storage"
	"miami-getaway-server/utils"
	"miami-getaway-server/wire"
)

type busyRange struct {
	From   wire.Time `json:"from"`
	To     wire.Time `json:"to"`
	Kind   string    `json:"kind"` // reservation, block
	Reason string    `json:"reason,omitempty"`
}

// GET /api/apartments/:id/availability?start_date=&end_date=
// The calendar feed for a unit: booked stays (cancelled excluded) plus
// maintenance blocks overlapping the requested window. Dates use the
// wire format.
func GetApartmentAvailability(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var apartment models.Apartment
	if err := storage.DB.First(&apartment, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "apartment not found")
		return
	}

	start := time.Now()
	end := start.AddDate(0, 3, 0)
	if s := ctx.URLParamDefault("start_date", ""); s != "" {
		t, err := wire.ParseTime(s)
		if err != nil {
			utils.JSONError(ctx, http.StatusBadRequest, "invalid_date", err.Error())
			return
		}
		start = t
	}
	if s := ctx.URLParamDefault("end_date", ""); s != "" {
		t, err := wire.ParseTime(s)
		if err != nil {
			utils.JSONError(ctx, http.StatusBadRequest, "invalid_date", err.Error())
			return
		}
		end = t
	}
	if !start.Before(end) {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_date", "start_date must be before end_date")
		return
	}

	var reservations []models.Reservation
	if err := storage.DB.
		Where("apartment_id = ? AND status <> ? AND check_in < ? AND check_out > ?", id, "cancelled", end, start).
		Order("check_in ASC").Find(&reservations).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	var blocks []models.ApartmentBlock
	if err := storage.DB.
		Where("apartment_id = ? AND start_date < ? AND end_date > ?", id, end, start).
		Order("start_date ASC").Find(&blocks).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	busy := make([]busyRange, 0, len(reservations)+len(blocks))
	for i := range reservations {
		busy = append(busy, busyRange{
			From: wire.NewTime(reservations[i].CheckIn),
			To:   wire.NewTime(reservations[i].CheckOut),
			Kind: "reservation",
		})
	}
	for i := range blocks {
		busy = append(busy, busyRange{
			From:   wire.NewTime(blocks[i].StartDate),
			To:     wire.NewTime(blocks[i].EndDate),
			Kind:   "block",
			Reason: blocks[i].Reason,
		})
	}

	ctx.JSON(iris.Map{
		"data": iris.Map{
			"apartment_id": apartment.ID,
			"from":         wire.NewTime(start),
			"to":           wire.NewTime(end),
			"busy":         busy,
		},
	})
}

// BlockInput marks a date range unavailable for a unit.
type BlockInput struct {
	StartDate   wire.Time `json:"start_date" validate:"required"`
	EndDate     wire.Time `json:"end_date" validate:"required"`
	Reason      string    `json:"reason"`
	Maintenance bool      `json:"maintenance"`
}

// POST /api/admin-apartments/:id/blocks
func CreateApartmentBlock(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var apartment models.Apartment
	if err := storage.DB.First(&apartment, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "apartment not found")
		return
	}

	var input BlockInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if !input.StartDate.Before(input.EndDate.Time) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "start_date must be before end_date", ctx)
		return
	}

	block := models.ApartmentBlock{
		ApartmentID: id,
		StartDate:   input.StartDate.Time,
		EndDate:     input.EndDate.Time,
		Reason:      input.Reason,
		Maintenance: input.Maintenance,
	}
	if err := storage.DB.Create(&block).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	utils.Audit(ctx, "apartment.block", "apartment_block", block.ID, nil, block)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"data": block})
}

// DELETE /api/admin-apartments/:id/blocks/:blockID
func DeleteApartmentBlock(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	blockID, err := ctx.Params().GetUint("blockID")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid block id")
		return
	}
	var block models.ApartmentBlock
	if err := storage.DB.Where("apartment_id = ?", id).First(&block, blockID).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "block not found")
		return
	}
	if err := storage.DB.Delete(&block).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	utils.Audit(ctx, "apartment.unblock", "apartment_block", block.ID, block, nil)
	ctx.StatusCode(iris.StatusNoContent)
}
