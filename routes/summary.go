package routes

import (
	"fmt"
	"net/http"

	"github.com/kataras/iris/v12"

	"miami-getaway-server/models"
	"miami-getaway-server/services"
	"miami-getaway-server/storage"
	"miami-getaway-server/utils"
	"miami-getaway-server/wire"
)

// GenerateSummaryInput selects the month to aggregate.
type GenerateSummaryInput struct {
	Month int `json:"month" validate:"required,gte=1,lte=12"`
	Year  int `json:"year" validate:"required,gte=2000"`
}

// POST /api/summaries/generate
func GenerateSummary(ctx iris.Context) {
	var input GenerateSummaryInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	summary, err := services.GenerateMonthlySummary(storage.DB, input.Month, input.Year)
	if err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	utils.Audit(ctx, "summary.generate", "summary", summary.ID, nil, summary)
	ctx.JSON(iris.Map{"data": wire.SummaryToWire(summary)})
}

// GET /api/summaries
func ListSummaries(ctx iris.Context) {
	var summaries []models.MonthlySummary
	if err := storage.DB.Order("year DESC, month DESC").Find(&summaries).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	data := make([]wire.MonthlySummary, 0, len(summaries))
	for i := range summaries {
		data = append(data, wire.SummaryToWire(&summaries[i]))
	}
	ctx.JSON(iris.Map{"data": data})
}

// GET /api/summaries/:month/:year
func GetSummary(ctx iris.Context) {
	month, _ := ctx.Params().GetInt("month")
	year, _ := ctx.Params().GetInt("year")

	var summary models.MonthlySummary
	if err := storage.DB.Where("month = ? AND year = ?", month, year).First(&summary).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "summary not found")
		return
	}
	ctx.JSON(iris.Map{"data": wire.SummaryToWire(&summary)})
}

// POST /api/summaries/:id/pdf
func GetSummaryPDF(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var summary models.MonthlySummary
	if err := storage.DB.First(&summary, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "summary not found")
		return
	}
	doc, err := services.SummaryPDF(&summary)
	if err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	ctx.ContentType("application/pdf")
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="summary-%02d-%d.pdf"`, summary.Month, summary.Year))
	ctx.Write(doc)
}

// EmailSummaryInput names the recipient for a summary email.
type EmailSummaryInput struct {
	Email string `json:"email" validate:"required,email"`
}

// POST /api/summaries/:id/email
func EmailSummary(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var input EmailSummaryInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	var summary models.MonthlySummary
	if err := storage.DB.First(&summary, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "summary not found")
		return
	}

	if Notifications == nil {
		utils.JSONError(ctx, http.StatusServiceUnavailable, "unavailable", "notification service not configured")
		return
	}
	if err := Notifications.SendSummaryEmail(input.Email, &summary); err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "send_failed", err.Error())
		return
	}
	ctx.JSON(iris.Map{"success": true, "message": "summary email sent"})
}
