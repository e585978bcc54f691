package utils

import (
	"strings"

	"github.com/kataras/iris/v12"
)

type PageMeta struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
}

func JSONPage(ctx iris.Context, data interface{}, page, perPage int, total int64) {
	ctx.JSON(iris.Map{
		"data":  data,
		"meta":  PageMeta{Page: page, PerPage: perPage, Total: total},
		"links": iris.Map{},
	})
}

func JSONError(ctx iris.Context, status int, code, message string) {
	ctx.StatusCode(status)
	ctx.JSON(iris.Map{"error": code, "message": message})
}

func CreateError(statusCode int, title string, detail string, ctx iris.Context) {
	ctx.StopWithJSON(statusCode, iris.Map{
		"status": statusCode,
		"title":  title,
		"detail": detail,
	})
}

func CreateInternalServerError(ctx iris.Context) {
	CreateError(
		iris.StatusInternalServerError,
		"Internal Server Error",
		"An unexpected error occurred.", ctx)
}

func CreateNotFound(ctx iris.Context) {
	CreateError(iris.StatusNotFound, "Not Found", "Resource not found.", ctx)
}

func CreateEmailAlreadyRegistered(ctx iris.Context) {
	CreateError(iris.StatusConflict, "Conflict", "Email already registered.", ctx)
}

// HandleValidationErrors turns a ReadJSON/validator failure into a 400
// with the raw validation message; field-level detail stays in the
// message string the way the dashboard expects it.
func HandleValidationErrors(err error, ctx iris.Context) {
	CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
}

// RelatedDataError is the distinguished 409 shape for deletions blocked
// by dependent records. It must survive intact to the UI (not be
// flattened to a string) so the conflict dialog can render details and
// the suggested action.
func RelatedDataError(ctx iris.Context, message string, details []string, suggestedAction string) {
	ctx.StopWithJSON(iris.StatusConflict, iris.Map{
		"error":                 "related_data",
		"message":               message,
		"is_related_data_error": true,
		"details":               details,
		"suggested_action":      suggestedAction,
	})
}

// NormalizeEmail lowercases and trims an email for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
