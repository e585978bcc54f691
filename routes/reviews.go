package routes

import (
	"errors"
	"net/http"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"

	"miami-getaway-server/models"
	"miami-getaway-server/services"
	"miami-getaway-server/storage"
	"miami-getaway-server/utils"
)

// CreateReviewInput is the public review submission form.
type CreateReviewInput struct {
	GuestName  string `json:"guest_name" validate:"required,max=256"`
	GuestEmail string `json:"guest_email" validate:"required,email"`
	Stars      int    `json:"stars" validate:"required,min=1,max=5"`
	Title      string `json:"title" validate:"max=100"`
	Body       string `json:"body" validate:"max=1000"`
}

type reviewResponse struct {
	ID        uint   `json:"id"`
	GuestName string `json:"guest_name"`
	Stars     int    `json:"stars"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Verified  bool   `json:"verified"`
	CreatedAt string `json:"created_at"`
}

// GET /api/apartments/:id/reviews
// Public: reviews plus the aggregate rating for the unit page.
func ListApartmentReviews(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var reviews []models.Review
	if err := storage.DB.Where("apartment_id = ?", id).Order("created_at DESC").Find(&reviews).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	var totalStars float64
	data := make([]reviewResponse, 0, len(reviews))
	for i := range reviews {
		r := &reviews[i]
		totalStars += float64(r.Stars)
		data = append(data, reviewResponse{
			ID:        r.ID,
			GuestName: r.GuestName,
			Stars:     r.Stars,
			Title:     r.Title,
			Body:      r.Body,
			Verified:  r.Verified,
			CreatedAt: r.CreatedAt.Format("Jan 2, 2006"),
		})
	}
	average := 0.0
	if len(reviews) > 0 {
		average = services.Round2(totalStars / float64(len(reviews)))
	}

	ctx.JSON(iris.Map{
		"data": data,
		"meta": iris.Map{"average_rating": average, "review_count": len(reviews)},
	})
}

// POST /api/apartments/:id/reviews
// One review per guest email per unit. Marked verified when the email
// matches a checked-out or completed stay at the unit.
func CreateApartmentReview(ctx iris.Context) {
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

	var input CreateReviewInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	email := utils.NormalizeEmail(input.GuestEmail)

	var existing models.Review
	dupErr := storage.DB.Where("apartment_id = ? AND guest_email = ?", id, email).First(&existing).Error
	if dupErr == nil {
		utils.CreateError(iris.StatusConflict, "Conflict", "You have already reviewed this apartment.", ctx)
		return
	}
	if !errors.Is(dupErr, gorm.ErrRecordNotFound) {
		utils.CreateInternalServerError(ctx)
		return
	}

	review := models.Review{
		ApartmentID: id,
		GuestName:   input.GuestName,
		GuestEmail:  email,
		Title:       input.Title,
		Body:        input.Body,
		Stars:       input.Stars,
	}

	var stay models.Reservation
	if err := storage.DB.Where(
		"apartment_id = ? AND lower(client_email) = ? AND status IN ?",
		id, email, []string{"checked_out", "completed"}).
		Order("check_out DESC").First(&stay).Error; err == nil {
		review.ReservationID = &stay.ID
		review.Verified = true
	}

	if err := storage.DB.Create(&review).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"data": reviewResponse{
		ID:        review.ID,
		GuestName: review.GuestName,
		Stars:     review.Stars,
		Title:     review.Title,
		Body:      review.Body,
		Verified:  review.Verified,
		CreatedAt: review.CreatedAt.Format("Jan 2, 2006"),
	}})
}

// DELETE /api/admin/reviews/:id
// Moderation: removes an abusive or spam review.
func DeleteReview(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var review models.Review
	if err := storage.DB.First(&review, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "review not found")
		return
	}
	if err := storage.DB.Delete(&review).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	utils.Audit(ctx, "review.delete", "review", review.ID, review, nil)
	ctx.StatusCode(iris.StatusNoContent)
}
