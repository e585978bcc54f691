package routes

import (
	"fmt"
	"net/http"

	"github.com/kataras/iris/v12"

	"miami-getaway-server/models"
	"miami-getaway-server/storage"
	"miami-getaway-server/utils"
	"miami-getaway-server/wire"
)

// GET /api/apartments
// Public listing for the booking site: active units only.
func GetApartments(ctx iris.Context) {
	var apartments []models.Apartment
	if err := storage.DB.Where("active = ?", true).Order("name ASC").Find(&apartments).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	data := make([]wire.Apartment, 0, len(apartments))
	for i := range apartments {
		data = append(data, wire.ApartmentToWire(&apartments[i]))
	}
	ctx.JSON(iris.Map{"data": data})
}

// GET /api/admin-apartments
// Back-office listing, paginated, including inactive units.
func AdminListApartments(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	var total int64
	storage.DB.Model(&models.Apartment{}).Count(&total)

	var apartments []models.Apartment
	if err := storage.DB.Offset((page - 1) * perPage).Limit(perPage).Order("created_at DESC").Find(&apartments).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	data := make([]wire.Apartment, 0, len(apartments))
	for i := range apartments {
		data = append(data, wire.ApartmentToWire(&apartments[i]))
	}
	utils.JSONPage(ctx, data, page, perPage, total)
}

// GET /api/apartments/:id
func GetApartment(ctx iris.Context) {
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
	ctx.JSON(iris.Map{"data": wire.ApartmentToWire(&apartment)})
}

// ApartmentInput is the create/update payload. Base64Images are pushed
// to Cloudinary and the resulting URLs appended to the image set.
type ApartmentInput struct {
	Name          string   `json:"name" validate:"required"`
	UnitNumber    string   `json:"unit_number"`
	Address       string   `json:"address"`
	City          string   `json:"city"`
	Description   string   `json:"description"`
	Capacity      int      `json:"capacity"`
	Rooms         int      `json:"rooms"`
	Bathrooms     int      `json:"bathrooms"`
	PricePerNight float64  `json:"price_per_night"`
	CleaningFee   float64  `json:"cleaning_fee"`
	Images        []string `json:"images"`
	Base64Images  []string `json:"base64_images"`
	Active        *bool    `json:"active"`
}

// POST /api/admin-apartments
func CreateApartment(ctx iris.Context) {
	var input ApartmentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	apartment := apartmentFromInput(input, &models.Apartment{})
	if err := storage.DB.Create(apartment).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	utils.Audit(ctx, "apartment.create", "apartment", apartment.ID, nil, apartment)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"data": wire.ApartmentToWire(apartment)})
}

// PUT /api/admin-apartments/:id
func UpdateApartment(ctx iris.Context) {
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

	var input ApartmentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	before := apartment
	apartmentFromInput(input, &apartment)
	if err := storage.DB.Save(&apartment).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	utils.Audit(ctx, "apartment.update", "apartment", apartment.ID, before, apartment)
	ctx.JSON(iris.Map{"data": wire.ApartmentToWire(&apartment)})
}

// DELETE /api/admin-apartments/:id
// Blocked with the related-data conflict shape while reservations
// reference the unit; there is no cascading delete.
func DeleteApartment(ctx iris.Context) {
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

	var reservationCount int64
	storage.DB.Model(&models.Reservation{}).Where("apartment_id = ?", id).Count(&reservationCount)
	if reservationCount > 0 {
		utils.RelatedDataError(ctx,
			"apartment has reservations and cannot be deleted",
			[]string{fmt.Sprintf("%d reservation(s) reference this apartment", reservationCount)},
			"cancel or reassign the reservations, or deactivate the apartment instead")
		return
	}

	if err := storage.DB.Delete(&apartment).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	utils.Audit(ctx, "apartment.delete", "apartment", apartment.ID, apartment, nil)
	ctx.StatusCode(iris.StatusNoContent)
}

func apartmentFromInput(input ApartmentInput, apartment *models.Apartment) *models.Apartment {
	apartment.Name = input.Name
	apartment.UnitNumber = input.UnitNumber
	apartment.Address = input.Address
	apartment.City = input.City
	apartment.Description = input.Description
	apartment.Capacity = input.Capacity
	apartment.Rooms = input.Rooms
	apartment.Bathrooms = input.Bathrooms
	apartment.PricePerNight = input.PricePerNight
	apartment.CleaningFee = input.CleaningFee
	if input.Active != nil {
		apartment.Active = *input.Active
	} else if apartment.ID == 0 {
		apartment.Active = true
	}

	urls := input.Images
	for i, b64 := range input.Base64Images {
		publicID := fmt.Sprintf("apartment/%s/%d", apartment.Name, i)
		if url := storage.UploadBase64Image(b64, publicID); url != "" {
			urls = append(urls, url)
		}
	}
	apartment.Images = wire.StringsToJSON(urls)
	return apartment
}
