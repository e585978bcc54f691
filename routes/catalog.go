package routes

import (
	"net/http"

	"github.com/kataras/iris/v12"

	"miami-getaway-server/models"
	"miami-getaway-server/services"
	"miami-getaway-server/storage"
	"miami-getaway-server/utils"
	"miami-getaway-server/wire"
)

// The service catalog (/cars, /yachts, /apartments, /villas) shares one
// handler set; the variant comes from the route path and selects the
// attribute schema the payload is validated against.

// GET /api/{cars,yachts,apartments,villas}
func ListServiceItems(ctx iris.Context) {
	serviceType := ctx.Values().GetString("serviceType")
	var items []models.ServiceItem
	if err := storage.DB.Where("type = ? AND active = ?", serviceType, true).Order("name ASC").Find(&items).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	data := make([]wire.ServiceItem, 0, len(items))
	for i := range items {
		data = append(data, wire.ServiceItemToWire(&items[i]))
	}
	ctx.JSON(iris.Map{"data": data})
}

// GET /api/{type}/:id
func GetServiceItem(ctx iris.Context) {
	serviceType := ctx.Values().GetString("serviceType")
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var item models.ServiceItem
	if err := storage.DB.Where("type = ?", serviceType).First(&item, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "service item not found")
		return
	}
	ctx.JSON(iris.Map{"data": wire.ServiceItemToWire(&item)})
}

// ServiceItemInput is the create/update payload for a catalog entry.
type ServiceItemInput struct {
	Name        string                 `json:"name" validate:"required"`
	Description string                 `json:"description"`
	Price       float64                `json:"price"`
	Currency    string                 `json:"currency"`
	Attrs       map[string]interface{} `json:"attrs"`
	Images      []string               `json:"images"`
	Active      *bool                  `json:"active"`
}

// POST /api/{type}
func CreateServiceItem(ctx iris.Context) {
	serviceType := ctx.Values().GetString("serviceType")

	var input ServiceItemInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if input.Attrs == nil {
		input.Attrs = map[string]interface{}{}
	}
	if err := services.ValidateServiceAttrs(serviceType, input.Attrs); err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
		return
	}

	item := wire.ServiceItemFromWire(wire.ServiceItem{
		Type:        serviceType,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Currency:    input.Currency,
		Attrs:       input.Attrs,
		Images:      input.Images,
		Active:      input.Active == nil || *input.Active,
	})
	if item.Currency == "" {
		item.Currency = "USD"
	}
	if err := storage.DB.Create(&item).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	utils.Audit(ctx, "service.create", "service_item", item.ID, nil, item)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"data": wire.ServiceItemToWire(&item)})
}

// PUT /api/{type}/:id
func UpdateServiceItem(ctx iris.Context) {
	serviceType := ctx.Values().GetString("serviceType")
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var item models.ServiceItem
	if err := storage.DB.Where("type = ?", serviceType).First(&item, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "service item not found")
		return
	}

	var input ServiceItemInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if input.Attrs == nil {
		input.Attrs = map[string]interface{}{}
	}
	if err := services.ValidateServiceAttrs(serviceType, input.Attrs); err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
		return
	}

	before := item
	updated := wire.ServiceItemFromWire(wire.ServiceItem{
		ID:          item.ID,
		Type:        serviceType,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Currency:    input.Currency,
		Attrs:       input.Attrs,
		Images:      input.Images,
		Active:      input.Active == nil || *input.Active,
	})
	updated.CreatedAt = item.CreatedAt
	if updated.Currency == "" {
		updated.Currency = "USD"
	}
	if err := storage.DB.Save(&updated).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	utils.Audit(ctx, "service.update", "service_item", updated.ID, before, updated)
	ctx.JSON(iris.Map{"data": wire.ServiceItemToWire(&updated)})
}

// DELETE /api/{type}/:id
func DeleteServiceItem(ctx iris.Context) {
	serviceType := ctx.Values().GetString("serviceType")
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var item models.ServiceItem
	if err := storage.DB.Where("type = ?", serviceType).First(&item, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "service item not found")
		return
	}
	if err := storage.DB.Delete(&item).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	utils.Audit(ctx, "service.delete", "service_item", item.ID, item, nil)
	ctx.StatusCode(iris.StatusNoContent)
}

// ServiceTypeMiddleware resolves the catalog variant for the shared
// handlers from the mount point.
func ServiceTypeMiddleware(serviceType string) iris.Handler {
	return func(ctx iris.Context) {
		if !services.ValidateServiceType(serviceType) {
			utils.JSONError(ctx, http.StatusNotFound, "not_found", "unknown service type")
			return
		}
		ctx.Values().Set("serviceType", serviceType)
		ctx.Next()
	}
}
