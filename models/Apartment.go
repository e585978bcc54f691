package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Apartment is a rentable unit managed through the back office and
// referenced by reservations by id only (no cascading deletes; deletion
// is blocked while reservations exist).
type Apartment struct {
	gorm.Model
	Name          string         `json:"name"`
	UnitNumber    string         `json:"unitNumber"`
	Address       string         `json:"address"`
	City          string         `json:"city"`
	Description   string         `json:"description"`
	Capacity      int            `json:"capacity"`
	Rooms         int            `json:"rooms"`
	Bathrooms     int            `json:"bathrooms"`
	PricePerNight float64        `json:"pricePerNight"`
	CleaningFee   float64        `json:"cleaningFee"`
	Images        datatypes.JSON `json:"images"` // array of image URLs (Cloudinary)
	Active        bool           `json:"active" gorm:"default:true"`
}
