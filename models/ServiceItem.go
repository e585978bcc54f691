package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ServiceItem is the catalog entry behind /cars, /yachts, /apartments and
// /villas. One table keyed by Type; the per-variant attributes live in
// Attrs and are validated against the variant schema before persisting.
type ServiceItem struct {
	gorm.Model
	Type        string         `json:"type" gorm:"type:varchar(20);index;not null"` // car, yacht, apartment, villa
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Price       float64        `json:"price"` // per day/night depending on variant
	Currency    string         `json:"currency" gorm:"type:varchar(8);default:USD"`
	Attrs       datatypes.JSON `json:"attrs"`
	Images      datatypes.JSON `json:"images"`
	Active      bool           `json:"active" gorm:"default:true"`
}

// ServiceTypes is the closed variant set for ServiceItem.Type.
var ServiceTypes = []string{"car", "yacht", "apartment", "villa"}
