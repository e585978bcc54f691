package wire

import (
	"encoding/json"

	"gorm.io/datatypes"

	"miami-getaway-server/models"
)

// Apartment is the snake_case wire shape of a rentable unit.
type Apartment struct {
	ID            uint     `json:"id"`
	Name          string   `json:"name"`
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
	Active        bool     `json:"active"`
	CreatedAt     Time     `json:"created_at"`
	UpdatedAt     Time     `json:"updated_at"`
}

func ApartmentToWire(a *models.Apartment) Apartment {
	return Apartment{
		ID:            a.ID,
		Name:          a.Name,
		UnitNumber:    a.UnitNumber,
		Address:       a.Address,
		City:          a.City,
		Description:   a.Description,
		Capacity:      a.Capacity,
		Rooms:         a.Rooms,
		Bathrooms:     a.Bathrooms,
		PricePerNight: a.PricePerNight,
		CleaningFee:   a.CleaningFee,
		Images:        jsonToStrings(a.Images),
		Active:        a.Active,
		CreatedAt:     NewTime(a.CreatedAt),
		UpdatedAt:     NewTime(a.UpdatedAt),
	}
}

func ApartmentFromWire(w Apartment) models.Apartment {
	a := models.Apartment{
		Name:          w.Name,
		UnitNumber:    w.UnitNumber,
		Address:       w.Address,
		City:          w.City,
		Description:   w.Description,
		Capacity:      w.Capacity,
		Rooms:         w.Rooms,
		Bathrooms:     w.Bathrooms,
		PricePerNight: w.PricePerNight,
		CleaningFee:   w.CleaningFee,
		Images:        StringsToJSON(w.Images),
		Active:        w.Active,
	}
	a.ID = w.ID
	return a
}

// User is the snake_case wire shape of a client/admin contact record.
type User struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Country   string `json:"country"`
	Notes     string `json:"notes"`
	Role      string `json:"role"`
	CreatedAt Time   `json:"created_at"`
	UpdatedAt Time   `json:"updated_at"`
}

func UserToWire(u *models.User) User {
	return User{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		Address:   u.Address,
		City:      u.City,
		Country:   u.Country,
		Notes:     u.Notes,
		Role:      u.Role,
		CreatedAt: NewTime(u.CreatedAt),
		UpdatedAt: NewTime(u.UpdatedAt),
	}
}

func UserFromWire(w User) models.User {
	u := models.User{
		FirstName: w.FirstName,
		LastName:  w.LastName,
		Email:     w.Email,
		Phone:     w.Phone,
		Address:   w.Address,
		City:      w.City,
		Country:   w.Country,
		Notes:     w.Notes,
		Role:      w.Role,
	}
	u.ID = w.ID
	return u
}

// ServiceItem is the snake_case wire shape of a catalog entry.
type ServiceItem struct {
	ID          uint                   `json:"id"`
	Type        string                 `json:"type"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Price       float64                `json:"price"`
	Currency    string                 `json:"currency"`
	Attrs       map[string]interface{} `json:"attrs"`
	Images      []string               `json:"images"`
	Active      bool                   `json:"active"`
	CreatedAt   Time                   `json:"created_at"`
	UpdatedAt   Time                   `json:"updated_at"`
}

func ServiceItemToWire(s *models.ServiceItem) ServiceItem {
	attrs := map[string]interface{}{}
	if s.Attrs != nil {
		_ = json.Unmarshal(s.Attrs, &attrs)
	}
	return ServiceItem{
		ID:          s.ID,
		Type:        s.Type,
		Name:        s.Name,
		Description: s.Description,
		Price:       s.Price,
		Currency:    s.Currency,
		Attrs:       attrs,
		Images:      jsonToStrings(s.Images),
		Active:      s.Active,
		CreatedAt:   NewTime(s.CreatedAt),
		UpdatedAt:   NewTime(s.UpdatedAt),
	}
}

func ServiceItemFromWire(w ServiceItem) models.ServiceItem {
	attrs, _ := json.Marshal(w.Attrs)
	s := models.ServiceItem{
		Type:        w.Type,
		Name:        w.Name,
		Description: w.Description,
		Price:       w.Price,
		Currency:    w.Currency,
		Attrs:       datatypes.JSON(attrs),
		Images:      StringsToJSON(w.Images),
		Active:      w.Active,
	}
	s.ID = w.ID
	return s
}

// MonthlySummary is the snake_case wire shape of an aggregate report.
type MonthlySummary struct {
	ID                uint                      `json:"id"`
	Month             int                       `json:"month"`
	Year              int                       `json:"year"`
	TotalReservations int                       `json:"total_reservations"`
	TotalNights       int                       `json:"total_nights"`
	TotalRevenue      float64                   `json:"total_revenue"`
	TotalTaxes        float64                   `json:"total_taxes"`
	TotalPaid         float64                   `json:"total_paid"`
	TotalOutstanding  float64                   `json:"total_outstanding"`
	Apartments        []models.ApartmentSummary `json:"apartments"`
	GeneratedAt       Time                      `json:"generated_at"`
}

func SummaryToWire(s *models.MonthlySummary) MonthlySummary {
	rows := []models.ApartmentSummary{}
	if s.Apartments != nil {
		_ = json.Unmarshal(s.Apartments, &rows)
	}
	return MonthlySummary{
		ID:                s.ID,
		Month:             s.Month,
		Year:              s.Year,
		TotalReservations: s.TotalReservations,
		TotalNights:       s.TotalNights,
		TotalRevenue:      s.TotalRevenue,
		TotalTaxes:        s.TotalTaxes,
		TotalPaid:         s.TotalPaid,
		TotalOutstanding:  s.TotalOutstanding,
		Apartments:        rows,
		GeneratedAt:       NewTime(s.UpdatedAt),
	}
}

func jsonToStrings(j datatypes.JSON) []string {
	out := []string{}
	if j != nil {
		_ = json.Unmarshal(j, &out)
	}
	return out
}

func StringsToJSON(s []string) datatypes.JSON {
	if s == nil {
		s = []string{}
	}
	b, _ := json.Marshal(s)
	return datatypes.JSON(b)
}
