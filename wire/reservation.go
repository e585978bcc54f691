package wire

import (
	"miami-getaway-server/models"
)

// Reservation is the snake_case wire shape of a reservation.
type Reservation struct {
	ID          uint  `json:"id"`
	ApartmentID uint  `json:"apartment_id"`
	ClientID    *uint `json:"client_id"`

	CheckInDate  Time `json:"check_in_date"`
	CheckOutDate Time `json:"check_out_date"`
	Nights       int  `json:"nights"`

	PricePerNight   float64 `json:"price_per_night"`
	CleaningFee     float64 `json:"cleaning_fee"`
	ParkingFee      float64 `json:"parking_fee"`
	OtherExpenses   float64 `json:"other_expenses"`
	CancellationFee float64 `json:"cancellation_fee"`

	Taxes           float64 `json:"taxes"`
	TaxesOverridden bool    `json:"taxes_overridden"`
	TotalAmount     float64 `json:"total_amount"`
	AmountPaid      float64 `json:"amount_paid"`
	AmountDue       float64 `json:"amount_due"`
	PaymentStatus   string  `json:"payment_status"`

	Status string `json:"status"`

	ClientName    string `json:"client_name"`
	ClientEmail   string `json:"client_email"`
	ClientPhone   string `json:"client_phone"`
	ClientAddress string `json:"client_address"`
	ClientCity    string `json:"client_city"`
	ClientCountry string `json:"client_country"`
	Notes         string `json:"notes"`

	CreatedAt Time `json:"created_at"`
	UpdatedAt Time `json:"updated_at"`

	Payments []Payment `json:"payments,omitempty"`
}

// ReservationToWire maps a model to its wire shape. Total: every model
// field appears here, nothing is left to reflection.
func ReservationToWire(r *models.Reservation) Reservation {
	w := Reservation{
		ID:              r.ID,
		ApartmentID:     r.ApartmentID,
		ClientID:        r.ClientID,
		CheckInDate:     NewTime(r.CheckIn),
		CheckOutDate:    NewTime(r.CheckOut),
		Nights:          r.Nights,
		PricePerNight:   r.PricePerNight,
		CleaningFee:     r.CleaningFee,
		ParkingFee:      r.ParkingFee,
		OtherExpenses:   r.OtherExpenses,
		CancellationFee: r.CancellationFee,
		Taxes:           r.Taxes,
		TaxesOverridden: r.TaxesOverridden,
		TotalAmount:     r.TotalAmount,
		AmountPaid:      r.AmountPaid,
		AmountDue:       r.AmountDue,
		PaymentStatus:   r.PaymentStatus,
		Status:          r.Status,
		ClientName:      r.ClientName,
		ClientEmail:     r.ClientEmail,
		ClientPhone:     r.ClientPhone,
		ClientAddress:   r.ClientAddress,
		ClientCity:      r.ClientCity,
		ClientCountry:   r.ClientCountry,
		Notes:           r.Notes,
		CreatedAt:       NewTime(r.CreatedAt),
		UpdatedAt:       NewTime(r.UpdatedAt),
	}
	for i := range r.Payments {
		w.Payments = append(w.Payments, PaymentToWire(&r.Payments[i]))
	}
	return w
}

// ReservationFromWire maps a wire reservation back onto a model. The
// derived fields (taxes/total/due/status) still pass through so a round
// trip is lossless, but route handlers recompute them before persisting.
func ReservationFromWire(w Reservation) models.Reservation {
	r := models.Reservation{
		ApartmentID:     w.ApartmentID,
		ClientID:        w.ClientID,
		CheckIn:         w.CheckInDate.Time,
		CheckOut:        w.CheckOutDate.Time,
		Nights:          w.Nights,
		PricePerNight:   w.PricePerNight,
		CleaningFee:     w.CleaningFee,
		ParkingFee:      w.ParkingFee,
		OtherExpenses:   w.OtherExpenses,
		CancellationFee: w.CancellationFee,
		Taxes:           w.Taxes,
		TaxesOverridden: w.TaxesOverridden,
		TotalAmount:     w.TotalAmount,
		AmountPaid:      w.AmountPaid,
		AmountDue:       w.AmountDue,
		PaymentStatus:   w.PaymentStatus,
		Status:          w.Status,
		ClientName:      w.ClientName,
		ClientEmail:     w.ClientEmail,
		ClientPhone:     w.ClientPhone,
		ClientAddress:   w.ClientAddress,
		ClientCity:      w.ClientCity,
		ClientCountry:   w.ClientCountry,
		Notes:           w.Notes,
	}
	r.ID = w.ID
	return r
}

// Payment is the snake_case wire shape of a payment history entry.
type Payment struct {
	ID            uint    `json:"id"`
	ReservationID uint    `json:"reservation_id"`
	Amount        float64 `json:"amount"`
	Method        string  `json:"method"`
	Reference     string  `json:"reference"`
	Note          string  `json:"note"`
	PaymentDate   Time    `json:"payment_date"`
}

// PaymentToWire maps a payment model to its wire shape.
func PaymentToWire(p *models.Payment) Payment {
	return Payment{
		ID:            p.ID,
		ReservationID: p.ReservationID,
		Amount:        p.Amount,
		Method:        p.Method,
		Reference:     p.Reference,
		Note:          p.Note,
		PaymentDate:   NewTime(p.PaidAt),
	}
}
