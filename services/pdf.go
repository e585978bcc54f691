package services

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"miami-getaway-server/models"
)

// ReservationPDF renders a reservation confirmation document with the
// client block, stay details, pricing breakdown and payment history.
func ReservationPDF(res *models.Reservation) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Miami GetAway")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Reservation #%d", res.ID))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Guest")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 11)
	line(pdf, "Name", res.ClientName)
	line(pdf, "Email", res.ClientEmail)
	line(pdf, "Phone", res.ClientPhone)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Stay")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 11)
	line(pdf, "Check-in", res.CheckIn.Format("Jan 2, 2006 15:04"))
	line(pdf, "Check-out", res.CheckOut.Format("Jan 2, 2006 15:04"))
	line(pdf, "Nights", fmt.Sprintf("%d", res.Nights))
	line(pdf, "Status", res.Status)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Charges")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 11)
	line(pdf, "Price per night", money(res.PricePerNight))
	line(pdf, fmt.Sprintf("Accommodation (%d nights)", res.Nights), money(res.PricePerNight*float64(res.Nights)))
	line(pdf, "Cleaning fee", money(res.CleaningFee))
	line(pdf, "Parking fee", money(res.ParkingFee))
	line(pdf, "Other expenses", money(res.OtherExpenses))
	line(pdf, "Taxes", money(res.Taxes))
	if res.CancellationFee > 0 {
		// Charged separately; never folded into the total.
		line(pdf, "Cancellation fee (separate)", money(res.CancellationFee))
	}
	pdf.SetFont("Helvetica", "B", 11)
	line(pdf, "Total", money(res.TotalAmount))
	line(pdf, "Paid", money(res.AmountPaid))
	line(pdf, "Amount due", money(res.AmountDue))
	pdf.SetFont("Helvetica", "", 11)
	pdf.Ln(4)

	if len(res.Payments) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Payments")
		pdf.Ln(7)
		pdf.SetFont("Helvetica", "", 11)
		for i := range res.Payments {
			p := &res.Payments[i]
			line(pdf, p.PaidAt.Format("Jan 2, 2006"), fmt.Sprintf("%s (%s)", money(p.Amount), p.Method))
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render reservation pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// SummaryPDF renders a monthly summary report.
func SummaryPDF(summary *models.MonthlySummary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, fmt.Sprintf("Monthly Summary %02d/%d", summary.Month, summary.Year))
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 11)
	line(pdf, "Reservations", fmt.Sprintf("%d", summary.TotalReservations))
	line(pdf, "Nights", fmt.Sprintf("%d", summary.TotalNights))
	line(pdf, "Revenue", money(summary.TotalRevenue))
	line(pdf, "Taxes", money(summary.TotalTaxes))
	line(pdf, "Collected", money(summary.TotalPaid))
	line(pdf, "Outstanding", money(summary.TotalOutstanding))
	pdf.Ln(6)

	var rows []models.ApartmentSummary
	if summary.Apartments != nil {
		_ = json.Unmarshal(summary.Apartments, &rows)
	}
	if len(rows) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Per apartment")
		pdf.Ln(7)
		pdf.SetFont("Helvetica", "", 11)
		for _, row := range rows {
			line(pdf,
				fmt.Sprintf("%s (#%d)", row.ApartmentName, row.ApartmentID),
				fmt.Sprintf("%d reservations, %d nights, %s", row.Reservations, row.Nights, money(row.Revenue)))
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render summary pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func line(pdf *gofpdf.Fpdf, label, value string) {
	pdf.Cell(70, 6, label)
	pdf.Cell(0, 6, value)
	pdf.Ln(6)
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
