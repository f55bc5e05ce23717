package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf/v2"

	"github.com/amouromar/omba/internal/models"
	"github.com/amouromar/omba/internal/pricing"
)

// ReceiptService renders a booking receipt as a PDF for download.
type ReceiptService struct {
	Bookings BookingReader
	Calc     *pricing.Calculator
}

func NewReceiptService(bookings BookingReader, calc *pricing.Calculator) *ReceiptService {
	return &ReceiptService{Bookings: bookings, Calc: calc}
}

// GenerateBookingReceipt builds a receipt PDF for the renter's own booking.
// Admins may fetch any booking's receipt.
func (s *ReceiptService) GenerateBookingReceipt(ctx context.Context, bookingID, requesterID string, isAdmin bool) ([]byte, error) {
	booking, err := s.Bookings.Get(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: booking not found", ErrNotFound)
	}
	if !isAdmin && booking.RenterID != requesterID {
		return nil, fmt.Errorf("%w: not your booking", ErrForbidden)
	}

	startDate := booking.StartDate.Format(pricing.DateLayout)
	endDate := booking.EndDate.Format(pricing.DateLayout)
	quote := s.Calc.Quote(booking.CarPricePerDay, startDate, endDate)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Omba - Booking Receipt", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", time.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Booking Info Box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Booking Information", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Booking: %s", booking.ID), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Status: %s", booking.Status), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Car: %s %s", booking.CarMake, booking.CarModel), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Dates: %s to %s", startDate, endDate), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Price Breakdown
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Price Breakdown", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(95, 7, "Item", "1", 0, "C", true, 0, "")
	pdf.CellFormat(95, 7, "Amount", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(95, 6, fmt.Sprintf("Daily rate x %d day(s)", quote.Days), "1", 0, "L", false, 0, "")
	pdf.CellFormat(95, 6, fmt.Sprintf("%s %.2f", quote.Currency, quote.Subtotal), "1", 1, "R", false, 0, "")
	pdf.CellFormat(95, 6, "Insurance", "1", 0, "L", false, 0, "")
	pdf.CellFormat(95, 6, fmt.Sprintf("%s %.2f", quote.Currency, quote.InsuranceFee), "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "B", 14)
	pdf.SetFillColor(200, 255, 200)
	pdf.CellFormat(190, 10, fmt.Sprintf("Total Paid: %s %.2f", booking.Currency, booking.TotalPrice), "1", 1, "C", true, 0, "")

	if booking.Status == models.BookingStatusPending {
		pdf.Ln(3)
		pdf.SetFont("Arial", "I", 9)
		pdf.CellFormat(190, 6, "Payment is still pending for this booking.", "", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
