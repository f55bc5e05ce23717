package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/amouromar/omba/internal/metrics"
	"github.com/amouromar/omba/internal/models"
	"github.com/amouromar/omba/internal/payment"
	"github.com/amouromar/omba/internal/pricing"
)

// CarGetter is the slice of the car repository checkout needs.
type CarGetter interface {
	Get(ctx context.Context, id string) (*models.Car, error)
}

// BookingStore is the slice of the booking repository checkout and the
// payment webhook need.
type BookingStore interface {
	Create(ctx context.Context, b *models.Booking) error
	ConfirmByPaymentLink(ctx context.Context, linkID, paymentID string) (int64, error)
	CancelByPaymentLink(ctx context.Context, linkID string) (int64, error)
}

// BookingNotifier receives booking lifecycle events. The realtime hub
// implements it; a nil notifier is allowed.
type BookingNotifier interface {
	NotifyBookingEvent(event string, bookingID string)
}

type CheckoutService struct {
	Cars     CarGetter
	Bookings BookingStore
	Gateway  payment.Gateway
	Calc     *pricing.Calculator
	BaseURL  string
	Notifier BookingNotifier
}

func NewCheckoutService(cars CarGetter, bookings BookingStore, gw payment.Gateway, calc *pricing.Calculator, baseURL string, notifier BookingNotifier) *CheckoutService {
	return &CheckoutService{
		Cars:     cars,
		Bookings: bookings,
		Gateway:  gw,
		Calc:     calc,
		BaseURL:  baseURL,
		Notifier: notifier,
	}
}

// Start runs the checkout flow for a verified renter: validate the date
// range, price the rental server-side, create a hosted payment link, then
// insert the PENDING booking row. The payment link is created before the
// insert; if the insert fails the link is cancelled so the renter is never
// left with a payable link for a booking that does not exist.
func (s *CheckoutService) Start(ctx context.Context, profile *models.Profile, req *models.CheckoutRequest) (*models.CheckoutResponse, error) {
	if req.CarID == "" {
		return nil, fmt.Errorf("%w: car_id is required", ErrValidation)
	}
	start, err := time.Parse(pricing.DateLayout, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start_date, expected YYYY-MM-DD", ErrValidation)
	}
	end, err := time.Parse(pricing.DateLayout, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end_date, expected YYYY-MM-DD", ErrValidation)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: end_date must be after start_date", ErrValidation)
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if start.Before(today) {
		return nil, fmt.Errorf("%w: start_date cannot be in the past", ErrValidation)
	}

	car, err := s.Cars.Get(ctx, req.CarID)
	if err != nil {
		return nil, fmt.Errorf("%w: car not found", ErrNotFound)
	}
	if !car.IsAvailable {
		return nil, fmt.Errorf("%w: car is not available", ErrValidation)
	}

	quote := s.Calc.Quote(car.PricePerDay, req.StartDate, req.EndDate)
	bookingID := newBookingID()

	link, err := s.Gateway.CreateLink(ctx, &payment.LinkRequest{
		Amount:        quote.GrandTotal,
		Currency:      quote.Currency,
		Description:   fmt.Sprintf("%s %s, %d day(s)", car.Make, car.Model, quote.Days),
		ReferenceID:   bookingID,
		CustomerName:  profile.FullName,
		CustomerEmail: profile.Email,
		CallbackURL:   s.BaseURL + "/bookings",
		Notes: map[string]interface{}{
			"booking_id": bookingID,
			"car_id":     car.ID,
		},
	})
	if err != nil {
		log.Printf("[Checkout] payment link creation failed: %v", err)
		return nil, fmt.Errorf("%w: could not start payment", ErrUpstream)
	}

	booking := &models.Booking{
		ID:            bookingID,
		CarID:         car.ID,
		RenterID:      profile.ID,
		StartDate:     start,
		EndDate:       end,
		TotalPrice:    quote.GrandTotal,
		Currency:      quote.Currency,
		Status:        models.BookingStatusPending,
		PaymentLinkID: link.ID,
	}
	if err := s.Bookings.Create(ctx, booking); err != nil {
		// Compensate: the link already exists and is payable, so it must
		// be expired before surfacing the failure.
		if cErr := s.Gateway.CancelLink(ctx, link.ID); cErr != nil {
			log.Printf("[Checkout] failed to cancel payment link %s after insert failure: %v", link.ID, cErr)
		}
		metrics.CheckoutsCompensated.Inc()
		log.Printf("[Checkout] booking insert failed for car %s: %v", car.ID, err)
		return nil, fmt.Errorf("%w: could not create booking", ErrUpstream)
	}

	metrics.CheckoutsStarted.Inc()
	if s.Notifier != nil {
		s.Notifier.NotifyBookingEvent("booking.pending", bookingID)
	}

	return &models.CheckoutResponse{
		BookingID: bookingID,
		URL:       link.URL,
		Amount:    quote.GrandTotal,
		Currency:  quote.Currency,
	}, nil
}

// HandlePaymentEvent applies a gateway webhook event to the matching
// booking. Unknown link IDs and repeated deliveries are no-ops.
func (s *CheckoutService) HandlePaymentEvent(ctx context.Context, event, linkID, paymentID string) error {
	switch event {
	case "payment_link.paid":
		rows, err := s.Bookings.ConfirmByPaymentLink(ctx, linkID, paymentID)
		if err != nil {
			return err
		}
		if rows > 0 {
			metrics.BookingsConfirmed.Inc()
			if s.Notifier != nil {
				s.Notifier.NotifyBookingEvent("booking.confirmed", linkID)
			}
		}
	case "payment_link.expired", "payment_link.cancelled":
		rows, err := s.Bookings.CancelByPaymentLink(ctx, linkID)
		if err != nil {
			return err
		}
		if rows > 0 {
			metrics.BookingsCancelled.Inc()
			if s.Notifier != nil {
				s.Notifier.NotifyBookingEvent("booking.cancelled", linkID)
			}
		}
	default:
		log.Printf("[Checkout] ignoring webhook event %q", event)
	}
	return nil
}
