package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/amouromar/omba/internal/metrics"
	"github.com/amouromar/omba/internal/models"
)

func newBookingID() string {
	return uuid.NewString()
}

// BookingReader is the read/cancel slice of the booking repository the
// dashboard and cancellation operations use.
type BookingReader interface {
	Get(ctx context.Context, id string) (*models.Booking, error)
	ListByRenter(ctx context.Context, renterID string) ([]*models.Booking, error)
	ListAll(ctx context.Context) ([]*models.Booking, error)
	CancelOwned(ctx context.Context, bookingID, renterID string) (int64, error)
	Summary(ctx context.Context) (*models.BookingSummary, error)
	ListStalePending(ctx context.Context, maxAge time.Duration) ([]*models.Booking, error)
}

type BookingService struct {
	Repo     BookingReader
	Notifier BookingNotifier
}

func NewBookingService(repo BookingReader, notifier BookingNotifier) *BookingService {
	return &BookingService{Repo: repo, Notifier: notifier}
}

func (s *BookingService) ListMine(ctx context.Context, renterID string) ([]*models.Booking, error) {
	return s.Repo.ListByRenter(ctx, renterID)
}

func (s *BookingService) ListAll(ctx context.Context) ([]*models.Booking, error) {
	return s.Repo.ListAll(ctx)
}

func (s *BookingService) Get(ctx context.Context, id string) (*models.Booking, error) {
	return s.Repo.Get(ctx, id)
}

// Cancel marks a booking CANCELLED on behalf of its renter. Ownership and
// state are enforced in the UPDATE itself: a booking belonging to someone
// else, already cancelled, or already completed matches zero rows.
func (s *BookingService) Cancel(ctx context.Context, bookingID, renterID string) error {
	if bookingID == "" {
		return fmt.Errorf("%w: booking id is required", ErrValidation)
	}
	rows, err := s.Repo.CancelOwned(ctx, bookingID, renterID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: booking not found or not cancellable", ErrNotFound)
	}
	metrics.BookingsCancelled.Inc()
	if s.Notifier != nil {
		s.Notifier.NotifyBookingEvent("booking.cancelled", bookingID)
	}
	return nil
}

func (s *BookingService) Summary(ctx context.Context) (*models.BookingSummary, error) {
	return s.Repo.Summary(ctx)
}
