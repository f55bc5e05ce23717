package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amouromar/omba/internal/models"
)

type mockBookingReader struct {
	getFn              func(ctx context.Context, id string) (*models.Booking, error)
	listByRenterFn     func(ctx context.Context, renterID string) ([]*models.Booking, error)
	listAllFn          func(ctx context.Context) ([]*models.Booking, error)
	cancelOwnedFn      func(ctx context.Context, bookingID, renterID string) (int64, error)
	summaryFn          func(ctx context.Context) (*models.BookingSummary, error)
	listStalePendingFn func(ctx context.Context, maxAge time.Duration) ([]*models.Booking, error)
}

func (m *mockBookingReader) Get(ctx context.Context, id string) (*models.Booking, error) {
	return m.getFn(ctx, id)
}
func (m *mockBookingReader) ListByRenter(ctx context.Context, renterID string) ([]*models.Booking, error) {
	return m.listByRenterFn(ctx, renterID)
}
func (m *mockBookingReader) ListAll(ctx context.Context) ([]*models.Booking, error) {
	return m.listAllFn(ctx)
}
func (m *mockBookingReader) CancelOwned(ctx context.Context, bookingID, renterID string) (int64, error) {
	return m.cancelOwnedFn(ctx, bookingID, renterID)
}
func (m *mockBookingReader) Summary(ctx context.Context) (*models.BookingSummary, error) {
	return m.summaryFn(ctx)
}
func (m *mockBookingReader) ListStalePending(ctx context.Context, maxAge time.Duration) ([]*models.Booking, error) {
	return m.listStalePendingFn(ctx, maxAge)
}

type recordingNotifier struct {
	events []string
}

func (n *recordingNotifier) NotifyBookingEvent(event, bookingID string) {
	n.events = append(n.events, event+":"+bookingID)
}

func TestCancelBooking_OwnerCancelsPending(t *testing.T) {
	repo := &mockBookingReader{
		cancelOwnedFn: func(ctx context.Context, bookingID, renterID string) (int64, error) {
			assert.Equal(t, "b-1", bookingID)
			assert.Equal(t, "renter-1", renterID)
			return 1, nil
		},
	}
	notifier := &recordingNotifier{}

	svc := NewBookingService(repo, notifier)
	err := svc.Cancel(context.Background(), "b-1", "renter-1")

	require.NoError(t, err)
	assert.Equal(t, []string{"booking.cancelled:b-1"}, notifier.events)
}

// A renter cancelling someone else's booking matches zero rows; the caller
// cannot tell that apart from a booking that does not exist.
func TestCancelBooking_NonOwnerGetsNotFound(t *testing.T) {
	repo := &mockBookingReader{
		cancelOwnedFn: func(ctx context.Context, bookingID, renterID string) (int64, error) {
			return 0, nil
		},
	}
	notifier := &recordingNotifier{}

	svc := NewBookingService(repo, notifier)
	err := svc.Cancel(context.Background(), "b-1", "someone-else")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, notifier.events)
}

func TestCancelBooking_TerminalStateGetsNotFound(t *testing.T) {
	// CANCELLED and completed bookings are excluded by the UPDATE's WHERE
	// clause, so they also surface as zero rows.
	repo := &mockBookingReader{
		cancelOwnedFn: func(ctx context.Context, bookingID, renterID string) (int64, error) {
			return 0, nil
		},
	}

	svc := NewBookingService(repo, nil)
	err := svc.Cancel(context.Background(), "b-done", "renter-1")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelBooking_MissingID(t *testing.T) {
	svc := NewBookingService(&mockBookingReader{}, nil)
	err := svc.Cancel(context.Background(), "", "renter-1")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListMine_ScopedToRenter(t *testing.T) {
	repo := &mockBookingReader{
		listByRenterFn: func(ctx context.Context, renterID string) ([]*models.Booking, error) {
			assert.Equal(t, "renter-1", renterID)
			return []*models.Booking{{ID: "b-1", RenterID: "renter-1"}}, nil
		},
	}

	svc := NewBookingService(repo, nil)
	bookings, err := svc.ListMine(context.Background(), "renter-1")

	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "b-1", bookings[0].ID)
}

func TestBookingStatusIsTerminal(t *testing.T) {
	assert.False(t, models.BookingStatusPending.IsTerminal())
	assert.False(t, models.BookingStatusConfirmed.IsTerminal())
	assert.True(t, models.BookingStatusCancelled.IsTerminal())
	assert.True(t, models.BookingStatusCompleted.IsTerminal())
}
