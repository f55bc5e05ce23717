package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amouromar/omba/internal/models"
	"github.com/amouromar/omba/internal/payment"
	"github.com/amouromar/omba/internal/pricing"
)

// --- Mocks ---

type mockCarGetter struct {
	getFn func(ctx context.Context, id string) (*models.Car, error)
}

func (m *mockCarGetter) Get(ctx context.Context, id string) (*models.Car, error) {
	return m.getFn(ctx, id)
}

type mockBookingStore struct {
	createFn  func(ctx context.Context, b *models.Booking) error
	confirmFn func(ctx context.Context, linkID, paymentID string) (int64, error)
	cancelFn  func(ctx context.Context, linkID string) (int64, error)
}

func (m *mockBookingStore) Create(ctx context.Context, b *models.Booking) error {
	return m.createFn(ctx, b)
}
func (m *mockBookingStore) ConfirmByPaymentLink(ctx context.Context, linkID, paymentID string) (int64, error) {
	return m.confirmFn(ctx, linkID, paymentID)
}
func (m *mockBookingStore) CancelByPaymentLink(ctx context.Context, linkID string) (int64, error) {
	return m.cancelFn(ctx, linkID)
}

type mockGateway struct {
	createLinkFn func(ctx context.Context, req *payment.LinkRequest) (*payment.Link, error)
	cancelLinkFn func(ctx context.Context, linkID string) error
}

func (m *mockGateway) CreateLink(ctx context.Context, req *payment.LinkRequest) (*payment.Link, error) {
	return m.createLinkFn(ctx, req)
}
func (m *mockGateway) CancelLink(ctx context.Context, linkID string) error {
	return m.cancelLinkFn(ctx, linkID)
}

// --- Fixtures ---

func verifiedRenter() *models.Profile {
	return &models.Profile{
		ID:         "renter-1",
		Email:      "asha@example.com",
		FullName:   "Asha Mwalimu",
		IsVerified: true,
	}
}

func availableCar() *models.Car {
	return &models.Car{
		ID:          "car-1",
		Make:        "Toyota",
		Model:       "RAV4",
		PricePerDay: 100,
		IsAvailable: true,
	}
}

func checkoutFixture() (*mockCarGetter, *mockBookingStore, *mockGateway) {
	cars := &mockCarGetter{
		getFn: func(ctx context.Context, id string) (*models.Car, error) {
			return availableCar(), nil
		},
	}
	store := &mockBookingStore{
		createFn: func(ctx context.Context, b *models.Booking) error { return nil },
	}
	gw := &mockGateway{
		createLinkFn: func(ctx context.Context, req *payment.LinkRequest) (*payment.Link, error) {
			return &payment.Link{ID: "plink_123", URL: "https://rzp.io/l/abc"}, nil
		},
		cancelLinkFn: func(ctx context.Context, linkID string) error { return nil },
	}
	return cars, store, gw
}

func newTestCheckout(cars CarGetter, store BookingStore, gw payment.Gateway) *CheckoutService {
	return NewCheckoutService(cars, store, gw, pricing.NewCalculator(), "http://localhost:8080", nil)
}

// --- Tests ---

func TestCheckoutStart_Success(t *testing.T) {
	cars, store, gw := checkoutFixture()

	var created *models.Booking
	store.createFn = func(ctx context.Context, b *models.Booking) error {
		created = b
		return nil
	}

	svc := newTestCheckout(cars, store, gw)
	resp, err := svc.Start(context.Background(), verifiedRenter(), &models.CheckoutRequest{
		CarID:     "car-1",
		StartDate: "2031-01-01",
		EndDate:   "2031-01-04",
	})

	require.NoError(t, err)
	require.NotNil(t, created)

	// 100 USD * 2500 * 3 days + 15000 insurance
	assert.Equal(t, 765000.0, resp.Amount)
	assert.Equal(t, "TZS", resp.Currency)
	assert.Equal(t, "https://rzp.io/l/abc", resp.URL)
	assert.Equal(t, resp.BookingID, created.ID)
	assert.Equal(t, models.BookingStatusPending, created.Status)
	assert.Equal(t, "plink_123", created.PaymentLinkID)
	assert.Equal(t, 765000.0, created.TotalPrice)
}

func TestCheckoutStart_TotalIsComputedServerSide(t *testing.T) {
	cars, store, gw := checkoutFixture()

	var linkReq *payment.LinkRequest
	gw.createLinkFn = func(ctx context.Context, req *payment.LinkRequest) (*payment.Link, error) {
		linkReq = req
		return &payment.Link{ID: "plink_123", URL: "https://rzp.io/l/abc"}, nil
	}

	svc := newTestCheckout(cars, store, gw)
	_, err := svc.Start(context.Background(), verifiedRenter(), &models.CheckoutRequest{
		CarID:     "car-1",
		StartDate: "2031-06-10",
		EndDate:   "2031-06-11",
	})

	require.NoError(t, err)
	require.NotNil(t, linkReq)
	// One day at the stored rate, regardless of anything the client claims.
	assert.Equal(t, 100*2500+15000.0, linkReq.Amount)
}

func TestCheckoutStart_InsertFailureCancelsPaymentLink(t *testing.T) {
	cars, store, gw := checkoutFixture()

	store.createFn = func(ctx context.Context, b *models.Booking) error {
		return errors.New("connection reset by peer")
	}

	var cancelledLink string
	gw.cancelLinkFn = func(ctx context.Context, linkID string) error {
		cancelledLink = linkID
		return nil
	}

	svc := newTestCheckout(cars, store, gw)
	resp, err := svc.Start(context.Background(), verifiedRenter(), &models.CheckoutRequest{
		CarID:     "car-1",
		StartDate: "2031-01-01",
		EndDate:   "2031-01-04",
	})

	assert.Nil(t, resp)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
	// The payable link must not outlive the failed insert.
	assert.Equal(t, "plink_123", cancelledLink)
}

func TestCheckoutStart_InsertFailureSurfacesEvenWhenCancelFails(t *testing.T) {
	cars, store, gw := checkoutFixture()

	store.createFn = func(ctx context.Context, b *models.Booking) error {
		return errors.New("insert failed")
	}
	gw.cancelLinkFn = func(ctx context.Context, linkID string) error {
		return errors.New("gateway timeout")
	}

	svc := newTestCheckout(cars, store, gw)
	_, err := svc.Start(context.Background(), verifiedRenter(), &models.CheckoutRequest{
		CarID:     "car-1",
		StartDate: "2031-01-01",
		EndDate:   "2031-01-04",
	})

	assert.ErrorIs(t, err, ErrUpstream)
}

func TestCheckoutStart_GatewayFailureDoesNotInsert(t *testing.T) {
	cars, store, gw := checkoutFixture()

	gw.createLinkFn = func(ctx context.Context, req *payment.LinkRequest) (*payment.Link, error) {
		return nil, errors.New("razorpay unreachable")
	}
	inserted := false
	store.createFn = func(ctx context.Context, b *models.Booking) error {
		inserted = true
		return nil
	}

	svc := newTestCheckout(cars, store, gw)
	_, err := svc.Start(context.Background(), verifiedRenter(), &models.CheckoutRequest{
		CarID:     "car-1",
		StartDate: "2031-01-01",
		EndDate:   "2031-01-04",
	})

	assert.ErrorIs(t, err, ErrUpstream)
	assert.False(t, inserted)
}

func TestCheckoutStart_RejectsInvalidDates(t *testing.T) {
	cars, store, gw := checkoutFixture()
	svc := newTestCheckout(cars, store, gw)

	cases := []struct {
		name       string
		start, end string
	}{
		{"missing start", "", "2031-01-04"},
		{"missing end", "2031-01-01", ""},
		{"malformed", "01/01/2024", "2031-01-04"},
		{"end equals start", "2031-01-01", "2031-01-01"},
		{"end before start", "2031-01-04", "2031-01-01"},
		{"start in the past", "2020-01-01", "2031-01-04"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Start(context.Background(), verifiedRenter(), &models.CheckoutRequest{
				CarID:     "car-1",
				StartDate: tc.start,
				EndDate:   tc.end,
			})
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCheckoutStart_RejectsUnavailableCar(t *testing.T) {
	cars, store, gw := checkoutFixture()
	cars.getFn = func(ctx context.Context, id string) (*models.Car, error) {
		car := availableCar()
		car.IsAvailable = false
		return car, nil
	}

	svc := newTestCheckout(cars, store, gw)
	_, err := svc.Start(context.Background(), verifiedRenter(), &models.CheckoutRequest{
		CarID:     "car-1",
		StartDate: "2031-01-01",
		EndDate:   "2031-01-04",
	})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestCheckoutStart_UnknownCar(t *testing.T) {
	cars, store, gw := checkoutFixture()
	cars.getFn = func(ctx context.Context, id string) (*models.Car, error) {
		return nil, errors.New("no rows in result set")
	}

	svc := newTestCheckout(cars, store, gw)
	_, err := svc.Start(context.Background(), verifiedRenter(), &models.CheckoutRequest{
		CarID:     "missing",
		StartDate: "2031-01-01",
		EndDate:   "2031-01-04",
	})

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHandlePaymentEvent_PaidConfirmsBooking(t *testing.T) {
	cars, store, gw := checkoutFixture()

	var confirmedLink, confirmedPayment string
	store.confirmFn = func(ctx context.Context, linkID, paymentID string) (int64, error) {
		confirmedLink = linkID
		confirmedPayment = paymentID
		return 1, nil
	}

	svc := newTestCheckout(cars, store, gw)
	err := svc.HandlePaymentEvent(context.Background(), "payment_link.paid", "plink_123", "pay_456")

	require.NoError(t, err)
	assert.Equal(t, "plink_123", confirmedLink)
	assert.Equal(t, "pay_456", confirmedPayment)
}

func TestHandlePaymentEvent_ExpiredCancelsBooking(t *testing.T) {
	cars, store, gw := checkoutFixture()

	var cancelledLink string
	store.cancelFn = func(ctx context.Context, linkID string) (int64, error) {
		cancelledLink = linkID
		return 1, nil
	}

	svc := newTestCheckout(cars, store, gw)
	err := svc.HandlePaymentEvent(context.Background(), "payment_link.expired", "plink_123", "")

	require.NoError(t, err)
	assert.Equal(t, "plink_123", cancelledLink)
}

func TestHandlePaymentEvent_UnknownEventIsNoOp(t *testing.T) {
	cars, store, gw := checkoutFixture()
	store.confirmFn = func(ctx context.Context, linkID, paymentID string) (int64, error) {
		t.Fatal("should not confirm")
		return 0, nil
	}
	store.cancelFn = func(ctx context.Context, linkID string) (int64, error) {
		t.Fatal("should not cancel")
		return 0, nil
	}

	svc := newTestCheckout(cars, store, gw)
	err := svc.HandlePaymentEvent(context.Background(), "order.paid", "plink_123", "pay_456")
	assert.NoError(t, err)
}
