package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amouromar/omba/internal/models"
)

type BookingRepository struct {
	DB *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{DB: db}
}

// displayStatus derives COMPLETED at read time: a CONFIRMED booking whose end
// date has passed is shown as COMPLETED without ever being rewritten.
const displayStatus = `CASE WHEN b.status = 'CONFIRMED' AND b.end_date < CURRENT_DATE
	THEN 'COMPLETED' ELSE b.status END`

const bookingColumns = `b.id, b.car_id, b.renter_id, b.start_date, b.end_date,
	b.total_price, b.currency, ` + displayStatus + ` as status,
	COALESCE(b.payment_link_id, '') as payment_link_id,
	COALESCE(b.payment_id, '') as payment_id,
	c.make, c.model, c.price_per_day, b.created_at, b.updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(&b.ID, &b.CarID, &b.RenterID, &b.StartDate, &b.EndDate,
		&b.TotalPrice, &b.Currency, &b.Status, &b.PaymentLinkID, &b.PaymentID,
		&b.CarMake, &b.CarModel, &b.CarPricePerDay, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a booking with the caller-supplied ID. The ID is minted
// before the payment link is created so the link can reference it.
func (r *BookingRepository) Create(ctx context.Context, b *models.Booking) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO bookings(id, car_id, renter_id, start_date, end_date, total_price, currency, status, payment_link_id)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
         RETURNING created_at, updated_at`,
		b.ID, b.CarID, b.RenterID, b.StartDate, b.EndDate, b.TotalPrice, b.Currency,
		b.Status, b.PaymentLinkID,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
}

func (r *BookingRepository) Get(ctx context.Context, id string) (*models.Booking, error) {
	return scanBooking(r.DB.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings b JOIN cars c ON c.id = b.car_id
		 WHERE b.id=$1`, id))
}

func (r *BookingRepository) ListByRenter(ctx context.Context, renterID string) ([]*models.Booking, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+bookingColumns+` FROM bookings b JOIN cars c ON c.id = b.car_id
		 WHERE b.renter_id=$1 ORDER BY b.created_at DESC`, renterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *BookingRepository) ListAll(ctx context.Context) ([]*models.Booking, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+bookingColumns+` FROM bookings b JOIN cars c ON c.id = b.car_id
		 ORDER BY b.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// CancelOwned marks a booking CANCELLED. The WHERE clause enforces both
// ownership and the state machine: a non-owner, a cancelled booking, or a
// confirmed booking past its end date (derived COMPLETED) all match zero
// rows and nothing changes.
func (r *BookingRepository) CancelOwned(ctx context.Context, bookingID, renterID string) (int64, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE bookings SET status='CANCELLED', updated_at=CURRENT_TIMESTAMP
         WHERE id=$1 AND renter_id=$2
           AND status IN ('PENDING', 'CONFIRMED')
           AND NOT (status = 'CONFIRMED' AND end_date < CURRENT_DATE)`,
		bookingID, renterID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ConfirmByPaymentLink transitions the PENDING booking referencing a payment
// link to CONFIRMED. Idempotent: replayed webhooks match zero rows.
func (r *BookingRepository) ConfirmByPaymentLink(ctx context.Context, paymentLinkID, paymentID string) (int64, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE bookings SET status='CONFIRMED', payment_id=$2, updated_at=CURRENT_TIMESTAMP
         WHERE payment_link_id=$1 AND status='PENDING'`,
		paymentLinkID, paymentID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// CancelByPaymentLink cancels the PENDING booking for a failed or expired
// payment link.
func (r *BookingRepository) CancelByPaymentLink(ctx context.Context, paymentLinkID string) (int64, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE bookings SET status='CANCELLED', updated_at=CURRENT_TIMESTAMP
         WHERE payment_link_id=$1 AND status='PENDING'`,
		paymentLinkID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListStalePending returns PENDING bookings older than maxAge, i.e. checkouts
// whose payment link has lapsed without capture.
func (r *BookingRepository) ListStalePending(ctx context.Context, maxAge time.Duration) ([]*models.Booking, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+bookingColumns+` FROM bookings b JOIN cars c ON c.id = b.car_id
		 WHERE b.status='PENDING' AND b.created_at < $1
		 ORDER BY b.created_at`, time.Now().Add(-maxAge))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *BookingRepository) Summary(ctx context.Context) (*models.BookingSummary, error) {
	var s models.BookingSummary
	err := r.DB.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'PENDING'),
			COUNT(*) FILTER (WHERE status = 'CONFIRMED' AND end_date >= CURRENT_DATE),
			COUNT(*) FILTER (WHERE status = 'CANCELLED'),
			COUNT(*) FILTER (WHERE status = 'CONFIRMED' AND end_date < CURRENT_DATE)
		FROM bookings`,
	).Scan(&s.Total, &s.Pending, &s.Confirmed, &s.Cancelled, &s.Completed)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
