package models

import "time"

// BookingStatus is the persisted lifecycle state of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	// BookingStatusCompleted is derived at read time: a CONFIRMED booking
	// whose end date has passed. It is never written to the bookings table.
	BookingStatusCompleted BookingStatus = "COMPLETED"
)

// IsTerminal reports whether no further renter-initiated transition is allowed.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCancelled || s == BookingStatusCompleted
}

type Booking struct {
	ID            string        `json:"id"`
	CarID         string        `json:"car_id"`
	RenterID      string        `json:"renter_id"`
	StartDate     time.Time     `json:"start_date"`
	EndDate       time.Time     `json:"end_date"`
	TotalPrice    float64       `json:"total_price"`
	Currency      string        `json:"currency"`
	Status        BookingStatus `json:"status"`
	PaymentLinkID string        `json:"payment_link_id,omitempty"`
	PaymentID     string        `json:"payment_id,omitempty"`

	// Joined car metadata for dashboard listings and receipts
	CarMake        string  `json:"car_make,omitempty"`
	CarModel       string  `json:"car_model,omitempty"`
	CarPricePerDay float64 `json:"car_price_per_day,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CheckoutRequest is the validated checkout boundary. The server recomputes
// the total from the car's stored price and these dates; any client-supplied
// amount is ignored.
type CheckoutRequest struct {
	CarID     string `json:"car_id"`
	StartDate string `json:"start_date"` // 2006-01-02
	EndDate   string `json:"end_date"`   // 2006-01-02
}

// CheckoutResponse carries the hosted payment page the renter is redirected to.
type CheckoutResponse struct {
	BookingID string  `json:"booking_id"`
	URL       string  `json:"url"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
}

// BookingSummary is the admin dashboard roll-up.
type BookingSummary struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Cancelled int `json:"cancelled"`
	Completed int `json:"completed"`
}
