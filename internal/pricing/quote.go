// Package pricing computes rental quotes: duration, currency conversion and
// the total a renter is charged at checkout.
package pricing

import (
	"math"
	"time"
)

// DateLayout is the calendar-date format used across the booking flow.
const DateLayout = "2006-01-02"

// Quote is a derived price/duration breakdown for a prospective booking.
// It is never persisted; the grand total is copied onto the booking row at
// checkout time.
type Quote struct {
	PricePerDayBase float64 `json:"price_per_day_base"`
	Days            int     `json:"days"`
	DailyRateLocal  float64 `json:"daily_rate_local"`
	Subtotal        float64 `json:"subtotal"`
	InsuranceFee    float64 `json:"insurance_fee"`
	GrandTotal      float64 `json:"grand_total"`
	Currency        string  `json:"currency"`
}

// Calculator converts a base (USD) daily price into a local-currency total.
// All fields are fixed configuration: the fx rate is not fetched live, which
// means quotes drift when the market moves. Documented operational risk.
type Calculator struct {
	FxRate       float64 // base -> local multiplier
	InsuranceFee float64 // flat per booking, not per day
	FallbackDays int     // used when dates are missing or invalid
	Currency     string
}

// NewCalculator returns a calculator with the long-standing marketplace
// constants: 2500 TZS per USD and a flat 15000 TZS insurance fee.
func NewCalculator() *Calculator {
	return &Calculator{
		FxRate:       2500,
		InsuranceFee: 15000,
		FallbackDays: 3,
		Currency:     "TZS",
	}
}

// Days returns the whole-day rental duration between two calendar dates,
// rounding partial days up. Missing or unparseable dates, and ranges that
// compute to zero or less, fall back to FallbackDays so a quote is always
// producible. The checkout boundary validates dates separately; the fallback
// exists for the public quote surface.
func (c *Calculator) Days(startDate, endDate string) int {
	fallback := c.FallbackDays
	if fallback < 1 {
		fallback = 1
	}

	start, err := time.Parse(DateLayout, startDate)
	if err != nil {
		return fallback
	}
	end, err := time.Parse(DateLayout, endDate)
	if err != nil {
		return fallback
	}

	days := int(math.Ceil(math.Abs(end.Sub(start).Hours()) / 24))
	if days <= 0 {
		return fallback
	}
	return days
}

// Quote computes the full price breakdown for a rental. Pure and
// deterministic: identical inputs always yield identical quotes.
func (c *Calculator) Quote(pricePerDayBase float64, startDate, endDate string) Quote {
	days := c.Days(startDate, endDate)
	dailyRate := pricePerDayBase * c.FxRate
	subtotal := dailyRate * float64(days)

	return Quote{
		PricePerDayBase: pricePerDayBase,
		Days:            days,
		DailyRateLocal:  dailyRate,
		Subtotal:        subtotal,
		InsuranceFee:    c.InsuranceFee,
		GrandTotal:      subtotal + c.InsuranceFee,
		Currency:        c.Currency,
	}
}
