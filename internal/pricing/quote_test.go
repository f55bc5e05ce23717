package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuote_ThreeDayRental(t *testing.T) {
	calc := NewCalculator()

	q := calc.Quote(100, "2024-01-01", "2024-01-04")

	assert.Equal(t, 3, q.Days)
	assert.Equal(t, 250000.0, q.DailyRateLocal)
	assert.Equal(t, 750000.0, q.Subtotal)
	assert.Equal(t, 765000.0, q.GrandTotal)
	assert.Equal(t, "TZS", q.Currency)
}

func TestQuote_SingleDay(t *testing.T) {
	calc := NewCalculator()

	q := calc.Quote(40, "2024-06-10", "2024-06-11")

	assert.Equal(t, 1, q.Days)
	assert.Equal(t, 40*2500.0+15000, q.GrandTotal)
}

func TestDays_MissingDatesFallBack(t *testing.T) {
	calc := NewCalculator()

	assert.Equal(t, 3, calc.Days("", ""))
	assert.Equal(t, 3, calc.Days("2024-01-01", ""))
	assert.Equal(t, 3, calc.Days("", "2024-01-05"))
	assert.Equal(t, 3, calc.Days("not-a-date", "2024-01-05"))
}

func TestDays_SameDayFallsBack(t *testing.T) {
	calc := NewCalculator()

	assert.Equal(t, 3, calc.Days("2024-01-01", "2024-01-01"))
}

func TestDays_ReversedRangeUsesAbsoluteValue(t *testing.T) {
	calc := NewCalculator()

	assert.Equal(t, 3, calc.Days("2024-01-04", "2024-01-01"))
}

func TestDays_NeverBelowOne(t *testing.T) {
	calc := NewCalculator()
	calc.FallbackDays = 0

	assert.GreaterOrEqual(t, calc.Days("", ""), 1)
	assert.GreaterOrEqual(t, calc.Days("2024-01-01", "2024-01-01"), 1)
}

func TestQuote_MissingDatesStillComputable(t *testing.T) {
	calc := NewCalculator()

	q := calc.Quote(100, "", "")

	assert.Equal(t, 3, q.Days)
	assert.Equal(t, 750000.0+15000, q.GrandTotal)
}

func TestQuote_MonotonicInDays(t *testing.T) {
	calc := NewCalculator()

	prev := 0.0
	ends := []string{"2024-03-02", "2024-03-03", "2024-03-08", "2024-03-20"}
	for _, end := range ends {
		q := calc.Quote(55, "2024-03-01", end)
		assert.Greater(t, q.GrandTotal, prev)
		prev = q.GrandTotal
	}
}

func TestQuote_Deterministic(t *testing.T) {
	calc := NewCalculator()

	a := calc.Quote(72.5, "2024-02-01", "2024-02-09")
	b := calc.Quote(72.5, "2024-02-01", "2024-02-09")

	assert.Equal(t, a, b)
}

func TestQuote_NonNegativeFields(t *testing.T) {
	calc := NewCalculator()

	q := calc.Quote(0.01, "2024-01-01", "2024-01-02")

	assert.GreaterOrEqual(t, q.DailyRateLocal, 0.0)
	assert.GreaterOrEqual(t, q.Subtotal, 0.0)
	assert.GreaterOrEqual(t, q.InsuranceFee, 0.0)
	assert.GreaterOrEqual(t, q.GrandTotal, 0.0)
	assert.GreaterOrEqual(t, q.Days, 1)
}
