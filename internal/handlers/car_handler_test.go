package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCarFilter_AllFields(t *testing.T) {
	req := httptest.NewRequest("GET",
		"/api/cars?search=rav4&category_id=suv&location=Dar&min_price=50&max_price=200&transmission=automatic&fuel_type=petrol&seats=5&sort=price_asc", nil)

	filter := parseCarFilter(req)

	assert.Equal(t, "rav4", filter.Search)
	assert.Equal(t, "suv", filter.CategoryID)
	assert.Equal(t, "Dar", filter.Location)
	assert.Equal(t, 50.0, filter.MinPrice)
	assert.Equal(t, 200.0, filter.MaxPrice)
	assert.Equal(t, "automatic", filter.Transmission)
	assert.Equal(t, "petrol", filter.FuelType)
	assert.Equal(t, 5, filter.Seats)
	assert.Equal(t, "price_asc", filter.Sort)
}

func TestParseCarFilter_IgnoresUnparseableNumbers(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/cars?min_price=cheap&seats=many", nil)

	filter := parseCarFilter(req)

	assert.Zero(t, filter.MinPrice)
	assert.Zero(t, filter.Seats)
}

func TestParseCarFilter_Empty(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/cars", nil)

	filter := parseCarFilter(req)

	assert.Empty(t, filter.Search)
	assert.Empty(t, filter.Sort)
	assert.Zero(t, filter.MaxPrice)
}
