package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/amouromar/omba/internal/models"
	"github.com/amouromar/omba/internal/pricing"
	"github.com/amouromar/omba/internal/services"
	"github.com/amouromar/omba/pkg/utils"
)

type CarHandler struct {
	Cars *services.CarService
	Calc *pricing.Calculator
}

func NewCarHandler(cars *services.CarService, calc *pricing.Calculator) *CarHandler {
	return &CarHandler{Cars: cars, Calc: calc}
}

// parseCarFilter reads browse filters from the query string. Unparseable
// numeric values are treated as absent rather than rejected.
func parseCarFilter(r *http.Request) *models.CarFilter {
	q := r.URL.Query()
	filter := &models.CarFilter{
		Search:       q.Get("search"),
		CategoryID:   q.Get("category_id"),
		Location:     q.Get("location"),
		Transmission: q.Get("transmission"),
		FuelType:     q.Get("fuel_type"),
		Sort:         q.Get("sort"),
	}
	if v, err := strconv.ParseFloat(q.Get("min_price"), 64); err == nil {
		filter.MinPrice = v
	}
	if v, err := strconv.ParseFloat(q.Get("max_price"), 64); err == nil {
		filter.MaxPrice = v
	}
	if v, err := strconv.Atoi(q.Get("seats")); err == nil {
		filter.Seats = v
	}
	return filter
}

func (h *CarHandler) ListCars(w http.ResponseWriter, r *http.Request) {
	filter := parseCarFilter(r)
	// Encode() sorts keys, so equivalent queries share a cache entry.
	cars, err := h.Cars.ListCars(r.Context(), filter, r.URL.Query().Encode())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, cars)
}

func (h *CarHandler) GetCar(w http.ResponseWriter, r *http.Request) {
	car, err := h.Cars.GetCar(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Car not found")
		return
	}
	utils.JSON(w, http.StatusOK, car)
}

// QuoteCar prices a prospective rental. Missing or invalid dates still
// produce a quote with the default duration; checkout is stricter.
func (h *CarHandler) QuoteCar(w http.ResponseWriter, r *http.Request) {
	car, err := h.Cars.GetCar(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Car not found")
		return
	}

	q := r.URL.Query()
	quote := h.Calc.Quote(car.PricePerDay, q.Get("start_date"), q.Get("end_date"))
	utils.JSON(w, http.StatusOK, quote)
}

func (h *CarHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Cars.ListCategories(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, categories)
}

func (h *CarHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.Cars.ListLocations(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, locations)
}
