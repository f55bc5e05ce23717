package handlers

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/amouromar/omba/internal/middleware"
	"github.com/amouromar/omba/internal/models"
	"github.com/amouromar/omba/internal/services"
	"github.com/amouromar/omba/pkg/utils"
)

type BookingHandler struct {
	Bookings *services.BookingService
	Receipts *services.ReceiptService
}

func NewBookingHandler(bookings *services.BookingService, receipts *services.ReceiptService) *BookingHandler {
	return &BookingHandler{Bookings: bookings, Receipts: receipts}
}

// ListMine returns the renter's booking dashboard, newest first.
func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	profileID, _ := middleware.GetProfileIDFromContext(r.Context())

	bookings, err := h.Bookings.ListMine(r.Context(), profileID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if bookings == nil {
		bookings = []*models.Booking{}
	}
	utils.JSON(w, http.StatusOK, bookings)
}

// Cancel cancels the renter's own booking. A booking owned by someone else
// is indistinguishable from a missing one.
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	profileID, _ := middleware.GetProfileIDFromContext(r.Context())
	bookingID := mux.Vars(r)["id"]

	if err := h.Bookings.Cancel(r.Context(), bookingID, profileID); err != nil {
		respondServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Booking cancelled"})
}

// Receipt streams the booking receipt PDF.
func (h *BookingHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	profileID, _ := middleware.GetProfileIDFromContext(r.Context())
	role, _ := middleware.GetRoleFromContext(r.Context())
	bookingID := mux.Vars(r)["id"]

	pdf, err := h.Receipts.GenerateBookingReceipt(r.Context(), bookingID, profileID, role == models.RoleAdmin)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", bookingID))
	w.Write(pdf)
}
