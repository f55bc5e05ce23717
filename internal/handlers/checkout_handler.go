package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/amouromar/omba/internal/middleware"
	"github.com/amouromar/omba/internal/models"
	"github.com/amouromar/omba/internal/services"
	"github.com/amouromar/omba/pkg/utils"
)

type CheckoutHandler struct {
	Checkout *services.CheckoutService
	Profiles *services.ProfileService
}

func NewCheckoutHandler(checkout *services.CheckoutService, profiles *services.ProfileService) *CheckoutHandler {
	return &CheckoutHandler{Checkout: checkout, Profiles: profiles}
}

// Start begins checkout for the authenticated, verified renter and responds
// with the hosted payment page URL. Authentication and the verification gate
// are enforced by middleware before this runs.
func (h *CheckoutHandler) Start(w http.ResponseWriter, r *http.Request) {
	profileID, ok := middleware.GetProfileIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile, err := h.Profiles.Get(r.Context(), profileID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	resp, err := h.Checkout.Start(r.Context(), profile, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, resp)
}
