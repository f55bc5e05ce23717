package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/amouromar/omba/internal/middleware"
	"github.com/amouromar/omba/internal/services"
	"github.com/amouromar/omba/pkg/utils"
)

type TOTPHandler struct {
	Profiles *services.ProfileService
}

func NewTOTPHandler(profiles *services.ProfileService) *TOTPHandler {
	return &TOTPHandler{Profiles: profiles}
}

// Setup generates a new TOTP secret and QR code for the logged-in profile.
func (h *TOTPHandler) Setup(w http.ResponseWriter, r *http.Request) {
	profileID, _ := middleware.GetProfileIDFromContext(r.Context())

	setup, err := h.Profiles.SetupTOTP(r.Context(), profileID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, setup)
}

// Confirm enables 2FA once the profile proves it holds the secret.
func (h *TOTPHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	profileID, _ := middleware.GetProfileIDFromContext(r.Context())

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Profiles.ConfirmTOTP(r.Context(), profileID, req.Code); err != nil {
		respondServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Two-factor authentication enabled"})
}
