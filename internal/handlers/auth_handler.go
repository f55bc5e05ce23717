package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/amouromar/omba/internal/middleware"
	"github.com/amouromar/omba/internal/models"
	"github.com/amouromar/omba/internal/services"
	"github.com/amouromar/omba/pkg/utils"
)

type AuthHandler struct {
	Profiles *services.ProfileService
}

func NewAuthHandler(profiles *services.ProfileService) *AuthHandler {
	return &AuthHandler{Profiles: profiles}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.Profiles.Signup(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.Profiles.Login(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}

// Me returns the authenticated profile, fresh from the database.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	profileID, ok := middleware.GetProfileIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	profile, err := h.Profiles.Get(r.Context(), profileID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, profile)
}
