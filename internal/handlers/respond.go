package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/amouromar/omba/internal/services"
	"github.com/amouromar/omba/pkg/utils"
)

// respondServiceError maps the service error taxonomy onto HTTP statuses.
// Upstream failures get a generic message; the cause stays in the logs.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrForbidden):
		utils.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrEmailTaken):
		utils.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrTOTPRequired):
		utils.JSON(w, http.StatusUnauthorized, map[string]interface{}{
			"error":         "two-factor code required",
			"totp_required": true,
		})
	case errors.Is(err, services.ErrUpstream):
		utils.Error(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
	default:
		log.Printf("[HTTP] unhandled service error: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
