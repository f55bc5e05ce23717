package handlers

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/amouromar/omba/internal/middleware"
	"github.com/amouromar/omba/internal/models"
	"github.com/amouromar/omba/internal/services"
	"github.com/amouromar/omba/internal/storage"
	"github.com/amouromar/omba/pkg/utils"
)

const maxUploadBytes = 10 << 20 // 10 MiB per document

type ProfileHandler struct {
	Profiles *services.ProfileService
	Storage  *storage.Client
}

func NewProfileHandler(profiles *services.ProfileService, st *storage.Client) *ProfileHandler {
	return &ProfileHandler{Profiles: profiles, Storage: st}
}

func (h *ProfileHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	profileID, _ := middleware.GetProfileIDFromContext(r.Context())

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile, err := h.Profiles.UpdateContact(r.Context(), profileID, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, profile)
}

// SubmitVerification stores document numbers and URLs for admin review.
func (h *ProfileHandler) SubmitVerification(w http.ResponseWriter, r *http.Request) {
	profileID, _ := middleware.GetProfileIDFromContext(r.Context())

	var req models.SubmitVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile, err := h.Profiles.SubmitVerification(r.Context(), profileID, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, profile)
}

var allowedDocumentKinds = map[string]bool{
	"national_id":    true,
	"driver_license": true,
	"selfie":         true,
	"avatar":         true,
}

// UploadDocument stores an identity document (or avatar) in object storage
// and returns its public URL. The client then submits the URL with the rest
// of the verification form.
func (h *ProfileHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	if h.Storage == nil {
		utils.Error(w, http.StatusServiceUnavailable, "File storage is not configured")
		return
	}
	profileID, _ := middleware.GetProfileIDFromContext(r.Context())

	kind := r.URL.Query().Get("kind")
	if !allowedDocumentKinds[kind] {
		utils.Error(w, http.StatusBadRequest, "Unknown document kind")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "A file upload is required")
		return
	}
	defer file.Close()

	if !isAllowedImage(header.Filename) {
		utils.Error(w, http.StatusBadRequest, "Only JPG, PNG and PDF files are accepted")
		return
	}

	url, err := h.Storage.UploadDocument(r.Context(), profileID, kind, header.Filename,
		header.Header.Get("Content-Type"), file)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Upload failed")
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"url": url})
}

func isAllowedImage(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png", ".webp", ".pdf":
		return true
	}
	return false
}
