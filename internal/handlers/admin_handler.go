package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/amouromar/omba/internal/cache"
	"github.com/amouromar/omba/internal/models"
	"github.com/amouromar/omba/internal/services"
	"github.com/amouromar/omba/internal/storage"
	"github.com/amouromar/omba/pkg/utils"
)

// AdminHandler is the back office: user verification, fleet management and
// booking oversight. Every route is behind RequireAdmin.
type AdminHandler struct {
	Profiles *services.ProfileService
	Cars     *services.CarService
	Bookings *services.BookingService
	Storage  *storage.Client
	DB       *pgxpool.Pool
}

func NewAdminHandler(profiles *services.ProfileService, cars *services.CarService,
	bookings *services.BookingService, st *storage.Client, db *pgxpool.Pool) *AdminHandler {
	return &AdminHandler{Profiles: profiles, Cars: cars, Bookings: bookings, Storage: st, DB: db}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Profiles.ListAll(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, users)
}

// SetUserVerification approves or revokes a renter's verified status.
func (h *AdminHandler) SetUserVerification(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req struct {
		Verified bool `json:"verified"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Profiles.SetVerified(r.Context(), id, req.Verified); err != nil {
		respondServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{"id": id, "verified": req.Verified})
}

func (h *AdminHandler) ListFleet(w http.ResponseWriter, r *http.Request) {
	cars, err := h.Cars.ListFleet(r.Context(), parseCarFilter(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, cars)
}

func (h *AdminHandler) CreateCar(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	car, err := h.Cars.CreateCar(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, car)
}

func (h *AdminHandler) UpdateCar(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateCarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	car, err := h.Cars.UpdateCar(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, car)
}

func (h *AdminHandler) DeleteCar(w http.ResponseWriter, r *http.Request) {
	if err := h.Cars.DeleteCar(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Car deleted"})
}

// UploadCarPhoto stores a fleet photo in object storage and records it
// against the car.
func (h *AdminHandler) UploadCarPhoto(w http.ResponseWriter, r *http.Request) {
	if h.Storage == nil {
		utils.Error(w, http.StatusServiceUnavailable, "File storage is not configured")
		return
	}
	carID := mux.Vars(r)["id"]

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "A file upload is required")
		return
	}
	defer file.Close()

	if !isAllowedImage(header.Filename) {
		utils.Error(w, http.StatusBadRequest, "Only JPG, PNG and WEBP files are accepted")
		return
	}

	url, err := h.Storage.UploadCarPhoto(r.Context(), carID, header.Filename,
		header.Header.Get("Content-Type"), file)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	img, err := h.Cars.AddImage(r.Context(), carID, &models.AddCarImageRequest{
		URL:       url,
		Type:      r.URL.Query().Get("type"),
		IsPrimary: r.URL.Query().Get("primary") == "true",
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, img)
}

func (h *AdminHandler) DeleteCarImage(w http.ResponseWriter, r *http.Request) {
	if err := h.Cars.DeleteImage(r.Context(), mux.Vars(r)["imageId"]); err != nil {
		respondServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Image deleted"})
}

func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.Bookings.ListAll(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if bookings == nil {
		bookings = []*models.Booking{}
	}
	utils.JSON(w, http.StatusOK, bookings)
}

func (h *AdminHandler) BookingSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Bookings.Summary(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, summary)
}

// SystemStatus reports host and database health for the admin dashboard.
func (h *AdminHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "healthy"
	start := time.Now()
	if err := h.DB.Ping(ctx); err != nil {
		dbStatus = "unhealthy"
	}
	dbLatency := time.Since(start).Milliseconds()

	var dbSizeBytes int64
	h.DB.QueryRow(ctx, "SELECT pg_database_size(current_database())").Scan(&dbSizeBytes)

	cpuPercents, _ := cpu.Percent(0, false)
	cpuPercent := 0.0
	if len(cpuPercents) > 0 {
		cpuPercent = cpuPercents[0]
	}
	memStats, _ := mem.VirtualMemory()
	diskStats, _ := disk.Usage("/")

	status := map[string]interface{}{
		"database": map[string]interface{}{
			"status":     dbStatus,
			"latency_ms": dbLatency,
			"size":       fmt.Sprintf("%.2f MB", float64(dbSizeBytes)/(1024*1024)),
		},
		"cache": map[string]interface{}{
			"healthy": cache.IsHealthy(),
		},
		"system": map[string]interface{}{
			"cpu_percent":    cpuPercent,
			"memory_percent": memStats.UsedPercent,
			"disk_percent":   diskStats.UsedPercent,
			"goroutines":     runtime.NumGoroutine(),
		},
	}
	utils.JSON(w, http.StatusOK, status)
}
