package http

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amouromar/omba/internal/handlers"
	"github.com/amouromar/omba/internal/middleware"
	"github.com/amouromar/omba/internal/realtime"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	totpHandler *handlers.TOTPHandler,
	profileHandler *handlers.ProfileHandler,
	carHandler *handlers.CarHandler,
	checkoutHandler *handlers.CheckoutHandler,
	bookingHandler *handlers.BookingHandler,
	webhookHandler *handlers.WebhookHandler,
	adminHandler *handlers.AdminHandler,
	healthHandler *handlers.HealthHandler,
	hub *realtime.Hub,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.PanicRecovery)
	r.Use(middleware.RequestLogging)
	r.Use(middleware.MetricsMiddleware)

	// Probes and metrics
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Public API - authentication
	r.HandleFunc("/api/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")

	// Public API - car catalog and quotes
	r.HandleFunc("/api/cars", carHandler.ListCars).Methods("GET")
	r.HandleFunc("/api/cars/{id}", carHandler.GetCar).Methods("GET")
	r.HandleFunc("/api/cars/{id}/quote", carHandler.QuoteCar).Methods("GET")
	r.HandleFunc("/api/categories", carHandler.ListCategories).Methods("GET")
	r.HandleFunc("/api/locations", carHandler.ListLocations).Methods("GET")

	// Payment provider webhook (signature-verified, not JWT)
	r.HandleFunc("/api/webhooks/razorpay", webhookHandler.HandleRazorpay).Methods("POST")

	// Authenticated API - profile and 2FA
	profileAPI := r.PathPrefix("/api/profile").Subrouter()
	profileAPI.Use(authMiddleware.Authenticate)
	profileAPI.HandleFunc("", authHandler.Me).Methods("GET")
	profileAPI.HandleFunc("", profileHandler.UpdateContact).Methods("PUT")
	profileAPI.HandleFunc("/verification", profileHandler.SubmitVerification).Methods("POST")
	profileAPI.HandleFunc("/documents", profileHandler.UploadDocument).Methods("POST")
	profileAPI.HandleFunc("/totp/setup", totpHandler.Setup).Methods("POST")
	profileAPI.HandleFunc("/totp/confirm", totpHandler.Confirm).Methods("POST")

	// Authenticated API - booking dashboard
	bookingAPI := r.PathPrefix("/api/bookings").Subrouter()
	bookingAPI.Use(authMiddleware.Authenticate)
	bookingAPI.HandleFunc("", bookingHandler.ListMine).Methods("GET")
	bookingAPI.HandleFunc("/{id}/cancel", bookingHandler.Cancel).Methods("POST")
	bookingAPI.HandleFunc("/{id}/receipt", bookingHandler.Receipt).Methods("GET")

	// Checkout sits behind the verification gate, not just authentication.
	checkoutAPI := r.PathPrefix("/api/checkout").Subrouter()
	checkoutAPI.Use(authMiddleware.RequireVerified)
	checkoutAPI.HandleFunc("", checkoutHandler.Start).Methods("POST")

	// Admin back office
	adminAPI := r.PathPrefix("/api/admin").Subrouter()
	adminAPI.Use(authMiddleware.RequireAdmin)
	adminAPI.HandleFunc("/users", adminHandler.ListUsers).Methods("GET")
	adminAPI.HandleFunc("/users/{id}/verification", adminHandler.SetUserVerification).Methods("PUT")
	adminAPI.HandleFunc("/cars", adminHandler.ListFleet).Methods("GET")
	adminAPI.HandleFunc("/cars", adminHandler.CreateCar).Methods("POST")
	adminAPI.HandleFunc("/cars/{id}", adminHandler.UpdateCar).Methods("PUT")
	adminAPI.HandleFunc("/cars/{id}", adminHandler.DeleteCar).Methods("DELETE")
	adminAPI.HandleFunc("/cars/{id}/photos", adminHandler.UploadCarPhoto).Methods("POST")
	adminAPI.HandleFunc("/cars/images/{imageId}", adminHandler.DeleteCarImage).Methods("DELETE")
	adminAPI.HandleFunc("/bookings", adminHandler.ListBookings).Methods("GET")
	adminAPI.HandleFunc("/bookings/summary", adminHandler.BookingSummary).Methods("GET")
	adminAPI.HandleFunc("/system/status", adminHandler.SystemStatus).Methods("GET")
	adminAPI.HandleFunc("/events/ws", hub.ServeWS).Methods("GET")

	return r
}
