package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/amouromar/omba/internal/auth"
	"github.com/amouromar/omba/internal/cache"
	"github.com/amouromar/omba/internal/config"
	"github.com/amouromar/omba/internal/database"
	"github.com/amouromar/omba/internal/db"
	"github.com/amouromar/omba/internal/handlers"
	"github.com/amouromar/omba/internal/health"
	h "github.com/amouromar/omba/internal/http"
	"github.com/amouromar/omba/internal/jobs"
	"github.com/amouromar/omba/internal/middleware"
	"github.com/amouromar/omba/internal/payment"
	"github.com/amouromar/omba/internal/pricing"
	"github.com/amouromar/omba/internal/realtime"
	"github.com/amouromar/omba/internal/repositories"
	"github.com/amouromar/omba/internal/services"
	"github.com/amouromar/omba/internal/storage"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	pool := db.Connect(cfg)
	defer pool.Close()

	// Redis is optional: a miss just means every read hits Postgres.
	if err := cache.Init(); err != nil {
		log.Printf("[Redis] Cache unavailable: %v", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	log.Println("Running database migrations...")
	migrator := database.NewMigrator(pool, "migrations")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	healthChecker := health.NewHealthChecker(pool)
	jwtManager := auth.NewJWTManager(cfg)

	store, err := storage.New(cfg)
	if err != nil {
		log.Printf("[Storage] R2 unavailable: %v (uploads disabled)", err)
	}

	gateway := payment.NewRazorpayGateway(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, cfg.Razorpay.WebhookSecret)
	calc := &pricing.Calculator{
		FxRate:       cfg.Pricing.FxRate,
		InsuranceFee: cfg.Pricing.InsuranceFee,
		FallbackDays: cfg.Pricing.FallbackDays,
		Currency:     cfg.Pricing.Currency,
	}

	hub := realtime.NewHub()

	// Repositories
	profileRepo := repositories.NewProfileRepository(pool)
	carRepo := repositories.NewCarRepository(pool)
	bookingRepo := repositories.NewBookingRepository(pool)

	// Services
	profileService := services.NewProfileService(profileRepo, jwtManager)
	carService := services.NewCarService(carRepo)
	bookingService := services.NewBookingService(bookingRepo, hub)
	checkoutService := services.NewCheckoutService(carRepo, bookingRepo, gateway, calc, cfg.Server.BaseURL, hub)
	receiptService := services.NewReceiptService(bookingRepo, calc)

	// Handlers
	authHandler := handlers.NewAuthHandler(profileService)
	totpHandler := handlers.NewTOTPHandler(profileService)
	profileHandler := handlers.NewProfileHandler(profileService, store)
	carHandler := handlers.NewCarHandler(carService, calc)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, profileService)
	bookingHandler := handlers.NewBookingHandler(bookingService, receiptService)
	webhookHandler := handlers.NewWebhookHandler(gateway, checkoutService)
	adminHandler := handlers.NewAdminHandler(profileService, carService, bookingService, store, pool)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, profileRepo)

	sweeper := jobs.NewStaleCheckoutSweeper(bookingRepo, bookingRepo, gateway)
	sweeper.Start()
	defer sweeper.Stop()

	router := h.NewRouter(
		authHandler,
		totpHandler,
		profileHandler,
		carHandler,
		checkoutHandler,
		bookingHandler,
		webhookHandler,
		adminHandler,
		healthHandler,
		hub,
		authMiddleware,
	)

	handler := middleware.NewCORS(cfg)(router)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Omba server listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
