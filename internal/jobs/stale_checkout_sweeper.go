// Package jobs runs the background maintenance schedules.
package jobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/amouromar/omba/internal/metrics"
	"github.com/amouromar/omba/internal/payment"
	"github.com/amouromar/omba/internal/services"
)

// stalePendingAge is how long a PENDING booking may wait for payment before
// its link is expired and the booking cancelled.
const stalePendingAge = 24 * time.Hour

// StaleCheckoutSweeper cancels PENDING bookings whose payment link was never
// paid. Without it, abandoned checkouts hold PENDING rows forever.
type StaleCheckoutSweeper struct {
	cron     *cron.Cron
	bookings services.BookingReader
	store    services.BookingStore
	gateway  payment.Gateway
}

func NewStaleCheckoutSweeper(bookings services.BookingReader, store services.BookingStore, gateway payment.Gateway) *StaleCheckoutSweeper {
	return &StaleCheckoutSweeper{
		cron:     cron.New(),
		bookings: bookings,
		store:    store,
		gateway:  gateway,
	}
}

func (s *StaleCheckoutSweeper) Start() {
	s.cron.AddFunc("@every 1h", func() {
		s.sweep()
	})
	s.cron.Start()
	log.Println("[Jobs] stale checkout sweeper started")
}

// Stop waits for a running sweep to finish.
func (s *StaleCheckoutSweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("[Jobs] stale checkout sweeper stopped")
}

func (s *StaleCheckoutSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	stale, err := s.bookings.ListStalePending(ctx, stalePendingAge)
	if err != nil {
		log.Printf("[Jobs] failed to list stale checkouts: %v", err)
		return
	}
	if len(stale) == 0 {
		return
	}

	log.Printf("[Jobs] sweeping %d stale checkout(s)", len(stale))
	for _, b := range stale {
		if b.PaymentLinkID != "" {
			if err := s.gateway.CancelLink(ctx, b.PaymentLinkID); err != nil {
				// Link may already be expired on the provider's side.
				log.Printf("[Jobs] could not cancel link %s: %v", b.PaymentLinkID, err)
			}
			if _, err := s.store.CancelByPaymentLink(ctx, b.PaymentLinkID); err != nil {
				log.Printf("[Jobs] could not cancel booking %s: %v", b.ID, err)
				continue
			}
			metrics.BookingsCancelled.Inc()
		}
	}
}
