package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "omba_http_requests_total",
			Help: "Total HTTP requests by method, path and status code",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "omba_http_request_duration_seconds",
			Help:    "HTTP request latency by method and path",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	CheckoutsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "omba_checkouts_started_total",
			Help: "Checkout sessions created (payment link issued)",
		},
	)

	CheckoutsCompensated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "omba_checkouts_compensated_total",
			Help: "Payment links cancelled because the booking insert failed",
		},
	)

	BookingsConfirmed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "omba_bookings_confirmed_total",
			Help: "Bookings confirmed via payment webhook",
		},
	)

	BookingsCancelled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "omba_bookings_cancelled_total",
			Help: "Bookings cancelled by renters",
		},
	)
)
