package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	availabilityFetch = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "venuehub_bot",
			Name:      "availability_fetch_total",
			Help:      "Count of availability window fetches by outcome.",
		},
		[]string{"outcome"},
	)

	availabilityStaleDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "venuehub_bot",
			Name:      "availability_stale_dropped_total",
			Help:      "Count of superseded availability results discarded by the loader.",
		},
	)

	durationAutoAdjusted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "venuehub_bot",
			Name:      "duration_auto_adjusted_total",
			Help:      "Count of duration selections clamped after a fresh availability fetch.",
		},
	)

	bookingCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "venuehub_bot",
			Name:      "booking_created_total",
			Help:      "Count of bookings created by status.",
		},
		[]string{"status"},
	)

	bookingCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "venuehub_bot",
			Name:      "booking_cancelled_total",
			Help:      "Count of bookings cancelled by users.",
		},
	)

	slotValidation = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "venuehub_bot",
			Name:      "slot_validation_total",
			Help:      "Count of slot validation calls by outcome.",
		},
		[]string{"outcome"},
	)

	contestEntry = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "venuehub_bot",
			Name:      "contest_entry_total",
			Help:      "Count of contest entry submissions by status.",
		},
		[]string{"status"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			availabilityFetch,
			availabilityStaleDropped,
			durationAutoAdjusted,
			bookingCreated,
			bookingCancelled,
			slotValidation,
			contestEntry,
		)
	})
}

func IncAvailabilityFetch(outcome string) {
	availabilityFetch.WithLabelValues(outcome).Inc()
}

func IncAvailabilityStaleDropped() {
	availabilityStaleDropped.Inc()
}

func IncDurationAutoAdjusted() {
	durationAutoAdjusted.Inc()
}

func IncBookingCreated(status string) {
	bookingCreated.WithLabelValues(status).Inc()
}

func IncBookingCancelled() {
	bookingCancelled.Inc()
}

func IncSlotValidation(outcome string) {
	slotValidation.WithLabelValues(outcome).Inc()
}

func IncContestEntry(status string) {
	contestEntry.WithLabelValues(status).Inc()
}
