package wire

import (
	"cinema-ticketing/internal/adaptor"
	"cinema-ticketing/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReservation(
	r chi.Router,
	reservationHandler *adaptor.ReservationHandler,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require identity) ====================
	// Mutating booking routes need the caller's identity from the gateway.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Identity(log))

		// POST /api/bookings/hold - Hold seats for a show time
		r.Post("/api/bookings/hold", reservationHandler.Hold)

		// POST /api/bookings/confirm - Confirm a held booking with payment
		r.Post("/api/bookings/confirm", reservationHandler.Confirm)

		// POST /api/bookings/{id}/cancel - Release a held booking
		r.Post("/api/bookings/{id}/cancel", reservationHandler.Cancel)

		// GET /api/bookings/{id} - Booking detail with seat labels
		r.Get("/api/bookings/{id}", reservationHandler.GetBooking)
	})

	// ==================== PUBLIC ROUTES ====================
	// GET /api/show-times/{id}/seats - Expiry-aware seat availability map
	r.Get("/api/show-times/{id}/seats", reservationHandler.GetSeatAvailability)

	// ==================== MAINTENANCE ROUTES ====================
	// POST /api/bookings/expire-stale - Sweep stale holds (external cron)
	r.Post("/api/bookings/expire-stale", reservationHandler.ExpireStale)
}
