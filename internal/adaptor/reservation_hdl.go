package adaptor

import (
	"encoding/json"
	"net/http"

	"cinema-ticketing/internal/dto/request"
	"cinema-ticketing/internal/usecase"
	"cinema-ticketing/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReservationHandler struct {
	service usecase.ReservationService
	log     *zap.Logger
}

func NewReservationHandler(service usecase.ReservationService, log *zap.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		log:     log.With(zap.String("handler", "reservation")),
	}
}

// GetSeatAvailability handles GET /api/show-times/{id}/seats (public)
func (h *ReservationHandler) GetSeatAvailability(w http.ResponseWriter, r *http.Request) {
	showTimeID := chi.URLParam(r, "id")

	seats, err := h.service.GetSeatAvailability(r.Context(), showTimeID)
	if err != nil {
		handleServiceError(w, h.log, err, "get seat availability")
		return
	}

	utils.ResponseSuccess(w, "success", seats)
}

// Hold handles POST /api/bookings/hold (protected)
func (h *ReservationHandler) Hold(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.HoldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	hold, err := h.service.Hold(r.Context(), userID.String(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "hold seats")
		return
	}

	utils.ResponseCreated(w, "success", hold)
}

// Confirm handles POST /api/bookings/confirm (protected)
func (h *ReservationHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	confirmation, err := h.service.Confirm(r.Context(), userID.String(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "confirm booking")
		return
	}

	utils.ResponseSuccess(w, "success", confirmation)
}

// Cancel handles POST /api/bookings/{id}/cancel (protected)
func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID := chi.URLParam(r, "id")

	if err := h.service.Cancel(r.Context(), userID.String(), bookingID); err != nil {
		handleServiceError(w, h.log, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// GetBooking handles GET /api/bookings/{id} (protected)
func (h *ReservationHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID := chi.URLParam(r, "id")

	booking, err := h.service.GetBooking(r.Context(), userID.String(), bookingID)
	if err != nil {
		handleServiceError(w, h.log, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// ExpireStale handles POST /api/bookings/expire-stale. Intended for an
// external cron; reads are already expiry-aware so this is cleanup only.
func (h *ReservationHandler) ExpireStale(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.ExpireStale(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "expire stale holds")
		return
	}

	utils.ResponseSuccess(w, "success", map[string]int64{"expired": count})
}
