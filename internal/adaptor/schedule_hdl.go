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

type ScheduleHandler struct {
	service usecase.ScheduleService
	log     *zap.Logger
}

func NewScheduleHandler(service usecase.ScheduleService, log *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		service: service,
		log:     log.With(zap.String("handler", "schedule")),
	}
}

// CreateShowTime handles POST /api/show-times
func (h *ScheduleHandler) CreateShowTime(w http.ResponseWriter, r *http.Request) {
	var req request.CreateShowTimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	showTime, err := h.service.CreateShowTime(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create show time")
		return
	}

	utils.ResponseCreated(w, "success", showTime)
}

// GetShowTime handles GET /api/show-times/{id}
func (h *ScheduleHandler) GetShowTime(w http.ResponseWriter, r *http.Request) {
	showTimeID := chi.URLParam(r, "id")

	showTime, err := h.service.GetShowTime(r.Context(), showTimeID)
	if err != nil {
		handleServiceError(w, h.log, err, "get show time")
		return
	}

	utils.ResponseSuccess(w, "success", showTime)
}

// GetRoomTimetable handles GET /api/rooms/{id}/show-times?date=YYYY-MM-DD
func (h *ScheduleHandler) GetRoomTimetable(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	date := r.URL.Query().Get("date")

	timetable, err := h.service.GetRoomTimetable(r.Context(), roomID, date)
	if err != nil {
		handleServiceError(w, h.log, err, "get room timetable")
		return
	}

	utils.ResponseSuccess(w, "success", timetable)
}
