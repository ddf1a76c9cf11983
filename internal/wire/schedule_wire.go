package wire

import (
	"cinema-ticketing/internal/adaptor"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireSchedule(
	r chi.Router,
	scheduleHandler *adaptor.ScheduleHandler,
	log *zap.Logger,
) {
	// ==================== OPERATOR ROUTES ====================
	// POST /api/show-times - Place a screening, 409 with suggestions on conflict
	r.Post("/api/show-times", scheduleHandler.CreateShowTime)

	// GET /api/show-times/{id} - Show time view with recomputed availability
	r.Get("/api/show-times/{id}", scheduleHandler.GetShowTime)

	// GET /api/rooms/{id}/show-times?date=YYYY-MM-DD - Room day timetable
	r.Get("/api/rooms/{id}/show-times", scheduleHandler.GetRoomTimetable)
}
