package adaptor

import (
	"errors"
	"net/http"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/internal/dto/response"
	"cinema-ticketing/internal/usecase"
	"cinema-ticketing/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Reservation *ReservationHandler
	Schedule    *ScheduleHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Reservation: NewReservationHandler(service.Reservation, log),
		Schedule:    NewScheduleHandler(service.Schedule, log),
	}
}

// handleServiceError maps the service error taxonomy onto HTTP statuses. A
// schedule conflict carries its structured report in the response data so the
// caller can present the suggestions as alternatives.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var (
		validation *entity.ValidationError
		notFound   *entity.NotFoundError
		seatTaken  *entity.SeatUnavailableError
		expired    *entity.BookingExpiredError
		conflict   *entity.ScheduleConflictError
		transient  *entity.TransientStorageError
	)

	switch {
	case errors.As(err, &validation):
		log.Warn(operation+" failed - validation",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, validation.Msg, nil)

	case errors.As(err, &notFound):
		log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, notFound.Error())

	case errors.As(err, &seatTaken):
		log.Warn(operation+" failed - seat taken",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseConflict(w, "Seat just taken, please reselect", map[string]any{
			"unavailable_seats": seatTaken.Seats,
		})

	case errors.As(err, &expired):
		log.Warn(operation+" failed - hold expired",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseGone(w, "Hold expired, please reselect")

	case errors.As(err, &conflict):
		log.Warn(operation+" failed - schedule conflict",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseConflict(w, "Show time conflicts with an existing screening",
			response.ConflictToResponse(conflict.Report))

	case errors.As(err, &transient):
		log.Warn(operation+" failed - transient storage error",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseServiceUnavailable(w, "Please try again")

	default:
		log.Error(operation+" failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
