package usecase

import (
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/pkg/utils"

	"go.uber.org/zap"
)

// Service bundles every use case the adaptor layer depends on.
type Service struct {
	Reservation ReservationService
	Schedule    ScheduleService
}

func NewService(repo *repository.Repository, config *utils.Config, cache SeatMapCache, notifier Notifier, log *zap.Logger) *Service {
	return &Service{
		Reservation: NewReservationService(repo, config, cache, notifier, log),
		Schedule:    NewScheduleService(repo, config, notifier, log),
	}
}
