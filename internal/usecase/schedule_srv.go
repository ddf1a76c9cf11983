package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/internal/dto/request"
	"cinema-ticketing/internal/dto/response"
	"cinema-ticketing/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ScheduleService owns show time placement: no two screenings may occupy the
// same room at overlapping times, and a rejected request comes back with
// alternative free slots instead of a bare error.
type ScheduleService interface {
	ValidateAssignment(ctx context.Context, movieID, theaterID uuid.UUID, start, end time.Time) error
	CreateShowTime(ctx context.Context, req *request.CreateShowTimeRequest) (*response.ShowTimeResponse, error)
	GetShowTime(ctx context.Context, showTimeID string) (*response.ShowTimeResponse, error)
	GetRoomTimetable(ctx context.Context, roomID string, date string) ([]response.TimetableEntryResponse, error)
}

type scheduleService struct {
	repo        *repository.Repository
	notifier    Notifier
	buffer      time.Duration
	openingHour int
	closingHour int
	log         *zap.Logger
}

func NewScheduleService(repo *repository.Repository, config *utils.Config, notifier Notifier, log *zap.Logger) ScheduleService {
	return &scheduleService{
		repo:        repo,
		notifier:    notifier,
		buffer:      config.Schedule.Buffer(),
		openingHour: config.Schedule.OpeningHour,
		closingHour: config.Schedule.ClosingHour,
		log:         log.With(zap.String("service", "schedule")),
	}
}

func (s *scheduleService) ValidateAssignment(ctx context.Context, movieID, theaterID uuid.UUID, start, end time.Time) error {
	movie, err := s.repo.Movie.FindByID(ctx, movieID)
	if err != nil {
		return fmt.Errorf("load movie: %w", err)
	}
	if movie == nil {
		return &entity.NotFoundError{Resource: "movie", ID: movieID.String()}
	}

	link, err := s.repo.TheaterMovie.FindByTheaterAndMovie(ctx, theaterID, movieID)
	if err != nil {
		return fmt.Errorf("load theater movie link: %w", err)
	}
	if link == nil {
		return entity.NewValidationError("movie %s is not showing at theater %s", movieID.String(), theaterID.String())
	}

	if !movie.LicenseCovers(start, end) {
		return entity.NewValidationError("screening window %s to %s is outside the movie's license window",
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	if !link.RunCovers(start, end) {
		return entity.NewValidationError("screening window %s to %s is outside the theater's run window",
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	return nil
}

func (s *scheduleService) CreateShowTime(ctx context.Context, req *request.CreateShowTimeRequest) (*response.ShowTimeResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("CreateShowTime validation failed", zap.Any("errors", errs))
		return nil, entity.NewValidationError("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	movieID, err := uuid.Parse(req.MovieID)
	if err != nil {
		return nil, entity.NewValidationError("invalid movie ID format %s", req.MovieID)
	}
	roomID, err := uuid.Parse(req.RoomID)
	if err != nil {
		return nil, entity.NewValidationError("invalid room ID format %s", req.RoomID)
	}
	startsAt, err := time.Parse(time.RFC3339, req.ShowTime)
	if err != nil {
		return nil, entity.NewValidationError("invalid show_time %s, expected RFC 3339", req.ShowTime)
	}
	if startsAt.Before(time.Now()) {
		return nil, entity.NewValidationError("show_time %s is in the past", req.ShowTime)
	}

	movie, err := s.repo.Movie.FindByID(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("load movie: %w", err)
	}
	if movie == nil {
		return nil, &entity.NotFoundError{Resource: "movie", ID: req.MovieID}
	}

	room, err := s.repo.Room.FindByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("load room: %w", err)
	}
	if room == nil {
		return nil, &entity.NotFoundError{Resource: "room", ID: req.RoomID}
	}

	now := time.Now()
	showTime := &entity.ShowTime{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		MovieID:        movieID,
		TheaterID:      room.TheaterID,
		RoomID:         roomID,
		StartsAt:       startsAt,
		AvailableSeats: room.Capacity,
	}
	occupied := showTime.Occupied(movie.Duration(), s.buffer)

	if err := s.ValidateAssignment(ctx, movieID, room.TheaterID, occupied.Start, occupied.End); err != nil {
		return nil, err
	}

	seatCount, err := s.repo.Room.CountSeats(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("count room seats: %w", err)
	}
	if seatCount != room.Capacity {
		return nil, fmt.Errorf("room %s capacity %d does not match its %d seats",
			roomID.String(), room.Capacity, seatCount)
	}

	// Snapshot check first so the common conflict case answers with
	// suggestions without paying for a transaction.
	entries, err := s.roomDay(ctx, roomID, occupied.Start)
	if err != nil {
		return nil, err
	}
	if ref, conflicted := findConflict(entries, occupied, s.buffer); conflicted {
		return nil, &entity.ScheduleConflictError{Report: entity.ConflictReport{
			ConflictWith: ref,
			Suggestions:  suggestSlots(entries, occupied.Length(), occupied.Start, s.buffer, s.openingHour, s.closingHour),
		}}
	}

	prices := []*entity.TicketPrice{
		{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			ShowTimeID: showTime.ID,
			Category:   entity.SeatCategoryStandard,
			Amount:     req.StandardPrice,
		},
		{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			ShowTimeID: showTime.ID,
			Category:   entity.SeatCategoryVIP,
			Amount:     req.VIPPrice,
		},
	}

	err = retryTransient(func() error {
		return s.repo.ShowTime.CreateChecked(ctx, showTime, occupied, int(s.buffer/time.Minute), prices)
	})
	if err != nil {
		var conflict *entity.ScheduleConflictError
		if errors.As(err, &conflict) {
			// The room filled up between the snapshot read and the commit;
			// the report from the transaction has no suggestions yet.
			conflict.Report.Suggestions = s.suggestFor(ctx, roomID, occupied)
			return nil, conflict
		}
		s.log.Error("Failed to create show time",
			zap.Error(err),
			zap.String("movie_id", req.MovieID),
			zap.String("room_id", req.RoomID),
		)
		return nil, fmt.Errorf("create show time: %w", err)
	}

	s.notifyChanged(ctx, showTime.ID)

	s.log.Info("Show time created",
		zap.String("show_time_id", showTime.ID.String()),
		zap.String("movie_id", req.MovieID),
		zap.String("room_id", req.RoomID),
		zap.Time("starts_at", startsAt),
		zap.Time("occupied_until", occupied.End),
	)

	return response.ShowTimeToResponse(showTime), nil
}

func (s *scheduleService) GetShowTime(ctx context.Context, showTimeID string) (*response.ShowTimeResponse, error) {
	id, err := uuid.Parse(showTimeID)
	if err != nil {
		return nil, entity.NewValidationError("invalid show time ID format %s", showTimeID)
	}

	showTime, err := s.repo.ShowTime.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load show time: %w", err)
	}
	if showTime == nil {
		return nil, &entity.NotFoundError{Resource: "show time", ID: showTimeID}
	}

	available, err := s.repo.ShowTime.RecomputeAvailableSeats(ctx, id, time.Now())
	if err != nil {
		return nil, fmt.Errorf("recompute available seats: %w", err)
	}
	showTime.AvailableSeats = available

	return response.ShowTimeToResponse(showTime), nil
}

func (s *scheduleService) GetRoomTimetable(ctx context.Context, roomID string, date string) ([]response.TimetableEntryResponse, error) {
	id, err := uuid.Parse(roomID)
	if err != nil {
		return nil, entity.NewValidationError("invalid room ID format %s", roomID)
	}

	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return nil, entity.NewValidationError("invalid date %s, expected YYYY-MM-DD", date)
	}

	room, err := s.repo.Room.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load room: %w", err)
	}
	if room == nil {
		return nil, &entity.NotFoundError{Resource: "room", ID: roomID}
	}

	entries, err := s.repo.ShowTime.FindRoomDay(ctx, id, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("load room timetable: %w", err)
	}

	timetable := make([]response.TimetableEntryResponse, len(entries))
	for i, e := range entries {
		occ := occupiedInterval(e, s.buffer)
		timetable[i] = response.TimetableEntryResponse{
			ShowTimeID:    e.ID.String(),
			MovieTitle:    e.MovieTitle,
			StartsAt:      e.StartsAt,
			OccupiedUntil: occ.End,
		}
	}

	return timetable, nil
}

// suggestFor computes the ranked free-slot list for a rejected request. A
// read failure here degrades to the sentinel; the conflict itself has
// already been established.
func (s *scheduleService) suggestFor(ctx context.Context, roomID uuid.UUID, requested entity.Interval) []entity.SlotSuggestion {
	entries, err := s.roomDay(ctx, roomID, requested.Start)
	if err != nil {
		s.log.Warn("Failed to load schedule for slot suggestions",
			zap.Error(err),
			zap.String("room_id", roomID.String()),
		)
		entries = nil
	}
	return suggestSlots(entries, requested.Length(), requested.Start, s.buffer, s.openingHour, s.closingHour)
}

func (s *scheduleService) roomDay(ctx context.Context, roomID uuid.UUID, at time.Time) ([]*repository.RoomScheduleEntry, error) {
	dayStart := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())
	entries, err := s.repo.ShowTime.FindRoomDay(ctx, roomID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("load schedule for room %s: %w", roomID.String(), err)
	}
	return entries, nil
}

func (s *scheduleService) notifyChanged(ctx context.Context, showTimeID uuid.UUID) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyShowTimeChanged(ctx, showTimeID); err != nil {
		s.log.Warn("Show time change notification failed",
			zap.Error(err),
			zap.String("show_time_id", showTimeID.String()),
		)
	}
}
