package usecase

import (
	"context"
	"time"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/internal/dto/response"
	"cinema-ticketing/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Hand-written fakes per repository interface. Error queues let a test make
// the first call fail and the next succeed, which is how the single-retry
// behavior is exercised.

func testConfig() *utils.Config {
	return &utils.Config{
		Booking: utils.BookingConfig{HoldTTLSeconds: 300},
		Schedule: utils.ScheduleConfig{
			BufferMinutes: 30,
			OpeningHour:   6,
			ClosingHour:   23,
		},
	}
}

func popErr(queue *[]error) error {
	if len(*queue) == 0 {
		return nil
	}
	err := (*queue)[0]
	*queue = (*queue)[1:]
	return err
}

type fakeMovieRepo struct {
	movies map[uuid.UUID]*entity.Movie
}

func (f *fakeMovieRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Movie, error) {
	return f.movies[id], nil
}

type fakeTheaterMovieRepo struct {
	links map[uuid.UUID]*entity.TheaterMovie // keyed by movie ID
}

func (f *fakeTheaterMovieRepo) FindByTheaterAndMovie(_ context.Context, theaterID, movieID uuid.UUID) (*entity.TheaterMovie, error) {
	link := f.links[movieID]
	if link == nil || link.TheaterID != theaterID {
		return nil, nil
	}
	return link, nil
}

type fakeRoomRepo struct {
	rooms     map[uuid.UUID]*entity.Room
	seatCount map[uuid.UUID]int
}

func (f *fakeRoomRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Room, error) {
	return f.rooms[id], nil
}

func (f *fakeRoomRepo) CountSeats(_ context.Context, roomID uuid.UUID) (int, error) {
	return f.seatCount[roomID], nil
}

type fakeSeatRepo struct {
	seats     []*entity.Seat
	byBooking map[uuid.UUID][]*entity.Seat
}

func (f *fakeSeatRepo) FindByRoomID(_ context.Context, roomID uuid.UUID) ([]*entity.Seat, error) {
	var out []*entity.Seat
	for _, s := range f.seats {
		if s.RoomID == roomID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSeatRepo) FindByIDs(_ context.Context, seatIDs []uuid.UUID) ([]*entity.Seat, error) {
	wanted := make(map[uuid.UUID]struct{}, len(seatIDs))
	for _, id := range seatIDs {
		wanted[id] = struct{}{}
	}
	var out []*entity.Seat
	for _, s := range f.seats {
		if _, ok := wanted[s.ID]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSeatRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID) ([]*entity.Seat, error) {
	return f.byBooking[bookingID], nil
}

type fakeShowTimeRepo struct {
	byID       map[uuid.UUID]*entity.ShowTime
	day        []*repository.RoomScheduleEntry
	createErrs []error
	created    []*entity.ShowTime
	createCall int
	available  int
}

func (f *fakeShowTimeRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.ShowTime, error) {
	return f.byID[id], nil
}

func (f *fakeShowTimeRepo) FindRoomDay(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]*repository.RoomScheduleEntry, error) {
	return f.day, nil
}

func (f *fakeShowTimeRepo) CreateChecked(_ context.Context, st *entity.ShowTime, _ entity.Interval, _ int, _ []*entity.TicketPrice) error {
	f.createCall++
	if err := popErr(&f.createErrs); err != nil {
		return err
	}
	f.created = append(f.created, st)
	return nil
}

func (f *fakeShowTimeRepo) RecomputeAvailableSeats(_ context.Context, _ uuid.UUID, _ time.Time) (int, error) {
	return f.available, nil
}

type fakeBookingRepo struct {
	bookings map[uuid.UUID]*entity.Booking

	createErrs []error
	createCall int
	held       []*entity.Booking
	heldSeats  [][]uuid.UUID

	confirmErrs   []error
	confirmCall   int
	confirmedUpd  repository.ConfirmUpdate
	confirmPoints int

	cancelChanged bool
	cancelCall    int

	expiredShowTimes []uuid.UUID
}

func (f *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	return f.bookings[id], nil
}

func (f *fakeBookingRepo) CreateHeld(_ context.Context, booking *entity.Booking, seatIDs []uuid.UUID) error {
	f.createCall++
	if err := popErr(&f.createErrs); err != nil {
		return err
	}
	f.held = append(f.held, booking)
	f.heldSeats = append(f.heldSeats, seatIDs)
	return nil
}

func (f *fakeBookingRepo) Confirm(_ context.Context, _, _ uuid.UUID, upd repository.ConfirmUpdate, _ time.Time) (int, error) {
	f.confirmCall++
	if err := popErr(&f.confirmErrs); err != nil {
		return 0, err
	}
	f.confirmedUpd = upd
	return f.confirmPoints, nil
}

func (f *fakeBookingRepo) CancelHeld(_ context.Context, _ uuid.UUID) (bool, error) {
	f.cancelCall++
	return f.cancelChanged, nil
}

func (f *fakeBookingRepo) ExpireStale(_ context.Context, _ time.Time) ([]uuid.UUID, error) {
	return f.expiredShowTimes, nil
}

type fakeBookingSeatRepo struct {
	claimed []uuid.UUID
}

func (f *fakeBookingSeatRepo) FindByBookingID(_ context.Context, _ uuid.UUID) ([]*entity.BookingSeat, error) {
	return nil, nil
}

func (f *fakeBookingSeatRepo) FindClaimedSeatIDs(_ context.Context, _ uuid.UUID, _ time.Time) ([]uuid.UUID, error) {
	return f.claimed, nil
}

type fakeTicketPriceRepo struct {
	prices map[entity.SeatCategory]int64
}

func (f *fakeTicketPriceRepo) FindByShowTimeID(_ context.Context, _ uuid.UUID) (map[entity.SeatCategory]int64, error) {
	return f.prices, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return f.users[id], nil
}

type fakeCache struct {
	stored      map[uuid.UUID][]response.SeatView
	invalidated []uuid.UUID
}

func newFakeCache() *fakeCache {
	return &fakeCache{stored: make(map[uuid.UUID][]response.SeatView)}
}

func (f *fakeCache) Get(_ context.Context, showTimeID uuid.UUID) ([]response.SeatView, bool) {
	views, ok := f.stored[showTimeID]
	return views, ok
}

func (f *fakeCache) Set(_ context.Context, showTimeID uuid.UUID, views []response.SeatView) {
	f.stored[showTimeID] = views
}

func (f *fakeCache) Invalidate(_ context.Context, showTimeID uuid.UUID) {
	f.invalidated = append(f.invalidated, showTimeID)
	delete(f.stored, showTimeID)
}

type fakeNotifier struct {
	notified []uuid.UUID
}

func (f *fakeNotifier) NotifyShowTimeChanged(_ context.Context, showTimeID uuid.UUID) error {
	f.notified = append(f.notified, showTimeID)
	return nil
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
