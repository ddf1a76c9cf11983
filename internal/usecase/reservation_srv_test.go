package usecase

import (
	"context"
	"testing"
	"time"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/internal/data/repository"
	"cinema-ticketing/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reservationFixture struct {
	showTimes *fakeShowTimeRepo
	seats     *fakeSeatRepo
	bookings  *fakeBookingRepo
	claims    *fakeBookingSeatRepo
	prices    *fakeTicketPriceRepo
	users     *fakeUserRepo
	cache     *fakeCache
	notifier  *fakeNotifier
	service   ReservationService

	roomID     uuid.UUID
	showTimeID uuid.UUID
	userID     uuid.UUID
}

func newReservationFixture(t *testing.T) *reservationFixture {
	t.Helper()

	f := &reservationFixture{
		showTimes: &fakeShowTimeRepo{byID: map[uuid.UUID]*entity.ShowTime{}},
		seats:     &fakeSeatRepo{byBooking: map[uuid.UUID][]*entity.Seat{}},
		bookings:  &fakeBookingRepo{bookings: map[uuid.UUID]*entity.Booking{}},
		claims:    &fakeBookingSeatRepo{},
		prices:    &fakeTicketPriceRepo{prices: map[entity.SeatCategory]int64{}},
		users:     &fakeUserRepo{users: map[uuid.UUID]*entity.User{}},
		cache:     newFakeCache(),
		notifier:  &fakeNotifier{},

		roomID:     uuid.New(),
		showTimeID: uuid.New(),
		userID:     uuid.New(),
	}

	f.showTimes.byID[f.showTimeID] = &entity.ShowTime{
		Base:     entity.Base{ID: f.showTimeID},
		RoomID:   f.roomID,
		StartsAt: time.Now().Add(24 * time.Hour),
	}
	f.users.users[f.userID] = &entity.User{Base: entity.Base{ID: f.userID}, Points: 30000}

	repo := &repository.Repository{
		ShowTime:    f.showTimes,
		Seat:        f.seats,
		Booking:     f.bookings,
		BookingSeat: f.claims,
		TicketPrice: f.prices,
		User:        f.users,
	}
	f.service = NewReservationService(repo, testConfig(), f.cache, f.notifier, testLogger())
	return f
}

func (f *reservationFixture) addSeat(label string, category entity.SeatCategory) *entity.Seat {
	seat := &entity.Seat{
		Base:     entity.Base{ID: uuid.New()},
		RoomID:   f.roomID,
		Label:    label,
		Category: category,
	}
	f.seats.seats = append(f.seats.seats, seat)
	return seat
}

func (f *reservationFixture) heldBooking(seats ...*entity.Seat) *entity.Booking {
	expires := time.Now().Add(5 * time.Minute)
	booking := &entity.Booking{
		Base:       entity.Base{ID: uuid.New()},
		OrderID:    "TKT-TEST",
		UserID:     f.userID,
		ShowTimeID: f.showTimeID,
		Status:     entity.BookingStatusHeld,
		ExpiresAt:  &expires,
	}
	f.bookings.bookings[booking.ID] = booking
	f.seats.byBooking[booking.ID] = seats
	return booking
}

func TestGetSeatAvailabilityExpiryAware(t *testing.T) {
	f := newReservationFixture(t)
	a1 := f.addSeat("A1", entity.SeatCategoryStandard)
	f.addSeat("A2", entity.SeatCategoryStandard)

	// the claim set already reflects expiry at read time; a stale hold on A2
	// simply does not appear here
	f.claims.claimed = []uuid.UUID{a1.ID}

	views, err := f.service.GetSeatAvailability(context.Background(), f.showTimeID.String())
	require.NoError(t, err)
	require.Len(t, views, 2)

	byLabel := map[string]bool{}
	for _, v := range views {
		byLabel[v.Label] = v.Available
	}
	assert.False(t, byLabel["A1"])
	assert.True(t, byLabel["A2"])
}

func TestGetSeatAvailabilityNotFound(t *testing.T) {
	f := newReservationFixture(t)

	_, err := f.service.GetSeatAvailability(context.Background(), uuid.NewString())

	var notFound *entity.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestGetSeatAvailabilityServesFromCache(t *testing.T) {
	f := newReservationFixture(t)
	f.addSeat("A1", entity.SeatCategoryStandard)

	first, err := f.service.GetSeatAvailability(context.Background(), f.showTimeID.String())
	require.NoError(t, err)

	// a later claim is invisible until the cache entry is invalidated
	f.claims.claimed = []uuid.UUID{f.seats.seats[0].ID}
	second, err := f.service.GetSeatAvailability(context.Background(), f.showTimeID.String())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestHoldCreatesHeldBooking(t *testing.T) {
	f := newReservationFixture(t)
	a1 := f.addSeat("A1", entity.SeatCategoryStandard)
	a2 := f.addSeat("A2", entity.SeatCategoryVIP)

	before := time.Now()
	hold, err := f.service.Hold(context.Background(), f.userID.String(), &request.HoldRequest{
		ShowTimeID: f.showTimeID.String(),
		SeatIDs:    []string{a1.ID.String(), a2.ID.String()},
	})
	require.NoError(t, err)

	require.Len(t, f.bookings.held, 1)
	booking := f.bookings.held[0]
	assert.Equal(t, entity.BookingStatusHeld, booking.Status)
	require.NotNil(t, booking.ExpiresAt)
	ttl := booking.ExpiresAt.Sub(before)
	assert.InDelta(t, (5 * time.Minute).Seconds(), ttl.Seconds(), 5)

	assert.ElementsMatch(t, []uuid.UUID{a1.ID, a2.ID}, f.bookings.heldSeats[0])
	assert.NotEmpty(t, hold.OrderID)
	assert.Equal(t, booking.ID.String(), hold.BookingID)

	// a successful hold invalidates the seat map and notifies listeners
	assert.Contains(t, f.cache.invalidated, f.showTimeID)
	assert.Contains(t, f.notifier.notified, f.showTimeID)
}

func TestHoldRejectsSeatOutsideRoom(t *testing.T) {
	f := newReservationFixture(t)
	foreign := &entity.Seat{Base: entity.Base{ID: uuid.New()}, RoomID: uuid.New(), Label: "Z9"}
	f.seats.seats = append(f.seats.seats, foreign)

	_, err := f.service.Hold(context.Background(), f.userID.String(), &request.HoldRequest{
		ShowTimeID: f.showTimeID.String(),
		SeatIDs:    []string{foreign.ID.String()},
	})

	var validation *entity.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, 0, f.bookings.createCall)
}

func TestHoldRejectsUnknownSeat(t *testing.T) {
	f := newReservationFixture(t)

	_, err := f.service.Hold(context.Background(), f.userID.String(), &request.HoldRequest{
		ShowTimeID: f.showTimeID.String(),
		SeatIDs:    []string{uuid.NewString()},
	})

	var notFound *entity.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "seat", notFound.Resource)
	assert.Equal(t, 0, f.bookings.createCall)
}

func TestHoldLosesRace(t *testing.T) {
	f := newReservationFixture(t)
	a1 := f.addSeat("A1", entity.SeatCategoryStandard)

	f.bookings.createErrs = []error{&entity.SeatUnavailableError{Seats: []string{"A1"}}}

	_, err := f.service.Hold(context.Background(), f.userID.String(), &request.HoldRequest{
		ShowTimeID: f.showTimeID.String(),
		SeatIDs:    []string{a1.ID.String()},
	})

	var unavailable *entity.SeatUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, []string{"A1"}, unavailable.Seats)
	assert.Equal(t, 1, f.bookings.createCall, "a lost seat race is not retried")
}

func TestHoldRetriesTransientOnce(t *testing.T) {
	f := newReservationFixture(t)
	a1 := f.addSeat("A1", entity.SeatCategoryStandard)

	f.bookings.createErrs = []error{&entity.TransientStorageError{Err: assert.AnError}}

	_, err := f.service.Hold(context.Background(), f.userID.String(), &request.HoldRequest{
		ShowTimeID: f.showTimeID.String(),
		SeatIDs:    []string{a1.ID.String()},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, f.bookings.createCall)
}

func TestConfirmComputesTotals(t *testing.T) {
	f := newReservationFixture(t)
	a1 := f.addSeat("A1", entity.SeatCategoryStandard)
	a2 := f.addSeat("A2", entity.SeatCategoryVIP)
	booking := f.heldBooking(a1, a2)

	f.prices.prices = map[entity.SeatCategory]int64{
		entity.SeatCategoryStandard: 80000,
		entity.SeatCategoryVIP:      100000,
	}
	f.bookings.confirmPoints = 31500

	result, err := f.service.Confirm(context.Background(), f.userID.String(), &request.ConfirmRequest{
		BookingID:     booking.ID.String(),
		PaymentMethod: "gopay",
		UsePoints:     1000,
	})
	require.NoError(t, err)

	// total 180000, 1000 points = 5000 off, final 175000 earns 3000 points
	assert.Equal(t, int64(180000), result.TotalPrice)
	assert.Equal(t, int64(5000), result.Discount)
	assert.Equal(t, int64(175000), result.FinalPrice)
	assert.Equal(t, 3000, result.PointsEarned)
	assert.Equal(t, 31500, result.NewTotalPoints)

	upd := f.bookings.confirmedUpd
	assert.Equal(t, "gopay", upd.PaymentMethod)
	assert.Equal(t, 1000, upd.PointsUsed)
	assert.Equal(t, 3000, upd.PointsEarned)
}

func TestConfirmRetriesTransientOnce(t *testing.T) {
	f := newReservationFixture(t)
	a1 := f.addSeat("A1", entity.SeatCategoryStandard)
	booking := f.heldBooking(a1)

	f.prices.prices = map[entity.SeatCategory]int64{entity.SeatCategoryStandard: 50000}
	f.bookings.confirmErrs = []error{&entity.TransientStorageError{Err: assert.AnError}}

	_, err := f.service.Confirm(context.Background(), f.userID.String(), &request.ConfirmRequest{
		BookingID:     booking.ID.String(),
		PaymentMethod: "gopay",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, f.bookings.confirmCall)
}

func TestConfirmRejectsExcessPoints(t *testing.T) {
	f := newReservationFixture(t)
	a1 := f.addSeat("A1", entity.SeatCategoryStandard)
	booking := f.heldBooking(a1)

	f.prices.prices = map[entity.SeatCategory]int64{entity.SeatCategoryStandard: 50000}

	// bound is min(30000, ceil(50000/5000)*1000) = 10000
	_, err := f.service.Confirm(context.Background(), f.userID.String(), &request.ConfirmRequest{
		BookingID:     booking.ID.String(),
		PaymentMethod: "gopay",
		UsePoints:     10001,
	})

	var validation *entity.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, 0, f.bookings.confirmCall)
}

func TestConfirmAlreadyConfirmedIsIdempotent(t *testing.T) {
	f := newReservationFixture(t)
	method := "gopay"
	booking := &entity.Booking{
		Base:          entity.Base{ID: uuid.New()},
		UserID:        f.userID,
		ShowTimeID:    f.showTimeID,
		Status:        entity.BookingStatusConfirmed,
		PaymentMethod: &method,
		TotalPrice:    180000,
		Discount:      5000,
		FinalPrice:    175000,
		PointsEarned:  3000,
	}
	f.bookings.bookings[booking.ID] = booking

	result, err := f.service.Confirm(context.Background(), f.userID.String(), &request.ConfirmRequest{
		BookingID:     booking.ID.String(),
		PaymentMethod: "gopay",
		UsePoints:     1000,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(175000), result.FinalPrice)
	assert.Equal(t, 3000, result.PointsEarned)
	assert.Equal(t, 30000, result.NewTotalPoints, "points come from the stored user record")
	assert.Equal(t, 0, f.bookings.confirmCall, "no second charge")
}

func TestConfirmExpiredHold(t *testing.T) {
	f := newReservationFixture(t)
	expired := time.Now().Add(-time.Second)
	booking := &entity.Booking{
		Base:       entity.Base{ID: uuid.New()},
		UserID:     f.userID,
		ShowTimeID: f.showTimeID,
		Status:     entity.BookingStatusHeld,
		ExpiresAt:  &expired,
	}
	f.bookings.bookings[booking.ID] = booking

	_, err := f.service.Confirm(context.Background(), f.userID.String(), &request.ConfirmRequest{
		BookingID:     booking.ID.String(),
		PaymentMethod: "gopay",
	})

	var gone *entity.BookingExpiredError
	require.ErrorAs(t, err, &gone)
	assert.Equal(t, 0, f.bookings.confirmCall)
}

func TestConfirmRejectsOtherUsersBooking(t *testing.T) {
	f := newReservationFixture(t)
	a1 := f.addSeat("A1", entity.SeatCategoryStandard)
	booking := f.heldBooking(a1)

	_, err := f.service.Confirm(context.Background(), uuid.NewString(), &request.ConfirmRequest{
		BookingID:     booking.ID.String(),
		PaymentMethod: "gopay",
	})

	var validation *entity.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestConfirmOverdrawnBalanceIsRejectedNotRetried(t *testing.T) {
	f := newReservationFixture(t)
	a1 := f.addSeat("A1", entity.SeatCategoryStandard)
	booking := f.heldBooking(a1)

	f.prices.prices = map[entity.SeatCategory]int64{entity.SeatCategoryStandard: 50000}

	// a concurrent confirm of another booking spent the balance after the
	// bound check read it; the in-transaction guard reports the overdraw
	f.bookings.confirmErrs = []error{
		entity.NewValidationError("use_points 10000 exceeds the user's current balance"),
	}

	_, err := f.service.Confirm(context.Background(), f.userID.String(), &request.ConfirmRequest{
		BookingID:     booking.ID.String(),
		PaymentMethod: "gopay",
		UsePoints:     10000,
	})

	var validation *entity.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, 1, f.bookings.confirmCall, "an overdraw is fatal, never replayed")
}

func TestGetBookingRejectsOtherUsersBooking(t *testing.T) {
	f := newReservationFixture(t)
	a1 := f.addSeat("A1", entity.SeatCategoryStandard)
	booking := f.heldBooking(a1)

	_, err := f.service.GetBooking(context.Background(), uuid.NewString(), booking.ID.String())

	var validation *entity.ValidationError
	require.ErrorAs(t, err, &validation)

	detail, err := f.service.GetBooking(context.Background(), f.userID.String(), booking.ID.String())
	require.NoError(t, err)
	assert.Equal(t, []string{"A1"}, detail.SeatLabels)
}

func TestCancelHeldBooking(t *testing.T) {
	f := newReservationFixture(t)
	a1 := f.addSeat("A1", entity.SeatCategoryStandard)
	booking := f.heldBooking(a1)
	f.bookings.cancelChanged = true

	err := f.service.Cancel(context.Background(), f.userID.String(), booking.ID.String())
	require.NoError(t, err)

	assert.Equal(t, 1, f.bookings.cancelCall)
	assert.Contains(t, f.cache.invalidated, f.showTimeID)
	assert.Contains(t, f.notifier.notified, f.showTimeID)
}

func TestCancelAlreadyCancelledIsNoOp(t *testing.T) {
	f := newReservationFixture(t)
	booking := &entity.Booking{
		Base:       entity.Base{ID: uuid.New()},
		UserID:     f.userID,
		ShowTimeID: f.showTimeID,
		Status:     entity.BookingStatusCancelled,
	}
	f.bookings.bookings[booking.ID] = booking

	err := f.service.Cancel(context.Background(), f.userID.String(), booking.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 0, f.bookings.cancelCall)
}

func TestCancelConfirmedBookingFails(t *testing.T) {
	f := newReservationFixture(t)
	booking := &entity.Booking{
		Base:       entity.Base{ID: uuid.New()},
		UserID:     f.userID,
		ShowTimeID: f.showTimeID,
		Status:     entity.BookingStatusConfirmed,
	}
	f.bookings.bookings[booking.ID] = booking

	err := f.service.Cancel(context.Background(), f.userID.String(), booking.ID.String())

	var validation *entity.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestExpireStaleInvalidatesAffectedShowTimes(t *testing.T) {
	f := newReservationFixture(t)
	otherShowTime := uuid.New()
	// two swept holds on the same show time, one on another
	f.bookings.expiredShowTimes = []uuid.UUID{f.showTimeID, f.showTimeID, otherShowTime}

	count, err := f.service.ExpireStale(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	// each affected show time is invalidated and announced exactly once
	assert.ElementsMatch(t, []uuid.UUID{f.showTimeID, otherShowTime}, f.cache.invalidated)
	assert.ElementsMatch(t, []uuid.UUID{f.showTimeID, otherShowTime}, f.notifier.notified)
}
