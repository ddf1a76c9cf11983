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

// ReservationService owns the booking seat-hold lifecycle: at most one live
// claim (held and not expired, or confirmed) per seat and show time, and an
// expiry-aware availability view for every reader.
type ReservationService interface {
	GetSeatAvailability(ctx context.Context, showTimeID string) ([]response.SeatView, error)
	Hold(ctx context.Context, userID string, req *request.HoldRequest) (*response.HoldResponse, error)
	Confirm(ctx context.Context, userID string, req *request.ConfirmRequest) (*response.ConfirmationResponse, error)
	Cancel(ctx context.Context, userID string, bookingID string) error
	GetBooking(ctx context.Context, userID string, bookingID string) (*response.BookingDetailResponse, error)
	ExpireStale(ctx context.Context) (int64, error)
}

type reservationService struct {
	repo     *repository.Repository
	cache    SeatMapCache
	notifier Notifier
	holdTTL  time.Duration
	log      *zap.Logger
}

func NewReservationService(repo *repository.Repository, config *utils.Config, cache SeatMapCache, notifier Notifier, log *zap.Logger) ReservationService {
	return &reservationService{
		repo:     repo,
		cache:    cache,
		notifier: notifier,
		holdTTL:  config.Booking.HoldTTL(),
		log:      log.With(zap.String("service", "reservation")),
	}
}

func (s *reservationService) GetSeatAvailability(ctx context.Context, showTimeID string) ([]response.SeatView, error) {
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

	if views, ok := s.cache.Get(ctx, id); ok {
		return views, nil
	}

	seats, err := s.repo.Seat.FindByRoomID(ctx, showTime.RoomID)
	if err != nil {
		return nil, fmt.Errorf("load room seats: %w", err)
	}

	claimed, err := s.repo.BookingSeat.FindClaimedSeatIDs(ctx, id, time.Now())
	if err != nil {
		return nil, fmt.Errorf("load seat claims: %w", err)
	}

	claimedSet := make(map[uuid.UUID]struct{}, len(claimed))
	for _, seatID := range claimed {
		claimedSet[seatID] = struct{}{}
	}

	views := make([]response.SeatView, len(seats))
	for i, seat := range seats {
		_, taken := claimedSet[seat.ID]
		views[i] = response.SeatToView(seat, !taken)
	}

	s.cache.Set(ctx, id, views)

	return views, nil
}

func (s *reservationService) Hold(ctx context.Context, userID string, req *request.HoldRequest) (*response.HoldResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Hold validation failed", zap.Any("errors", errs))
		return nil, entity.NewValidationError("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, entity.NewValidationError("invalid user ID format %s", userID)
	}

	showTimeID, err := uuid.Parse(req.ShowTimeID)
	if err != nil {
		return nil, entity.NewValidationError("invalid show time ID format %s", req.ShowTimeID)
	}

	seatIDs := make([]uuid.UUID, 0, len(req.SeatIDs))
	seen := make(map[uuid.UUID]struct{}, len(req.SeatIDs))
	for _, raw := range req.SeatIDs {
		seatID, err := uuid.Parse(raw)
		if err != nil {
			return nil, entity.NewValidationError("invalid seat ID format %s", raw)
		}
		// Duplicates in the request would double-claim a seat against itself.
		if _, dup := seen[seatID]; dup {
			continue
		}
		seen[seatID] = struct{}{}
		seatIDs = append(seatIDs, seatID)
	}

	showTime, err := s.repo.ShowTime.FindByID(ctx, showTimeID)
	if err != nil {
		return nil, fmt.Errorf("load show time: %w", err)
	}
	if showTime == nil {
		return nil, &entity.NotFoundError{Resource: "show time", ID: req.ShowTimeID}
	}

	now := time.Now()
	if showTime.StartsAt.Before(now) {
		return nil, entity.NewValidationError("cannot hold seats for a past screening")
	}

	seats, err := s.repo.Seat.FindByIDs(ctx, seatIDs)
	if err != nil {
		return nil, fmt.Errorf("load requested seats: %w", err)
	}
	found := make(map[uuid.UUID]*entity.Seat, len(seats))
	for _, seat := range seats {
		found[seat.ID] = seat
	}
	for _, seatID := range seatIDs {
		seat, ok := found[seatID]
		if !ok {
			return nil, &entity.NotFoundError{Resource: "seat", ID: seatID.String()}
		}
		if seat.RoomID != showTime.RoomID {
			return nil, entity.NewValidationError("seat %s does not belong to the screening room", seatID.String())
		}
	}

	expiresAt := now.Add(s.holdTTL)
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		OrderID:    utils.GenerateOrderID(),
		UserID:     userUUID,
		ShowTimeID: showTimeID,
		Status:     entity.BookingStatusHeld,
		ExpiresAt:  &expiresAt,
	}

	err = retryTransient(func() error {
		return s.repo.Booking.CreateHeld(ctx, booking, seatIDs)
	})
	if err != nil {
		var unavailable *entity.SeatUnavailableError
		if errors.As(err, &unavailable) {
			return nil, err
		}
		s.log.Error("Failed to create hold",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("show_time_id", req.ShowTimeID),
		)
		return nil, fmt.Errorf("create hold: %w", err)
	}

	s.cache.Invalidate(ctx, showTimeID)
	s.notifyChanged(ctx, showTimeID)

	s.log.Info("Seats held",
		zap.String("booking_id", booking.ID.String()),
		zap.String("order_id", booking.OrderID),
		zap.String("user_id", userID),
		zap.String("show_time_id", req.ShowTimeID),
		zap.Int("seat_count", len(seatIDs)),
		zap.Time("expires_at", expiresAt),
	)

	return &response.HoldResponse{
		BookingID: booking.ID.String(),
		OrderID:   booking.OrderID,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *reservationService) Confirm(ctx context.Context, userID string, req *request.ConfirmRequest) (*response.ConfirmationResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Confirm validation failed", zap.Any("errors", errs))
		return nil, entity.NewValidationError("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, entity.NewValidationError("invalid user ID format %s", userID)
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, entity.NewValidationError("invalid booking ID format %s", req.BookingID)
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("load booking: %w", err)
	}
	if booking == nil {
		return nil, &entity.NotFoundError{Resource: "booking", ID: req.BookingID}
	}
	if booking.UserID != userUUID {
		return nil, entity.NewValidationError("booking %s does not belong to the caller", req.BookingID)
	}

	// A client may retry confirm after a network timeout; an already confirmed
	// booking returns the stored result without touching points again.
	if booking.Status == entity.BookingStatusConfirmed {
		return s.storedConfirmation(ctx, booking)
	}

	now := time.Now()
	if booking.Status == entity.BookingStatusCancelled || booking.Expired(now) {
		return nil, &entity.BookingExpiredError{BookingID: req.BookingID}
	}

	seats, err := s.repo.Seat.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("load booking seats: %w", err)
	}

	prices, err := s.repo.TicketPrice.FindByShowTimeID(ctx, booking.ShowTimeID)
	if err != nil {
		return nil, fmt.Errorf("load ticket prices: %w", err)
	}

	var total int64
	for _, seat := range seats {
		amount, ok := prices[seat.Category]
		if !ok {
			return nil, fmt.Errorf("no price configured for category %s on show time %s",
				seat.Category, booking.ShowTimeID.String())
		}
		total += amount
	}

	user, err := s.repo.User.FindByID(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, &entity.NotFoundError{Resource: "user", ID: userID}
	}

	maxUsable := MaxUsablePoints(user.Points, total)
	if req.UsePoints > maxUsable {
		return nil, entity.NewValidationError("use_points %d exceeds the allowed maximum %d", req.UsePoints, maxUsable)
	}

	discount := PointsDiscount(req.UsePoints)
	finalPrice := FinalPrice(total, discount)
	earned := PointsEarned(finalPrice)

	upd := repository.ConfirmUpdate{
		PaymentMethod: req.PaymentMethod,
		TotalPrice:    total,
		Discount:      discount,
		FinalPrice:    finalPrice,
		PointsUsed:    req.UsePoints,
		PointsEarned:  earned,
	}

	var newPoints int
	err = retryTransient(func() error {
		var confirmErr error
		newPoints, confirmErr = s.repo.Booking.Confirm(ctx, bookingID, userUUID, upd, time.Now())
		return confirmErr
	})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyConfirmed) {
			stored, readErr := s.repo.Booking.FindByID(ctx, bookingID)
			if readErr != nil || stored == nil {
				return nil, fmt.Errorf("reload confirmed booking: %w", readErr)
			}
			return s.storedConfirmation(ctx, stored)
		}
		var expired *entity.BookingExpiredError
		var notFound *entity.NotFoundError
		var validation *entity.ValidationError
		if errors.As(err, &expired) || errors.As(err, &notFound) || errors.As(err, &validation) {
			return nil, err
		}
		s.log.Error("Failed to confirm booking",
			zap.Error(err),
			zap.String("booking_id", req.BookingID),
		)
		return nil, fmt.Errorf("confirm booking: %w", err)
	}

	s.cache.Invalidate(ctx, booking.ShowTimeID)
	s.notifyChanged(ctx, booking.ShowTimeID)

	s.log.Info("Booking confirmed",
		zap.String("booking_id", req.BookingID),
		zap.String("order_id", booking.OrderID),
		zap.String("payment_method", req.PaymentMethod),
		zap.Int64("total_price", total),
		zap.Int64("final_price", finalPrice),
		zap.Int("points_used", req.UsePoints),
		zap.Int("points_earned", earned),
	)

	return &response.ConfirmationResponse{
		BookingID:      req.BookingID,
		PaymentMethod:  req.PaymentMethod,
		TotalPrice:     total,
		Discount:       discount,
		FinalPrice:     finalPrice,
		PointsEarned:   earned,
		NewTotalPoints: newPoints,
	}, nil
}

func (s *reservationService) Cancel(ctx context.Context, userID string, bookingID string) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return entity.NewValidationError("invalid user ID format %s", userID)
	}

	id, err := uuid.Parse(bookingID)
	if err != nil {
		return entity.NewValidationError("invalid booking ID format %s", bookingID)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load booking: %w", err)
	}
	if booking == nil {
		return &entity.NotFoundError{Resource: "booking", ID: bookingID}
	}
	if booking.UserID != userUUID {
		return entity.NewValidationError("booking %s does not belong to the caller", bookingID)
	}

	switch booking.Status {
	case entity.BookingStatusCancelled:
		// Already released; cancelling again is a no-op.
		return nil
	case entity.BookingStatusConfirmed:
		return entity.NewValidationError("booking %s is confirmed and can no longer be cancelled", bookingID)
	}

	changed, err := s.repo.Booking.CancelHeld(ctx, id)
	if err != nil {
		return fmt.Errorf("cancel booking: %w", err)
	}

	if changed {
		s.cache.Invalidate(ctx, booking.ShowTimeID)
		s.notifyChanged(ctx, booking.ShowTimeID)
		s.log.Info("Booking cancelled",
			zap.String("booking_id", bookingID),
			zap.String("order_id", booking.OrderID),
		)
	}

	return nil
}

func (s *reservationService) GetBooking(ctx context.Context, userID string, bookingID string) (*response.BookingDetailResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, entity.NewValidationError("invalid user ID format %s", userID)
	}

	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, entity.NewValidationError("invalid booking ID format %s", bookingID)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load booking: %w", err)
	}
	if booking == nil {
		return nil, &entity.NotFoundError{Resource: "booking", ID: bookingID}
	}
	if booking.UserID != userUUID {
		return nil, entity.NewValidationError("booking %s does not belong to the caller", bookingID)
	}

	seats, err := s.repo.Seat.FindByBookingID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load booking seats: %w", err)
	}

	labels := make([]string, len(seats))
	for i, seat := range seats {
		labels[i] = seat.Label
	}

	return response.BookingToDetail(booking, labels), nil
}

func (s *reservationService) ExpireStale(ctx context.Context) (int64, error) {
	showTimeIDs, err := s.repo.Booking.ExpireStale(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("expire stale holds: %w", err)
	}

	// Released seats change the seat map of every affected show time.
	seen := make(map[uuid.UUID]struct{}, len(showTimeIDs))
	for _, showTimeID := range showTimeIDs {
		if _, done := seen[showTimeID]; done {
			continue
		}
		seen[showTimeID] = struct{}{}
		s.cache.Invalidate(ctx, showTimeID)
		s.notifyChanged(ctx, showTimeID)
	}

	return int64(len(showTimeIDs)), nil
}

func (s *reservationService) storedConfirmation(ctx context.Context, booking *entity.Booking) (*response.ConfirmationResponse, error) {
	user, err := s.repo.User.FindByID(ctx, booking.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	points := 0
	if user != nil {
		points = user.Points
	}

	method := ""
	if booking.PaymentMethod != nil {
		method = *booking.PaymentMethod
	}

	return &response.ConfirmationResponse{
		BookingID:      booking.ID.String(),
		PaymentMethod:  method,
		TotalPrice:     booking.TotalPrice,
		Discount:       booking.Discount,
		FinalPrice:     booking.FinalPrice,
		PointsEarned:   booking.PointsEarned,
		NewTotalPoints: points,
	}, nil
}

// notifyChanged is fire-and-forget: a dead broker must never fail a booking.
func (s *reservationService) notifyChanged(ctx context.Context, showTimeID uuid.UUID) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyShowTimeChanged(ctx, showTimeID); err != nil {
		s.log.Warn("Seat map change notification failed",
			zap.Error(err),
			zap.String("show_time_id", showTimeID.String()),
		)
	}
}
