package repository

import (
	"context"
	"fmt"
	"time"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingSeatRepository interface {
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookingSeat, error)

	// FindClaimedSeatIDs returns seat IDs with a live claim for the show time:
	// confirmed, or held with expiry still in the future. The query is
	// expiry-aware at read time; a held booking past its expiry counts as
	// absent without requiring a prior write.
	FindClaimedSeatIDs(ctx context.Context, showTimeID uuid.UUID, now time.Time) ([]uuid.UUID, error)
}

type bookingSeatRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingSeatRepository(db database.PgxIface, log *zap.Logger) BookingSeatRepository {
	return &bookingSeatRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking_seat")),
	}
}

func (r *bookingSeatRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookingSeat, error) {
	query := `
		SELECT id, booking_id, seat_id, created_at
		FROM booking_seats
		WHERE booking_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find booking seats by booking ID",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find booking seats by booking ID %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var bookingSeats []*entity.BookingSeat
	for rows.Next() {
		var bs entity.BookingSeat
		err := rows.Scan(
			&bs.ID,
			&bs.BookingID,
			&bs.SeatID,
			&bs.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan booking seat row", zap.Error(err))
			return nil, fmt.Errorf("scan booking seat row: %w", err)
		}
		bookingSeats = append(bookingSeats, &bs)
	}

	return bookingSeats, nil
}

func (r *bookingSeatRepository) FindClaimedSeatIDs(ctx context.Context, showTimeID uuid.UUID, now time.Time) ([]uuid.UUID, error) {
	query := `
		SELECT DISTINCT bs.seat_id
		FROM booking_seats bs
		INNER JOIN bookings b ON bs.booking_id = b.id
		WHERE b.show_time_id = $1
		  AND (b.status = 'confirmed' OR (b.status = 'held' AND b.expires_at > $2))
	`

	rows, err := r.db.Query(ctx, query, showTimeID, now)
	if err != nil {
		r.log.Error("Failed to find claimed seats by show time",
			zap.Error(err),
			zap.String("show_time_id", showTimeID.String()),
		)
		return nil, fmt.Errorf("find claimed seats for show time %s: %w", showTimeID.String(), err)
	}
	defer rows.Close()

	var seatIDs []uuid.UUID
	for rows.Next() {
		var seatID uuid.UUID
		if err := rows.Scan(&seatID); err != nil {
			r.log.Error("Failed to scan seat ID row", zap.Error(err))
			return nil, fmt.Errorf("scan seat ID row: %w", err)
		}
		seatIDs = append(seatIDs, seatID)
	}

	return seatIDs, nil
}
