package repository

import (
	"context"
	"fmt"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type SeatRepository interface {
	FindByRoomID(ctx context.Context, roomID uuid.UUID) ([]*entity.Seat, error)

	// FindByIDs resolves the requested seats wherever they live. The caller
	// tells an unknown seat apart from one in the wrong room by the rows
	// that come back.
	FindByIDs(ctx context.Context, seatIDs []uuid.UUID) ([]*entity.Seat, error)

	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Seat, error)
}

type seatRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSeatRepository(db database.PgxIface, log *zap.Logger) SeatRepository {
	return &seatRepository{
		db:  db,
		log: log.With(zap.String("repository", "seat")),
	}
}

func (r *seatRepository) FindByRoomID(ctx context.Context, roomID uuid.UUID) ([]*entity.Seat, error) {
	query := `
		SELECT id, room_id, label, seat_row, seat_column, category, created_at, updated_at
		FROM seats
		WHERE room_id = $1
		ORDER BY seat_row, seat_column
	`

	rows, err := r.db.Query(ctx, query, roomID)
	if err != nil {
		r.log.Error("Failed to find seats by room ID",
			zap.Error(err),
			zap.String("room_id", roomID.String()),
		)
		return nil, fmt.Errorf("find seats by room ID %s: %w", roomID.String(), err)
	}
	defer rows.Close()

	return scanSeats(rows)
}

func (r *seatRepository) FindByIDs(ctx context.Context, seatIDs []uuid.UUID) ([]*entity.Seat, error) {
	if len(seatIDs) == 0 {
		return []*entity.Seat{}, nil
	}

	query := `
		SELECT id, room_id, label, seat_row, seat_column, category, created_at, updated_at
		FROM seats
		WHERE id = ANY($1)
		ORDER BY seat_row, seat_column
	`

	rows, err := r.db.Query(ctx, query, seatIDs)
	if err != nil {
		r.log.Error("Failed to find seats by IDs",
			zap.Error(err),
			zap.Int("seat_count", len(seatIDs)),
		)
		return nil, fmt.Errorf("find seats by IDs: %w", err)
	}
	defer rows.Close()

	return scanSeats(rows)
}

func (r *seatRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Seat, error) {
	query := `
		SELECT s.id, s.room_id, s.label, s.seat_row, s.seat_column, s.category, s.created_at, s.updated_at
		FROM seats s
		INNER JOIN booking_seats bs ON bs.seat_id = s.id
		WHERE bs.booking_id = $1
		ORDER BY s.seat_row, s.seat_column
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find seats by booking ID",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find seats by booking ID %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	return scanSeats(rows)
}

func scanSeats(rows pgx.Rows) ([]*entity.Seat, error) {
	var seats []*entity.Seat
	for rows.Next() {
		var seat entity.Seat
		err := rows.Scan(
			&seat.ID,
			&seat.RoomID,
			&seat.Label,
			&seat.SeatRow,
			&seat.SeatColumn,
			&seat.Category,
			&seat.CreatedAt,
			&seat.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan seat row: %w", err)
		}
		seats = append(seats, &seat)
	}

	return seats, nil
}
