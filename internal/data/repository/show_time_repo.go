package repository

import (
	"context"
	"fmt"
	"time"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// RoomScheduleEntry is one existing screening in a room's timetable, with the
// movie duration resolved so callers can compute occupied intervals.
type RoomScheduleEntry struct {
	ID                uuid.UUID
	MovieID           uuid.UUID
	MovieTitle        string
	StartsAt          time.Time
	DurationInMinutes int
}

type ShowTimeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ShowTime, error)

	// FindRoomDay returns the room's screenings with start inside
	// [dayStart, dayEnd), sorted by start ascending.
	FindRoomDay(ctx context.Context, roomID uuid.UUID, dayStart, dayEnd time.Time) ([]*RoomScheduleEntry, error)

	// CreateChecked re-runs the room-level overlap check against the persisted
	// set inside the same serializable transaction that inserts the row, so
	// two operators cannot commit overlapping screenings. Ticket prices are
	// written in the same transaction. On overlap it returns a
	// ScheduleConflictError with the conflicting entry (suggestions are the
	// service's job).
	CreateChecked(ctx context.Context, st *entity.ShowTime, occupied entity.Interval, bufferMinutes int, prices []*entity.TicketPrice) error

	// RecomputeAvailableSeats rewrites the denormalized counter from room
	// capacity minus live claims and returns the fresh value. The counter is
	// never drifted incrementally.
	RecomputeAvailableSeats(ctx context.Context, showTimeID uuid.UUID, now time.Time) (int, error)
}

type showTimeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewShowTimeRepository(db database.PgxIface, log *zap.Logger) ShowTimeRepository {
	return &showTimeRepository{
		db:  db,
		log: log.With(zap.String("repository", "show_time")),
	}
}

func (r *showTimeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ShowTime, error) {
	query := `
		SELECT id, movie_id, theater_id, room_id, starts_at, available_seats, created_at, updated_at
		FROM show_times
		WHERE id = $1
	`

	var st entity.ShowTime
	err := r.db.QueryRow(ctx, query, id).Scan(
		&st.ID,
		&st.MovieID,
		&st.TheaterID,
		&st.RoomID,
		&st.StartsAt,
		&st.AvailableSeats,
		&st.CreatedAt,
		&st.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find show time by ID",
			zap.Error(err),
			zap.String("show_time_id", id.String()),
		)
		return nil, fmt.Errorf("find show time by ID %s: %w", id.String(), err)
	}

	return &st, nil
}

func (r *showTimeRepository) FindRoomDay(ctx context.Context, roomID uuid.UUID, dayStart, dayEnd time.Time) ([]*RoomScheduleEntry, error) {
	query := `
		SELECT st.id, st.movie_id, m.title, st.starts_at, m.duration_in_minutes
		FROM show_times st
		INNER JOIN movies m ON st.movie_id = m.id
		WHERE st.room_id = $1 AND st.starts_at >= $2 AND st.starts_at < $3
		ORDER BY st.starts_at
	`

	rows, err := r.db.Query(ctx, query, roomID, dayStart, dayEnd)
	if err != nil {
		r.log.Error("Failed to find room day schedule",
			zap.Error(err),
			zap.String("room_id", roomID.String()),
			zap.Time("day_start", dayStart),
		)
		return nil, fmt.Errorf("find schedule for room %s day %s: %w",
			roomID.String(), dayStart.Format("2006-01-02"), err)
	}
	defer rows.Close()

	var entries []*RoomScheduleEntry
	for rows.Next() {
		var e RoomScheduleEntry
		err := rows.Scan(
			&e.ID,
			&e.MovieID,
			&e.MovieTitle,
			&e.StartsAt,
			&e.DurationInMinutes,
		)
		if err != nil {
			r.log.Error("Failed to scan room schedule row", zap.Error(err))
			return nil, fmt.Errorf("scan room schedule row: %w", err)
		}
		entries = append(entries, &e)
	}

	return entries, nil
}

func (r *showTimeRepository) CreateChecked(ctx context.Context, st *entity.ShowTime, occupied entity.Interval, bufferMinutes int, prices []*entity.TicketPrice) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin show time transaction: %w", translatePgError(err))
	}
	defer tx.Rollback(ctx)

	// Half-open interval overlap against every screening in the room; each
	// existing occupied interval ends at start + duration + buffer.
	conflictQuery := `
		SELECT st.id, m.title, st.starts_at,
		       st.starts_at + make_interval(mins => m.duration_in_minutes + $4)
		FROM show_times st
		INNER JOIN movies m ON st.movie_id = m.id
		WHERE st.room_id = $1
		  AND st.starts_at < $3
		  AND st.starts_at + make_interval(mins => m.duration_in_minutes + $4) > $2
		ORDER BY st.starts_at
		LIMIT 1
	`

	var ref entity.ShowTimeRef
	err = tx.QueryRow(ctx, conflictQuery, st.RoomID, occupied.Start, occupied.End, bufferMinutes).Scan(
		&ref.ID,
		&ref.MovieTitle,
		&ref.StartsAt,
		&ref.OccupiedUntil,
	)
	if err != nil && err != pgx.ErrNoRows {
		return fmt.Errorf("check room %s for schedule conflict: %w", st.RoomID.String(), translatePgError(err))
	}
	if err == nil {
		r.log.Warn("Show time conflict detected at commit",
			zap.String("room_id", st.RoomID.String()),
			zap.String("conflict_with", ref.ID.String()),
			zap.Time("requested_start", st.StartsAt),
		)
		return &entity.ScheduleConflictError{Report: entity.ConflictReport{ConflictWith: ref}}
	}

	insertQuery := `
		INSERT INTO show_times (id, movie_id, theater_id, room_id, starts_at, available_seats, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = tx.Exec(ctx, insertQuery,
		st.ID,
		st.MovieID,
		st.TheaterID,
		st.RoomID,
		st.StartsAt,
		st.AvailableSeats,
		st.CreatedAt,
		st.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to insert show time",
			zap.Error(err),
			zap.String("movie_id", st.MovieID.String()),
			zap.String("room_id", st.RoomID.String()),
			zap.Time("starts_at", st.StartsAt),
		)
		return fmt.Errorf("insert show time for movie %s room %s: %w",
			st.MovieID.String(), st.RoomID.String(), translatePgError(err))
	}

	insertPrice := `
		INSERT INTO ticket_prices (id, show_time_id, category, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, price := range prices {
		if _, err := tx.Exec(ctx, insertPrice, price.ID, price.ShowTimeID, price.Category, price.Amount, price.CreatedAt); err != nil {
			return fmt.Errorf("insert ticket price %s: %w", price.Category, translatePgError(err))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit show time %s: %w", st.ID.String(), translatePgError(err))
	}

	return nil
}

func (r *showTimeRepository) RecomputeAvailableSeats(ctx context.Context, showTimeID uuid.UUID, now time.Time) (int, error) {
	query := `
		UPDATE show_times st
		SET available_seats = r.capacity - (
			SELECT COUNT(*)
			FROM booking_seats bs
			INNER JOIN bookings b ON bs.booking_id = b.id
			WHERE b.show_time_id = st.id
			  AND (b.status = 'confirmed' OR (b.status = 'held' AND b.expires_at > $2))
		), updated_at = $2
		FROM rooms r
		WHERE st.id = $1 AND r.id = st.room_id
		RETURNING st.available_seats
	`

	var available int
	err := r.db.QueryRow(ctx, query, showTimeID, now).Scan(&available)
	if err == pgx.ErrNoRows {
		return 0, &entity.NotFoundError{Resource: "show time", ID: showTimeID.String()}
	}
	if err != nil {
		r.log.Error("Failed to recompute available seats",
			zap.Error(err),
			zap.String("show_time_id", showTimeID.String()),
		)
		return 0, fmt.Errorf("recompute available seats for show time %s: %w", showTimeID.String(), err)
	}

	return available, nil
}
