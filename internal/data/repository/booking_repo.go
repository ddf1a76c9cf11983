package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ErrAlreadyConfirmed signals a confirm CAS that lost to an earlier confirm of
// the same booking. The service treats it as an idempotent success and
// returns the stored result.
var ErrAlreadyConfirmed = errors.New("booking already confirmed")

// ConfirmUpdate carries the totals computed by the service into the confirm
// transaction.
type ConfirmUpdate struct {
	PaymentMethod string
	TotalPrice    int64
	Discount      int64
	FinalPrice    int64
	PointsUsed    int
	PointsEarned  int
}

type BookingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)

	// CreateHeld atomically re-checks seat availability and inserts the
	// booking plus its seat claims. Runs serializable so two concurrent holds
	// for overlapping seat sets cannot both succeed. Returns
	// SeatUnavailableError naming the conflicting seats, with no partial
	// writes.
	CreateHeld(ctx context.Context, booking *entity.Booking, seatIDs []uuid.UUID) error

	// Confirm transitions held -> confirmed and adjusts the user's points in
	// one transaction. The status change is a compare-and-swap on
	// (status = held, expires_at > now), so a concurrent duplicate confirm
	// cannot double-charge, and the points debit is guarded by the current
	// balance so concurrent confirms of different bookings cannot overdraw.
	// Returns the user's new points total.
	Confirm(ctx context.Context, bookingID, userID uuid.UUID, upd ConfirmUpdate, now time.Time) (int, error)

	// CancelHeld transitions held -> cancelled. Reports whether a row
	// actually changed so the caller can distinguish a no-op.
	CancelHeld(ctx context.Context, bookingID uuid.UUID) (bool, error)

	// ExpireStale transitions every held booking whose expiry has passed to
	// cancelled and returns the show time ID of each swept booking, so the
	// caller can invalidate cached seat maps. Cleanup only; reads are
	// already expiry-aware.
	ExpireStale(ctx context.Context, now time.Time) ([]uuid.UUID, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `
		SELECT id, order_id, user_id, show_time_id, status, expires_at, payment_method,
		       total_price, discount, final_price, points_used, points_earned, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`

	var booking entity.Booking
	err := r.db.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.OrderID,
		&booking.UserID,
		&booking.ShowTimeID,
		&booking.Status,
		&booking.ExpiresAt,
		&booking.PaymentMethod,
		&booking.TotalPrice,
		&booking.Discount,
		&booking.FinalPrice,
		&booking.PointsUsed,
		&booking.PointsEarned,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return &booking, nil
}

func (r *bookingRepository) CreateHeld(ctx context.Context, booking *entity.Booking, seatIDs []uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin hold transaction: %w", translatePgError(err))
	}
	defer tx.Rollback(ctx)

	// Re-check inside the transaction: any of the requested seats with a live
	// claim for this show time kills the whole hold.
	conflictQuery := `
		SELECT s.label
		FROM booking_seats bs
		INNER JOIN bookings b ON bs.booking_id = b.id
		INNER JOIN seats s ON bs.seat_id = s.id
		WHERE b.show_time_id = $1
		  AND bs.seat_id = ANY($2)
		  AND (b.status = 'confirmed' OR (b.status = 'held' AND b.expires_at > $3))
		ORDER BY s.seat_row, s.seat_column
	`

	rows, err := tx.Query(ctx, conflictQuery, booking.ShowTimeID, seatIDs, booking.CreatedAt)
	if err != nil {
		return fmt.Errorf("check seat claims for show time %s: %w", booking.ShowTimeID.String(), translatePgError(err))
	}

	var taken []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			rows.Close()
			return fmt.Errorf("scan claimed seat label: %w", err)
		}
		taken = append(taken, label)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read claimed seat labels: %w", translatePgError(err))
	}

	if len(taken) > 0 {
		r.log.Warn("Hold lost race for seats",
			zap.String("show_time_id", booking.ShowTimeID.String()),
			zap.Strings("seats", taken),
		)
		return &entity.SeatUnavailableError{Seats: taken}
	}

	insertBooking := `
		INSERT INTO bookings (id, order_id, user_id, show_time_id, status, expires_at,
		                      total_price, discount, final_price, points_used, points_earned,
		                      created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, 0, 0, 0, 0, $7, $8)
	`

	_, err = tx.Exec(ctx, insertBooking,
		booking.ID,
		booking.OrderID,
		booking.UserID,
		booking.ShowTimeID,
		booking.Status,
		booking.ExpiresAt,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to insert held booking",
			zap.Error(err),
			zap.String("order_id", booking.OrderID),
			zap.String("user_id", booking.UserID.String()),
		)
		return fmt.Errorf("insert held booking %s: %w", booking.OrderID, translatePgError(err))
	}

	insertSeat := `
		INSERT INTO booking_seats (id, booking_id, seat_id, created_at)
		VALUES ($1, $2, $3, $4)
	`
	for _, seatID := range seatIDs {
		if _, err := tx.Exec(ctx, insertSeat, uuid.New(), booking.ID, seatID, booking.CreatedAt); err != nil {
			return fmt.Errorf("insert booking seat %s: %w", seatID.String(), translatePgError(err))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit hold for booking %s: %w", booking.OrderID, translatePgError(err))
	}

	return nil
}

func (r *bookingRepository) Confirm(ctx context.Context, bookingID, userID uuid.UUID, upd ConfirmUpdate, now time.Time) (int, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return 0, fmt.Errorf("begin confirm transaction: %w", translatePgError(err))
	}
	defer tx.Rollback(ctx)

	casQuery := `
		UPDATE bookings
		SET status = 'confirmed', expires_at = NULL, payment_method = $2,
		    total_price = $3, discount = $4, final_price = $5,
		    points_used = $6, points_earned = $7, updated_at = $8
		WHERE id = $1 AND status = 'held' AND expires_at > $8
	`

	tag, err := tx.Exec(ctx, casQuery,
		bookingID,
		upd.PaymentMethod,
		upd.TotalPrice,
		upd.Discount,
		upd.FinalPrice,
		upd.PointsUsed,
		upd.PointsEarned,
		now,
	)
	if err != nil {
		r.log.Error("Failed to confirm booking",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return 0, fmt.Errorf("confirm booking %s: %w", bookingID.String(), translatePgError(err))
	}

	if tag.RowsAffected() == 0 {
		// CAS missed: find out why.
		var status entity.BookingStatus
		err := tx.QueryRow(ctx, `SELECT status FROM bookings WHERE id = $1`, bookingID).Scan(&status)
		if err == pgx.ErrNoRows {
			return 0, &entity.NotFoundError{Resource: "booking", ID: bookingID.String()}
		}
		if err != nil {
			return 0, fmt.Errorf("inspect booking %s after confirm miss: %w", bookingID.String(), translatePgError(err))
		}
		if status == entity.BookingStatusConfirmed {
			return 0, ErrAlreadyConfirmed
		}
		return 0, &entity.BookingExpiredError{BookingID: bookingID.String()}
	}

	// The balance guard must live inside the transaction: the service's bound
	// check reads a balance that a concurrent confirm of another booking may
	// have spent by now. Zero rows here means the debit would overdraw.
	var newPoints int
	pointsQuery := `
		UPDATE users
		SET points = points - $2 + $3, updated_at = $4
		WHERE id = $1 AND points >= $2
		RETURNING points
	`
	err = tx.QueryRow(ctx, pointsQuery, userID, upd.PointsUsed, upd.PointsEarned, now).Scan(&newPoints)
	if err == pgx.ErrNoRows {
		r.log.Warn("Confirm rejected, points balance too low",
			zap.String("booking_id", bookingID.String()),
			zap.String("user_id", userID.String()),
			zap.Int("points_used", upd.PointsUsed),
		)
		return 0, entity.NewValidationError("use_points %d exceeds the user's current balance", upd.PointsUsed)
	}
	if err != nil {
		r.log.Error("Failed to adjust user points",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.Int("points_used", upd.PointsUsed),
			zap.Int("points_earned", upd.PointsEarned),
		)
		return 0, fmt.Errorf("adjust points for user %s: %w", userID.String(), translatePgError(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit confirm for booking %s: %w", bookingID.String(), translatePgError(err))
	}

	return newPoints, nil
}

func (r *bookingRepository) CancelHeld(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	query := `
		UPDATE bookings
		SET status = 'cancelled', expires_at = NULL, updated_at = NOW()
		WHERE id = $1 AND status = 'held'
	`

	tag, err := r.db.Exec(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to cancel booking",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return false, fmt.Errorf("cancel booking %s: %w", bookingID.String(), translatePgError(err))
	}

	return tag.RowsAffected() > 0, nil
}

func (r *bookingRepository) ExpireStale(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	query := `
		UPDATE bookings
		SET status = 'cancelled', expires_at = NULL, updated_at = $1
		WHERE status = 'held' AND expires_at <= $1
		RETURNING show_time_id
	`

	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		r.log.Error("Failed to expire stale holds", zap.Error(err))
		return nil, fmt.Errorf("expire stale holds: %w", translatePgError(err))
	}
	defer rows.Close()

	var showTimeIDs []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan expired hold show time: %w", err)
		}
		showTimeIDs = append(showTimeIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read expired holds: %w", translatePgError(err))
	}

	if len(showTimeIDs) > 0 {
		r.log.Info("Expired stale holds", zap.Int("count", len(showTimeIDs)))
	}

	return showTimeIDs, nil
}
