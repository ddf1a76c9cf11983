package repository

import (
	"errors"

	"cinema-ticketing/internal/data/entity"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes that matter to the reservation core.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgUniqueViolation      = "23505"
)

// translatePgError maps driver-level failures onto the shared taxonomy.
// Serialization failures and deadlocks are commit races: retryable. A unique
// violation on the live-claim index means another transaction claimed a seat
// first.
func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgSerializationFailure, pgDeadlockDetected:
		return &entity.TransientStorageError{Err: err}
	case pgUniqueViolation:
		return &entity.SeatUnavailableError{}
	default:
		return err
	}
}
