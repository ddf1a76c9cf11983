package entity

import (
	"fmt"
	"strings"
)

// Error taxonomy shared by repositories, services and handlers. Errors from
// layers below (catalog, pricing, points lookups, the database driver) are
// wrapped into one of these so callers see a stable vocabulary.

// ValidationError is a malformed or out-of-window request. Fatal, not retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError is a missing show time, booking, seat, movie or room.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// SeatUnavailableError means a hold lost the race to a concurrent holder.
// Surfaced as "seat just taken, please reselect"; never retried automatically
// since the seat selection itself must change.
type SeatUnavailableError struct {
	Seats []string
}

func (e *SeatUnavailableError) Error() string {
	if len(e.Seats) == 0 {
		return "seat no longer available"
	}
	return fmt.Sprintf("seat(s) %s no longer available", strings.Join(e.Seats, ", "))
}

// BookingExpiredError means the hold's TTL elapsed before confirmation. The
// caller is expected to have the user re-select seats.
type BookingExpiredError struct {
	BookingID string
}

func (e *BookingExpiredError) Error() string {
	return fmt.Sprintf("booking %s hold has expired", e.BookingID)
}

// ScheduleConflictError carries a structured conflict report rather than a
// bare failure: the caller presents the suggestions as alternatives.
type ScheduleConflictError struct {
	Report ConflictReport
}

func (e *ScheduleConflictError) Error() string {
	return fmt.Sprintf("show time conflicts with screening %s starting %s",
		e.Report.ConflictWith.ID, e.Report.ConflictWith.StartsAt.Format("2006-01-02 15:04"))
}

// TransientStorageError is a transaction or commit race. Retried once
// internally, then surfaced as a generic "please try again".
type TransientStorageError struct {
	Err error
}

func (e *TransientStorageError) Error() string {
	return fmt.Sprintf("transient storage failure: %v", e.Err)
}

func (e *TransientStorageError) Unwrap() error { return e.Err }
