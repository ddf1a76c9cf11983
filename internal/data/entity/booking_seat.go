package entity

import "github.com/google/uuid"

// BookingSeat links a booking to a seat. A row whose booking is live is what
// makes a seat unavailable for a show time; at most one live claim may exist
// per (seat, show time) pair.
type BookingSeat struct {
	BaseSimple
	BookingID uuid.UUID `db:"booking_id"`
	SeatID    uuid.UUID `db:"seat_id"`
}
