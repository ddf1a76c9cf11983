package entity

import (
	"time"

	"github.com/google/uuid"
)

type ShowTime struct {
	Base
	MovieID   uuid.UUID `db:"movie_id"`
	TheaterID uuid.UUID `db:"theater_id"`
	RoomID    uuid.UUID `db:"room_id"`
	StartsAt  time.Time `db:"starts_at"`
	// AvailableSeats is a denormalized cache of capacity minus live claims.
	// It is recomputed from the join table whenever it is read, never drifted.
	AvailableSeats int `db:"available_seats"`
}

// Occupied returns the interval the screening reserves in its room, the
// running time plus the changeover buffer.
func (st *ShowTime) Occupied(duration, buffer time.Duration) Interval {
	return NewInterval(st.StartsAt, duration+buffer)
}
