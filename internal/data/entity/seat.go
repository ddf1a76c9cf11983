package entity

import "github.com/google/uuid"

type SeatCategory string

const (
	SeatCategoryStandard SeatCategory = "standard"
	SeatCategoryVIP      SeatCategory = "vip"
)

// Seat is immutable after creation.
type Seat struct {
	Base
	RoomID     uuid.UUID    `db:"room_id"`
	Label      string       `db:"label"`       // A1, A2, B1, etc.
	SeatRow    string       `db:"seat_row"`    // A, B, C, etc.
	SeatColumn int          `db:"seat_column"` // 1, 2, 3, etc.
	Category   SeatCategory `db:"category"`
}
