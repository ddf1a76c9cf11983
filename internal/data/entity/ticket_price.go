package entity

import "github.com/google/uuid"

// TicketPrice is the per-show-time price for a seat category, in the smallest
// currency unit.
type TicketPrice struct {
	BaseSimple
	ShowTimeID uuid.UUID    `db:"show_time_id"`
	Category   SeatCategory `db:"category"`
	Amount     int64        `db:"amount"`
}
