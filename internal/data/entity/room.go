package entity

import "github.com/google/uuid"

type Room struct {
	Base
	TheaterID  uuid.UUID `db:"theater_id"`
	RoomNumber int       `db:"room_number"`
	Capacity   int       `db:"capacity"` // must equal the count of seats assigned to the room
}
