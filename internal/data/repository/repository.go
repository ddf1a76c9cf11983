package repository

import (
	"cinema-ticketing/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Movie        MovieRepository
	TheaterMovie TheaterMovieRepository
	Room         RoomRepository
	Seat         SeatRepository
	ShowTime     ShowTimeRepository
	Booking      BookingRepository
	BookingSeat  BookingSeatRepository
	TicketPrice  TicketPriceRepository
	User         UserRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Movie:        NewMovieRepository(db, log),
		TheaterMovie: NewTheaterMovieRepository(db, log),
		Room:         NewRoomRepository(db, log),
		Seat:         NewSeatRepository(db, log),
		ShowTime:     NewShowTimeRepository(db, log),
		Booking:      NewBookingRepository(db, log),
		BookingSeat:  NewBookingSeatRepository(db, log),
		TicketPrice:  NewTicketPriceRepository(db, log),
		User:         NewUserRepository(db, log),
	}
}
