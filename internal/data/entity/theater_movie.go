package entity

import (
	"time"

	"github.com/google/uuid"
)

// TheaterMovie links a movie to a theater for a run window. A movie can only
// be scheduled in rooms of theaters it is linked to, within that window.
type TheaterMovie struct {
	BaseSimple
	TheaterID uuid.UUID `db:"theater_id"`
	MovieID   uuid.UUID `db:"movie_id"`
	RunStart  time.Time `db:"run_start"`
	RunEnd    time.Time `db:"run_end"`
}

// RunCovers reports whether the screening window lies inside the run window.
func (tm *TheaterMovie) RunCovers(start, end time.Time) bool {
	return !start.Before(tm.RunStart) && !end.After(tm.RunEnd)
}
