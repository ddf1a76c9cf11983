package entity

import (
	"time"
)

type MovieStatus string

const (
	MovieStatusNowShowing     MovieStatus = "now_showing"
	MovieStatusComingSoon     MovieStatus = "coming_soon"
	MovieStatusSpecialBooking MovieStatus = "special_booking"
)

type Movie struct {
	Base
	Title             string      `db:"title"`
	DurationInMinutes int         `db:"duration_in_minutes"`
	LicenseStart      time.Time   `db:"license_start"`
	LicenseEnd        time.Time   `db:"license_end"`
	Status            MovieStatus `db:"status"`
}

// Duration returns the running time as a time.Duration.
func (m *Movie) Duration() time.Duration {
	return time.Duration(m.DurationInMinutes) * time.Minute
}

// LicenseCovers reports whether the screening window lies inside the movie's
// license window. Movies in special booking status bypass the license-start
// check and are only bounded by the license end.
func (m *Movie) LicenseCovers(start, end time.Time) bool {
	if end.After(m.LicenseEnd) {
		return false
	}
	if m.Status == MovieStatusSpecialBooking {
		return true
	}
	return !start.Before(m.LicenseStart)
}
