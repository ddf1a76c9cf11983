package entity

import (
	"time"

	"github.com/google/uuid"
)

// ShowTimeRef identifies an existing screening in a conflict report.
type ShowTimeRef struct {
	ID         uuid.UUID
	MovieTitle string
	StartsAt   time.Time
	// OccupiedUntil is the end of the occupied interval, buffer included.
	OccupiedUntil time.Time
}

// SlotSuggestion proposes a free start instant. A nil Time is the sentinel
// for "no availability that day".
type SlotSuggestion struct {
	Time        *time.Time
	Description string
}

// ConflictReport names the first conflicting screening plus a ranked list of
// free slots the operator could use instead.
type ConflictReport struct {
	ConflictWith ShowTimeRef
	Suggestions  []SlotSuggestion
}
