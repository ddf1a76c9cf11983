package usecase

import (
	"fmt"
	"time"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/internal/data/repository"
)

// occupiedInterval is the span an existing screening reserves in its room,
// running time plus the changeover buffer.
func occupiedInterval(e *repository.RoomScheduleEntry, buffer time.Duration) entity.Interval {
	return entity.NewInterval(e.StartsAt, time.Duration(e.DurationInMinutes)*time.Minute+buffer)
}

// findConflict scans the day's sorted schedule for the first entry whose
// occupied interval overlaps the requested one. Exact-boundary adjacency is
// not a conflict.
func findConflict(entries []*repository.RoomScheduleEntry, requested entity.Interval, buffer time.Duration) (entity.ShowTimeRef, bool) {
	for _, e := range entries {
		occ := occupiedInterval(e, buffer)
		if requested.Overlaps(occ) {
			return entity.ShowTimeRef{
				ID:            e.ID,
				MovieTitle:    e.MovieTitle,
				StartsAt:      e.StartsAt,
				OccupiedUntil: occ.End,
			}, true
		}
	}
	return entity.ShowTimeRef{}, false
}

// suggestSlots proposes free start instants for a slot of the given length on
// the day the requested start falls on, in chronological order:
//
//   - the gap before the first entry, never earlier than the opening hour,
//   - every gap between consecutive entries long enough for the slot,
//   - after the last entry, if the slot still ends by the closing hour.
//
// When nothing fits it returns the single nil-time sentinel suggestion.
func suggestSlots(entries []*repository.RoomScheduleEntry, need time.Duration, day time.Time, buffer time.Duration, openingHour, closingHour int) []entity.SlotSuggestion {
	opening := time.Date(day.Year(), day.Month(), day.Day(), openingHour, 0, 0, 0, day.Location())
	closing := time.Date(day.Year(), day.Month(), day.Day(), closingHour, 0, 0, 0, day.Location())

	var suggestions []entity.SlotSuggestion
	add := func(start time.Time) {
		s := start
		suggestions = append(suggestions, entity.SlotSuggestion{
			Time:        &s,
			Description: fmt.Sprintf("free slot starting at %s", s.Format("15:04")),
		})
	}

	if len(entries) == 0 {
		if !opening.Add(need).After(closing) {
			add(opening)
		}
	} else {
		first := occupiedInterval(entries[0], buffer)
		if !opening.Add(need).After(first.Start) {
			add(opening)
		}

		for i := 0; i < len(entries)-1; i++ {
			gapStart := occupiedInterval(entries[i], buffer).End
			gapEnd := occupiedInterval(entries[i+1], buffer).Start
			if !gapStart.Add(need).After(gapEnd) {
				add(gapStart)
			}
		}

		last := occupiedInterval(entries[len(entries)-1], buffer)
		if !last.End.Add(need).After(closing) {
			add(last.End)
		}
	}

	if len(suggestions) == 0 {
		return []entity.SlotSuggestion{{
			Time:        nil,
			Description: fmt.Sprintf("no availability on %s", day.Format("2006-01-02")),
		}}
	}

	return suggestions
}
