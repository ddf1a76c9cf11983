package response

import (
	"time"

	"cinema-ticketing/internal/data/entity"
)

type ShowTimeResponse struct {
	ID             string    `json:"id"`
	MovieID        string    `json:"movie_id"`
	TheaterID      string    `json:"theater_id"`
	RoomID         string    `json:"room_id"`
	StartsAt       time.Time `json:"starts_at"`
	AvailableSeats int       `json:"available_seats"`
}

type ConflictWithResponse struct {
	ShowTimeID    string    `json:"show_time_id"`
	MovieTitle    string    `json:"movie_title"`
	StartsAt      time.Time `json:"starts_at"`
	OccupiedUntil time.Time `json:"occupied_until"`
}

type SlotSuggestionResponse struct {
	// Time is ISO 8601, or null for the "no availability that day" sentinel.
	Time        *string `json:"time"`
	Description string  `json:"description"`
}

type ConflictResponse struct {
	ConflictWith ConflictWithResponse     `json:"conflict_with"`
	Suggestions  []SlotSuggestionResponse `json:"suggestions"`
}

// TimetableEntryResponse is one screening in a room's day timetable, with the
// occupied interval (buffer included) spelled out for the operator.
type TimetableEntryResponse struct {
	ShowTimeID    string    `json:"show_time_id"`
	MovieTitle    string    `json:"movie_title"`
	StartsAt      time.Time `json:"starts_at"`
	OccupiedUntil time.Time `json:"occupied_until"`
}

func ShowTimeToResponse(st *entity.ShowTime) *ShowTimeResponse {
	return &ShowTimeResponse{
		ID:             st.ID.String(),
		MovieID:        st.MovieID.String(),
		TheaterID:      st.TheaterID.String(),
		RoomID:         st.RoomID.String(),
		StartsAt:       st.StartsAt,
		AvailableSeats: st.AvailableSeats,
	}
}

func ConflictToResponse(report entity.ConflictReport) *ConflictResponse {
	suggestions := make([]SlotSuggestionResponse, len(report.Suggestions))
	for i, s := range report.Suggestions {
		var t *string
		if s.Time != nil {
			formatted := s.Time.Format(time.RFC3339)
			t = &formatted
		}
		suggestions[i] = SlotSuggestionResponse{
			Time:        t,
			Description: s.Description,
		}
	}

	return &ConflictResponse{
		ConflictWith: ConflictWithResponse{
			ShowTimeID:    report.ConflictWith.ID.String(),
			MovieTitle:    report.ConflictWith.MovieTitle,
			StartsAt:      report.ConflictWith.StartsAt,
			OccupiedUntil: report.ConflictWith.OccupiedUntil,
		},
		Suggestions: suggestions,
	}
}
