package response

import (
	"time"

	"cinema-ticketing/internal/data/entity"
)

type SeatView struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Row       string `json:"row"`
	Column    int    `json:"column"`
	Category  string `json:"category"`
	Available bool   `json:"available"`
}

type HoldResponse struct {
	BookingID string    `json:"booking_id"`
	OrderID   string    `json:"order_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ConfirmationResponse struct {
	BookingID      string `json:"booking_id"`
	PaymentMethod  string `json:"payment_method"`
	TotalPrice     int64  `json:"total_price"`
	Discount       int64  `json:"discount"`
	FinalPrice     int64  `json:"final_price"`
	PointsEarned   int    `json:"points_earned"`
	NewTotalPoints int    `json:"new_total_points"`
}

type BookingDetailResponse struct {
	ID            string     `json:"id"`
	OrderID       string     `json:"order_id"`
	UserID        string     `json:"user_id"`
	ShowTimeID    string     `json:"show_time_id"`
	Status        string     `json:"status"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	PaymentMethod *string    `json:"payment_method,omitempty"`
	TotalPrice    int64      `json:"total_price"`
	Discount      int64      `json:"discount"`
	FinalPrice    int64      `json:"final_price"`
	PointsUsed    int        `json:"points_used"`
	PointsEarned  int        `json:"points_earned"`
	SeatLabels    []string   `json:"seat_labels"`
	CreatedAt     time.Time  `json:"created_at"`
}

func SeatToView(seat *entity.Seat, available bool) SeatView {
	return SeatView{
		ID:        seat.ID.String(),
		Label:     seat.Label,
		Row:       seat.SeatRow,
		Column:    seat.SeatColumn,
		Category:  string(seat.Category),
		Available: available,
	}
}

func BookingToDetail(booking *entity.Booking, seatLabels []string) *BookingDetailResponse {
	return &BookingDetailResponse{
		ID:            booking.ID.String(),
		OrderID:       booking.OrderID,
		UserID:        booking.UserID.String(),
		ShowTimeID:    booking.ShowTimeID.String(),
		Status:        string(booking.Status),
		ExpiresAt:     booking.ExpiresAt,
		PaymentMethod: booking.PaymentMethod,
		TotalPrice:    booking.TotalPrice,
		Discount:      booking.Discount,
		FinalPrice:    booking.FinalPrice,
		PointsUsed:    booking.PointsUsed,
		PointsEarned:  booking.PointsEarned,
		SeatLabels:    seatLabels,
		CreatedAt:     booking.CreatedAt,
	}
}
