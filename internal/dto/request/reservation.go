package request

type HoldRequest struct {
	ShowTimeID string   `json:"show_time_id" validate:"required,uuid"`
	SeatIDs    []string `json:"seat_ids" validate:"required,min=1,dive,uuid"`
}

type ConfirmRequest struct {
	BookingID     string `json:"booking_id" validate:"required,uuid"`
	PaymentMethod string `json:"payment_method" validate:"required,min=2,max=32"`
	UsePoints     int    `json:"use_points" validate:"gte=0"`
}
