package request

type CreateShowTimeRequest struct {
	MovieID string `json:"movie_id" validate:"required,uuid"`
	RoomID  string `json:"room_id" validate:"required,uuid"`
	// ShowTime is the start instant, RFC 3339.
	ShowTime      string `json:"show_time" validate:"required"`
	StandardPrice int64  `json:"standard_price" validate:"required,gt=0"`
	VIPPrice      int64  `json:"vip_price" validate:"required,gt=0"`
}
