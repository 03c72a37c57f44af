package booking

type CreateRequestBody struct {
	RoomID         int64  `json:"room_id" binding:"required"`
	CheckIn        string `json:"check_in" binding:"required"`
	CheckOut       string `json:"check_out" binding:"required"`
	NumberOfGuests int    `json:"number_of_guests" binding:"required"`
	Note           string `json:"note" binding:"max=1000"`
}

type UpdateBookingStatusBody struct {
	Status        string `json:"status" binding:"required"`
	DeclineReason string `json:"decline_reason"`
}

type UpdateRequestStatusBody struct {
	Status string `json:"status" binding:"required"`
}
