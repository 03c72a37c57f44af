package catalog

import (
	"hotelbooking/internal/domain"
	"hotelbooking/internal/domain/calendar"
	"hotelbooking/internal/pkg/apperror"
	"hotelbooking/internal/pkg/daterange"
)

// ---------- ROOMS ----------

type CreateRoomRequest struct {
	RoomNumber  string `json:"room_number" binding:"required"`
	RoomTypeID  int64  `json:"room_type_id" binding:"required"`
	Capacity    int    `json:"capacity" binding:"required"`
	Description string `json:"description" binding:"required"`

	// Optional initial pricing window. Either all three are set or none.
	PriceFromDate string   `json:"price_from_date"`
	PriceToDate   string   `json:"price_to_date"`
	Price         *float64 `json:"price"`
}

func (r CreateRoomRequest) input() CreateRoomInput {
	return CreateRoomInput{
		RoomNumber:  r.RoomNumber,
		RoomTypeID:  r.RoomTypeID,
		Capacity:    r.Capacity,
		Description: r.Description,
	}
}

// pricing returns nil when no pricing field was sent.
func (r CreateRoomRequest) pricing() (*PricingInput, error) {
	if r.PriceFromDate == "" && r.PriceToDate == "" && r.Price == nil {
		return nil, nil
	}
	fields := map[string]string{}
	if r.PriceFromDate == "" {
		fields["price_from_date"] = "required when pricing is given"
	}
	if r.PriceToDate == "" {
		fields["price_to_date"] = "required when pricing is given"
	}
	if r.Price == nil {
		fields["price"] = "required when pricing is given"
	}
	if len(fields) > 0 {
		return nil, apperror.ValidationFields(fields)
	}

	stay, err := daterange.Parse(r.PriceFromDate, r.PriceToDate)
	if err != nil {
		return nil, apperror.Validation("price_from_date", err.Error())
	}
	return &PricingInput{Stay: stay, Price: *r.Price}, nil
}

type RoomResponse struct {
	Room    *domain.Room           `json:"room"`
	Pricing *calendar.UpsertResult `json:"pricing,omitempty"`
}
