package calendar

import (
	"time"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/daterange"
)

type UpsertPricingRequest struct {
	From  string  `json:"from" binding:"required"`
	To    string  `json:"to" binding:"required"`
	Price float64 `json:"price"`
}

type OverrideAvailabilityRequest struct {
	From      string `json:"from" binding:"required"`
	To        string `json:"to" binding:"required"`
	Available *bool  `json:"available" binding:"required"`
}

type CellResponse struct {
	Date      string  `json:"date"`
	Price     float64 `json:"price"`
	Available bool    `json:"available"`
}

type CalendarResponse struct {
	RoomID int64          `json:"room_id"`
	From   string         `json:"from"`
	To     string         `json:"to"`
	Cells  []CellResponse `json:"cells"`
}

func toCalendarResponse(roomID int64, r daterange.Range, cells []domain.CalendarCell) CalendarResponse {
	out := CalendarResponse{
		RoomID: roomID,
		From:   r.From.Format(daterange.Layout),
		To:     r.To.Format(daterange.Layout),
		Cells:  make([]CellResponse, 0, len(cells)),
	}
	for _, c := range cells {
		out.Cells = append(out.Cells, CellResponse{
			Date:      c.Date.In(time.UTC).Format(daterange.Layout),
			Price:     c.Price,
			Available: c.Available,
		})
	}
	return out
}
