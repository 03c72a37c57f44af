package domain

import "time"

// CalendarCell is the price and availability of one room on one day.
// At most one cell exists per (room, date).
type CalendarCell struct {
	ID        int64     `json:"id"`
	RoomID    int64     `json:"room_id" gorm:"not null;uniqueIndex:idx_calendar_cells_room_date,priority:1"`
	Date      time.Time `json:"date" gorm:"type:date;not null;uniqueIndex:idx_calendar_cells_room_date,priority:2"`
	Price     float64   `json:"price" gorm:"type:numeric(10,2);not null;check:price >= 0"`
	Available bool      `json:"available" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Room *Room `json:"room,omitempty" gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE"`
}

func (CalendarCell) TableName() string { return "calendar_cells" }

// RequestCell links a request to a calendar cell of its date range.
type RequestCell struct {
	RequestID      int64     `json:"request_id" gorm:"primaryKey;autoIncrement:false"`
	CalendarCellID int64     `json:"calendar_cell_id" gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt      time.Time `json:"created_at"`
}

func (RequestCell) TableName() string { return "request_cells" }
