package domain

import "time"

type RoomType struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null" validate:"required"`
	Description string    `json:"description,omitempty"`
	BasePrice   float64   `json:"base_price" gorm:"type:numeric(10,2)" validate:"gte=0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Room struct {
	ID          int64     `json:"id"`
	RoomNumber  string    `json:"room_number" gorm:"uniqueIndex;not null" validate:"required"`
	RoomTypeID  int64     `json:"room_type_id" gorm:"not null;index" validate:"required"`
	Capacity    int       `json:"capacity" gorm:"not null" validate:"required,gt=0"`
	Description string    `json:"description" gorm:"type:text" validate:"required,max=140"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	RoomType *RoomType `json:"room_type,omitempty" gorm:"foreignKey:RoomTypeID"`
}
