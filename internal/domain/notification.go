package domain

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationType string

const (
	NotifBookingConfirmed NotificationType = "booking_confirmed"
	NotifBookingDeclined  NotificationType = "booking_declined"
)

type Notification struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"user_id" gorm:"not null;index"`
	Type      NotificationType `json:"type" gorm:"type:varchar(32);not null;index"`
	Title     string           `json:"title"`
	Message   string           `json:"message,omitempty" gorm:"type:text"`
	Data      datatypes.JSON   `json:"data,omitempty"`
	IsRead    bool             `json:"is_read" gorm:"not null;index"`
	CreatedAt time.Time        `json:"created_at"`
}
