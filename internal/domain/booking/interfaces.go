package booking

import (
	"context"

	"gorm.io/gorm"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/daterange"
)

// Calendar is the part of the calendar store the lifecycle engine writes
// through. Every method runs inside the caller's transaction.
type Calendar interface {
	CellsInRange(ctx context.Context, tx *gorm.DB, roomID int64, r daterange.Range) ([]domain.CalendarCell, error)
	RecomputeAvailability(ctx context.Context, tx *gorm.DB, cellIDs []int64) error
	RoomPrice(ctx context.Context, tx *gorm.DB, roomID int64, r daterange.Range) (float64, error)
}

// NotificationSender is fire-and-forget: implementations must not block and
// delivery failures never reach the caller.
type NotificationSender interface {
	NotifyBookingConfirmed(ctx context.Context, b *domain.Booking)
	NotifyBookingDeclined(ctx context.Context, b *domain.Booking)
}
