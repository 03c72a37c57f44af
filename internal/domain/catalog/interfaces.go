package catalog

import (
	"context"

	"gorm.io/gorm"

	"hotelbooking/internal/domain/calendar"
	"hotelbooking/internal/pkg/daterange"
)

// Pricing writes the calendar of a room inside the caller's transaction.
type Pricing interface {
	UpsertRangeTx(ctx context.Context, tx *gorm.DB, roomID int64, r daterange.Range, price float64) (*calendar.UpsertResult, error)
}
