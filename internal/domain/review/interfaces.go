package review

import (
	"context"

	"hotelbooking/internal/domain"
)

// StayGate resolves the stay a review is about and who booked it.
type StayGate interface {
	StayOf(ctx context.Context, requestID int64) (*domain.Request, int64, error)
}
