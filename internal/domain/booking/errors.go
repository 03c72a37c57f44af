package booking

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"hotelbooking/internal/database"
	"hotelbooking/internal/pkg/apperror"
)

var (
	ErrBookingNotFound = apperror.NotFound("booking")
	ErrRequestNotFound = apperror.NotFound("request")
	ErrRoomNotFound    = apperror.NotFound("room")
	ErrNotOwner        = apperror.Forbidden("booking belongs to another user")
	ErrEmptyBooking    = apperror.Validation("requests", "booking has no requests")
	ErrNotDraft        = apperror.Validation("booking", "booking is no longer a draft")
	ErrNoGuests        = apperror.Validation("guests", "at least one guest must be registered before check-out")
	ErrDeclineReason   = apperror.Validation("decline_reason", "decline reason is required")
	ErrNotAllOut       = apperror.Validation("status", "every request must be checked out first")
)

// notFound turns gorm's not-found into the given domain error.
func notFound(err error, nf error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nf
	}
	return err
}

// txFailed classifies an error that aborted a transaction. Domain errors pass
// through; lock and constraint failures become retryable concurrency errors.
func txFailed(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperror.As(err); ok {
		return err
	}
	if database.IsRetryable(err) {
		return apperror.Concurrency("failed to "+op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
