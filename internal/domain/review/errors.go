package review

import (
	"errors"

	"gorm.io/gorm"

	"hotelbooking/internal/pkg/apperror"
)

var (
	ErrReviewNotFound    = apperror.NotFound("review")
	ErrNotOwner          = apperror.Forbidden("review belongs to another user")
	ErrStayNotOwned      = apperror.Forbidden("stay belongs to another user")
	ErrStayNotFinished   = apperror.Validation("request_id", "only checked-out stays can be reviewed")
	ErrAlreadyReviewed   = apperror.Validation("request_id", "stay already has a review")
	ErrInvalidModeration = apperror.Validation("status", "status must be approved or rejected")
)

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrReviewNotFound
	}
	return err
}
