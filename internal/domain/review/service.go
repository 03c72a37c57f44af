package review

import (
	"context"
	"fmt"
	"log"
	"strings"

	"hotelbooking/internal/database"
	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/apperror"
	"hotelbooking/internal/pkg/validator"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type Service struct {
	reviews *ReviewRepository
	stays   StayGate
}

func NewService(reviews *ReviewRepository, stays StayGate) *Service {
	return &Service{reviews: reviews, stays: stays}
}

type CreateReviewInput struct {
	RequestID int64  `json:"request_id" validate:"required,gt=0"`
	Rating    int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment   string `json:"comment" validate:"max=2000"`
}

// Create stores a pending review of one of the user's checked-out stays.
func (s *Service) Create(ctx context.Context, userID int64, in CreateReviewInput) (*domain.Review, error) {
	if errs := validator.Validate(in); errs != nil {
		return nil, apperror.ValidationFields(errs)
	}

	req, ownerID, err := s.stays.StayOf(ctx, in.RequestID)
	if err != nil {
		return nil, err
	}
	if ownerID != userID {
		return nil, ErrStayNotOwned
	}
	if req.Status != domain.RequestCheckedOut {
		return nil, ErrStayNotFinished
	}

	exists, err := s.reviews.ExistsForRequest(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	rv := &domain.Review{
		UserID:    userID,
		RequestID: req.ID,
		Rating:    in.Rating,
		Comment:   strings.TrimSpace(in.Comment),
		Status:    domain.ReviewPending,
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrAlreadyReviewed
		}
		return nil, fmt.Errorf("create review: %w", err)
	}

	log.Printf("review_created review_id=%d request_id=%d rating=%d", rv.ID, rv.RequestID, rv.Rating)
	return rv, nil
}

func (s *Service) ListMine(ctx context.Context, userID int64) ([]domain.Review, error) {
	return s.reviews.GetByUser(ctx, userID)
}

func (s *Service) ListForRoom(ctx context.Context, roomID int64, limit, offset int) ([]domain.Review, error) {
	limit, offset = page(limit, offset)
	return s.reviews.GetApprovedByRoom(ctx, roomID, limit, offset)
}

// List is the staff view of every review, optionally narrowed to one status.
func (s *Service) List(ctx context.Context, status domain.ReviewStatus, limit, offset int) ([]domain.Review, int64, error) {
	if status != "" && !status.IsValid() {
		return nil, 0, apperror.Validation("status", "status must be pending, approved or rejected")
	}
	limit, offset = page(limit, offset)
	return s.reviews.List(ctx, status, limit, offset)
}

// Moderate approves or rejects a review and records the staff member.
func (s *Service) Moderate(ctx context.Context, id int64, status domain.ReviewStatus, staffID int64) (*domain.Review, error) {
	if !status.IsModeration() {
		return nil, ErrInvalidModeration
	}
	rv, err := s.reviews.SetStatus(ctx, id, status, staffID)
	if err != nil {
		return nil, notFound(err)
	}

	log.Printf("review_moderated review_id=%d status=%s actor_id=%d", id, status, staffID)
	return rv, nil
}

// Delete removes one of the user's own reviews.
func (s *Service) Delete(ctx context.Context, id, userID int64) error {
	rv, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return notFound(err)
	}
	if rv.UserID != userID {
		return ErrNotOwner
	}
	return notFound(s.reviews.Delete(ctx, id))
}

func page(limit, offset int) (int, int) {
	if limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
