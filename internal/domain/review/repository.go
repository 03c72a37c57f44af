package review

import (
	"context"
	"time"

	"gorm.io/gorm"

	"hotelbooking/internal/domain"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) DB() *gorm.DB {
	return r.db
}

func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	return r.db.WithContext(ctx).Omit("Request").Create(rv).Error
}

func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	var rv domain.Review
	if err := r.db.WithContext(ctx).Preload("Request").First(&rv, id).Error; err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *ReviewRepository) GetByUser(ctx context.Context, userID int64) ([]domain.Review, error) {
	var out []domain.Review
	err := r.db.WithContext(ctx).
		Preload("Request").
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&out).Error
	return out, err
}

// List pages through every review, newest first. An empty status lists all.
func (r *ReviewRepository) List(ctx context.Context, status domain.ReviewStatus, limit, offset int) ([]domain.Review, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Review{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []domain.Review
	err := q.Preload("Request").
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&out).Error
	return out, total, err
}

// GetApprovedByRoom lists the approved reviews of stays in a room.
func (r *ReviewRepository) GetApprovedByRoom(ctx context.Context, roomID int64, limit, offset int) ([]domain.Review, error) {
	var out []domain.Review
	err := r.db.WithContext(ctx).
		Joins("JOIN requests ON requests.id = reviews.request_id").
		Where("requests.room_id = ? AND reviews.status = ?", roomID, domain.ReviewApproved).
		Order("reviews.created_at DESC").Order("reviews.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&out).Error
	return out, err
}

func (r *ReviewRepository) ExistsForRequest(ctx context.Context, requestID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Review{}).
		Where("request_id = ?", requestID).
		Count(&count).Error
	return count > 0, err
}

// SetStatus records a moderation decision and who made it.
func (r *ReviewRepository) SetStatus(ctx context.Context, id int64, status domain.ReviewStatus, moderatorID int64) (*domain.Review, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Review{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":      string(status),
			"approved_by": moderatorID,
			"updated_at":  time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *ReviewRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Review{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
