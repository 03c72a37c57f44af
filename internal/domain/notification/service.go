package notification

import (
	"context"

	"hotelbooking/internal/domain"
)

type Service struct {
	repo *NotificationRepository
}

func NewService(repo *NotificationRepository) *Service {
	return &Service{repo: repo}
}

// List returns one page of the user's notifications, newest first, with the
// unread and total counts.
func (s *Service) List(ctx context.Context, userID int64, limit, offset int) ([]domain.Notification, int64, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	list, total, err := s.repo.GetByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, 0, err
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		unread = 0
	}

	return list, unread, total, nil
}

func (s *Service) GetUnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *Service) MarkAsRead(ctx context.Context, notificationID, userID int64) error {
	return s.repo.MarkAsRead(ctx, notificationID, userID)
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}
