package notification

import (
	"context"
	"log"
	"time"
)

// CleanupService removes notifications past their retention period.
type CleanupService struct {
	repo *NotificationRepository
	now  func() time.Time
}

func NewCleanupService(repo *NotificationRepository) *CleanupService {
	return &CleanupService{repo: repo, now: time.Now}
}

// CleanupOldNotifications removes notifications older than daysToKeep days.
func (c *CleanupService) CleanupOldNotifications(ctx context.Context, daysToKeep int) (int64, error) {
	startTime := time.Now()
	cutoff := c.now().AddDate(0, 0, -daysToKeep)

	deleted, err := c.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		log.Printf("notification_cleanup_failed err=%v", err)
		return 0, err
	}

	log.Printf("notification_cleanup deleted=%d cutoff=%s took=%v", deleted, cutoff.Format(time.RFC3339), time.Since(startTime))
	return deleted, nil
}
