package repository

import (
	"context"

	"github.com/quizdeck-dev/quizdeck/internal/apperr"
	"github.com/quizdeck-dev/quizdeck/internal/models"
	"gorm.io/gorm"
)

type NotificationRepo struct{ db *gorm.DB }

func NewNotificationRepo(db *gorm.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

func (r *NotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		return apperr.Wrap(err, "create notification")
	}
	return nil
}

func (r *NotificationRepo) ListByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, apperr.Wrap(err, "list notifications")
	}
	return notifications, nil
}

func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("status", models.NotificationRead)
	if res.Error != nil {
		return apperr.Wrap(res.Error, "mark notification read")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("notification not found")
	}
	return nil
}

// UnreadReminderExists guards the sweep against duplicating reminders for
// the same (user, quiz) pair within a window.
func (r *NotificationRepo) UnreadReminderExists(ctx context.Context, userID, quizID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND quiz_id = ? AND status = ?", userID, quizID, models.NotificationUnread).
		Count(&count).Error
	if err != nil {
		return false, apperr.Wrap(err, "check unread reminder")
	}
	return count > 0, nil
}
