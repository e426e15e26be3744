package notification

import (
	"context"

	notification_model "dogwalking/models/notification"
	"dogwalking/repository"

	"gorm.io/gorm"
)

// Service writes and reads in-app notifications.
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// Notify inserts one notification row for the user.
func (s *Service) Notify(ctx context.Context, userID uint, title, message, ntype string, link *string) error {
	n := notification_model.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    ntype,
		Link:    link,
	}
	return s.DB.WithContext(ctx).Create(&n).Error
}

// ListForUser returns the user's notifications, newest first.
func (s *Service) ListForUser(ctx context.Context, userID uint) ([]notification_model.Notification, error) {
	var notifications []notification_model.Notification
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(100).
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead flags a notification as read. The user_id guard keeps users from
// touching each other's notifications.
func (s *Service) MarkRead(ctx context.Context, id, userID uint) error {
	result := s.DB.WithContext(ctx).
		Model(&notification_model.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
