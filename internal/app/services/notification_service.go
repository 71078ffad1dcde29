package services

import (
	"context"

	"github.com/yigit/hostelpg/internal/app/models"
	"github.com/yigit/hostelpg/internal/pkg/apperrors"
)

// NotificationService reads and acknowledges a student's notifications
type NotificationService interface {
	List(ctx context.Context, actor Actor, unreadOnly bool) ([]models.Notification, error)
	MarkRead(ctx context.Context, actor Actor, id int64) error
	MarkAllRead(ctx context.Context, actor Actor) (int64, error)
}

type notificationServiceImpl struct {
	repo NotificationStore
}

// NewNotificationService creates a new notification service
func NewNotificationService(repo NotificationStore) NotificationService {
	return &notificationServiceImpl{repo: repo}
}

func (s *notificationServiceImpl) List(ctx context.Context, actor Actor, unreadOnly bool) ([]models.Notification, error) {
	if actor.StudentID == "" {
		return nil, apperrors.NewForbiddenError("Only students receive notifications")
	}
	return s.repo.ListByStudent(ctx, actor.StudentID, unreadOnly)
}

func (s *notificationServiceImpl) MarkRead(ctx context.Context, actor Actor, id int64) error {
	if actor.StudentID == "" {
		return apperrors.ErrNotificationNotFound
	}
	return s.repo.MarkRead(ctx, id, actor.StudentID)
}

// MarkAllRead returns how many notifications changed
func (s *notificationServiceImpl) MarkAllRead(ctx context.Context, actor Actor) (int64, error) {
	if actor.StudentID == "" {
		return 0, apperrors.NewForbiddenError("Only students receive notifications")
	}
	return s.repo.MarkAllRead(ctx, actor.StudentID)
}
