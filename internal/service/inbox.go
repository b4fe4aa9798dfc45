package service

import (
	"context"
	"studio-service/internal/domain/account"
	"studio-service/internal/domain/notification"
	"studio-service/internal/rbac/presets"
	"studio-service/internal/repository"

	"github.com/google/uuid"
)

// InboxService reads a user's own notifications.
type InboxService struct {
	notifications repository.NotificationRepository
	guard         *Guard
	pageSize      int
}

func NewInboxService(notifications repository.NotificationRepository, guard *Guard, pageSize int) *InboxService {
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}
	return &InboxService{notifications: notifications, guard: guard, pageSize: pageSize}
}

// ListInbox returns the newest notifications first. A limit outside
// (0, maxPageSize] falls back to the configured page size.
func (s *InboxService) ListInbox(ctx context.Context, actor *account.Profile, limit int) ([]*notification.Notification, error) {
	if err := s.guard.Authorize(actor, presets.ResourceNotification, presets.ActionRead); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > maxPageSize {
		limit = s.pageSize
	}
	return s.notifications.ListByUser(ctx, actor.ID, limit)
}

func (s *InboxService) UnreadCount(ctx context.Context, actor *account.Profile) (int, error) {
	if err := s.guard.Authorize(actor, presets.ResourceNotification, presets.ActionRead); err != nil {
		return 0, err
	}
	return s.notifications.CountUnread(ctx, actor.ID)
}

// MarkRead only touches the actor's own notifications; someone else's id
// reads as not found.
func (s *InboxService) MarkRead(ctx context.Context, actor *account.Profile, id uuid.UUID) (*notification.Notification, error) {
	if err := s.guard.Authorize(actor, presets.ResourceNotification, presets.ActionRead); err != nil {
		return nil, err
	}
	return s.notifications.MarkRead(ctx, actor.ID, id)
}
