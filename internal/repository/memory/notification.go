package memory

import (
	"context"
	"sort"
	"studio-service/internal/domain/notification"
	apperrors "studio-service/pkg/errors"

	"github.com/google/uuid"
)

const errNotificationNotFound = "notification not found"

type NotificationRepository struct {
	s *Store
}

func NewNotificationRepository(s *Store) *NotificationRepository {
	return &NotificationRepository{s: s}
}

func (r *NotificationRepository) CreateBatch(ctx context.Context, inputs []notification.CreateNotificationInput) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, in := range inputs {
		n := &notification.Notification{
			ID:        uuid.New(),
			UserID:    in.UserID,
			ProjectID: in.ProjectID,
			Type:      in.Type,
			Payload:   in.Payload,
			CreatedAt: r.s.now(),
		}
		r.s.notifications[n.ID] = cloneNotification(n)
	}
	return nil
}

// ListByUser returns the newest notifications first.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*notification.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*notification.Notification
	for _, n := range r.s.notifications {
		if n.UserID == userID {
			out = append(out, cloneNotification(n))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	count := 0
	for _, n := range r.s.notifications {
		if n.UserID == userID && n.ReadAt == nil {
			count++
		}
	}
	return count, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id uuid.UUID) (*notification.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n, ok := r.s.notifications[id]
	if !ok || n.UserID != userID {
		return nil, apperrors.NotFound(errNotificationNotFound)
	}
	if n.ReadAt == nil {
		n.ReadAt = timePtr(r.s.now())
	}

	return cloneNotification(n), nil
}
