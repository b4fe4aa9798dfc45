package postgres

import (
	"context"
	"studio-service/internal/domain/notification"
	apperrors "studio-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const notificationColumns = `id, user_id, project_id, type, payload, read_at, created_at`

var notificationCopyColumns = []string{"id", "user_id", "project_id", "type", "payload"}

type NotificationRepository struct {
	db *DB
}

func NewNotificationRepository(db *DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func scanNotification(row rowScanner) (*notification.Notification, error) {
	n := &notification.Notification{}
	err := row.Scan(&n.ID, &n.UserID, &n.ProjectID, &n.Type, &n.Payload, &n.ReadAt, &n.CreatedAt)
	return n, err
}

// CreateBatch writes every row with a single COPY.
func (r *NotificationRepository) CreateBatch(ctx context.Context, inputs []notification.CreateNotificationInput) error {
	if len(inputs) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(inputs))
	for _, in := range inputs {
		rows = append(rows, []any{uuid.New(), in.UserID, in.ProjectID, string(in.Type), jsonObject(in.Payload)})
	}

	if _, err := r.db.Pool.CopyFrom(ctx, pgx.Identifier{"notifications"}, notificationCopyColumns, pgx.CopyFromRows(rows)); err != nil {
		return errFailedCreateNotifications(err)
	}
	return nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*notification.Notification, error) {
	query := `
		SELECT ` + notificationColumns + ` FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.Pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, errFailedListNotifications(err)
	}
	defer rows.Close()

	var notifications []*notification.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, errFailedScanNotification(err)
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read_at IS NULL`, userID).Scan(&count)
	if err != nil {
		return 0, errFailedCountUnread(err)
	}
	return count, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id uuid.UUID) (*notification.Notification, error) {
	query := `
		UPDATE notifications SET read_at = COALESCE(read_at, NOW())
		WHERE id = $1 AND user_id = $2
		RETURNING ` + notificationColumns

	n, err := scanNotification(r.db.Pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errNotificationNotFound)
		}
		return nil, errFailedMarkRead(err)
	}
	return n, nil
}
