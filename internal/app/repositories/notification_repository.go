package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/advisorly/internal/app/models"
	"github.com/yigit/advisorly/internal/pkg/apperrors"
)

// NotificationRepository handles stored notifications
type NotificationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a notification and sets its ID and creation time
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	sql, args, err := r.sb.Insert("notifications").
		Columns("user_id", "type", "title", "message", "appointment_id").
		Values(n.UserID, n.Type, n.Title, n.Message, n.AppointmentID).
		Suffix("RETURNING id, is_read, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create notification query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n.ID, &n.IsRead, &n.CreatedAt); err != nil {
		return fmt.Errorf("error creating notification: %w", err)
	}
	return nil
}

// ListByUser returns one page of a user's notifications, newest first, and the total match count
func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, unreadOnly bool, offset, limit uint64) ([]*models.Notification, int, error) {
	q := r.sb.Select("id", "user_id", "type", "title", "message", "appointment_id", "is_read", "created_at",
		"COUNT(*) OVER()").
		From("notifications").
		Where(squirrel.Eq{"user_id": userID})
	if unreadOnly {
		q = q.Where(squirrel.Eq{"is_read": false})
	}

	sql, args, err := q.OrderBy("created_at DESC", "id DESC").Limit(limit).Offset(offset).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list notifications query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing notifications: %w", err)
	}
	defer rows.Close()

	var (
		items []*models.Notification
		total int
	)
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.AppointmentID,
			&n.IsRead, &n.CreatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("error scanning notification: %w", err)
		}
		items = append(items, &n)
	}
	return items, total, rows.Err()
}

// CountUnread returns how many unread notifications a user has
func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("notifications").
		Where(squirrel.Eq{"user_id": userID, "is_read": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build unread count query: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead flags one notification of userID as read. Notifications of other
// users are reported as not found.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID int64) error {
	sql, args, err := r.sb.Update("notifications").
		Set("is_read", true).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build mark read query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error marking notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead flags every unread notification of userID and returns how many changed
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	sql, args, err := r.sb.Update("notifications").
		Set("is_read", true).
		Where(squirrel.Eq{"user_id": userID, "is_read": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build mark all read query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error marking notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}
