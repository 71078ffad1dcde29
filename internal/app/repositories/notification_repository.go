package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/hostelpg/internal/app/models"
	"github.com/yigit/hostelpg/internal/db"
	"github.com/yigit/hostelpg/internal/pkg/apperrors"
	"github.com/yigit/hostelpg/internal/pkg/logger"
)

// NotificationRepository handles in-app student notifications
type NotificationRepository struct {
	db db.TxBeginner
	sb squirrel.StatementBuilderType
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(conn db.TxBeginner) *NotificationRepository {
	return &NotificationRepository{db: conn, sb: statementBuilder()}
}

// insertNotification writes n through q, which may be a transaction
func insertNotification(ctx context.Context, q db.Querier, sb squirrel.StatementBuilderType, n *models.Notification) error {
	if n.Type == "" {
		n.Type = models.NotificationSystem
	}

	sql, args, err := sb.Insert("notifications").
		Columns("student_id", "title", "message", "type").
		Values(n.StudentID, n.Title, n.Message, n.Type).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return buildError("create notification", err)
	}

	if err := q.QueryRow(ctx, sql, args...).Scan(&n.ID, &n.CreatedAt); err != nil {
		logger.Error().Err(err).Str("studentID", n.StudentID).Msg("Error creating notification")
		return fmt.Errorf("error creating notification: %w", err)
	}
	return nil
}

// Create stores a notification for a student
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return insertNotification(ctx, r.db, r.sb, n)
}

// ListByStudent returns a student's notifications, newest first
func (r *NotificationRepository) ListByStudent(ctx context.Context, studentID string, unreadOnly bool) ([]models.Notification, error) {
	q := r.sb.Select("id", "student_id", "title", "message", "type", "is_read", "created_at").
		From("notifications").
		Where("student_id = ?", studentID)
	if unreadOnly {
		q = q.Where("is_read = FALSE")
	}

	sql, args, err := q.OrderBy("created_at DESC").Limit(100).ToSql()
	if err != nil {
		return nil, buildError("notification list", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("studentID", studentID).Msg("Error listing notifications")
		return nil, fmt.Errorf("error listing notifications: %w", err)
	}
	defer rows.Close()

	list := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.StudentID, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning notification: %w", err)
		}
		list = append(list, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}
	return list, nil
}

// MarkRead marks one of the student's notifications as read
func (r *NotificationRepository) MarkRead(ctx context.Context, id int64, studentID string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE, updated_at = NOW() WHERE id = $1 AND student_id = $2`,
		id, studentID)
	if err != nil {
		logger.Error().Err(err).Int64("id", id).Msg("Error marking notification read")
		return fmt.Errorf("error marking notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification of the student as read and returns how many changed
func (r *NotificationRepository) MarkAllRead(ctx context.Context, studentID string) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE, updated_at = NOW() WHERE student_id = $1 AND is_read = FALSE`,
		studentID)
	if err != nil {
		logger.Error().Err(err).Str("studentID", studentID).Msg("Error marking notifications read")
		return 0, fmt.Errorf("error marking notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}
