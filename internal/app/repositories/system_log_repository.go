package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/hostelpg/internal/app/models"
	"github.com/yigit/hostelpg/internal/db"
	"github.com/yigit/hostelpg/internal/pkg/helpers"
	"github.com/yigit/hostelpg/internal/pkg/logger"
)

// SystemLogRepository stores the audit trail of logins, registrations and admin actions
type SystemLogRepository struct {
	db db.TxBeginner
	sb squirrel.StatementBuilderType
}

// NewSystemLogRepository creates a new SystemLogRepository
func NewSystemLogRepository(conn db.TxBeginner) *SystemLogRepository {
	return &SystemLogRepository{db: conn, sb: statementBuilder()}
}

// Create inserts a log entry
func (r *SystemLogRepository) Create(ctx context.Context, l *models.SystemLog) error {
	sql, args, err := r.sb.Insert("system_logs").
		Columns("user_id", "user_type", "action", "details", "ip_address").
		Values(l.UserID, l.UserType, l.Action, l.Details, l.IPAddress).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return buildError("create system log", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&l.ID, &l.CreatedAt); err != nil {
		return fmt.Errorf("error creating system log: %w", err)
	}
	return nil
}

// Record writes a log entry and only logs a failure, so auditing never fails the request
func (r *SystemLogRepository) Record(ctx context.Context, l *models.SystemLog) {
	if err := r.Create(ctx, l); err != nil {
		logger.Warn().Err(err).Str("action", l.Action).Str("userID", l.UserID).Msg("Failed to record system log")
	}
}

// List returns one page of log entries, newest first, and the total count
func (r *SystemLogRepository) List(ctx context.Context, page helpers.Page) ([]models.SystemLog, int, error) {
	sql, args, err := r.sb.Select("id", "user_id", "user_type", "action", "details", "ip_address", "created_at",
		"COUNT(*) OVER() AS total_count").
		From("system_logs").
		OrderBy("created_at DESC", "id DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		ToSql()
	if err != nil {
		return nil, 0, buildError("system log list", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing system logs")
		return nil, 0, fmt.Errorf("error listing system logs: %w", err)
	}
	defer rows.Close()

	logs := []models.SystemLog{}
	total := 0
	for rows.Next() {
		var l models.SystemLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.UserType, &l.Action, &l.Details, &l.IPAddress, &l.CreatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("error scanning system log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating system logs: %w", err)
	}
	return logs, total, nil
}
