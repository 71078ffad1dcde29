package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/hostelpg/internal/app/models"
	"github.com/yigit/hostelpg/internal/db"
	"github.com/yigit/hostelpg/internal/pkg/apperrors"
	"github.com/yigit/hostelpg/internal/pkg/dberrors"
	"github.com/yigit/hostelpg/internal/pkg/logger"
)

var adminColumns = []string{
	"id", "username", "email", "password_hash", "full_name", "role", "is_active",
	"last_login_at", "created_at", "updated_at",
}

// AdminRepository handles database operations for staff accounts
type AdminRepository struct {
	db db.TxBeginner
	sb squirrel.StatementBuilderType
}

// NewAdminRepository creates a new AdminRepository
func NewAdminRepository(conn db.TxBeginner) *AdminRepository {
	return &AdminRepository{db: conn, sb: statementBuilder()}
}

func (r *AdminRepository) getOne(ctx context.Context, pred squirrel.Sqlizer) (*models.Admin, error) {
	sql, args, err := r.sb.Select(adminColumns...).From("admins").Where(pred).ToSql()
	if err != nil {
		return nil, buildError("admin", err)
	}

	var a models.Admin
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.FullName, &a.Role, &a.IsActive,
		&a.LastLoginAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAdminNotFound
		}
		logger.Error().Err(err).Msg("Error fetching admin")
		return nil, fmt.Errorf("error fetching admin: %w", err)
	}
	return &a, nil
}

// GetByUsernameOrEmail looks an admin up by either login identifier
func (r *AdminRepository) GetByUsernameOrEmail(ctx context.Context, login string) (*models.Admin, error) {
	return r.getOne(ctx, squirrel.Expr("(username = ? OR email = ?)", login, login))
}

// GetByID finds an admin by primary key
func (r *AdminRepository) GetByID(ctx context.Context, id int64) (*models.Admin, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// Create inserts an admin
func (r *AdminRepository) Create(ctx context.Context, a *models.Admin) error {
	role := a.Role
	if role == "" {
		role = string(models.RoleAdmin)
	}

	sql, args, err := r.sb.Insert("admins").
		Columns("username", "email", "password_hash", "full_name", "role").
		Values(a.Username, a.Email, a.PasswordHash, a.FullName, role).
		Suffix("RETURNING id, is_active, created_at, updated_at").
		ToSql()
	if err != nil {
		return buildError("create admin", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&a.ID, &a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "") {
			return apperrors.ErrAdminAlreadyExists
		}
		logger.Error().Err(err).Str("username", a.Username).Msg("Error creating admin")
		return fmt.Errorf("error creating admin: %w", err)
	}
	a.Role = role
	return nil
}

// UpdateLastLogin stamps the login time
func (r *AdminRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `UPDATE admins SET last_login_at = NOW() WHERE id = $1`, id); err != nil {
		logger.Error().Err(err).Int64("id", id).Msg("Error updating admin last login")
		return fmt.Errorf("error updating last login: %w", err)
	}
	return nil
}

// Deactivate soft-deletes an admin account
func (r *AdminRepository) Deactivate(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE admins SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		logger.Error().Err(err).Int64("id", id).Msg("Error deactivating admin")
		return fmt.Errorf("error deactivating admin: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAdminNotFound
	}
	return nil
}

// Count returns the number of admin accounts
func (r *AdminRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM admins`).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting admins: %w", err)
	}
	return n, nil
}
