package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/hostelpg/internal/app/models"
	"github.com/yigit/hostelpg/internal/db"
	"github.com/yigit/hostelpg/internal/pkg/apperrors"
	"github.com/yigit/hostelpg/internal/pkg/dberrors"
	"github.com/yigit/hostelpg/internal/pkg/logger"
)

const constraintFavoriteUnique = "favorites_student_property_key"

// FavoriteRepository handles student bookmarks
type FavoriteRepository struct {
	db db.TxBeginner
	sb squirrel.StatementBuilderType
}

// NewFavoriteRepository creates a new FavoriteRepository
func NewFavoriteRepository(conn db.TxBeginner) *FavoriteRepository {
	return &FavoriteRepository{db: conn, sb: statementBuilder()}
}

// Add bookmarks a property for a student
func (r *FavoriteRepository) Add(ctx context.Context, f *models.Favorite) error {
	sql, args, err := r.sb.Insert("favorites").
		Columns("student_id", "property_id", "property_type").
		Values(f.StudentID, f.PropertyID, string(f.PropertyType)).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return buildError("add favorite", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&f.ID, &f.CreatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, constraintFavoriteUnique) {
			return apperrors.ErrFavoriteExists
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Str("studentID", f.StudentID).Msg("Error adding favorite")
		return fmt.Errorf("error adding favorite: %w", err)
	}
	return nil
}

// Remove deletes a bookmark
func (r *FavoriteRepository) Remove(ctx context.Context, studentID string, pt models.PropertyType, propertyID int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM favorites WHERE student_id = $1 AND property_type = $2 AND property_id = $3`,
		studentID, string(pt), propertyID)
	if err != nil {
		logger.Error().Err(err).Str("studentID", studentID).Msg("Error removing favorite")
		return fmt.Errorf("error removing favorite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrFavoriteNotFound
	}
	return nil
}

// ListByStudent returns the student's bookmarks with property names, newest first
func (r *FavoriteRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Favorite, error) {
	sql, args, err := r.sb.Select("f.id", "f.student_id", "f.property_id", "f.property_type",
		"COALESCE(h.name, p.name, '') AS property_name",
		"COALESCE(h.area, p.area, '') AS area",
		"COALESCE(h.price_per_month, p.price_per_month, 0)::float8 AS price_per_month",
		"f.created_at").
		From("favorites f").
		LeftJoin("hostels h ON f.property_type = 'hostel' AND h.id = f.property_id").
		LeftJoin("pgs p ON f.property_type = 'pg' AND p.id = f.property_id").
		Where("f.student_id = ?", studentID).
		OrderBy("f.created_at DESC").
		ToSql()
	if err != nil {
		return nil, buildError("favorite list", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("studentID", studentID).Msg("Error listing favorites")
		return nil, fmt.Errorf("error listing favorites: %w", err)
	}
	defer rows.Close()

	favorites := []models.Favorite{}
	for rows.Next() {
		var (
			f            models.Favorite
			propertyType string
		)
		if err := rows.Scan(&f.ID, &f.StudentID, &f.PropertyID, &propertyType, &f.PropertyName, &f.Area, &f.Price, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning favorite: %w", err)
		}
		f.PropertyType = models.PropertyType(propertyType)
		favorites = append(favorites, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating favorites: %w", err)
	}
	return favorites, nil
}
