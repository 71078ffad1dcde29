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

// ReviewRepository handles property reviews
type ReviewRepository struct {
	db db.TxBeginner
	sb squirrel.StatementBuilderType
}

// NewReviewRepository creates a new ReviewRepository
func NewReviewRepository(conn db.TxBeginner) *ReviewRepository {
	return &ReviewRepository{db: conn, sb: statementBuilder()}
}

// Upsert creates the student's review of a property or replaces the existing one
func (r *ReviewRepository) Upsert(ctx context.Context, rv *models.Review) error {
	sql, args, err := r.sb.Insert("reviews").
		Columns("student_id", "property_id", "property_type", "rating", "comment").
		Values(rv.StudentID, rv.PropertyID, string(rv.PropertyType), rv.Rating, rv.Comment).
		Suffix(`ON CONFLICT (student_id, property_id, property_type)
			DO UPDATE SET rating = EXCLUDED.rating, comment = EXCLUDED.comment, updated_at = NOW()
			RETURNING id, created_at, updated_at`).
		ToSql()
	if err != nil {
		return buildError("upsert review", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&rv.ID, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Str("studentID", rv.StudentID).Msg("Error saving review")
		return fmt.Errorf("error saving review: %w", err)
	}
	return nil
}

func (r *ReviewRepository) list(ctx context.Context, where squirrel.Eq) ([]models.Review, error) {
	sql, args, err := r.sb.Select("r.id", "r.student_id", "r.property_id", "r.property_type", "r.rating", "r.comment",
		"COALESCE(s.name, '') AS student_name", "r.created_at", "r.updated_at").
		From("reviews r").
		LeftJoin("students s ON s.student_id = r.student_id").
		Where(where).
		OrderBy("r.created_at DESC").
		ToSql()
	if err != nil {
		return nil, buildError("review list", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing reviews")
		return nil, fmt.Errorf("error listing reviews: %w", err)
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var (
			rv           models.Review
			propertyType string
		)
		if err := rows.Scan(&rv.ID, &rv.StudentID, &rv.PropertyID, &propertyType, &rv.Rating, &rv.Comment,
			&rv.StudentName, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning review: %w", err)
		}
		rv.PropertyType = models.PropertyType(propertyType)
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}
	return reviews, nil
}

// ListForProperty returns all reviews of a property, newest first
func (r *ReviewRepository) ListForProperty(ctx context.Context, pt models.PropertyType, propertyID int64) ([]models.Review, error) {
	return r.list(ctx, squirrel.Eq{"r.property_type": string(pt), "r.property_id": propertyID})
}

// ListByStudent returns all reviews written by a student
func (r *ReviewRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Review, error) {
	return r.list(ctx, squirrel.Eq{"r.student_id": studentID})
}

// Average returns the mean rating and number of reviews of a property
func (r *ReviewRepository) Average(ctx context.Context, pt models.PropertyType, propertyID int64) (float64, int, error) {
	var (
		avg   float64
		count int
	)
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(AVG(rating), 0)::float8, COUNT(*) FROM reviews WHERE property_type = $1 AND property_id = $2`,
		string(pt), propertyID).Scan(&avg, &count)
	if err != nil {
		logger.Error().Err(err).Int64("propertyID", propertyID).Msg("Error computing review average")
		return 0, 0, fmt.Errorf("error computing review average: %w", err)
	}
	return avg, count, nil
}

// Delete removes a review owned by studentID
func (r *ReviewRepository) Delete(ctx context.Context, id int64, studentID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1 AND student_id = $2`, id, studentID)
	if err != nil {
		logger.Error().Err(err).Int64("id", id).Msg("Error deleting review")
		return fmt.Errorf("error deleting review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrReviewNotFound
	}
	return nil
}
