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
	"github.com/yigit/hostelpg/internal/pkg/helpers"
	"github.com/yigit/hostelpg/internal/pkg/logger"
)

const (
	constraintStudentID    = "students_student_id_key"
	constraintStudentEmail = "students_email_key"
)

var studentColumns = []string{
	"id", "student_id", "name", "email", "phone", "course", "academic_year", "gender",
	"university", "address", "emergency_contact", "password_hash", "is_active", "is_verified",
	"last_login_at", "created_at", "updated_at",
}

// Columns a student may change on their own profile
var studentProfileColumns = map[string]bool{
	"name": true, "phone": true, "course": true, "academic_year": true, "gender": true,
	"university": true, "address": true, "emergency_contact": true,
}

// Columns an admin may change
var studentAdminColumns = map[string]bool{
	"name": true, "email": true, "phone": true, "course": true, "academic_year": true, "gender": true,
	"university": true, "address": true, "emergency_contact": true, "is_active": true, "is_verified": true,
}

// StudentRepository handles database operations for students
type StudentRepository struct {
	db db.TxBeginner
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(conn db.TxBeginner) *StudentRepository {
	return &StudentRepository{db: conn, sb: statementBuilder()}
}

func scanStudent(row pgx.Row, extra ...any) (*models.Student, error) {
	var s models.Student
	dest := []any{
		&s.ID, &s.StudentID, &s.Name, &s.Email, &s.Phone, &s.Course, &s.AcademicYear, &s.Gender,
		&s.University, &s.Address, &s.EmergencyContact, &s.PasswordHash, &s.IsActive, &s.IsVerified,
		&s.LastLoginAt, &s.CreatedAt, &s.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &s, nil
}

// mapStudentWriteError converts unique violations into conflicts
func mapStudentWriteError(err error) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, constraintStudentID):
		return apperrors.ErrStudentIDExists
	case dberrors.IsDuplicateConstraintError(err, constraintStudentEmail):
		return apperrors.ErrEmailAlreadyExists
	}
	return nil
}

// Create inserts a new student and fills in the generated fields
func (r *StudentRepository) Create(ctx context.Context, s *models.Student) error {
	sql, args, err := r.sb.Insert("students").
		Columns("student_id", "name", "email", "phone", "course", "academic_year", "gender",
			"university", "address", "emergency_contact", "password_hash").
		Values(s.StudentID, s.Name, s.Email, s.Phone, s.Course, s.AcademicYear, s.Gender,
			s.University, s.Address, s.EmergencyContact, s.PasswordHash).
		Suffix("RETURNING id, is_active, is_verified, created_at, updated_at").
		ToSql()
	if err != nil {
		return buildError("create student", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.IsActive, &s.IsVerified, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if mapped := mapStudentWriteError(err); mapped != nil {
			return mapped
		}
		logger.Error().Err(err).Str("studentID", s.StudentID).Msg("Error creating student")
		return fmt.Errorf("error creating student: %w", err)
	}
	return nil
}

func (r *StudentRepository) getOne(ctx context.Context, column string, value any) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).From("students").
		Where(squirrel.Eq{column: value}).
		ToSql()
	if err != nil {
		return nil, buildError("student by "+column, err)
	}

	s, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Str("column", column).Msg("Error fetching student")
		return nil, fmt.Errorf("error fetching student: %w", err)
	}
	return s, nil
}

// GetByStudentID finds a student by the external student identifier
func (r *StudentRepository) GetByStudentID(ctx context.Context, studentID string) (*models.Student, error) {
	return r.getOne(ctx, "student_id", studentID)
}

// GetByID finds a student by primary key
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	return r.getOne(ctx, "id", id)
}

// GetByEmail finds a student by email
func (r *StudentRepository) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	return r.getOne(ctx, "email", email)
}

// ExistsByStudentIDOrEmail reports whether either identifier is taken
func (r *StudentRepository) ExistsByStudentIDOrEmail(ctx context.Context, studentID, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM students WHERE student_id = $1 OR email = $2)`
	if err := r.db.QueryRow(ctx, query, studentID, email).Scan(&exists); err != nil {
		logger.Error().Err(err).Msg("Error checking student existence")
		return false, fmt.Errorf("error checking student existence: %w", err)
	}
	return exists, nil
}

func (r *StudentRepository) update(ctx context.Context, where squirrel.Eq, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return apperrors.ErrNoFieldsToUpdate
	}

	sql, args, err := r.sb.Update("students").
		SetMap(fields).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(where).
		ToSql()
	if err != nil {
		return buildError("update student", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if mapped := mapStudentWriteError(err); mapped != nil {
			return mapped
		}
		logger.Error().Err(err).Interface("where", where).Msg("Error updating student")
		return fmt.Errorf("error updating student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// UpdateProfile changes the self-service profile columns of a student
func (r *StudentRepository) UpdateProfile(ctx context.Context, studentID string, fields map[string]interface{}) error {
	return r.update(ctx, squirrel.Eq{"student_id": studentID}, filterColumns(fields, studentProfileColumns))
}

// AdminUpdate changes any admin-editable column of a student
func (r *StudentRepository) AdminUpdate(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.update(ctx, squirrel.Eq{"id": id}, filterColumns(fields, studentAdminColumns))
}

// SetActive enables or disables a student account.
// Disabling does not end open sessions; the student service does that.
func (r *StudentRepository) SetActive(ctx context.Context, id int64, active bool) error {
	return r.update(ctx, squirrel.Eq{"id": id}, map[string]interface{}{"is_active": active})
}

// SetVerified marks a student as verified or not
func (r *StudentRepository) SetVerified(ctx context.Context, id int64, verified bool) error {
	return r.update(ctx, squirrel.Eq{"id": id}, map[string]interface{}{"is_verified": verified})
}

// UpdateLastLogin stamps the login time
func (r *StudentRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `UPDATE students SET last_login_at = NOW() WHERE id = $1`, id)
	if err != nil {
		logger.Error().Err(err).Int64("id", id).Msg("Error updating student last login")
		return fmt.Errorf("error updating last login: %w", err)
	}
	return nil
}

// AdminList returns one page of students and the total matching count
func (r *StudentRepository) AdminList(ctx context.Context, f models.StudentFilter) ([]models.Student, int, error) {
	q := r.sb.Select(append(append([]string{}, studentColumns...), "COUNT(*) OVER() AS total_count")...).
		From("students")

	if f.Search != nil && *f.Search != "" {
		pattern := helpers.ContainsPattern(*f.Search)
		q = q.Where("(name ILIKE ? OR email ILIKE ? OR student_id ILIKE ?)", pattern, pattern, pattern)
	}
	if f.Course != nil {
		q = q.Where("course = ?", *f.Course)
	}
	if f.AcademicYear != nil {
		q = q.Where("academic_year = ?", *f.AcademicYear)
	}
	if f.Verified != nil {
		q = q.Where("is_verified = ?", *f.Verified)
	}
	if f.Active != nil {
		q = q.Where("is_active = ?", *f.Active)
	}

	page := helpers.NewPage(int(f.Limit), int(f.Offset))
	sql, args, err := q.OrderBy("created_at DESC").Limit(page.Limit).Offset(page.Offset).ToSql()
	if err != nil {
		return nil, 0, buildError("student list", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing student list query")
		return nil, 0, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	students := []models.Student{}
	total := 0
	for rows.Next() {
		s, err := scanStudent(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning student: %w", err)
		}
		students = append(students, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating students: %w", err)
	}
	return students, total, nil
}

// Recent returns the newest n students
func (r *StudentRepository) Recent(ctx context.Context, n uint64) ([]models.Student, error) {
	students, _, err := r.AdminList(ctx, models.StudentFilter{Limit: n})
	return students, err
}

// Delete removes a student who has no allotments or bookings
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var studentID string
		err := tx.QueryRow(ctx, `SELECT student_id FROM students WHERE id = $1 FOR UPDATE`, id).Scan(&studentID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrStudentNotFound
			}
			return fmt.Errorf("error locking student: %w", err)
		}

		var hasBookings bool
		err = tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM hostel_allotments WHERE student_id = $1)
			OR EXISTS(SELECT 1 FROM pg_bookings WHERE student_id = $1)`, studentID).Scan(&hasBookings)
		if err != nil {
			return fmt.Errorf("error checking student bookings: %w", err)
		}
		if hasBookings {
			return apperrors.ErrStudentHasBookings
		}

		if _, err := tx.Exec(ctx, `DELETE FROM students WHERE id = $1`, id); err != nil {
			if dberrors.IsForeignKeyViolation(err) {
				return apperrors.ErrStudentHasBookings
			}
			logger.Error().Err(err).Int64("id", id).Msg("Error deleting student")
			return fmt.Errorf("error deleting student: %w", err)
		}
		return nil
	})
}
