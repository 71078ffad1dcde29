package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/hostelpg/internal/app/models"
	"github.com/yigit/hostelpg/internal/app/models/dto"
	"github.com/yigit/hostelpg/internal/pkg/auth"
	"github.com/yigit/hostelpg/internal/pkg/export"
	"github.com/yigit/hostelpg/internal/pkg/helpers"
)

// StudentService is the admin view of student accounts
type StudentService interface {
	List(ctx context.Context, f models.StudentFilter) ([]models.Student, int, error)
	Activity(ctx context.Context, id int64) (*models.StudentActivity, error)
	Bookings(ctx context.Context, id int64) ([]models.Booking, error)
	Update(ctx context.Context, actor Actor, id int64, req *dto.AdminUpdateStudentRequest) (*models.Student, error)
	Delete(ctx context.Context, actor Actor, id int64) error
	Stats(ctx context.Context) (*models.StudentStats, error)
	Export(ctx context.Context, f models.StudentFilter) ([]byte, error)
}

// SessionRevoker ends every open session of an account
type SessionRevoker interface {
	RevokeSubject(ctx context.Context, subject string, cutoff, keepUntil time.Time) error
}

type studentServiceImpl struct {
	students StudentStore
	bookings BookingStore
	reviews  ReviewStore
	stats    StatsStore
	audit    AuditLog
	sessions SessionRevoker
	tokenTTL time.Duration
	logger   zerolog.Logger
}

// NewStudentService creates a new student administration service.
// Deactivating or deleting a student ends the sessions it holds; tokenTTL is how
// long an issued token can stay valid, so the cutoff is kept that long.
func NewStudentService(
	students StudentStore,
	bookings BookingStore,
	reviews ReviewStore,
	stats StatsStore,
	audit AuditLog,
	sessions SessionRevoker,
	tokenTTL time.Duration,
	logger zerolog.Logger,
) StudentService {
	return &studentServiceImpl{
		students: students,
		bookings: bookings,
		reviews:  reviews,
		stats:    stats,
		audit:    audit,
		sessions: sessions,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

func (s *studentServiceImpl) List(ctx context.Context, f models.StudentFilter) ([]models.Student, int, error) {
	return s.students.AdminList(ctx, f)
}

// Activity returns the student with their allotments, PG bookings and reviews
func (s *studentServiceImpl) Activity(ctx context.Context, id int64) (*models.StudentActivity, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookings.ListByStudent(ctx, student.StudentID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving student bookings: %w", err)
	}

	reviews, err := s.reviews.ListByStudent(ctx, student.StudentID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving student reviews: %w", err)
	}

	activity := &models.StudentActivity{
		Student:    student,
		Allotments: []models.Booking{},
		PGBookings: []models.Booking{},
		Reviews:    reviews,
	}
	for _, b := range bookings {
		if b.PropertyType == models.PropertyTypeHostel {
			activity.Allotments = append(activity.Allotments, b)
		} else {
			activity.PGBookings = append(activity.PGBookings, b)
		}
	}
	if activity.Reviews == nil {
		activity.Reviews = []models.Review{}
	}
	return activity, nil
}

// Bookings lists every booking of one student
func (s *studentServiceImpl) Bookings(ctx context.Context, id int64) ([]models.Booking, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.bookings.ListByStudent(ctx, student.StudentID)
}

func (s *studentServiceImpl) Update(ctx context.Context, actor Actor, id int64, req *dto.AdminUpdateStudentRequest) (*models.Student, error) {
	if err := s.students.AdminUpdate(ctx, id, req.Fields()); err != nil {
		return nil, err
	}

	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.IsActive != nil && !*req.IsActive {
		if err := s.endSessions(ctx, student.StudentID); err != nil {
			return nil, err
		}
	}

	record(ctx, s.audit, actor, "STUDENT_UPDATE", fmt.Sprintf("Updated student %d", id))
	return student, nil
}

// Delete removes a student that has no bookings or allotments
func (s *studentServiceImpl) Delete(ctx context.Context, actor Actor, id int64) error {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.students.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.endSessions(ctx, student.StudentID); err != nil {
		return err
	}

	s.logger.Info().Int64("id", id).Msg("Student deleted")
	record(ctx, s.audit, actor, "STUDENT_DELETE", fmt.Sprintf("Deleted student %d", id))
	return nil
}

// endSessions rejects every token issued to studentID so far
func (s *studentServiceImpl) endSessions(ctx context.Context, studentID string) error {
	if s.sessions == nil {
		return nil
	}

	now := time.Now()
	if err := s.sessions.RevokeSubject(ctx, auth.StudentSubject(studentID), now, now.Add(s.tokenTTL)); err != nil {
		return fmt.Errorf("error revoking student sessions: %w", err)
	}
	s.logger.Info().Str("studentID", studentID).Msg("Student sessions revoked")
	return nil
}

func (s *studentServiceImpl) Stats(ctx context.Context) (*models.StudentStats, error) {
	return s.stats.StudentStats(ctx)
}

var studentExportColumns = []export.Column{
	{Header: "ID", Width: 8},
	{Header: "Student ID", Width: 14},
	{Header: "Name", Width: 24},
	{Header: "Email", Width: 28},
	{Header: "Phone", Width: 16},
	{Header: "Course", Width: 20},
	{Header: "Academic Year", Width: 14},
	{Header: "Gender", Width: 10},
	{Header: "University", Width: 24},
	{Header: "Active", Width: 8},
	{Header: "Verified", Width: 10},
	{Header: "Registered At", Width: 18},
}

// Export renders the students matching f as an xlsx workbook. Paging is ignored.
func (s *studentServiceImpl) Export(ctx context.Context, f models.StudentFilter) ([]byte, error) {
	var students []models.Student
	f.Limit = helpers.MaxLimit
	for f.Offset = 0; ; f.Offset += f.Limit {
		page, total, err := s.students.AdminList(ctx, f)
		if err != nil {
			return nil, err
		}
		students = append(students, page...)
		if len(page) == 0 || len(students) >= total {
			break
		}
	}

	rows := make([][]any, 0, len(students))
	for _, st := range students {
		rows = append(rows, []any{
			st.ID, st.StudentID, st.Name, st.Email, st.Phone, st.Course, st.AcademicYear,
			st.Gender, st.University, yesNo(st.IsActive), yesNo(st.IsVerified), st.CreatedAt,
		})
	}

	data, err := export.Workbook(export.Sheet{Name: "Students", Columns: studentExportColumns, Rows: rows})
	if err != nil {
		return nil, fmt.Errorf("error building students export: %w", err)
	}
	return data, nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
