package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/hostelpg/internal/app/models"
	"github.com/yigit/hostelpg/internal/db"
	"github.com/yigit/hostelpg/internal/pkg/apperrors"
	"github.com/yigit/hostelpg/internal/pkg/dberrors"
	"github.com/yigit/hostelpg/internal/pkg/helpers"
	"github.com/yigit/hostelpg/internal/pkg/logger"
)

// bookingTable describes where bookings of one property type are stored
// and which inventory column they consume.
type bookingTable struct {
	propertyType   models.PropertyType
	name           string
	propertyCol    string
	propertyTable  string
	availableCol   string
	totalCol       string
	extraColumns   []string
	notFound       error
	noAvailability error
	label          string
}

var (
	hostelAllotments = bookingTable{
		propertyType:   models.PropertyTypeHostel,
		name:           "hostel_allotments",
		propertyCol:    "hostel_id",
		propertyTable:  "hostels",
		availableCol:   "available_rooms",
		totalCol:       "total_rooms",
		extraColumns:   []string{"b.assigned_room", "b.allotment_date", "NULL::date AS check_in_date", "NULL::date AS check_out_date"},
		notFound:       apperrors.ErrHostelNotFound,
		noAvailability: apperrors.ErrNoRoomsAvailable,
		label:          "hostel allotment",
	}
	pgBookings = bookingTable{
		propertyType:   models.PropertyTypePG,
		name:           "pg_bookings",
		propertyCol:    "pg_id",
		propertyTable:  "pgs",
		availableCol:   "available_spots",
		totalCol:       "total_spots",
		extraColumns:   []string{"'' AS assigned_room", "NULL::timestamptz AS allotment_date", "b.check_in_date", "b.check_out_date"},
		notFound:       apperrors.ErrPGNotFound,
		noAvailability: apperrors.ErrNoSpotsAvailable,
		label:          "PG booking",
	}
)

func tableFor(t models.PropertyType) (bookingTable, error) {
	switch t {
	case models.PropertyTypeHostel:
		return hostelAllotments, nil
	case models.PropertyTypePG:
		return pgBookings, nil
	}
	return bookingTable{}, apperrors.ErrInvalidPropertyType
}

// projection lists the columns every booking query returns, in scanBooking order
func (t bookingTable) projection() []string {
	cols := []string{
		fmt.Sprintf("'%s' AS property_type", t.propertyType),
		"b.id",
		fmt.Sprintf("b.%s AS property_id", t.propertyCol),
		"b.student_id", "b.room_type", "b.duration", "b.move_in_date", "b.special_requirements",
		"b.emergency_contact", "b.status", "b.admin_notes",
	}
	cols = append(cols, t.extraColumns...)
	return append(cols,
		"b.created_at", "b.updated_at",
		"COALESCE(p.name, '') AS property_name", "COALESCE(p.area, '') AS area",
		"COALESCE(s.name, '') AS student_name", "COALESCE(s.email, '') AS student_email",
	)
}

func (t bookingTable) selectFrom(sb squirrel.StatementBuilderType) squirrel.SelectBuilder {
	return sb.Select(t.projection()...).
		From(t.name + " b").
		LeftJoin(fmt.Sprintf("%s p ON p.id = b.%s", t.propertyTable, t.propertyCol)).
		LeftJoin("students s ON s.student_id = b.student_id")
}

func scanBooking(row pgx.Row, extra ...any) (*models.Booking, error) {
	var (
		b            models.Booking
		propertyType string
		status       string
	)
	dest := []any{
		&propertyType, &b.ID, &b.PropertyID, &b.StudentID, &b.RoomType, &b.Duration, &b.MoveInDate,
		&b.SpecialRequirements, &b.EmergencyContact, &status, &b.AdminNotes,
		&b.AssignedRoom, &b.AllotmentDate, &b.CheckInDate, &b.CheckOutDate,
		&b.CreatedAt, &b.UpdatedAt, &b.PropertyName, &b.Area, &b.StudentName, &b.StudentEmail,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	b.PropertyType = models.PropertyType(propertyType)
	b.Status = models.BookingStatus(status)
	return &b, nil
}

// BookingRepository stores hostel allotments and PG bookings and runs their lifecycle
type BookingRepository struct {
	db db.TxBeginner
	sb squirrel.StatementBuilderType
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(conn db.TxBeginner) *BookingRepository {
	return &BookingRepository{db: conn, sb: statementBuilder()}
}

// Create inserts a pending booking after checking the property under a row lock.
// Creating a booking does not consume availability.
func (r *BookingRepository) Create(ctx context.Context, b *models.Booking) error {
	t, err := tableFor(b.PropertyType)
	if err != nil {
		return err
	}

	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		lockSQL, lockArgs, err := r.sb.Select(t.availableCol, "is_active").
			From(t.propertyTable).
			Where("id = ?", b.PropertyID).
			Suffix("FOR UPDATE").
			ToSql()
		if err != nil {
			return buildError("lock property", err)
		}

		var (
			available int
			active    bool
		)
		if err := tx.QueryRow(ctx, lockSQL, lockArgs...).Scan(&available, &active); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return t.notFound
			}
			return fmt.Errorf("error locking %s: %w", t.propertyTable, err)
		}
		if !active {
			return t.notFound
		}
		if available <= 0 {
			return t.noAvailability
		}

		var duplicate bool
		dupSQL := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE student_id = $1 AND %s = $2 AND status IN ('pending', 'approved'))`,
			t.name, t.propertyCol)
		if err := tx.QueryRow(ctx, dupSQL, b.StudentID, b.PropertyID).Scan(&duplicate); err != nil {
			return fmt.Errorf("error checking existing %s: %w", t.label, err)
		}
		if duplicate {
			return apperrors.ErrBookingDuplicate
		}

		insertSQL, args, err := r.sb.Insert(t.name).
			Columns("student_id", t.propertyCol, "room_type", "duration", "move_in_date",
				"special_requirements", "emergency_contact", "status").
			Values(b.StudentID, b.PropertyID, b.RoomType, b.Duration, b.MoveInDate,
				b.SpecialRequirements, b.EmergencyContact, string(models.StatusPending)).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
		if err != nil {
			return buildError("create "+t.label, err)
		}

		if err := tx.QueryRow(ctx, insertSQL, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
			if dberrors.IsForeignKeyViolation(err) {
				return apperrors.ErrStudentNotFound
			}
			logger.Error().Err(err).Str("studentID", b.StudentID).Msgf("Error creating %s", t.label)
			return fmt.Errorf("error creating %s: %w", t.label, err)
		}
		b.Status = models.StatusPending
		return nil
	})
}

// GetByID returns one booking with its property and student names
func (r *BookingRepository) GetByID(ctx context.Context, pt models.PropertyType, id int64) (*models.Booking, error) {
	t, err := tableFor(pt)
	if err != nil {
		return nil, err
	}

	sql, args, err := t.selectFrom(r.sb).Where("b.id = ?", id).ToSql()
	if err != nil {
		return nil, buildError(t.label, err)
	}

	b, err := scanBooking(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrBookingNotFound
		}
		logger.Error().Err(err).Int64("id", id).Msgf("Error fetching %s", t.label)
		return nil, fmt.Errorf("error fetching %s: %w", t.label, err)
	}
	return b, nil
}

// List returns one page of bookings across the selected tables, newest first, and the total count
func (r *BookingRepository) List(ctx context.Context, f models.BookingFilter) ([]models.Booking, int, error) {
	page := helpers.NewPage(int(f.Limit), int(f.Offset))
	return r.list(ctx, f, &page)
}

// ListAll returns every booking matching the filter, for exports
func (r *BookingRepository) ListAll(ctx context.Context, f models.BookingFilter) ([]models.Booking, error) {
	bookings, _, err := r.list(ctx, f, nil)
	return bookings, err
}

// ListByStudent returns a student's bookings of both property types
func (r *BookingRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Booking, error) {
	return r.ListAll(ctx, models.BookingFilter{StudentID: &studentID})
}

func (r *BookingRepository) list(ctx context.Context, f models.BookingFilter, page *helpers.Page) ([]models.Booking, int, error) {
	tables := []bookingTable{hostelAllotments, pgBookings}
	if f.PropertyType != nil {
		t, err := tableFor(*f.PropertyType)
		if err != nil {
			return nil, 0, err
		}
		tables = []bookingTable{t}
	}

	// Branches are built with ? placeholders and renumbered once the union is assembled.
	var (
		branches []string
		args     []any
	)
	for _, t := range tables {
		q := t.selectFrom(squirrel.StatementBuilder)
		if f.Status != nil {
			q = q.Where("b.status = ?", string(*f.Status))
		}
		if f.StudentID != nil {
			q = q.Where("b.student_id = ?", *f.StudentID)
		}
		sql, branchArgs, err := q.ToSql()
		if err != nil {
			return nil, 0, buildError("booking list", err)
		}
		branches = append(branches, sql)
		args = append(args, branchArgs...)
	}

	query := fmt.Sprintf("SELECT u.*, COUNT(*) OVER() AS total_count FROM (%s) u ORDER BY u.created_at DESC, u.id DESC",
		strings.Join(branches, " UNION ALL "))
	if page != nil {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", page.Limit, page.Offset)
	}
	query, err := squirrel.Dollar.ReplacePlaceholders(query)
	if err != nil {
		return nil, 0, buildError("booking list", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing booking list query")
		return nil, 0, fmt.Errorf("error listing bookings: %w", err)
	}
	defer rows.Close()

	bookings := []models.Booking{}
	total := 0
	for rows.Next() {
		b, err := scanBooking(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating bookings: %w", err)
	}
	return bookings, total, nil
}

// transitionMissing tells an unknown booking apart from one that already left the pending state
func (r *BookingRepository) transitionMissing(ctx context.Context, tx pgx.Tx, t bookingTable, id int64) error {
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1)`, t.name)
	if err := tx.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return fmt.Errorf("error checking %s: %w", t.label, err)
	}
	if exists {
		return apperrors.ErrBookingAlreadyProcessed
	}
	return apperrors.ErrBookingNotFound
}

// Approve moves a pending booking to approved and consumes one unit of availability.
// Both changes and the student notification commit together or not at all.
func (r *BookingRepository) Approve(ctx context.Context, pt models.PropertyType, id int64, d models.Decision) error {
	t, err := tableFor(pt)
	if err != nil {
		return err
	}

	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		upd := r.sb.Update(t.name).
			Set("status", string(models.StatusApproved)).
			Set("admin_notes", squirrel.Expr("COALESCE(NULLIF(?, ''), admin_notes)", d.Notes)).
			Set("updated_at", squirrel.Expr("NOW()"))
		switch pt {
		case models.PropertyTypeHostel:
			upd = upd.Set("allotment_date", squirrel.Expr("NOW()"))
			if d.AssignedRoom != "" {
				upd = upd.Set("assigned_room", d.AssignedRoom)
			}
		case models.PropertyTypePG:
			upd = upd.Set("check_in_date", squirrel.Expr("COALESCE(move_in_date, CURRENT_DATE)"))
		}

		sql, args, err := upd.
			Where("id = ? AND status = ?", id, string(models.StatusPending)).
			Suffix("RETURNING student_id, " + t.propertyCol).
			ToSql()
		if err != nil {
			return buildError("approve "+t.label, err)
		}

		var (
			studentID  string
			propertyID int64
		)
		if err := tx.QueryRow(ctx, sql, args...).Scan(&studentID, &propertyID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return r.transitionMissing(ctx, tx, t, id)
			}
			logger.Error().Err(err).Int64("id", id).Msgf("Error approving %s", t.label)
			return fmt.Errorf("error approving %s: %w", t.label, err)
		}

		decSQL, decArgs, err := r.sb.Update(t.propertyTable).
			Set(t.availableCol, squirrel.Expr(t.availableCol+" - 1")).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where("id = ? AND "+t.availableCol+" > 0", propertyID).
			ToSql()
		if err != nil {
			return buildError("consume availability", err)
		}

		tag, err := tx.Exec(ctx, decSQL, decArgs...)
		if err != nil {
			return fmt.Errorf("error updating %s availability: %w", t.propertyTable, err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrAvailabilityExhausted
		}

		return insertNotification(ctx, tx, r.sb, &models.Notification{
			StudentID: studentID,
			Title:     "Booking approved",
			Message:   fmt.Sprintf("Your %s request #%d has been approved.", t.label, id),
			Type:      models.NotificationBooking,
		})
	})
}

// Reject moves a pending booking to rejected. Availability is untouched.
func (r *BookingRepository) Reject(ctx context.Context, pt models.PropertyType, id int64, d models.Decision) error {
	t, err := tableFor(pt)
	if err != nil {
		return err
	}

	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Update(t.name).
			Set("status", string(models.StatusRejected)).
			Set("admin_notes", squirrel.Expr("COALESCE(NULLIF(?, ''), 'Rejected by admin')", d.Notes)).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where("id = ? AND status = ?", id, string(models.StatusPending)).
			Suffix("RETURNING student_id").
			ToSql()
		if err != nil {
			return buildError("reject "+t.label, err)
		}

		var studentID string
		if err := tx.QueryRow(ctx, sql, args...).Scan(&studentID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrBookingNotPending
			}
			logger.Error().Err(err).Int64("id", id).Msgf("Error rejecting %s", t.label)
			return fmt.Errorf("error rejecting %s: %w", t.label, err)
		}

		return insertNotification(ctx, tx, r.sb, &models.Notification{
			StudentID: studentID,
			Title:     "Booking rejected",
			Message:   fmt.Sprintf("Your %s request #%d has been rejected.", t.label, id),
			Type:      models.NotificationBooking,
		})
	})
}

// Cancel cancels a pending or approved booking. A non-empty ownerStudentID restricts
// the cancellation to that student's bookings. Cancelling an approved booking
// returns its unit of availability.
func (r *BookingRepository) Cancel(ctx context.Context, pt models.PropertyType, id int64, ownerStudentID, notes string) error {
	t, err := tableFor(pt)
	if err != nil {
		return err
	}

	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		lockSQL, lockArgs, err := r.sb.Select("status", "student_id", t.propertyCol).
			From(t.name).
			Where("id = ?", id).
			Suffix("FOR UPDATE").
			ToSql()
		if err != nil {
			return buildError("lock "+t.label, err)
		}

		var (
			status     string
			studentID  string
			propertyID int64
		)
		if err := tx.QueryRow(ctx, lockSQL, lockArgs...).Scan(&status, &studentID, &propertyID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrBookingNotFound
			}
			return fmt.Errorf("error locking %s: %w", t.label, err)
		}
		if ownerStudentID != "" && ownerStudentID != studentID {
			return apperrors.ErrBookingNotFound
		}
		previous := models.BookingStatus(status)
		if !previous.Cancellable() {
			return apperrors.ErrBookingAlreadyProcessed
		}

		sql, args, err := r.sb.Update(t.name).
			Set("status", string(models.StatusCancelled)).
			Set("admin_notes", squirrel.Expr("COALESCE(NULLIF(?, ''), admin_notes)", notes)).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where("id = ?", id).
			ToSql()
		if err != nil {
			return buildError("cancel "+t.label, err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			logger.Error().Err(err).Int64("id", id).Msgf("Error cancelling %s", t.label)
			return fmt.Errorf("error cancelling %s: %w", t.label, err)
		}

		if previous == models.StatusApproved {
			incSQL, incArgs, err := r.sb.Update(t.propertyTable).
				Set(t.availableCol, squirrel.Expr(t.availableCol+" + 1")).
				Set("updated_at", squirrel.Expr("NOW()")).
				Where("id = ? AND "+t.availableCol+" < "+t.totalCol, propertyID).
				ToSql()
			if err != nil {
				return buildError("release availability", err)
			}
			tag, err := tx.Exec(ctx, incSQL, incArgs...)
			if err != nil {
				return fmt.Errorf("error updating %s availability: %w", t.propertyTable, err)
			}
			if tag.RowsAffected() == 0 {
				logger.Warn().Int64("propertyID", propertyID).Str("table", t.propertyTable).
					Msg("Availability already at capacity, not incremented on cancel")
			}
		}

		return insertNotification(ctx, tx, r.sb, &models.Notification{
			StudentID: studentID,
			Title:     "Booking cancelled",
			Message:   fmt.Sprintf("Your %s request #%d has been cancelled.", t.label, id),
			Type:      models.NotificationBooking,
		})
	})
}
