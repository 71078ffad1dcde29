package repositories

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/hostelpg/internal/app/models"
	"github.com/yigit/hostelpg/internal/pkg/apperrors"
	"github.com/yigit/hostelpg/internal/pkg/dberrors"
)

const (
	approveHostelSQL = "UPDATE hostel_allotments SET status = $1, admin_notes = COALESCE(NULLIF($2, ''), admin_notes), updated_at = NOW(), allotment_date = NOW() WHERE id = $3 AND status = $4 RETURNING student_id, hostel_id"
	decrementRooms   = "UPDATE hostels SET available_rooms = available_rooms - 1, updated_at = NOW() WHERE id = $1 AND available_rooms > 0"
	incrementRooms   = "UPDATE hostels SET available_rooms = available_rooms + 1, updated_at = NOW() WHERE id = $1 AND available_rooms < total_rooms"
	rejectHostelSQL  = "UPDATE hostel_allotments SET status = $1, admin_notes = COALESCE(NULLIF($2, ''), 'Rejected by admin'), updated_at = NOW() WHERE id = $3 AND status = $4 RETURNING student_id"
	lockAllotmentSQL = "SELECT status, student_id, hostel_id FROM hostel_allotments WHERE id = $1 FOR UPDATE"
)

func expectNotification(mock pgxmock.PgxPoolIface, studentID string) {
	mock.ExpectQuery(q("INSERT INTO notifications (student_id,title,message,type) VALUES ($1,$2,$3,$4) RETURNING id, created_at")).
		WithArgs(studentID, pgxmock.AnyArg(), pgxmock.AnyArg(), models.NotificationBooking).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), fixedTime))
}

func bookingRows(extra ...string) *pgxmock.Rows {
	return pgxmock.NewRows(append([]string{
		"property_type", "id", "property_id", "student_id", "room_type", "duration", "move_in_date",
		"special_requirements", "emergency_contact", "status", "admin_notes", "assigned_room",
		"allotment_date", "check_in_date", "check_out_date", "created_at", "updated_at",
		"property_name", "area", "student_name", "student_email",
	}, extra...))
}

func addBooking(rows *pgxmock.Rows, pt string, id int64, status string, extra ...any) *pgxmock.Rows {
	values := []any{pt, id, int64(1), "S1", "Single", "6 months", nil, "", "", status, "", "",
		nil, nil, nil, fixedTime, fixedTime, "Hostel A", "X", "Student One", "s1@example.com"}
	return rows.AddRow(append(values, extra...)...)
}

func TestApprove_DecrementsAvailabilityOnce(t *testing.T) {
	mock := newMock(t)
	repo := NewBookingRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(q(approveHostelSQL)).
		WithArgs("approved", "", int64(7), "pending").
		WillReturnRows(pgxmock.NewRows([]string{"student_id", "hostel_id"}).AddRow("S1", int64(1)))
	mock.ExpectExec(q(decrementRooms)).
		WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	expectNotification(mock, "S1")
	mock.ExpectCommit()

	require.NoError(t, repo.Approve(context.Background(), models.PropertyTypeHostel, 7, models.Decision{}))
}

func TestApprove_SecondApproveIsConflictWithoutInventoryChange(t *testing.T) {
	mock := newMock(t)
	repo := NewBookingRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(q(approveHostelSQL)).
		WithArgs("approved", "", int64(7), "pending").
		WillReturnRows(pgxmock.NewRows([]string{"student_id", "hostel_id"}))
	mock.ExpectQuery(q("SELECT EXISTS(SELECT 1 FROM hostel_allotments WHERE id = $1)")).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	err := repo.Approve(context.Background(), models.PropertyTypeHostel, 7, models.Decision{})
	assert.ErrorIs(t, err, apperrors.ErrBookingAlreadyProcessed)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestApprove_UnknownBookingIsNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewBookingRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(q(approveHostelSQL)).
		WithArgs("approved", "", int64(99), "pending").
		WillReturnRows(pgxmock.NewRows([]string{"student_id", "hostel_id"}))
	mock.ExpectQuery(q("SELECT EXISTS(SELECT 1 FROM hostel_allotments WHERE id = $1)")).
		WithArgs(int64(99)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	err := repo.Approve(context.Background(), models.PropertyTypeHostel, 99, models.Decision{})
	assert.ErrorIs(t, err, apperrors.ErrBookingNotFound)
}

func TestApprove_NoAvailabilityRollsBack(t *testing.T) {
	mock := newMock(t)
	repo := NewBookingRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(q(approveHostelSQL)).
		WithArgs("approved", "", int64(7), "pending").
		WillReturnRows(pgxmock.NewRows([]string{"student_id", "hostel_id"}).AddRow("S1", int64(1)))
	mock.ExpectExec(q(decrementRooms)).
		WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	err := repo.Approve(context.Background(), models.PropertyTypeHostel, 7, models.Decision{})
	assert.ErrorIs(t, err, apperrors.ErrAvailabilityExhausted)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestApprove_HostelAssignsRoom(t *testing.T) {
	mock := newMock(t)
	repo := NewBookingRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(q("allotment_date = NOW(), assigned_room = $3 WHERE id = $4 AND status = $5")).
		WithArgs("approved", "Welcome", "B-12", int64(7), "pending").
		WillReturnRows(pgxmock.NewRows([]string{"student_id", "hostel_id"}).AddRow("S1", int64(1)))
	mock.ExpectExec(q(decrementRooms)).
		WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	expectNotification(mock, "S1")
	mock.ExpectCommit()

	err := repo.Approve(context.Background(), models.PropertyTypeHostel, 7,
		models.Decision{Notes: "Welcome", AssignedRoom: "B-12"})
	require.NoError(t, err)
}

func TestApprove_PGSetsCheckInDate(t *testing.T) {
	mock := newMock(t)
	repo := NewBookingRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(q("UPDATE pg_bookings SET status = $1, admin_notes = COALESCE(NULLIF($2, ''), admin_notes), updated_at = NOW(), check_in_date = COALESCE(move_in_date, CURRENT_DATE) WHERE id = $3 AND status = $4 RETURNING student_id, pg_id")).
		WithArgs("approved", "", int64(3), "pending").
		WillReturnRows(pgxmock.NewRows([]string{"student_id", "pg_id"}).AddRow("S2", int64(4)))
	mock.ExpectExec(q("UPDATE pgs SET available_spots = available_spots - 1, updated_at = NOW() WHERE id = $1 AND available_spots > 0")).
		WithArgs(int64(4)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	expectNotification(mock, "S2")
	mock.ExpectCommit()

	require.NoError(t, repo.Approve(context.Background(), models.PropertyTypePG, 3, models.Decision{}))
}

func TestReject_LeavesInventoryAlone(t *testing.T) {
	mock := newMock(t)
	repo := NewBookingRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(q(rejectHostelSQL)).
		WithArgs("rejected", "Incomplete documents", int64(9), "pending").
		WillReturnRows(pgxmock.NewRows([]string{"student_id"}).AddRow("S1"))
	expectNotification(mock, "S1")
	mock.ExpectCommit()

	err := repo.Reject(context.Background(), models.PropertyTypeHostel, 9, models.Decision{Notes: "Incomplete documents"})
	require.NoError(t, err)
}

func TestReject_AlreadyDecidedIsNotFoundInPendingState(t *testing.T) {
	mock := newMock(t)
	repo := NewBookingRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(q(rejectHostelSQL)).
		WithArgs("rejected", "", int64(9), "pending").
		WillReturnRows(pgxmock.NewRows([]string{"student_id"}))
	mock.ExpectRollback()

	err := repo.Reject(context.Background(), models.PropertyTypeHostel, 9, models.Decision{})
	assert.ErrorIs(t, err, apperrors.ErrBookingNotPending)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	assert.Equal(t, "Booking not found in pending state", apperrors.PublicMessage(err))
}

func TestCancel_ApprovedReleasesAvailability(t *testing.T) {
	mock := newMock(t)
	repo := NewBookingRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(q(lockAllotmentSQL)).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"status", "student_id", "hostel_id"}).AddRow("approved", "S1", int64(1)))
	mock.ExpectExec(q("UPDATE hostel_allotments SET status = $1, admin_notes = COALESCE(NULLIF($2, ''), admin_notes), updated_at = NOW() WHERE id = $3")).
		WithArgs("cancelled", "", int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(q(incrementRooms)).
		WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	expectNotification(mock, "S1")
	mock.ExpectCommit()

	require.NoError(t, repo.Cancel(context.Background(), models.PropertyTypeHostel, 7, "S1", ""))
}

func TestCancel_PendingDoesNotTouchInventory(t *testing.T) {
	mock := newMock(t)
	repo := NewBookingRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(q(lockAllotmentSQL)).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"status", "student_id", "hostel_id"}).AddRow("pending", "S1", int64(1)))
	mock.ExpectExec(q("UPDATE hostel_allotments SET status = $1")).
		WithArgs("cancelled", "Cancelled by admin", int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	expectNotification(mock, "S1")
	mock.ExpectCommit()

	require.NoError(t, repo.Cancel(context.Background(), models.PropertyTypeHostel, 7, "", "Cancelled by admin"))
}

func TestCancel_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		owner   string
		actor   string
		wantErr error
	}{
		{name: "other student's booking", status: "pending", owner: "S1", actor: "S2", wantErr: apperrors.ErrBookingNotFound},
		{name: "already rejected", status: "rejected", owner: "S1", actor: "S1", wantErr: apperrors.ErrBookingAlreadyProcessed},
		{name: "already cancelled", status: "cancelled", owner: "S1", actor: "", wantErr: apperrors.ErrBookingAlreadyProcessed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			mock.ExpectBegin()
			mock.ExpectQuery(q(lockAllotmentSQL)).
				WithArgs(int64(7)).
				WillReturnRows(pgxmock.NewRows([]string{"status", "student_id", "hostel_id"}).AddRow(tt.status, tt.owner, int64(1)))
			mock.ExpectRollback()

			err := NewBookingRepository(mock).Cancel(context.Background(), models.PropertyTypeHostel, 7, tt.actor, "")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreate_PendingWithoutConsumingAvailability(t *testing.T) {
	mock := newMock(t)
	repo := NewBookingRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT available_rooms, is_active FROM hostels WHERE id = $1 FOR UPDATE")).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"available_rooms", "is_active"}).AddRow(5, true))
	mock.ExpectQuery(q("SELECT EXISTS(SELECT 1 FROM hostel_allotments WHERE student_id = $1 AND hostel_id = $2 AND status IN ('pending', 'approved'))")).
		WithArgs("S1", int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(q("INSERT INTO hostel_allotments (student_id,hostel_id,room_type,duration,move_in_date,special_requirements,emergency_contact,status) VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING id, created_at, updated_at")).
		WithArgs("S1", int64(1), "Single", "6 months", pgxmock.AnyArg(), "", "", "pending").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(21), fixedTime, fixedTime))
	mock.ExpectCommit()

	b := &models.Booking{
		PropertyType: models.PropertyTypeHostel,
		PropertyID:   1,
		StudentID:    "S1",
		RoomType:     "Single",
		Duration:     "6 months",
	}
	require.NoError(t, repo.Create(context.Background(), b))
	assert.Equal(t, int64(21), b.ID)
	assert.Equal(t, models.StatusPending, b.Status)
}

func TestCreate_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		pt        models.PropertyType
		lockSQL   string
		available int
		active    bool
		found     bool
		duplicate bool
		wantErr   error
	}{
		{name: "hostel full", pt: models.PropertyTypeHostel, lockSQL: "FROM hostels WHERE id = $1 FOR UPDATE", available: 0, active: true, found: true, wantErr: apperrors.ErrNoRoomsAvailable},
		{name: "pg full", pt: models.PropertyTypePG, lockSQL: "FROM pgs WHERE id = $1 FOR UPDATE", available: 0, active: true, found: true, wantErr: apperrors.ErrNoSpotsAvailable},
		{name: "inactive hostel", pt: models.PropertyTypeHostel, lockSQL: "FROM hostels WHERE id = $1 FOR UPDATE", available: 3, active: false, found: true, wantErr: apperrors.ErrHostelNotFound},
		{name: "missing pg", pt: models.PropertyTypePG, lockSQL: "FROM pgs WHERE id = $1 FOR UPDATE", found: false, wantErr: apperrors.ErrPGNotFound},
		{name: "duplicate pending", pt: models.PropertyTypePG, lockSQL: "FROM pgs WHERE id = $1 FOR UPDATE", available: 2, active: true, found: true, duplicate: true, wantErr: apperrors.ErrBookingDuplicate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			mock.ExpectBegin()
			rows := pgxmock.NewRows([]string{"available", "is_active"})
			if tt.found {
				rows.AddRow(tt.available, tt.active)
			}
			mock.ExpectQuery(q(tt.lockSQL)).WithArgs(int64(1)).WillReturnRows(rows)
			if tt.duplicate {
				mock.ExpectQuery(q("SELECT EXISTS(SELECT 1 FROM pg_bookings")).
					WithArgs("S1", int64(1)).
					WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
			}
			mock.ExpectRollback()

			b := &models.Booking{PropertyType: tt.pt, PropertyID: 1, StudentID: "S1"}
			err := NewBookingRepository(mock).Create(context.Background(), b)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreate_UnknownStudent(t *testing.T) {
	mock := newMock(t)
	repo := NewBookingRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(q("FOR UPDATE")).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"available_spots", "is_active"}).AddRow(2, true))
	mock.ExpectQuery(q("SELECT EXISTS")).
		WithArgs("ghost", int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(q("INSERT INTO pg_bookings")).
		WithArgs(anyArgs(8)...).
		WillReturnError(pgErr(dberrors.CodeForeignKeyViolation, "pg_bookings_student_id_fkey"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.Booking{PropertyType: models.PropertyTypePG, PropertyID: 1, StudentID: "ghost"})
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestCreate_InvalidPropertyType(t *testing.T) {
	repo := NewBookingRepository(newMock(t))

	err := repo.Create(context.Background(), &models.Booking{PropertyType: "villa"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPropertyType)
}

func TestList_UnionOfBothTablesWithTotal(t *testing.T) {
	mock := newMock(t)
	repo := NewBookingRepository(mock)

	status := models.StatusPending
	mock.ExpectQuery(q("FROM hostel_allotments b LEFT JOIN hostels p ON p.id = b.hostel_id LEFT JOIN students s ON s.student_id = b.student_id WHERE b.status = $1 UNION ALL SELECT 'pg' AS property_type")).
		WithArgs("pending", "pending").
		WillReturnRows(addBooking(addBooking(bookingRows("total_count"), "hostel", 1, "pending", 2), "pg", 4, "pending", 2))

	bookings, total, err := repo.List(context.Background(), models.BookingFilter{Status: &status, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, bookings, 2)
	assert.Equal(t, models.PropertyTypeHostel, bookings[0].PropertyType)
	assert.Equal(t, models.PropertyTypePG, bookings[1].PropertyType)
	assert.Equal(t, models.StatusPending, bookings[1].Status)
	assert.Nil(t, bookings[0].MoveInDate)
}

func TestList_SingleTableIsPaged(t *testing.T) {
	mock := newMock(t)
	repo := NewBookingRepository(mock)

	pt := models.PropertyTypePG
	mock.ExpectQuery(`FROM pg_bookings b .* ORDER BY u\.created_at DESC, u\.id DESC LIMIT 20 OFFSET 40$`).
		WillReturnRows(bookingRows("total_count"))

	bookings, total, err := repo.List(context.Background(), models.BookingFilter{PropertyType: &pt, Limit: 20, Offset: 40})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, bookings)
}

func TestGetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewBookingRepository(mock)

	mock.ExpectQuery(q("FROM pg_bookings b LEFT JOIN pgs p ON p.id = b.pg_id LEFT JOIN students s ON s.student_id = b.student_id WHERE b.id = $1")).
		WithArgs(int64(5)).
		WillReturnRows(bookingRows())

	_, err := repo.GetByID(context.Background(), models.PropertyTypePG, 5)
	assert.ErrorIs(t, err, apperrors.ErrBookingNotFound)
}
