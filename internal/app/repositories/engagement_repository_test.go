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
	"github.com/yigit/hostelpg/internal/pkg/helpers"
)

func TestReviewUpsert_OnePerStudentAndProperty(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(q("INSERT INTO reviews (student_id,property_id,property_type,rating,comment) VALUES ($1,$2,$3,$4,$5) ON CONFLICT (student_id, property_id, property_type)")).
		WithArgs("2024001", int64(3), "hostel", 4, "Clean rooms").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(8), fixedTime, fixedTime))

	rv := &models.Review{StudentID: "2024001", PropertyID: 3, PropertyType: models.PropertyTypeHostel, Rating: 4, Comment: "Clean rooms"}
	require.NoError(t, NewReviewRepository(mock).Upsert(context.Background(), rv))
	assert.Equal(t, int64(8), rv.ID)
}

func TestReviewListForProperty(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(q("FROM reviews r LEFT JOIN students s ON s.student_id = r.student_id WHERE r.property_id = $1 AND r.property_type = $2 ORDER BY r.created_at DESC")).
		WithArgs(int64(3), "pg").
		WillReturnRows(pgxmock.NewRows([]string{"id", "student_id", "property_id", "property_type", "rating", "comment", "student_name", "created_at", "updated_at"}).
			AddRow(int64(1), "2024001", int64(3), "pg", 5, "Great", "Demo", fixedTime, fixedTime))

	reviews, err := NewReviewRepository(mock).ListForProperty(context.Background(), models.PropertyTypePG, 3)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, models.PropertyTypePG, reviews[0].PropertyType)
	assert.Equal(t, "Demo", reviews[0].StudentName)
}

func TestReviewAverage(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(q("SELECT COALESCE(AVG(rating), 0)::float8, COUNT(*) FROM reviews")).
		WithArgs("hostel", int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{"avg", "count"}).AddRow(4.5, 2))

	avg, count, err := NewReviewRepository(mock).Average(context.Background(), models.PropertyTypeHostel, 3)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, avg, 0.001)
	assert.Equal(t, 2, count)
}

func TestReviewDelete_OnlyOwner(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(q("DELETE FROM reviews WHERE id = $1 AND student_id = $2")).
		WithArgs(int64(8), "2024002").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := NewReviewRepository(mock).Delete(context.Background(), 8, "2024002")
	assert.ErrorIs(t, err, apperrors.ErrReviewNotFound)
}

func TestFavoriteAdd_Duplicate(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(q("INSERT INTO favorites (student_id,property_id,property_type) VALUES ($1,$2,$3) RETURNING id, created_at")).
		WithArgs("2024001", int64(2), "pg").
		WillReturnError(pgErr(dberrors.CodeUniqueViolation, constraintFavoriteUnique))

	err := NewFavoriteRepository(mock).Add(context.Background(), &models.Favorite{
		StudentID: "2024001", PropertyID: 2, PropertyType: models.PropertyTypePG,
	})
	assert.ErrorIs(t, err, apperrors.ErrFavoriteExists)
}

func TestFavoriteListByStudent_JoinsBothPropertyTables(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(q("LEFT JOIN hostels h ON f.property_type = 'hostel' AND h.id = f.property_id LEFT JOIN pgs p ON f.property_type = 'pg' AND p.id = f.property_id WHERE f.student_id = $1")).
		WithArgs("2024001").
		WillReturnRows(pgxmock.NewRows([]string{"id", "student_id", "property_id", "property_type", "property_name", "area", "price_per_month", "created_at"}).
			AddRow(int64(1), "2024001", int64(2), "pg", "Sunshine PG", "Phase 1", 3500.0, fixedTime))

	favorites, err := NewFavoriteRepository(mock).ListByStudent(context.Background(), "2024001")
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, "Sunshine PG", favorites[0].PropertyName)
	assert.Equal(t, models.PropertyTypePG, favorites[0].PropertyType)
}

func TestFavoriteRemove_Missing(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(q("DELETE FROM favorites")).
		WithArgs("2024001", "hostel", int64(4)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := NewFavoriteRepository(mock).Remove(context.Background(), "2024001", models.PropertyTypeHostel, 4)
	assert.ErrorIs(t, err, apperrors.ErrFavoriteNotFound)
}

func TestNotificationCreate_DefaultsType(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(q("INSERT INTO notifications")).
		WithArgs("2024001", "Welcome", "Hello", models.NotificationSystem).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(4), fixedTime))

	n := &models.Notification{StudentID: "2024001", Title: "Welcome", Message: "Hello"}
	require.NoError(t, NewNotificationRepository(mock).Create(context.Background(), n))
	assert.Equal(t, models.NotificationSystem, n.Type)
	assert.Equal(t, int64(4), n.ID)
}

func TestNotificationListByStudent_UnreadOnly(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(q("FROM notifications WHERE student_id = $1 AND is_read = FALSE ORDER BY created_at DESC LIMIT 100")).
		WithArgs("2024001").
		WillReturnRows(pgxmock.NewRows([]string{"id", "student_id", "title", "message", "type", "is_read", "created_at"}).
			AddRow(int64(1), "2024001", "Booking approved", "Your request has been approved.", "booking", false, fixedTime))

	list, err := NewNotificationRepository(mock).ListByStudent(context.Background(), "2024001", true)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].IsRead)
}

func TestNotificationMarkRead(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(q("UPDATE notifications SET is_read = TRUE")).
		WithArgs(int64(1), "2024001").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectExec(q("WHERE student_id = $1 AND is_read = FALSE")).
		WithArgs("2024001").
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	repo := NewNotificationRepository(mock)
	assert.ErrorIs(t, repo.MarkRead(context.Background(), 1, "2024001"), apperrors.ErrNotificationNotFound)

	n, err := repo.MarkAllRead(context.Background(), "2024001")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestSystemLogList_Paged(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(q("FROM system_logs ORDER BY created_at DESC, id DESC LIMIT 2 OFFSET 0")).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "user_type", "action", "details", "ip_address", "created_at", "total_count"}).
			AddRow(int64(2), "1", "admin", "ADMIN_LOGIN", "", "127.0.0.1", fixedTime, 5).
			AddRow(int64(1), "2024001", "student", "STUDENT_LOGIN", "", "127.0.0.1", fixedTime, 5))

	logs, total, err := NewSystemLogRepository(mock).List(context.Background(), helpers.NewPage(2, 0))
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, logs, 2)
}

func TestSystemLogRecord_SwallowsFailure(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(q("INSERT INTO system_logs")).
		WithArgs("", "", "STUDENT_LOGIN", "", "").
		WillReturnError(assert.AnError)

	assert.NotPanics(t, func() {
		NewSystemLogRepository(mock).Record(context.Background(), &models.SystemLog{Action: "STUDENT_LOGIN"})
	})
}

func TestStatsDashboardCounts(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(q("(SELECT COUNT(*) FROM students)")).
		WillReturnRows(pgxmock.NewRows([]string{"a", "b", "c", "d", "e", "f"}).
			AddRow(int64(10), int64(3), int64(4), int64(2), int64(1), int64(7)))

	d, err := NewStatsRepository(mock).DashboardCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(10), d.TotalStudents)
	assert.Equal(t, int64(2), d.PendingAllotments)
	assert.Equal(t, int64(7), d.TotalReviews)
}

func TestStatsStudentStats(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(q("COUNT(*) FILTER (WHERE is_verified)")).
		WillReturnRows(pgxmock.NewRows([]string{"total", "active", "verified"}).AddRow(int64(5), int64(4), int64(2)))
	mock.ExpectQuery(q("SELECT course, COUNT(*) AS count FROM students WHERE course <> '' GROUP BY course")).
		WillReturnRows(pgxmock.NewRows([]string{"course", "count"}).AddRow("CS", int64(3)).AddRow("EE", int64(2)))
	mock.ExpectQuery(q("SELECT academic_year, COUNT(*) AS count FROM students")).
		WillReturnRows(pgxmock.NewRows([]string{"academic_year", "count"}).AddRow("2024", int64(5)))

	s, err := NewStatsRepository(mock).StudentStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), s.Total)
	assert.Len(t, s.ByCourse, 2)
	assert.Equal(t, "2024", s.ByYear[0].Label)
}

func TestStatsInventoryStats(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(q("FROM hostels")).
		WillReturnRows(pgxmock.NewRows([]string{"t", "a", "c", "v"}).AddRow(int64(3), int64(3), int64(150), int64(40)))
	mock.ExpectQuery(q("FROM pgs")).
		WillReturnRows(pgxmock.NewRows([]string{"t", "a", "c", "v"}).AddRow(int64(4), int64(3), int64(44), int64(9)))

	s, err := NewStatsRepository(mock).InventoryStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(40), s.Hostels.Available)
	assert.Equal(t, int64(44), s.PGs.Capacity)
}

func TestStatsBookingStats(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(q("FROM pg_bookings")).
		WillReturnRows(pgxmock.NewRows([]string{"t", "p", "a", "r", "c"}).AddRow(int64(6), int64(2), int64(2), int64(1), int64(1)))

	s, err := NewStatsRepository(mock).BookingStats(context.Background(), models.PropertyTypePG)
	require.NoError(t, err)
	assert.Equal(t, int64(6), s.Total)
	assert.Equal(t, int64(1), s.Cancelled)

	_, err = NewStatsRepository(mock).BookingStats(context.Background(), "villa")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPropertyType)
}
