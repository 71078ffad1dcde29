package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/hostelpg/internal/app/models"
	"github.com/yigit/hostelpg/internal/db"
	"github.com/yigit/hostelpg/internal/pkg/logger"
)

// StatsRepository runs the aggregate queries behind the admin dashboard
type StatsRepository struct {
	db db.TxBeginner
	sb squirrel.StatementBuilderType
}

// NewStatsRepository creates a new StatsRepository
func NewStatsRepository(conn db.TxBeginner) *StatsRepository {
	return &StatsRepository{db: conn, sb: statementBuilder()}
}

// DashboardCounts fills the counters of the dashboard; recent lists are loaded separately
func (r *StatsRepository) DashboardCounts(ctx context.Context) (*models.Dashboard, error) {
	var d models.Dashboard
	err := r.db.QueryRow(ctx, `SELECT
		(SELECT COUNT(*) FROM students),
		(SELECT COUNT(*) FROM hostels WHERE is_active = TRUE),
		(SELECT COUNT(*) FROM pgs WHERE is_active = TRUE),
		(SELECT COUNT(*) FROM hostel_allotments WHERE status = 'pending'),
		(SELECT COUNT(*) FROM pg_bookings WHERE status = 'pending'),
		(SELECT COUNT(*) FROM reviews)`).Scan(
		&d.TotalStudents, &d.TotalHostels, &d.TotalPGs,
		&d.PendingAllotments, &d.PendingBookings, &d.TotalReviews,
	)
	if err != nil {
		logger.Error().Err(err).Msg("Error loading dashboard counts")
		return nil, fmt.Errorf("error loading dashboard counts: %w", err)
	}
	return &d, nil
}

func (r *StatsRepository) countBy(ctx context.Context, column string) ([]models.CountByLabel, error) {
	sql, args, err := r.sb.Select(column, "COUNT(*) AS count").
		From("students").
		Where(column + " <> ''").
		GroupBy(column).
		OrderBy("count DESC", column).
		ToSql()
	if err != nil {
		return nil, buildError("student count by "+column, err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("column", column).Msg("Error grouping students")
		return nil, fmt.Errorf("error grouping students by %s: %w", column, err)
	}
	defer rows.Close()

	counts := []models.CountByLabel{}
	for rows.Next() {
		var c models.CountByLabel
		if err := rows.Scan(&c.Label, &c.Count); err != nil {
			return nil, fmt.Errorf("error scanning student count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// StudentStats summarises registrations by status, course and academic year
func (r *StatsRepository) StudentStats(ctx context.Context) (*models.StudentStats, error) {
	var s models.StudentStats
	err := r.db.QueryRow(ctx, `SELECT COUNT(*),
		COUNT(*) FILTER (WHERE is_active),
		COUNT(*) FILTER (WHERE is_verified)
		FROM students`).Scan(&s.Total, &s.Active, &s.Verified)
	if err != nil {
		logger.Error().Err(err).Msg("Error loading student stats")
		return nil, fmt.Errorf("error loading student stats: %w", err)
	}

	if s.ByCourse, err = r.countBy(ctx, "course"); err != nil {
		return nil, err
	}
	if s.ByYear, err = r.countBy(ctx, "academic_year"); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StatsRepository) propertyStats(ctx context.Context, table, totalCol, availableCol string) (models.PropertyStats, error) {
	var p models.PropertyStats
	query := fmt.Sprintf(`SELECT COUNT(*),
		COUNT(*) FILTER (WHERE is_active),
		COALESCE(SUM(%s) FILTER (WHERE is_active), 0),
		COALESCE(SUM(%s) FILTER (WHERE is_active), 0)
		FROM %s`, totalCol, availableCol, table)
	if err := r.db.QueryRow(ctx, query).Scan(&p.Total, &p.Active, &p.Capacity, &p.Available); err != nil {
		logger.Error().Err(err).Str("table", table).Msg("Error loading property stats")
		return p, fmt.Errorf("error loading %s stats: %w", table, err)
	}
	return p, nil
}

// InventoryStats counts properties and sums capacity and availability of active ones
func (r *StatsRepository) InventoryStats(ctx context.Context) (*models.InventoryStats, error) {
	hostels, err := r.propertyStats(ctx, "hostels", "total_rooms", "available_rooms")
	if err != nil {
		return nil, err
	}
	pgs, err := r.propertyStats(ctx, "pgs", "total_spots", "available_spots")
	if err != nil {
		return nil, err
	}
	return &models.InventoryStats{Hostels: hostels, PGs: pgs}, nil
}

// BookingStats counts the bookings of one property type by status
func (r *StatsRepository) BookingStats(ctx context.Context, pt models.PropertyType) (*models.BookingStats, error) {
	t, err := tableFor(pt)
	if err != nil {
		return nil, err
	}

	var s models.BookingStats
	query := fmt.Sprintf(`SELECT COUNT(*),
		COUNT(*) FILTER (WHERE status = 'pending'),
		COUNT(*) FILTER (WHERE status = 'approved'),
		COUNT(*) FILTER (WHERE status = 'rejected'),
		COUNT(*) FILTER (WHERE status = 'cancelled')
		FROM %s`, t.name)
	if err := r.db.QueryRow(ctx, query).Scan(&s.Total, &s.Pending, &s.Approved, &s.Rejected, &s.Cancelled); err != nil {
		logger.Error().Err(err).Str("table", t.name).Msg("Error loading booking stats")
		return nil, fmt.Errorf("error loading %s stats: %w", t.label, err)
	}
	return &s, nil
}

// Ping checks database connectivity for the health endpoint
func (r *StatsRepository) Ping(ctx context.Context) error {
	var one int
	return r.db.QueryRow(ctx, `SELECT 1`).Scan(&one)
}
