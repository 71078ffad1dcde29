package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/hostelpg/internal/app/models"
	"github.com/yigit/hostelpg/internal/pkg/helpers"
)

// dashboardRecent is how many recent students and allotments the dashboard shows
const dashboardRecent = 5

// AdminService serves the admin dashboard, statistics, system log and health check
type AdminService interface {
	Dashboard(ctx context.Context) (*models.Dashboard, error)
	Inventory(ctx context.Context) (*models.InventoryStats, error)
	Logs(ctx context.Context, page helpers.Page) ([]models.SystemLog, int, error)
	Health(ctx context.Context) error
}

type adminServiceImpl struct {
	stats    StatsStore
	students StudentStore
	bookings BookingStore
	audit    AuditLog
	logger   zerolog.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(stats StatsStore, students StudentStore, bookings BookingStore, audit AuditLog, logger zerolog.Logger) AdminService {
	return &adminServiceImpl{
		stats:    stats,
		students: students,
		bookings: bookings,
		audit:    audit,
		logger:   logger,
	}
}

// Dashboard collects the headline counts with the latest registrations and allotments
func (s *adminServiceImpl) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	d, err := s.stats.DashboardCounts(ctx)
	if err != nil {
		return nil, err
	}

	d.RecentStudents, err = s.students.Recent(ctx, dashboardRecent)
	if err != nil {
		return nil, fmt.Errorf("error retrieving recent students: %w", err)
	}

	hostel := models.PropertyTypeHostel
	d.RecentAllotments, _, err = s.bookings.List(ctx, models.BookingFilter{
		PropertyType: &hostel,
		Limit:        dashboardRecent,
	})
	if err != nil {
		return nil, fmt.Errorf("error retrieving recent allotments: %w", err)
	}

	return d, nil
}

func (s *adminServiceImpl) Inventory(ctx context.Context) (*models.InventoryStats, error) {
	return s.stats.InventoryStats(ctx)
}

func (s *adminServiceImpl) Logs(ctx context.Context, page helpers.Page) ([]models.SystemLog, int, error) {
	return s.audit.List(ctx, page)
}

// Health pings the database
func (s *adminServiceImpl) Health(ctx context.Context) error {
	if err := s.stats.Ping(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Database health check failed")
		return err
	}
	return nil
}
