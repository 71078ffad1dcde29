package repositories

import (
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/hostelpg/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	StudentRepository      *StudentRepository
	AdminRepository        *AdminRepository
	HostelRepository       *HostelRepository
	PGRepository           *PGRepository
	BookingRepository      *BookingRepository
	ReviewRepository       *ReviewRepository
	FavoriteRepository     *FavoriteRepository
	NotificationRepository *NotificationRepository
	SystemLogRepository    *SystemLogRepository
	StatsRepository        *StatsRepository
}

// NewRepositories initializes all repositories over one connection pool
func NewRepositories(conn db.TxBeginner) *Repositories {
	return &Repositories{
		StudentRepository:      NewStudentRepository(conn),
		AdminRepository:        NewAdminRepository(conn),
		HostelRepository:       NewHostelRepository(conn),
		PGRepository:           NewPGRepository(conn),
		BookingRepository:      NewBookingRepository(conn),
		ReviewRepository:       NewReviewRepository(conn),
		FavoriteRepository:     NewFavoriteRepository(conn),
		NotificationRepository: NewNotificationRepository(conn),
		SystemLogRepository:    NewSystemLogRepository(conn),
		StatsRepository:        NewStatsRepository(conn),
	}
}

func statementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// buildError wraps a squirrel ToSql failure
func buildError(op string, err error) error {
	return fmt.Errorf("failed to build %s query: %w", op, err)
}

// filterColumns keeps only the whitelisted update columns
func filterColumns(fields map[string]interface{}, allowed map[string]bool) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for column, value := range fields {
		if allowed[column] {
			out[column] = value
		}
	}
	return out
}
