package services

import (
	"context"

	"github.com/yigit/hostelpg/internal/app/models"
	"github.com/yigit/hostelpg/internal/pkg/helpers"
)

// The store interfaces below are satisfied by the repositories package.
// Services depend on these narrow views so they can be exercised without a database.

// StudentStore persists student accounts
type StudentStore interface {
	Create(ctx context.Context, s *models.Student) error
	GetByStudentID(ctx context.Context, studentID string) (*models.Student, error)
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	UpdateProfile(ctx context.Context, studentID string, fields map[string]interface{}) error
	AdminUpdate(ctx context.Context, id int64, fields map[string]interface{}) error
	AdminList(ctx context.Context, f models.StudentFilter) ([]models.Student, int, error)
	Recent(ctx context.Context, n uint64) ([]models.Student, error)
	Delete(ctx context.Context, id int64) error
	UpdateLastLogin(ctx context.Context, id int64) error
}

// AdminStore persists staff accounts
type AdminStore interface {
	GetByUsernameOrEmail(ctx context.Context, login string) (*models.Admin, error)
	UpdateLastLogin(ctx context.Context, id int64) error
}

// HostelStore persists hostels
type HostelStore interface {
	GetAll(ctx context.Context, filter models.PropertyFilter) ([]models.Hostel, error)
	GetAllForAdmin(ctx context.Context) ([]models.Hostel, error)
	GetByArea(ctx context.Context, area string) ([]models.Hostel, error)
	Search(ctx context.Context, term string, filter models.PropertyFilter) ([]models.Hostel, error)
	GetByID(ctx context.Context, id int64) (*models.Hostel, error)
	GetAreas(ctx context.Context) ([]string, error)
	Create(ctx context.Context, h *models.Hostel) error
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
	SetImageURL(ctx context.Context, id int64, url string) error
	Delete(ctx context.Context, id int64) error
}

// PGStore persists paying-guest residences
type PGStore interface {
	GetAll(ctx context.Context, filter models.PropertyFilter) ([]models.PG, error)
	GetAllForAdmin(ctx context.Context) ([]models.PG, error)
	GetByArea(ctx context.Context, area string) ([]models.PG, error)
	Search(ctx context.Context, term string, filter models.PropertyFilter) ([]models.PG, error)
	GetByID(ctx context.Context, id int64) (*models.PG, error)
	GetAreas(ctx context.Context) ([]string, error)
	GetGenderPreferences(ctx context.Context) ([]string, error)
	Create(ctx context.Context, p *models.PG) error
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
	SetImageURL(ctx context.Context, id int64, url string) error
	Delete(ctx context.Context, id int64) error
}

// BookingStore persists allotments and bookings and applies their transitions atomically
type BookingStore interface {
	Create(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, pt models.PropertyType, id int64) (*models.Booking, error)
	List(ctx context.Context, f models.BookingFilter) ([]models.Booking, int, error)
	ListAll(ctx context.Context, f models.BookingFilter) ([]models.Booking, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Booking, error)
	Approve(ctx context.Context, pt models.PropertyType, id int64, d models.Decision) error
	Reject(ctx context.Context, pt models.PropertyType, id int64, d models.Decision) error
	Cancel(ctx context.Context, pt models.PropertyType, id int64, ownerStudentID, notes string) error
}

// ReviewStore persists reviews
type ReviewStore interface {
	Upsert(ctx context.Context, rv *models.Review) error
	ListForProperty(ctx context.Context, pt models.PropertyType, propertyID int64) ([]models.Review, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Review, error)
	Average(ctx context.Context, pt models.PropertyType, propertyID int64) (float64, int, error)
	Delete(ctx context.Context, id int64, studentID string) error
}

// FavoriteStore persists bookmarks
type FavoriteStore interface {
	Add(ctx context.Context, f *models.Favorite) error
	Remove(ctx context.Context, studentID string, pt models.PropertyType, propertyID int64) error
	ListByStudent(ctx context.Context, studentID string) ([]models.Favorite, error)
}

// NotificationStore persists in-app notifications
type NotificationStore interface {
	ListByStudent(ctx context.Context, studentID string, unreadOnly bool) ([]models.Notification, error)
	MarkRead(ctx context.Context, id int64, studentID string) error
	MarkAllRead(ctx context.Context, studentID string) (int64, error)
}

// AuditLog records and lists system log entries
type AuditLog interface {
	Record(ctx context.Context, l *models.SystemLog)
	List(ctx context.Context, page helpers.Page) ([]models.SystemLog, int, error)
}

// StatsStore runs the dashboard aggregates
type StatsStore interface {
	DashboardCounts(ctx context.Context) (*models.Dashboard, error)
	StudentStats(ctx context.Context) (*models.StudentStats, error)
	InventoryStats(ctx context.Context) (*models.InventoryStats, error)
	BookingStats(ctx context.Context, pt models.PropertyType) (*models.BookingStats, error)
	Ping(ctx context.Context) error
}
