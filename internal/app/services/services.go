package services

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/hostelpg/internal/app/repositories"
	"github.com/yigit/hostelpg/internal/pkg/auth"
	"github.com/yigit/hostelpg/internal/pkg/filestorage"
)

// Services holds every service the HTTP layer talks to
type Services struct {
	Auth          *AuthService
	Hostels       HostelService
	PGs           PGService
	Bookings      BookingService
	Students      StudentService
	Reviews       ReviewService
	Favorites     FavoriteService
	Notifications NotificationService
	Admin         AdminService
}

// NewServices wires the services over the repositories.
// tokenTTL is the lifetime of the access tokens tokens signs.
func NewServices(
	repos *repositories.Repositories,
	tokens TokenIssuer,
	tokenTTL time.Duration,
	revocation auth.RevocationStore,
	storage filestorage.FileStorage,
	logger zerolog.Logger,
) *Services {
	audit := repos.SystemLogRepository

	return &Services{
		Auth:          NewAuthService(repos.StudentRepository, repos.AdminRepository, tokens, revocation, audit, logger),
		Hostels:       NewHostelService(repos.HostelRepository, storage, audit, logger),
		PGs:           NewPGService(repos.PGRepository, storage, audit, logger),
		Bookings:      NewBookingService(repos.BookingRepository, repos.StatsRepository, audit, logger),
		Students:      NewStudentService(repos.StudentRepository, repos.BookingRepository, repos.ReviewRepository, repos.StatsRepository, audit, revocation, tokenTTL, logger),
		Reviews:       NewReviewService(repos.ReviewRepository, repos.HostelRepository, repos.PGRepository, audit, logger),
		Favorites:     NewFavoriteService(repos.FavoriteRepository, repos.HostelRepository, repos.PGRepository),
		Notifications: NewNotificationService(repos.NotificationRepository),
		Admin:         NewAdminService(repos.StatsRepository, repos.StudentRepository, repos.BookingRepository, audit, logger),
	}
}
