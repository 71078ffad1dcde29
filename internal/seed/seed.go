package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/hostelpg/internal/app/models"
	appRepos "github.com/yigit/hostelpg/internal/app/repositories"
	"github.com/yigit/hostelpg/internal/pkg/apperrors"
	"github.com/yigit/hostelpg/internal/pkg/auth"
)

// Default credentials for local development
const (
	DefaultAdminUsername   = "admin"
	DefaultAdminPassword   = "admin123"
	DefaultStudentID       = "2024001"
	DefaultStudentPassword = "student123"
)

var defaultHostels = []appModels.Hostel{
	{Name: "University Hostel A", OwnerName: "Dr. Rajesh Kumar", OwnerPhone: "9876543210", Location: "Near University Gate", Area: "Campus", TotalRooms: 50, AvailableRooms: 15, PricePerMonth: 5000, Amenities: "WiFi, Laundry, Mess, Security", ContactNumber: "9876543210", Description: "Modern hostel with all amenities"},
	{Name: "Green Valley Hostel", OwnerName: "Mrs. Priya Singh", OwnerPhone: "9876543211", Location: "Phase 1", Area: "Phase 1", TotalRooms: 25, AvailableRooms: 8, PricePerMonth: 4500, Amenities: "WiFi, Laundry, Parking", ContactNumber: "9876543211", Description: "Peaceful environment near market"},
	{Name: "City Center Hostel", OwnerName: "Mr. Amit Sharma", OwnerPhone: "9876543212", Location: "Near Bus Stand", Area: "Phase 2", TotalRooms: 30, AvailableRooms: 12, PricePerMonth: 4000, Amenities: "WiFi, Laundry, Common Room", ContactNumber: "9876543212", Description: "Convenient location for students"},
}

var defaultPGs = []appModels.PG{
	{Name: "Sunshine PG", OwnerName: "Mrs. Sunita Devi", OwnerPhone: "9876543213", Location: "Bhadurgarh", Area: "Bhadurgarh", TotalSpots: 15, AvailableSpots: 5, PricePerMonth: 3500, GenderPreference: "Unisex", Amenities: "WiFi, Laundry, Kitchen", ContactNumber: "9876543213", Description: "Cozy PG with home-like atmosphere"},
	{Name: "Modern PG", OwnerName: "Mr. Vikas Gupta", OwnerPhone: "9876543214", Location: "Phase 1", Area: "Phase 1", TotalSpots: 10, AvailableSpots: 3, PricePerMonth: 4000, GenderPreference: "Male", Amenities: "WiFi, Laundry, Gym", ContactNumber: "9876543214", Description: "Modern facilities for working professionals"},
	{Name: "Green PG", OwnerName: "Mrs. Rekha Jain", OwnerPhone: "9876543215", Location: "Phase 2", Area: "Phase 2", TotalSpots: 12, AvailableSpots: 4, PricePerMonth: 3200, GenderPreference: "Female", Amenities: "WiFi, Laundry, Security", ContactNumber: "9876543215", Description: "Safe and secure for female students"},
	{Name: "Campus PG", OwnerName: "Mr. Ramesh Kumar", OwnerPhone: "9876543216", Location: "Near PUP", Area: "Near PUP", TotalSpots: 20, AvailableSpots: 6, PricePerMonth: 3800, GenderPreference: "Unisex", Amenities: "WiFi, Laundry, Study Room", ContactNumber: "9876543216", Description: "Close to university campus"},
}

// CreateDefaultData inserts the default admin, a demo student and sample listings.
// Each part is skipped when its table already has rows, so it is safe to run on every start.
func CreateDefaultData(ctx context.Context, repos *appRepos.Repositories, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (admin, demo student, listings)...")
	var finalErr error // collect errors without stopping the process

	if err := seedAdmin(ctx, repos.AdminRepository, lgr); err != nil {
		lgr.Error().Err(err).Msg("Error creating default admin")
		finalErr = errors.Join(finalErr, err)
	}

	if err := seedStudent(ctx, repos.StudentRepository, lgr); err != nil {
		lgr.Error().Err(err).Msg("Error creating demo student")
		finalErr = errors.Join(finalErr, err)
	}

	if err := seedHostels(ctx, repos.HostelRepository, lgr); err != nil {
		lgr.Error().Err(err).Msg("Error creating sample hostels")
		finalErr = errors.Join(finalErr, err)
	}

	if err := seedPGs(ctx, repos.PGRepository, lgr); err != nil {
		lgr.Error().Err(err).Msg("Error creating sample PGs")
		finalErr = errors.Join(finalErr, err)
	}

	if finalErr == nil {
		lgr.Info().Msg("Default data check/creation complete.")
	}
	return finalErr
}

func seedAdmin(ctx context.Context, admins *appRepos.AdminRepository, lgr zerolog.Logger) error {
	count, err := admins.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return err
	}

	admin := &appModels.Admin{
		Username:     DefaultAdminUsername,
		Email:        "admin@hostelpg.com",
		PasswordHash: hash,
		FullName:     "System Administrator",
		Role:         auth.RoleAdmin,
		IsActive:     true,
	}
	if err := admins.Create(ctx, admin); err != nil && !errors.Is(err, apperrors.ErrAdminAlreadyExists) {
		return err
	}

	lgr.Warn().Str("username", DefaultAdminUsername).Msg("Default admin created; change its password")
	return nil
}

func seedStudent(ctx context.Context, students *appRepos.StudentRepository, lgr zerolog.Logger) error {
	hash, err := auth.HashPassword(DefaultStudentPassword)
	if err != nil {
		return err
	}

	student := &appModels.Student{
		StudentID:    DefaultStudentID,
		Name:         "Demo Student",
		Email:        "student@example.com",
		Phone:        "9876543210",
		Course:       "Computer Science",
		AcademicYear: "2024",
		PasswordHash: hash,
		IsActive:     true,
	}
	err = students.Create(ctx, student)
	if errors.Is(err, apperrors.ErrStudentIDExists) || errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		return nil
	}
	if err != nil {
		return err
	}

	lgr.Info().Str("studentID", DefaultStudentID).Msg("Demo student created")
	return nil
}

func seedHostels(ctx context.Context, hostels *appRepos.HostelRepository, lgr zerolog.Logger) error {
	existing, err := hostels.GetAllForAdmin(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	var errs error
	for _, h := range defaultHostels {
		h.IsActive = true
		if err := hostels.Create(ctx, &h); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	lgr.Info().Int("count", len(defaultHostels)).Msg("Sample hostels created")
	return errs
}

func seedPGs(ctx context.Context, pgs *appRepos.PGRepository, lgr zerolog.Logger) error {
	existing, err := pgs.GetAllForAdmin(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	var errs error
	for _, p := range defaultPGs {
		p.IsActive = true
		if err := pgs.Create(ctx, &p); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	lgr.Info().Int("count", len(defaultPGs)).Msg("Sample PGs created")
	return errs
}
