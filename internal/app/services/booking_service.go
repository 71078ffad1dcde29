package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/hostelpg/internal/app/models"
	"github.com/yigit/hostelpg/internal/app/models/dto"
	"github.com/yigit/hostelpg/internal/pkg/apperrors"
	"github.com/yigit/hostelpg/internal/pkg/export"
	"github.com/yigit/hostelpg/internal/pkg/helpers"
)

// ErrBookingOnBehalf is returned when a student names someone else in a booking request
var ErrBookingOnBehalf = apperrors.NewForbiddenError("Cannot create a booking for another student")

// BookingService drives the hostel allotment and PG booking lifecycle
type BookingService interface {
	Book(ctx context.Context, actor Actor, routeType models.PropertyType, req *dto.BookingRequest) (*models.Booking, error)
	Get(ctx context.Context, actor Actor, pt models.PropertyType, id int64) (*models.Booking, error)
	List(ctx context.Context, f models.BookingFilter) ([]models.Booking, int, error)
	MyBookings(ctx context.Context, actor Actor) ([]models.Booking, error)
	Approve(ctx context.Context, actor Actor, pt models.PropertyType, id int64, d models.Decision) (*models.Booking, error)
	Reject(ctx context.Context, actor Actor, pt models.PropertyType, id int64, d models.Decision) (*models.Booking, error)
	Cancel(ctx context.Context, actor Actor, pt models.PropertyType, id int64, notes string) (*models.Booking, error)
	Stats(ctx context.Context, pt models.PropertyType) (*models.BookingStats, error)
	Export(ctx context.Context, f models.BookingFilter) ([]byte, error)
}

type bookingServiceImpl struct {
	repo   BookingStore
	stats  StatsStore
	audit  AuditLog
	logger zerolog.Logger
}

// NewBookingService creates a new booking service
func NewBookingService(repo BookingStore, stats StatsStore, audit AuditLog, logger zerolog.Logger) BookingService {
	return &bookingServiceImpl{
		repo:   repo,
		stats:  stats,
		audit:  audit,
		logger: logger,
	}
}

// Book files a pending request for the calling student. The property type comes from
// the route when it has one; a body type that disagrees with it is rejected.
func (s *bookingServiceImpl) Book(ctx context.Context, actor Actor, routeType models.PropertyType, req *dto.BookingRequest) (*models.Booking, error) {
	if actor.StudentID == "" {
		return nil, apperrors.NewForbiddenError("Only students can book accommodation")
	}
	if req.StudentID != "" && req.StudentID != actor.StudentID {
		return nil, ErrBookingOnBehalf
	}

	pt, err := resolvePropertyType(routeType, req.PropertyType)
	if err != nil {
		return nil, err
	}
	if req.PropertyID <= 0 {
		return nil, apperrors.NewValidationError("property_id", "property_id must be positive")
	}

	moveIn, err := helpers.ParseDate(strings.TrimSpace(req.MoveInDate))
	if err != nil {
		return nil, apperrors.NewValidationError("move_in_date", "move_in_date must be YYYY-MM-DD")
	}

	booking := &models.Booking{
		PropertyType:        pt,
		PropertyID:          req.PropertyID,
		StudentID:           actor.StudentID,
		RoomType:            req.RoomType,
		Duration:            req.Duration,
		MoveInDate:          moveIn,
		SpecialRequirements: req.SpecialRequests,
		EmergencyContact:    req.EmergencyContact,
		Status:              models.StatusPending,
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("type", string(pt)).
		Int64("bookingID", booking.ID).
		Int64("propertyID", booking.PropertyID).
		Str("studentID", booking.StudentID).
		Msg("Booking requested")
	record(ctx, s.audit, actor, strings.ToUpper(string(pt))+"_BOOK",
		fmt.Sprintf("Requested %s %d (booking %d)", pt, booking.PropertyID, booking.ID))
	return booking, nil
}

// Get returns one booking. Students only see their own.
func (s *bookingServiceImpl) Get(ctx context.Context, actor Actor, pt models.PropertyType, id int64) (*models.Booking, error) {
	booking, err := s.repo.GetByID(ctx, pt, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && booking.StudentID != actor.StudentID {
		return nil, apperrors.ErrBookingNotFound
	}
	return booking, nil
}

// List returns one page of bookings and the total match count
func (s *bookingServiceImpl) List(ctx context.Context, f models.BookingFilter) ([]models.Booking, int, error) {
	if err := validateBookingFilter(f); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, f)
}

// MyBookings lists the caller's allotments and bookings, newest first
func (s *bookingServiceImpl) MyBookings(ctx context.Context, actor Actor) ([]models.Booking, error) {
	if actor.StudentID == "" {
		return nil, apperrors.NewForbiddenError("Only students have bookings")
	}
	return s.repo.ListByStudent(ctx, actor.StudentID)
}

// Approve moves a pending booking to approved and takes one unit of availability
func (s *bookingServiceImpl) Approve(ctx context.Context, actor Actor, pt models.PropertyType, id int64, d models.Decision) (*models.Booking, error) {
	if err := s.repo.Approve(ctx, pt, id, d); err != nil {
		return nil, err
	}

	s.logger.Info().Str("type", string(pt)).Int64("bookingID", id).Msg("Booking approved")
	record(ctx, s.audit, actor, "BOOKING_APPROVE", fmt.Sprintf("Approved %s booking %d", pt, id))
	return s.repo.GetByID(ctx, pt, id)
}

// Reject moves a pending booking to rejected. Availability is untouched.
func (s *bookingServiceImpl) Reject(ctx context.Context, actor Actor, pt models.PropertyType, id int64, d models.Decision) (*models.Booking, error) {
	if err := s.repo.Reject(ctx, pt, id, d); err != nil {
		return nil, err
	}

	s.logger.Info().Str("type", string(pt)).Int64("bookingID", id).Msg("Booking rejected")
	record(ctx, s.audit, actor, "BOOKING_REJECT", fmt.Sprintf("Rejected %s booking %d", pt, id))
	return s.repo.GetByID(ctx, pt, id)
}

// Cancel withdraws a pending or approved booking. Admins may cancel any booking,
// students only their own.
func (s *bookingServiceImpl) Cancel(ctx context.Context, actor Actor, pt models.PropertyType, id int64, notes string) (*models.Booking, error) {
	owner := actor.StudentID
	if actor.IsAdmin() {
		owner = ""
	} else if owner == "" {
		return nil, apperrors.NewForbiddenError("Only the owner or an admin can cancel a booking")
	}

	if err := s.repo.Cancel(ctx, pt, id, owner, notes); err != nil {
		return nil, err
	}

	s.logger.Info().Str("type", string(pt)).Int64("bookingID", id).Str("by", actor.logID()).Msg("Booking cancelled")
	record(ctx, s.audit, actor, "BOOKING_CANCEL", fmt.Sprintf("Cancelled %s booking %d", pt, id))
	return s.repo.GetByID(ctx, pt, id)
}

// Stats counts bookings of one property type by status
func (s *bookingServiceImpl) Stats(ctx context.Context, pt models.PropertyType) (*models.BookingStats, error) {
	if !pt.Valid() {
		return nil, apperrors.ErrInvalidPropertyType
	}
	return s.stats.BookingStats(ctx, pt)
}

var bookingExportColumns = []export.Column{
	{Header: "ID", Width: 8},
	{Header: "Type", Width: 10},
	{Header: "Student ID", Width: 14},
	{Header: "Student Name", Width: 24},
	{Header: "Property", Width: 28},
	{Header: "Area", Width: 16},
	{Header: "Room Type", Width: 16},
	{Header: "Duration", Width: 12},
	{Header: "Move-in Date", Width: 14},
	{Header: "Status", Width: 12},
	{Header: "Assigned Room", Width: 14},
	{Header: "Admin Notes", Width: 30},
	{Header: "Requested At", Width: 18},
}

// Export renders every booking matching f as an xlsx workbook
func (s *bookingServiceImpl) Export(ctx context.Context, f models.BookingFilter) ([]byte, error) {
	if err := validateBookingFilter(f); err != nil {
		return nil, err
	}

	bookings, err := s.repo.ListAll(ctx, f)
	if err != nil {
		return nil, err
	}

	rows := make([][]any, 0, len(bookings))
	for _, b := range bookings {
		rows = append(rows, []any{
			b.ID, string(b.PropertyType), b.StudentID, b.StudentName, b.PropertyName, b.Area,
			b.RoomType, b.Duration, b.MoveInDate, string(b.Status), b.AssignedRoom, b.AdminNotes, b.CreatedAt,
		})
	}

	data, err := export.Workbook(export.Sheet{Name: "Bookings", Columns: bookingExportColumns, Rows: rows})
	if err != nil {
		return nil, fmt.Errorf("error building bookings export: %w", err)
	}
	return data, nil
}

// resolvePropertyType picks the booking table from the route and the request body
func resolvePropertyType(routeType models.PropertyType, bodyType string) (models.PropertyType, error) {
	var fromBody models.PropertyType
	if strings.TrimSpace(bodyType) != "" {
		pt, ok := models.ParsePropertyType(bodyType)
		if !ok {
			return "", apperrors.ErrInvalidPropertyType
		}
		fromBody = pt
	}

	switch {
	case routeType != "" && fromBody != "" && routeType != fromBody:
		return "", apperrors.NewValidationError("property_type", "property_type does not match the booking endpoint")
	case routeType != "":
		if !routeType.Valid() {
			return "", apperrors.ErrInvalidPropertyType
		}
		return routeType, nil
	case fromBody != "":
		return fromBody, nil
	default:
		return "", apperrors.ErrInvalidPropertyType
	}
}

func validateBookingFilter(f models.BookingFilter) error {
	if f.PropertyType != nil && !f.PropertyType.Valid() {
		return apperrors.ErrInvalidPropertyType
	}
	if f.Status != nil && !f.Status.Valid() {
		return fmt.Errorf("%w: status must be pending, approved, rejected or cancelled", apperrors.ErrValidationFailed)
	}
	return nil
}
