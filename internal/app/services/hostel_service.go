package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/hostelpg/internal/app/models"
	"github.com/yigit/hostelpg/internal/app/models/dto"
	"github.com/yigit/hostelpg/internal/pkg/apperrors"
	"github.com/yigit/hostelpg/internal/pkg/filestorage"
)

// HostelService defines the hostel catalogue operations
type HostelService interface {
	List(ctx context.Context, filter models.PropertyFilter) ([]models.Hostel, error)
	ListAll(ctx context.Context) ([]models.Hostel, error)
	Get(ctx context.Context, id int64) (*models.Hostel, error)
	ByArea(ctx context.Context, area string) ([]models.Hostel, error)
	Search(ctx context.Context, term string, filter models.PropertyFilter) ([]models.Hostel, error)
	Areas(ctx context.Context) ([]string, error)
	Create(ctx context.Context, actor Actor, req *dto.CreateHostelRequest) (*models.Hostel, error)
	Update(ctx context.Context, actor Actor, id int64, req *dto.UpdateHostelRequest) (*models.Hostel, error)
	Delete(ctx context.Context, actor Actor, id int64) error
	UploadImage(ctx context.Context, actor Actor, id int64, file *multipart.FileHeader) (*models.Hostel, error)
}

type hostelServiceImpl struct {
	repo    HostelStore
	storage filestorage.FileStorage
	audit   AuditLog
	logger  zerolog.Logger
}

// NewHostelService creates a new hostel service
func NewHostelService(repo HostelStore, storage filestorage.FileStorage, audit AuditLog, logger zerolog.Logger) HostelService {
	return &hostelServiceImpl{
		repo:    repo,
		storage: storage,
		audit:   audit,
		logger:  logger,
	}
}

// List returns the active hostels matching filter
func (s *hostelServiceImpl) List(ctx context.Context, filter models.PropertyFilter) ([]models.Hostel, error) {
	if err := validatePriceRange(filter); err != nil {
		return nil, err
	}
	return s.repo.GetAll(ctx, filter)
}

// ListAll returns every hostel including inactive ones
func (s *hostelServiceImpl) ListAll(ctx context.Context) ([]models.Hostel, error) {
	return s.repo.GetAllForAdmin(ctx)
}

// Get retrieves a hostel by ID
func (s *hostelServiceImpl) Get(ctx context.Context, id int64) (*models.Hostel, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: hostel ID must be positive", apperrors.ErrValidationFailed)
	}
	return s.repo.GetByID(ctx, id)
}

// ByArea returns the active hostels in one area
func (s *hostelServiceImpl) ByArea(ctx context.Context, area string) ([]models.Hostel, error) {
	area = strings.TrimSpace(area)
	if area == "" {
		return nil, fmt.Errorf("%w: area cannot be empty", apperrors.ErrValidationFailed)
	}
	return s.repo.GetByArea(ctx, area)
}

// Search matches term against name, location, area and description
func (s *hostelServiceImpl) Search(ctx context.Context, term string, filter models.PropertyFilter) ([]models.Hostel, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("%w: search query is required", apperrors.ErrValidationFailed)
	}
	if err := validatePriceRange(filter); err != nil {
		return nil, err
	}
	return s.repo.Search(ctx, term, filter)
}

// Areas lists the distinct areas with active hostels
func (s *hostelServiceImpl) Areas(ctx context.Context) ([]string, error) {
	return s.repo.GetAreas(ctx)
}

// Create adds a hostel listing
func (s *hostelServiceImpl) Create(ctx context.Context, actor Actor, req *dto.CreateHostelRequest) (*models.Hostel, error) {
	hostel := req.ToModel()
	if err := validateCapacity(hostel.TotalRooms, hostel.AvailableRooms); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, hostel); err != nil {
		return nil, err
	}

	record(ctx, s.audit, actor, "HOSTEL_CREATE", fmt.Sprintf("Created hostel %d: %s", hostel.ID, hostel.Name))
	return hostel, nil
}

// Update applies a partial update and returns the stored hostel
func (s *hostelServiceImpl) Update(ctx context.Context, actor Actor, id int64, req *dto.UpdateHostelRequest) (*models.Hostel, error) {
	if req.TotalRooms != nil && req.AvailableRooms != nil {
		if err := validateCapacity(*req.TotalRooms, *req.AvailableRooms); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, id, req.Fields()); err != nil {
		return nil, err
	}

	record(ctx, s.audit, actor, "HOSTEL_UPDATE", fmt.Sprintf("Updated hostel %d", id))
	return s.repo.GetByID(ctx, id)
}

// Delete deactivates a hostel. Existing bookings keep referring to it.
func (s *hostelServiceImpl) Delete(ctx context.Context, actor Actor, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	record(ctx, s.audit, actor, "HOSTEL_DELETE", fmt.Sprintf("Deactivated hostel %d", id))
	return nil
}

// UploadImage stores a new picture for the hostel and removes the previous one
func (s *hostelServiceImpl) UploadImage(ctx context.Context, actor Actor, id int64, file *multipart.FileHeader) (*models.Hostel, error) {
	hostel, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := saveImage(s.storage, file, "hostels")
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetImageURL(ctx, id, url); err != nil {
		if delErr := s.storage.DeleteFile(url); delErr != nil {
			s.logger.Warn().Err(delErr).Str("path", url).Msg("Failed to remove orphaned image")
		}
		return nil, err
	}

	removeImage(s.storage, s.logger, hostel.ImageURL)
	hostel.ImageURL = url

	record(ctx, s.audit, actor, "HOSTEL_IMAGE", fmt.Sprintf("Uploaded image for hostel %d", id))
	return hostel, nil
}

func validateCapacity(total, available int) error {
	if total < 0 || available < 0 {
		return fmt.Errorf("%w: capacity cannot be negative", apperrors.ErrValidationFailed)
	}
	if available > total {
		return apperrors.ErrAvailabilityOutOfSync
	}
	return nil
}

func validatePriceRange(f models.PropertyFilter) error {
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return fmt.Errorf("%w: minPrice cannot exceed maxPrice", apperrors.ErrValidationFailed)
	}
	return nil
}

// saveImage stores file and turns storage rejections into validation errors
func saveImage(storage filestorage.FileStorage, file *multipart.FileHeader, subPath string) (string, error) {
	if storage == nil {
		return "", errors.New("file storage is not configured")
	}
	if file == nil {
		return "", fmt.Errorf("%w: image file is required", apperrors.ErrValidationFailed)
	}

	url, err := storage.SaveImage(file, subPath)
	if err != nil {
		if errors.Is(err, filestorage.ErrUnsupportedType) || errors.Is(err, filestorage.ErrFileTooLarge) {
			return "", fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
		}
		return "", fmt.Errorf("error saving image: %w", err)
	}
	return url, nil
}

// removeImage deletes a replaced upload. Only files under the upload prefix are touched.
func removeImage(storage filestorage.FileStorage, logger zerolog.Logger, url string) {
	if storage == nil || !strings.Contains(url, filestorage.PublicPrefix+"/") {
		return
	}
	if err := storage.DeleteFile(url); err != nil {
		logger.Warn().Err(err).Str("path", url).Msg("Failed to delete replaced image")
	}
}
