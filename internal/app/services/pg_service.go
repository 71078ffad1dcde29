package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/hostelpg/internal/app/models"
	"github.com/yigit/hostelpg/internal/app/models/dto"
	"github.com/yigit/hostelpg/internal/pkg/apperrors"
	"github.com/yigit/hostelpg/internal/pkg/filestorage"
	"github.com/yigit/hostelpg/internal/pkg/validation"
)

// PGService defines the paying-guest catalogue operations
type PGService interface {
	List(ctx context.Context, filter models.PropertyFilter) ([]models.PG, error)
	ListAll(ctx context.Context) ([]models.PG, error)
	Get(ctx context.Context, id int64) (*models.PG, error)
	ByArea(ctx context.Context, area string) ([]models.PG, error)
	Search(ctx context.Context, term string, filter models.PropertyFilter) ([]models.PG, error)
	Areas(ctx context.Context) ([]string, error)
	Genders(ctx context.Context) ([]string, error)
	Create(ctx context.Context, actor Actor, req *dto.CreatePGRequest) (*models.PG, error)
	Update(ctx context.Context, actor Actor, id int64, req *dto.UpdatePGRequest) (*models.PG, error)
	Delete(ctx context.Context, actor Actor, id int64) error
	UploadImage(ctx context.Context, actor Actor, id int64, file *multipart.FileHeader) (*models.PG, error)
}

type pgServiceImpl struct {
	repo    PGStore
	storage filestorage.FileStorage
	audit   AuditLog
	logger  zerolog.Logger
}

// NewPGService creates a new PG service
func NewPGService(repo PGStore, storage filestorage.FileStorage, audit AuditLog, logger zerolog.Logger) PGService {
	return &pgServiceImpl{
		repo:    repo,
		storage: storage,
		audit:   audit,
		logger:  logger,
	}
}

func (s *pgServiceImpl) List(ctx context.Context, filter models.PropertyFilter) ([]models.PG, error) {
	if err := validatePGFilter(filter); err != nil {
		return nil, err
	}
	return s.repo.GetAll(ctx, filter)
}

func (s *pgServiceImpl) ListAll(ctx context.Context) ([]models.PG, error) {
	return s.repo.GetAllForAdmin(ctx)
}

func (s *pgServiceImpl) Get(ctx context.Context, id int64) (*models.PG, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: PG ID must be positive", apperrors.ErrValidationFailed)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *pgServiceImpl) ByArea(ctx context.Context, area string) ([]models.PG, error) {
	area = strings.TrimSpace(area)
	if area == "" {
		return nil, fmt.Errorf("%w: area cannot be empty", apperrors.ErrValidationFailed)
	}
	return s.repo.GetByArea(ctx, area)
}

func (s *pgServiceImpl) Search(ctx context.Context, term string, filter models.PropertyFilter) ([]models.PG, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("%w: search query is required", apperrors.ErrValidationFailed)
	}
	if err := validatePGFilter(filter); err != nil {
		return nil, err
	}
	return s.repo.Search(ctx, term, filter)
}

func (s *pgServiceImpl) Areas(ctx context.Context) ([]string, error) {
	return s.repo.GetAreas(ctx)
}

// Genders lists the distinct gender preferences of active PGs
func (s *pgServiceImpl) Genders(ctx context.Context) ([]string, error) {
	return s.repo.GetGenderPreferences(ctx)
}

func (s *pgServiceImpl) Create(ctx context.Context, actor Actor, req *dto.CreatePGRequest) (*models.PG, error) {
	pg := req.ToModel()
	if err := validateCapacity(pg.TotalSpots, pg.AvailableSpots); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, pg); err != nil {
		return nil, err
	}

	record(ctx, s.audit, actor, "PG_CREATE", fmt.Sprintf("Created PG %d: %s", pg.ID, pg.Name))
	return pg, nil
}

func (s *pgServiceImpl) Update(ctx context.Context, actor Actor, id int64, req *dto.UpdatePGRequest) (*models.PG, error) {
	if req.TotalSpots != nil && req.AvailableSpots != nil {
		if err := validateCapacity(*req.TotalSpots, *req.AvailableSpots); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, id, req.Fields()); err != nil {
		return nil, err
	}

	record(ctx, s.audit, actor, "PG_UPDATE", fmt.Sprintf("Updated PG %d", id))
	return s.repo.GetByID(ctx, id)
}

func (s *pgServiceImpl) Delete(ctx context.Context, actor Actor, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	record(ctx, s.audit, actor, "PG_DELETE", fmt.Sprintf("Deactivated PG %d", id))
	return nil
}

func (s *pgServiceImpl) UploadImage(ctx context.Context, actor Actor, id int64, file *multipart.FileHeader) (*models.PG, error) {
	pg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := saveImage(s.storage, file, "pgs")
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetImageURL(ctx, id, url); err != nil {
		if delErr := s.storage.DeleteFile(url); delErr != nil {
			s.logger.Warn().Err(delErr).Str("path", url).Msg("Failed to remove orphaned image")
		}
		return nil, err
	}

	removeImage(s.storage, s.logger, pg.ImageURL)
	pg.ImageURL = url

	record(ctx, s.audit, actor, "PG_IMAGE", fmt.Sprintf("Uploaded image for PG %d", id))
	return pg, nil
}

func validatePGFilter(f models.PropertyFilter) error {
	if f.Gender != nil && !validation.IsGenderPreference(*f.Gender) {
		return fmt.Errorf("%w: gender must be Male, Female or Unisex", apperrors.ErrValidationFailed)
	}
	return validatePriceRange(f)
}
