package services

import (
	"context"

	"github.com/yigit/hostelpg/internal/app/models"
	"github.com/yigit/hostelpg/internal/app/models/dto"
	"github.com/yigit/hostelpg/internal/pkg/apperrors"
)

// FavoriteService manages a student's bookmarked properties
type FavoriteService interface {
	Add(ctx context.Context, actor Actor, req *dto.FavoriteRequest) (*models.Favorite, error)
	Remove(ctx context.Context, actor Actor, pt models.PropertyType, propertyID int64) error
	List(ctx context.Context, actor Actor) ([]models.Favorite, error)
}

type favoriteServiceImpl struct {
	favorites  FavoriteStore
	properties propertyLookup
}

// NewFavoriteService creates a new favorite service
func NewFavoriteService(favorites FavoriteStore, hostels HostelStore, pgs PGStore) FavoriteService {
	return &favoriteServiceImpl{
		favorites:  favorites,
		properties: propertyLookup{hostels: hostels, pgs: pgs},
	}
}

func (s *favoriteServiceImpl) Add(ctx context.Context, actor Actor, req *dto.FavoriteRequest) (*models.Favorite, error) {
	if actor.StudentID == "" {
		return nil, apperrors.NewForbiddenError("Only students have favorites")
	}

	pt, ok := models.ParsePropertyType(req.PropertyType)
	if !ok {
		return nil, apperrors.ErrInvalidPropertyType
	}
	if err := s.properties.ensureActive(ctx, pt, req.PropertyID); err != nil {
		return nil, err
	}

	fav := &models.Favorite{StudentID: actor.StudentID, PropertyID: req.PropertyID, PropertyType: pt}
	if err := s.favorites.Add(ctx, fav); err != nil {
		return nil, err
	}
	return fav, nil
}

func (s *favoriteServiceImpl) Remove(ctx context.Context, actor Actor, pt models.PropertyType, propertyID int64) error {
	if !pt.Valid() {
		return apperrors.ErrInvalidPropertyType
	}
	return s.favorites.Remove(ctx, actor.StudentID, pt, propertyID)
}

func (s *favoriteServiceImpl) List(ctx context.Context, actor Actor) ([]models.Favorite, error) {
	if actor.StudentID == "" {
		return nil, apperrors.NewForbiddenError("Only students have favorites")
	}
	return s.favorites.ListByStudent(ctx, actor.StudentID)
}
