package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/hostelpg/internal/app/models"
	"github.com/yigit/hostelpg/internal/app/models/dto"
	"github.com/yigit/hostelpg/internal/pkg/apperrors"
)

// ReviewService manages property ratings
type ReviewService interface {
	Submit(ctx context.Context, actor Actor, req *dto.ReviewRequest) (*models.Review, error)
	ForProperty(ctx context.Context, pt models.PropertyType, propertyID int64) (*models.ReviewSummary, error)
	Delete(ctx context.Context, actor Actor, id int64) error
}

type reviewServiceImpl struct {
	reviews    ReviewStore
	properties propertyLookup
	audit      AuditLog
	logger     zerolog.Logger
}

// NewReviewService creates a new review service
func NewReviewService(reviews ReviewStore, hostels HostelStore, pgs PGStore, audit AuditLog, logger zerolog.Logger) ReviewService {
	return &reviewServiceImpl{
		reviews:    reviews,
		properties: propertyLookup{hostels: hostels, pgs: pgs},
		audit:      audit,
		logger:     logger,
	}
}

// Submit creates the caller's review of a property or replaces their earlier one
func (s *reviewServiceImpl) Submit(ctx context.Context, actor Actor, req *dto.ReviewRequest) (*models.Review, error) {
	if actor.StudentID == "" {
		return nil, apperrors.NewForbiddenError("Only students can review properties")
	}

	pt, ok := models.ParsePropertyType(req.PropertyType)
	if !ok {
		return nil, apperrors.ErrInvalidPropertyType
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, apperrors.NewValidationError("rating", "rating must be between 1 and 5")
	}

	if err := s.properties.ensureActive(ctx, pt, req.PropertyID); err != nil {
		return nil, err
	}

	review := &models.Review{
		StudentID:    actor.StudentID,
		PropertyID:   req.PropertyID,
		PropertyType: pt,
		Rating:       req.Rating,
		Comment:      strings.TrimSpace(req.Comment),
	}
	if err := s.reviews.Upsert(ctx, review); err != nil {
		return nil, err
	}

	record(ctx, s.audit, actor, "REVIEW_SUBMIT", fmt.Sprintf("Rated %s %d with %d", pt, req.PropertyID, req.Rating))
	return review, nil
}

// ForProperty lists a property's reviews with their average rating
func (s *reviewServiceImpl) ForProperty(ctx context.Context, pt models.PropertyType, propertyID int64) (*models.ReviewSummary, error) {
	if !pt.Valid() {
		return nil, apperrors.ErrInvalidPropertyType
	}

	reviews, err := s.reviews.ListForProperty(ctx, pt, propertyID)
	if err != nil {
		return nil, err
	}

	avg, count, err := s.reviews.Average(ctx, pt, propertyID)
	if err != nil {
		return nil, err
	}

	return &models.ReviewSummary{
		PropertyID:    propertyID,
		PropertyType:  pt,
		AverageRating: avg,
		Count:         count,
		Reviews:       reviews,
	}, nil
}

// Delete removes one of the caller's own reviews
func (s *reviewServiceImpl) Delete(ctx context.Context, actor Actor, id int64) error {
	if actor.StudentID == "" {
		return apperrors.ErrReviewNotFound
	}
	if err := s.reviews.Delete(ctx, id, actor.StudentID); err != nil {
		return err
	}

	record(ctx, s.audit, actor, "REVIEW_DELETE", fmt.Sprintf("Deleted review %d", id))
	return nil
}

// propertyLookup resolves a property of either type
type propertyLookup struct {
	hostels HostelStore
	pgs     PGStore
}

// ensureActive returns the type's not-found error for missing or deactivated properties
func (l propertyLookup) ensureActive(ctx context.Context, pt models.PropertyType, id int64) error {
	switch pt {
	case models.PropertyTypeHostel:
		h, err := l.hostels.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !h.IsActive {
			return apperrors.ErrHostelNotFound
		}
	case models.PropertyTypePG:
		p, err := l.pgs.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !p.IsActive {
			return apperrors.ErrPGNotFound
		}
	default:
		return apperrors.ErrInvalidPropertyType
	}
	return nil
}
