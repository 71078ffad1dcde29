package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/hostelpg/internal/app/models"
	"github.com/yigit/hostelpg/internal/db"
	"github.com/yigit/hostelpg/internal/pkg/apperrors"
	"github.com/yigit/hostelpg/internal/pkg/dberrors"
	"github.com/yigit/hostelpg/internal/pkg/logger"
)

var pgColumns = []string{
	"id", "name", "owner_name", "owner_phone", "location", "area",
	"total_spots", "available_spots", "price_per_month", "gender_preference", "amenities",
	"contact_number", "description", "image_url", "is_active", "created_at", "updated_at",
}

var pgUpdatable = map[string]bool{
	"name": true, "owner_name": true, "owner_phone": true, "location": true, "area": true,
	"total_spots": true, "available_spots": true, "price_per_month": true, "gender_preference": true,
	"amenities": true, "contact_number": true, "description": true, "image_url": true, "is_active": true,
}

// PGRepository handles database operations for paying-guest residences
type PGRepository struct {
	db db.TxBeginner
	sb squirrel.StatementBuilderType
}

// NewPGRepository creates a new PGRepository
func NewPGRepository(conn db.TxBeginner) *PGRepository {
	return &PGRepository{db: conn, sb: statementBuilder()}
}

func scanPG(row pgx.Row) (*models.PG, error) {
	var p models.PG
	err := row.Scan(
		&p.ID, &p.Name, &p.OwnerName, &p.OwnerPhone, &p.Location, &p.Area,
		&p.TotalSpots, &p.AvailableSpots, &p.PricePerMonth, &p.GenderPreference, &p.Amenities,
		&p.ContactNumber, &p.Description, &p.ImageURL, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]models.PG, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, buildError("pg list", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing PG list query")
		return nil, fmt.Errorf("error fetching pgs: %w", err)
	}
	defer rows.Close()

	pgs := []models.PG{}
	for rows.Next() {
		p, err := scanPG(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning pg: %w", err)
		}
		pgs = append(pgs, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pgs: %w", err)
	}
	return pgs, nil
}

func (r *PGRepository) activeQuery() squirrel.SelectBuilder {
	return r.sb.Select(pgColumns...).From("pgs").Where("is_active = TRUE")
}

// GetAll returns active PGs matching the filter, newest first.
// A gender filter also matches Unisex PGs.
func (r *PGRepository) GetAll(ctx context.Context, filter models.PropertyFilter) ([]models.PG, error) {
	q := applyPropertyFilter(r.activeQuery(), filter, "available_spots", true)
	return r.list(ctx, q.OrderBy("created_at DESC"))
}

// GetAllForAdmin returns every PG including deactivated ones
func (r *PGRepository) GetAllForAdmin(ctx context.Context) ([]models.PG, error) {
	return r.list(ctx, r.sb.Select(pgColumns...).From("pgs").OrderBy("created_at DESC"))
}

// GetByArea returns active PGs in area
func (r *PGRepository) GetByArea(ctx context.Context, area string) ([]models.PG, error) {
	return r.GetAll(ctx, models.PropertyFilter{Area: &area})
}

// Search matches term in name, location, area or description of active PGs
func (r *PGRepository) Search(ctx context.Context, term string, filter models.PropertyFilter) ([]models.PG, error) {
	q := applyPropertyFilter(r.activeQuery().Where(searchPredicate(term)), filter, "available_spots", true)
	return r.list(ctx, q.OrderBy("created_at DESC"))
}

// GetByID returns a PG whether or not it is active
func (r *PGRepository) GetByID(ctx context.Context, id int64) (*models.PG, error) {
	sql, args, err := r.sb.Select(pgColumns...).From("pgs").Where("id = ?", id).ToSql()
	if err != nil {
		return nil, buildError("pg by id", err)
	}

	p, err := scanPG(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPGNotFound
		}
		logger.Error().Err(err).Int64("pgID", id).Msg("Error fetching PG")
		return nil, fmt.Errorf("error fetching pg: %w", err)
	}
	return p, nil
}

// GetAreas lists the distinct areas of active PGs
func (r *PGRepository) GetAreas(ctx context.Context) ([]string, error) {
	q := r.sb.Select("DISTINCT area").From("pgs").
		Where("is_active = TRUE AND area <> ''").
		OrderBy("area")
	return distinctStrings(ctx, r.db, q, "pg areas")
}

// GetGenderPreferences lists the gender preferences in use by active PGs
func (r *PGRepository) GetGenderPreferences(ctx context.Context) ([]string, error) {
	q := r.sb.Select("DISTINCT gender_preference").From("pgs").
		Where("is_active = TRUE").
		OrderBy("gender_preference")
	return distinctStrings(ctx, r.db, q, "pg gender preferences")
}

// Create inserts a PG and fills in its id and timestamps
func (r *PGRepository) Create(ctx context.Context, p *models.PG) error {
	gender := p.GenderPreference
	if gender == "" {
		gender = models.GenderUnisex
	}

	sql, args, err := r.sb.Insert("pgs").
		Columns("name", "owner_name", "owner_phone", "location", "area", "total_spots", "available_spots",
			"price_per_month", "gender_preference", "amenities", "contact_number", "description", "image_url", "is_active").
		Values(p.Name, p.OwnerName, p.OwnerPhone, p.Location, p.Area, p.TotalSpots, p.AvailableSpots,
			p.PricePerMonth, gender, p.Amenities, p.ContactNumber, p.Description, p.ImageURL, true).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return buildError("create pg", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if dberrors.IsCheckViolation(err) {
			return apperrors.ErrAvailabilityOutOfSync
		}
		logger.Error().Err(err).Str("name", p.Name).Msg("Error creating PG")
		return fmt.Errorf("error creating pg: %w", err)
	}
	p.GenderPreference = gender
	p.IsActive = true
	return nil
}

// Update applies whitelisted column changes
func (r *PGRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	fields = filterColumns(fields, pgUpdatable)
	if len(fields) == 0 {
		return apperrors.ErrNoFieldsToUpdate
	}

	sql, args, err := r.sb.Update("pgs").
		SetMap(fields).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return buildError("update pg", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsCheckViolation(err) {
			return apperrors.ErrAvailabilityOutOfSync
		}
		logger.Error().Err(err).Int64("pgID", id).Msg("Error updating PG")
		return fmt.Errorf("error updating pg: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPGNotFound
	}
	return nil
}

// SetImageURL records the uploaded image of a PG
func (r *PGRepository) SetImageURL(ctx context.Context, id int64, url string) error {
	return r.Update(ctx, id, map[string]interface{}{"image_url": url})
}

// Delete soft-deletes a PG
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	return r.Update(ctx, id, map[string]interface{}{"is_active": false})
}
