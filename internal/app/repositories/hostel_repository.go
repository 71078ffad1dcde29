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

var hostelColumns = []string{
	"id", "name", "owner_name", "owner_phone", "location", "area",
	"total_rooms", "available_rooms", "price_per_month", "amenities",
	"contact_number", "description", "image_url", "is_active", "created_at", "updated_at",
}

var hostelUpdatable = map[string]bool{
	"name": true, "owner_name": true, "owner_phone": true, "location": true, "area": true,
	"total_rooms": true, "available_rooms": true, "price_per_month": true, "amenities": true,
	"contact_number": true, "description": true, "image_url": true, "is_active": true,
}

// HostelRepository handles database operations for hostels
type HostelRepository struct {
	db db.TxBeginner
	sb squirrel.StatementBuilderType
}

// NewHostelRepository creates a new HostelRepository
func NewHostelRepository(conn db.TxBeginner) *HostelRepository {
	return &HostelRepository{db: conn, sb: statementBuilder()}
}

func scanHostel(row pgx.Row) (*models.Hostel, error) {
	var h models.Hostel
	err := row.Scan(
		&h.ID, &h.Name, &h.OwnerName, &h.OwnerPhone, &h.Location, &h.Area,
		&h.TotalRooms, &h.AvailableRooms, &h.PricePerMonth, &h.Amenities,
		&h.ContactNumber, &h.Description, &h.ImageURL, &h.IsActive, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *HostelRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]models.Hostel, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, buildError("hostel list", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing hostel list query")
		return nil, fmt.Errorf("error fetching hostels: %w", err)
	}
	defer rows.Close()

	hostels := []models.Hostel{}
	for rows.Next() {
		h, err := scanHostel(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning hostel: %w", err)
		}
		hostels = append(hostels, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating hostels: %w", err)
	}
	return hostels, nil
}

func (r *HostelRepository) activeQuery() squirrel.SelectBuilder {
	return r.sb.Select(hostelColumns...).From("hostels").Where("is_active = TRUE")
}

// GetAll returns active hostels matching the filter, newest first
func (r *HostelRepository) GetAll(ctx context.Context, filter models.PropertyFilter) ([]models.Hostel, error) {
	q := applyPropertyFilter(r.activeQuery(), filter, "available_rooms", false)
	return r.list(ctx, q.OrderBy("created_at DESC"))
}

// GetAllForAdmin returns every hostel including deactivated ones
func (r *HostelRepository) GetAllForAdmin(ctx context.Context) ([]models.Hostel, error) {
	return r.list(ctx, r.sb.Select(hostelColumns...).From("hostels").OrderBy("created_at DESC"))
}

// GetByArea returns active hostels in area
func (r *HostelRepository) GetByArea(ctx context.Context, area string) ([]models.Hostel, error) {
	return r.GetAll(ctx, models.PropertyFilter{Area: &area})
}

// Search matches term in name, location, area or description of active hostels
func (r *HostelRepository) Search(ctx context.Context, term string, filter models.PropertyFilter) ([]models.Hostel, error) {
	q := applyPropertyFilter(r.activeQuery().Where(searchPredicate(term)), filter, "available_rooms", false)
	return r.list(ctx, q.OrderBy("created_at DESC"))
}

// GetByID returns a hostel whether or not it is active, so old allotments still resolve
func (r *HostelRepository) GetByID(ctx context.Context, id int64) (*models.Hostel, error) {
	sql, args, err := r.sb.Select(hostelColumns...).From("hostels").Where("id = ?", id).ToSql()
	if err != nil {
		return nil, buildError("hostel by id", err)
	}

	h, err := scanHostel(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrHostelNotFound
		}
		logger.Error().Err(err).Int64("hostelID", id).Msg("Error fetching hostel")
		return nil, fmt.Errorf("error fetching hostel: %w", err)
	}
	return h, nil
}

// GetAreas lists the distinct areas of active hostels
func (r *HostelRepository) GetAreas(ctx context.Context) ([]string, error) {
	q := r.sb.Select("DISTINCT area").From("hostels").
		Where("is_active = TRUE AND area <> ''").
		OrderBy("area")
	return distinctStrings(ctx, r.db, q, "hostel areas")
}

// Create inserts a hostel and fills in its id and timestamps
func (r *HostelRepository) Create(ctx context.Context, h *models.Hostel) error {
	sql, args, err := r.sb.Insert("hostels").
		Columns("name", "owner_name", "owner_phone", "location", "area", "total_rooms", "available_rooms",
			"price_per_month", "amenities", "contact_number", "description", "image_url", "is_active").
		Values(h.Name, h.OwnerName, h.OwnerPhone, h.Location, h.Area, h.TotalRooms, h.AvailableRooms,
			h.PricePerMonth, h.Amenities, h.ContactNumber, h.Description, h.ImageURL, true).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return buildError("create hostel", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&h.ID, &h.CreatedAt, &h.UpdatedAt); err != nil {
		if dberrors.IsCheckViolation(err) {
			return apperrors.ErrAvailabilityOutOfSync
		}
		logger.Error().Err(err).Str("name", h.Name).Msg("Error creating hostel")
		return fmt.Errorf("error creating hostel: %w", err)
	}
	h.IsActive = true
	return nil
}

// Update applies whitelisted column changes
func (r *HostelRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	fields = filterColumns(fields, hostelUpdatable)
	if len(fields) == 0 {
		return apperrors.ErrNoFieldsToUpdate
	}

	sql, args, err := r.sb.Update("hostels").
		SetMap(fields).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return buildError("update hostel", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsCheckViolation(err) {
			return apperrors.ErrAvailabilityOutOfSync
		}
		logger.Error().Err(err).Int64("hostelID", id).Msg("Error updating hostel")
		return fmt.Errorf("error updating hostel: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrHostelNotFound
	}
	return nil
}

// SetImageURL records the uploaded image of a hostel
func (r *HostelRepository) SetImageURL(ctx context.Context, id int64, url string) error {
	return r.Update(ctx, id, map[string]interface{}{"image_url": url})
}

// Delete soft-deletes a hostel
func (r *HostelRepository) Delete(ctx context.Context, id int64) error {
	return r.Update(ctx, id, map[string]interface{}{"is_active": false})
}
