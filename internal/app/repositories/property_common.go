package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/hostelpg/internal/app/models"
	"github.com/yigit/hostelpg/internal/db"
	"github.com/yigit/hostelpg/internal/pkg/helpers"
	"github.com/yigit/hostelpg/internal/pkg/logger"
)

// applyPropertyFilter adds one parameterized predicate per present filter
func applyPropertyFilter(q squirrel.SelectBuilder, f models.PropertyFilter, availableCol string, withGender bool) squirrel.SelectBuilder {
	if f.Area != nil {
		q = q.Where("LOWER(area) = LOWER(?)", *f.Area)
	}
	if f.MinPrice != nil {
		q = q.Where("price_per_month >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price_per_month <= ?", *f.MaxPrice)
	}
	if withGender && f.Gender != nil {
		q = q.Where("(gender_preference = ? OR gender_preference = 'Unisex')", *f.Gender)
	}
	if f.AvailableOnly {
		q = q.Where(availableCol + " > 0")
	}
	return q
}

// searchPredicate matches term case-insensitively in the searchable text columns
func searchPredicate(term string) squirrel.Sqlizer {
	pattern := helpers.ContainsPattern(term)
	return squirrel.Expr("(name ILIKE ? OR location ILIKE ? OR area ILIKE ? OR description ILIKE ?)",
		pattern, pattern, pattern, pattern)
}

// distinctStrings runs a single-column query and collects the values
func distinctStrings(ctx context.Context, q db.Querier, b squirrel.SelectBuilder, op string) ([]string, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, buildError(op, err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("op", op).Msg("Error executing query")
		return nil, fmt.Errorf("error listing %s: %w", op, err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("error scanning %s: %w", op, err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", op, err)
	}
	return values, nil
}
