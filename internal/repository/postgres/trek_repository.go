package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"myTrekMarket/domain"

	"gorm.io/gorm"
)

// sortColumns whitelists the API sort fields; anything else is ignored.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"price":     "price",
	"rating":    "rating",
	"duration":  "duration",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type TrekRepository struct {
	DB *gorm.DB
}

func NewTrekRepository(db *gorm.DB) *TrekRepository {
	return &TrekRepository{
		DB: db,
	}
}

func (r *TrekRepository) FindApprovedTreks(ctx context.Context, filter domain.TrekFilter) ([]domain.Trek, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	query := approvedTreksQuery(r.DB.WithContext(ctx), filter)

	var treks []domain.Trek
	if err := query.Find(&treks).Error; err != nil {
		return nil, fmt.Errorf("failed to find treks: %w", err)
	}

	return treks, nil
}

func (r *TrekRepository) CountApprovedTreks(ctx context.Context, filter domain.TrekFilter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	var total int64
	err := applyTrekFilter(r.DB.WithContext(ctx).Model(&domain.Trek{}), filter).Count(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count treks: %w", err)
	}

	return total, nil
}

// FindTrekByID returns nil, nil when no approved trek has the id, including
// ids that are not UUIDs.
func (r *TrekRepository) FindTrekByID(ctx context.Context, id string) (*domain.Trek, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if !validUUID(id) {
		return nil, nil
	}

	var trek domain.Trek
	err := r.DB.WithContext(ctx).
		Where("id = ? AND is_approved = ?", id, true).
		First(&trek).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find trek: %w", err)
	}

	return &trek, nil
}

// approvedTreksQuery applies the filter, ordering and paging of a catalog read.
func approvedTreksQuery(db *gorm.DB, filter domain.TrekFilter) *gorm.DB {
	query := applyTrekFilter(db.Model(&domain.Trek{}), filter)

	if col, ok := sortColumns[filter.Sort]; ok {
		dir := "DESC"
		if strings.EqualFold(filter.Order, "asc") {
			dir = "ASC"
		}
		query = query.Order(col + " " + dir).Order("id ASC")
	} else {
		// catalog order, stable across calls
		query = query.Order("created_at ASC").Order("id ASC")
	}

	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.Limit).Limit(filter.Limit)
	}

	return query
}

func applyTrekFilter(query *gorm.DB, filter domain.TrekFilter) *gorm.DB {
	query = query.Where("is_approved = ?", true)

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}
	if filter.MinPrice > 0 {
		query = query.Where("price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		query = query.Where("price <= ?", filter.MaxPrice)
	}
	if filter.Location != "" {
		query = query.Where("location ILIKE ?", "%"+likeEscaper.Replace(filter.Location)+"%")
	}
	if ids := uuidsOnly(filter.ExcludeIDs); len(ids) > 0 {
		query = query.Where("id NOT IN ?", ids)
	}

	return query
}

// uuidsOnly drops ids that cannot match a uuid column.
func uuidsOnly(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if validUUID(id) {
			out = append(out, id)
		}
	}
	return out
}
