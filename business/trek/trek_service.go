package trek

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"myTrekMarket/domain"
	"myTrekMarket/pkg/logger"
)

var (
	ErrTrekNotFound  = errors.New("trek not found")
	ErrInvalidTrekID = errors.New("invalid trek id")
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

var sortFields = map[string]bool{
	"createdAt": true,
	"price":     true,
	"rating":    true,
	"duration":  true,
}

// TrekRepository contract interface
type TrekRepository interface {
	FindApprovedTreks(ctx context.Context, filter domain.TrekFilter) ([]domain.Trek, error)
	CountApprovedTreks(ctx context.Context, filter domain.TrekFilter) (int64, error)
	FindTrekByID(ctx context.Context, id string) (*domain.Trek, error)
}

type trekService struct {
	trekRepo TrekRepository
}

func NewTrekService(trekRepo TrekRepository) *trekService {
	return &trekService{
		trekRepo: trekRepo,
	}
}

// ListApprovedTreks returns one page of the approved catalog. Without an
// explicit sort the newest treks come first.
func (s *trekService) ListApprovedTreks(ctx context.Context, filter domain.TrekFilter) (domain.TrekPage, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when listing treks")
		return domain.TrekPage{}, fmt.Errorf("context error: %w", err)
	}

	filter = normalizeFilter(filter)

	treks, err := s.trekRepo.FindApprovedTreks(ctx, filter)
	if err != nil {
		logger.Error("failed to find approved treks", err)
		return domain.TrekPage{}, fmt.Errorf("failed to find treks: %w", err)
	}

	total, err := s.trekRepo.CountApprovedTreks(ctx, filter)
	if err != nil {
		logger.Error("failed to count approved treks", err)
		return domain.TrekPage{}, fmt.Errorf("failed to count treks: %w", err)
	}

	if treks == nil {
		treks = []domain.Trek{}
	}

	return domain.TrekPage{
		Treks: treks,
		Pagination: domain.Pagination{
			Total: total,
			Page:  filter.Page,
			Pages: int((total + int64(filter.Limit) - 1) / int64(filter.Limit)),
		},
	}, nil
}

func (s *trekService) GetTrek(ctx context.Context, id string) (*domain.Trek, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		logger.Error("invalid trek id")
		return nil, ErrInvalidTrekID
	}

	if err := ctx.Err(); err != nil {
		logger.Error("context error when get trek")
		return nil, fmt.Errorf("context error: %w", err)
	}

	trek, err := s.trekRepo.FindTrekByID(ctx, id)
	if err != nil {
		logger.Error("failed to find trek by id", "trek_id", id, err)
		return nil, fmt.Errorf("failed to find trek: %w", err)
	}
	if trek == nil {
		return nil, ErrTrekNotFound
	}

	return trek, nil
}

func normalizeFilter(f domain.TrekFilter) domain.TrekFilter {
	if f.Page <= 0 {
		f.Page = defaultPage
	}
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}

	if !sortFields[f.Sort] {
		f.Sort = "createdAt"
		f.Order = "desc"
	}
	if f.Order != "asc" {
		f.Order = "desc"
	}

	f.Category = strings.ToLower(strings.TrimSpace(f.Category))
	f.Difficulty = strings.ToLower(strings.TrimSpace(f.Difficulty))
	f.Location = strings.TrimSpace(f.Location)

	return f
}
