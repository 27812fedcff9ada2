package resilient

import (
	"context"

	"myTrekMarket/domain"

	gobreaker "github.com/sony/gobreaker/v2"
)

type TrekStore interface {
	FindApprovedTreks(ctx context.Context, filter domain.TrekFilter) ([]domain.Trek, error)
	CountApprovedTreks(ctx context.Context, filter domain.TrekFilter) (int64, error)
	FindTrekByID(ctx context.Context, id string) (*domain.Trek, error)
}

// TrekRepository fails fast with gobreaker.ErrOpenState while the store is
// considered down.
type TrekRepository struct {
	next TrekStore
	cb   *gobreaker.CircuitBreaker[any]
}

func NewTrekRepository(next TrekStore, cfg BreakerConfig) *TrekRepository {
	return &TrekRepository{
		next: next,
		cb:   newBreaker(cfg),
	}
}

func (r *TrekRepository) FindApprovedTreks(ctx context.Context, filter domain.TrekFilter) ([]domain.Trek, error) {
	return execute(r.cb, func() ([]domain.Trek, error) {
		return r.next.FindApprovedTreks(ctx, filter)
	})
}

func (r *TrekRepository) CountApprovedTreks(ctx context.Context, filter domain.TrekFilter) (int64, error) {
	return execute(r.cb, func() (int64, error) {
		return r.next.CountApprovedTreks(ctx, filter)
	})
}

func (r *TrekRepository) FindTrekByID(ctx context.Context, id string) (*domain.Trek, error) {
	return execute(r.cb, func() (*domain.Trek, error) {
		return r.next.FindTrekByID(ctx, id)
	})
}

func (r *TrekRepository) State() string {
	return r.cb.State().String()
}
