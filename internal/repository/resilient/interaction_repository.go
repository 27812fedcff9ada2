package resilient

import (
	"context"

	"myTrekMarket/business/recommendation"
	"myTrekMarket/domain"

	gobreaker "github.com/sony/gobreaker/v2"
)

type InteractionRepository struct {
	next recommendation.InteractionRepository
	cb   *gobreaker.CircuitBreaker[any]
}

func NewInteractionRepository(next recommendation.InteractionRepository, cfg BreakerConfig) *InteractionRepository {
	return &InteractionRepository{
		next: next,
		cb:   newBreaker(cfg),
	}
}

func (r *InteractionRepository) FindReviewsByUser(ctx context.Context, userID string) ([]domain.Review, error) {
	return execute(r.cb, func() ([]domain.Review, error) {
		return r.next.FindReviewsByUser(ctx, userID)
	})
}

func (r *InteractionRepository) FindBookingsByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	return execute(r.cb, func() ([]domain.Booking, error) {
		return r.next.FindBookingsByUser(ctx, userID)
	})
}

func (r *InteractionRepository) FindWishlistByUser(ctx context.Context, userID string) (*domain.Wishlist, error) {
	return execute(r.cb, func() (*domain.Wishlist, error) {
		return r.next.FindWishlistByUser(ctx, userID)
	})
}

func (r *InteractionRepository) State() string {
	return r.cb.State().String()
}
