package recommendation

import (
	"context"
	"fmt"

	"myTrekMarket/domain"

	"golang.org/x/sync/errgroup"
)

// loadHistory fetches reviews, wishlist and bookings concurrently. The first
// failure cancels the other fetches and is returned.
func (s *Service) loadHistory(ctx context.Context, userID string) (domain.InteractionHistory, error) {
	if err := ctx.Err(); err != nil {
		return domain.InteractionHistory{}, fmt.Errorf("context error: %w", err)
	}

	var (
		reviews  []domain.Review
		bookings []domain.Booking
		wishlist *domain.Wishlist
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := s.interactionRepo.FindReviewsByUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("load reviews: %w", err)
		}
		reviews = rows
		return nil
	})

	g.Go(func() error {
		wl, err := s.interactionRepo.FindWishlistByUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("load wishlist: %w", err)
		}
		wishlist = wl
		return nil
	})

	g.Go(func() error {
		rows, err := s.interactionRepo.FindBookingsByUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("load bookings: %w", err)
		}
		bookings = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		return domain.InteractionHistory{}, err
	}

	return domain.InteractionHistory{
		Reviews:  reviews,
		Bookings: bookings,
		Wishlist: wishlist,
	}, nil
}
