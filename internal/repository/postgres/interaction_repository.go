package postgres

import (
	"context"
	"errors"
	"fmt"

	"myTrekMarket/business/recommendation"
	"myTrekMarket/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InteractionRepository reads a user's reviews, bookings and wishlist with
// the referenced treks preloaded.
type InteractionRepository struct {
	DB *gorm.DB
}

// Compile-time check that the struct implements the interface.
var _ recommendation.InteractionRepository = (*InteractionRepository)(nil)

func NewInteractionRepository(db *gorm.DB) *InteractionRepository {
	return &InteractionRepository{DB: db}
}

func (r *InteractionRepository) FindReviewsByUser(ctx context.Context, userID string) ([]domain.Review, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	// user_id is a uuid column; postgres rejects anything else
	if !validUUID(userID) {
		return []domain.Review{}, nil
	}

	var reviews []domain.Review
	err := r.DB.WithContext(ctx).
		Preload("Trek").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find reviews: %w", err)
	}

	return reviews, nil
}

func (r *InteractionRepository) FindBookingsByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if !validUUID(userID) {
		return []domain.Booking{}, nil
	}

	var bookings []domain.Booking
	err := r.DB.WithContext(ctx).
		Preload("Trek").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}

	return bookings, nil
}

// FindWishlistByUser returns nil, nil when the user has no wishlist.
func (r *InteractionRepository) FindWishlistByUser(ctx context.Context, userID string) (*domain.Wishlist, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if !validUUID(userID) {
		return nil, nil
	}

	var wishlist domain.Wishlist
	err := r.DB.WithContext(ctx).
		Preload("Treks").
		Where("user_id = ?", userID).
		First(&wishlist).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find wishlist: %w", err)
	}

	// join rows survive trek deletion, so read the ids separately
	var ids []string
	err = r.DB.WithContext(ctx).
		Table("wishlist_treks").
		Where("wishlist_id = ?", wishlist.ID).
		Pluck("trek_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find wishlist trek ids: %w", err)
	}
	wishlist.TrekIDs = ids

	return &wishlist, nil
}

func validUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
