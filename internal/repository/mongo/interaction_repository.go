package mongo

import (
	"context"
	"errors"
	"fmt"

	"myTrekMarket/business/recommendation"
	"myTrekMarket/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InteractionRepository reads the interaction collections and joins the
// referenced treks with one extra $in query per call.
type InteractionRepository struct {
	treks     *mongodriver.Collection
	reviews   *mongodriver.Collection
	bookings  *mongodriver.Collection
	wishlists *mongodriver.Collection
}

var _ recommendation.InteractionRepository = (*InteractionRepository)(nil)

func NewInteractionRepository(db *mongodriver.Database) *InteractionRepository {
	return &InteractionRepository{
		treks:     db.Collection(treksCollection),
		reviews:   db.Collection(reviewsCollection),
		bookings:  db.Collection(bookingsCollection),
		wishlists: db.Collection(wishlistsCollection),
	}
}

func (r *InteractionRepository) FindReviewsByUser(ctx context.Context, userID string) ([]domain.Review, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []domain.Review{}, nil
	}

	cur, err := r.reviews.Find(ctx, bson.M{"userId": uid}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find reviews: %w", err)
	}
	defer cur.Close(ctx)

	var docs []reviewDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}

	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.TrekID)
	}
	treks, err := r.treksByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	reviews := make([]domain.Review, 0, len(docs))
	for _, d := range docs {
		reviews = append(reviews, domain.Review{
			ID:        d.ID.Hex(),
			UserID:    d.UserID.Hex(),
			TrekID:    d.TrekID.Hex(),
			Trek:      treks[d.TrekID],
			Rating:    d.Rating,
			Comment:   d.Comment,
			CreatedAt: d.CreatedAt,
		})
	}

	return reviews, nil
}

func (r *InteractionRepository) FindBookingsByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []domain.Booking{}, nil
	}

	cur, err := r.bookings.Find(ctx, bson.M{"userId": uid}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cur.Close(ctx)

	var docs []bookingDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.TrekID)
	}
	treks, err := r.treksByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	bookings := make([]domain.Booking, 0, len(docs))
	for _, d := range docs {
		bookings = append(bookings, domain.Booking{
			ID:            d.ID.Hex(),
			UserID:        d.UserID.Hex(),
			TrekID:        d.TrekID.Hex(),
			Trek:          treks[d.TrekID],
			CompanyID:     d.CompanyID.Hex(),
			StartDate:     d.StartDate,
			EndDate:       d.EndDate,
			Participants:  d.Participants,
			TotalPrice:    d.TotalPrice,
			Status:        d.Status,
			PaymentStatus: d.PaymentStatus,
			CreatedAt:     d.CreatedAt,
		})
	}

	return bookings, nil
}

// FindWishlistByUser returns nil, nil when the user has no wishlist.
func (r *InteractionRepository) FindWishlistByUser(ctx context.Context, userID string) (*domain.Wishlist, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, nil
	}

	var doc wishlistDocument
	err = r.wishlists.FindOne(ctx, bson.M{"userId": uid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find wishlist: %w", err)
	}

	treks, err := r.treksByID(ctx, doc.Treks)
	if err != nil {
		return nil, err
	}

	wishlist := &domain.Wishlist{
		ID:      doc.ID.Hex(),
		UserID:  doc.UserID.Hex(),
		Treks:   make([]domain.Trek, 0, len(doc.Treks)),
		TrekIDs: make([]string, 0, len(doc.Treks)),
	}
	for _, id := range doc.Treks {
		wishlist.TrekIDs = append(wishlist.TrekIDs, id.Hex())
		if t, ok := treks[id]; ok {
			wishlist.Treks = append(wishlist.Treks, *t)
		}
	}

	return wishlist, nil
}

// treksByID loads the referenced treks regardless of approval; ids with no
// document are absent from the map.
func (r *InteractionRepository) treksByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*domain.Trek, error) {
	out := make(map[primitive.ObjectID]*domain.Trek, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	treks, err := findTreks(ctx, r.treks, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}

	for i := range treks {
		oid, err := primitive.ObjectIDFromHex(treks[i].ID)
		if err != nil {
			continue
		}
		out[oid] = &treks[i]
	}

	return out, nil
}
