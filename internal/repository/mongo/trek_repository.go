package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"myTrekMarket/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var sortFields = map[string]string{
	"createdAt": "createdAt",
	"price":     "price",
	"rating":    "rating",
	"duration":  "duration",
}

type TrekRepository struct {
	treks *mongodriver.Collection
}

func NewTrekRepository(db *mongodriver.Database) *TrekRepository {
	return &TrekRepository{
		treks: db.Collection(treksCollection),
	}
}

func (r *TrekRepository) FindApprovedTreks(ctx context.Context, filter domain.TrekFilter) ([]domain.Trek, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	opts := options.Find()
	if field, ok := sortFields[filter.Sort]; ok {
		dir := -1
		if strings.EqualFold(filter.Order, "asc") {
			dir = 1
		}
		opts.SetSort(bson.D{{Key: field, Value: dir}, {Key: "_id", Value: 1}})
	} else {
		opts.SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	}

	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		opts.SetSkip(int64((page - 1) * filter.Limit))
		opts.SetLimit(int64(filter.Limit))
	}

	return findTreks(ctx, r.treks, trekQuery(filter), opts)
}

func (r *TrekRepository) CountApprovedTreks(ctx context.Context, filter domain.TrekFilter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	total, err := r.treks.CountDocuments(ctx, trekQuery(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count treks: %w", err)
	}

	return total, nil
}

// FindTrekByID returns nil, nil for unknown or malformed ids.
func (r *TrekRepository) FindTrekByID(ctx context.Context, id string) (*domain.Trek, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var doc trekDocument
	err = r.treks.FindOne(ctx, bson.M{"_id": oid, "isApproved": true}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find trek: %w", err)
	}

	trek := doc.toDomain()
	return &trek, nil
}

func trekQuery(filter domain.TrekFilter) bson.M {
	query := bson.M{"isApproved": true}

	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Difficulty != "" {
		query["difficulty"] = filter.Difficulty
	}

	price := bson.M{}
	if filter.MinPrice > 0 {
		price["$gte"] = filter.MinPrice
	}
	if filter.MaxPrice > 0 {
		price["$lte"] = filter.MaxPrice
	}
	if len(price) > 0 {
		query["price"] = price
	}

	if filter.Location != "" {
		query["location"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Location), Options: "i"}
	}
	if len(filter.ExcludeIDs) > 0 {
		query["_id"] = bson.M{"$nin": objectIDs(filter.ExcludeIDs)}
	}

	return query
}

func findTreks(ctx context.Context, coll *mongodriver.Collection, query any, opts ...*options.FindOptions) ([]domain.Trek, error) {
	cur, err := coll.Find(ctx, query, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to find treks: %w", err)
	}
	defer cur.Close(ctx)

	var docs []trekDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode treks: %w", err)
	}

	treks := make([]domain.Trek, 0, len(docs))
	for _, d := range docs {
		treks = append(treks, d.toDomain())
	}

	return treks, nil
}
