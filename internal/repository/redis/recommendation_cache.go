package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"myTrekMarket/business/recommendation"
	"myTrekMarket/domain"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// RecommendationCache stores finished recommendation results as JSON.
type RecommendationCache struct {
	client *redis.Client
	prefix string
}

var _ recommendation.ResultCache = (*RecommendationCache)(nil)

func NewRecommendationCache(client *redis.Client, prefix string) *RecommendationCache {
	return &RecommendationCache{
		client: client,
		prefix: prefix,
	}
}

// Get reports a miss, not an error, when the key is absent or expired.
func (c *RecommendationCache) Get(ctx context.Context, key string) (*domain.RecommendationResult, bool, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get recommendation from Redis: %w", err)
	}

	result, err := decodeResult(val)
	if err != nil {
		return nil, false, err
	}

	return result, true, nil
}

func (c *RecommendationCache) Set(ctx context.Context, key string, result domain.RecommendationResult, ttl time.Duration) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendation: %w", err)
	}

	if err := c.client.Set(ctx, c.prefix+key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store recommendation in Redis: %w", err)
	}

	return nil
}

func decodeResult(payload []byte) (*domain.RecommendationResult, error) {
	var result domain.RecommendationResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recommendation: %w", err)
	}
	if !result.Mode.Valid() {
		return nil, fmt.Errorf("cached recommendation has unknown mode %q", result.Mode)
	}

	return &result, nil
}
