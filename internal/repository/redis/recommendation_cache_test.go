//go:build !integration

package redis

import (
	"context"
	"testing"
	"time"

	"myTrekMarket/domain"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

func TestDecodeResult(t *testing.T) {
	stored := domain.RecommendationResult{
		Mode: domain.ModePopularDestinations,
		Destinations: []domain.DestinationSummary{{
			Location:  "Pokhara",
			AvgRating: 4.8,
			TrekCount: 2,
			BestTrek:  domain.Trek{ID: "p2", Rating: 5},
			Image:     "pokhara.jpg",
		}},
	}
	payload, err := json.Marshal(stored)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	tests := []struct {
		name    string
		payload []byte
		wantErr bool
	}{
		{name: "valid", payload: payload},
		{name: "corrupt", payload: []byte(`{"mode":`), wantErr: true},
		{name: "unknown mode", payload: []byte(`{"mode":"random"}`), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeResult(tt.payload)
			if (err != nil) != tt.wantErr {
				t.Fatalf("decodeResult() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got.Destinations) != 1 || got.Destinations[0].BestTrek.ID != "p2" || got.Destinations[0].AvgRating != 4.8 {
				t.Errorf("decodeResult() = %+v", got)
			}
		})
	}
}

func TestRecommendationCache_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	cache := NewRecommendationCache(client, "test:")
	ctx := context.Background()

	if _, ok, err := cache.Get(ctx, "reco:trending:*:5"); err == nil || ok {
		t.Errorf("Get() = ok %v err %v, want error", ok, err)
	}
	if err := cache.Set(ctx, "reco:trending:*:5", domain.RecommendationResult{Mode: domain.ModeTrending}, time.Minute); err == nil {
		t.Error("Set() error = nil, want error")
	}
}
