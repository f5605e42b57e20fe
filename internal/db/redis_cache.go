package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/terraincognita07/cyclecast/internal/models"
)

const PredictionCacheKey = "cyclecast:prediction"

// RedisPredictionCache keeps the cached prediction in Redis. Entries never
// expire; staleness is judged from GeneratedAt and DataHash by the caller.
type RedisPredictionCache struct {
	client *redis.Client
	key    string
}

func NewRedisClient(addr string, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewRedisPredictionCache(client *redis.Client) *RedisPredictionCache {
	return &RedisPredictionCache{client: client, key: PredictionCacheKey}
}

func (cache *RedisPredictionCache) GetCachedPrediction(ctx context.Context) (models.Prediction, bool, error) {
	payload, err := cache.client.Get(ctx, cache.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Prediction{}, false, nil
	}
	if err != nil {
		return models.Prediction{}, false, fmt.Errorf("get cached prediction: %w", err)
	}

	prediction := models.Prediction{}
	if err := json.Unmarshal(payload, &prediction); err != nil {
		return models.Prediction{}, false, fmt.Errorf("decode cached prediction: %w", err)
	}
	return prediction, true, nil
}

func (cache *RedisPredictionCache) SetCachedPrediction(ctx context.Context, prediction models.Prediction) error {
	payload, err := json.Marshal(prediction)
	if err != nil {
		return fmt.Errorf("encode cached prediction: %w", err)
	}
	if err := cache.client.Set(ctx, cache.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("set cached prediction: %w", err)
	}
	return nil
}

func (cache *RedisPredictionCache) ClearCachedPrediction(ctx context.Context) error {
	return cache.client.Del(ctx, cache.key).Err()
}
