package repository

import (
	"context"
	"encoding/json"
	"time"

	"prompt_galeri/internal/domain/models"
	redisapp "prompt_galeri/internal/storage/redis"

	"github.com/redis/go-redis/v9"
)

const promptListKey = "prompts:list"

// RedisListCache keeps the serialized prompt list so gallery loads do not hit
// postgres on every request. Mutations invalidate the key.
type RedisListCache struct {
	Client *redisapp.Client
}

func NewRedisListCache(client *redisapp.Client) *RedisListCache {
	return &RedisListCache{Client: client}
}

func (r *RedisListCache) GetList(ctx context.Context) ([]models.PromptItem, bool, error) {
	val, err := r.Client.Get(ctx, promptListKey).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var items []models.PromptItem
	if err := json.Unmarshal([]byte(val), &items); err != nil {
		// corrupt payload, drop it and treat as a miss
		_ = r.Client.Del(ctx, promptListKey).Err()
		return nil, false, nil
	}

	return items, true, nil
}

func (r *RedisListCache) SetList(ctx context.Context, items []models.PromptItem, ttl time.Duration) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, promptListKey, payload, ttl).Err()
}

func (r *RedisListCache) Invalidate(ctx context.Context) error {
	return r.Client.Del(ctx, promptListKey).Err()
}
