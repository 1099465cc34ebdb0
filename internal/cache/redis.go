package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Domenick1991/eventbooking/config"
	"github.com/Domenick1991/eventbooking/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client     redis.UniversalClient
	reviewsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, reviewsTTL time.Duration) *RedisCache {
	return NewRedisCacheWithClient(redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}), reviewsTTL)
}

func NewRedisCacheWithClient(client redis.UniversalClient, reviewsTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, reviewsTTL: reviewsTTL}
}

func (c *RedisCache) GetVerifiedReviews(ctx context.Context) ([]domain.Review, error) {
	return c.getReviews(ctx, verifiedReviewsKey())
}

func (c *RedisCache) SetVerifiedReviews(ctx context.Context, reviews []domain.Review) error {
	return c.setReviews(ctx, verifiedReviewsKey(), reviews)
}

func (c *RedisCache) GetTopReviews(ctx context.Context) ([]domain.Review, error) {
	return c.getReviews(ctx, topReviewsKey())
}

func (c *RedisCache) SetTopReviews(ctx context.Context, reviews []domain.Review) error {
	return c.setReviews(ctx, topReviewsKey(), reviews)
}

// InvalidateReviews drops every cached review list.
func (c *RedisCache) InvalidateReviews(ctx context.Context) error {
	return c.client.Del(ctx, verifiedReviewsKey(), topReviewsKey()).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// getReviews returns nil, nil on a cache miss.
func (c *RedisCache) getReviews(ctx context.Context, key string) ([]domain.Review, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	reviews := make([]domain.Review, 0)
	if err := json.Unmarshal(data, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (c *RedisCache) setReviews(ctx context.Context, key string, reviews []domain.Review) error {
	if reviews == nil {
		reviews = []domain.Review{}
	}
	payload, err := json.Marshal(reviews)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, c.reviewsTTL).Err()
}

func verifiedReviewsKey() string {
	return "cache:reviews:verified"
}

func topReviewsKey() string {
	return "cache:reviews:top"
}
