// Package cache wraps Redis behind a small JSON cache used for read-mostly
// data such as account profiles and platform statistics. A cache miss is
// never an error; callers fall through to the database.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

// Get unmarshals the cached value into dest. The bool reports whether the
// key was present.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

func (s *CacheService) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// AccountKey is the cache key for one account's profile.
func (s *CacheService) AccountKey(accountID uint) string {
	return s.GenerateKey("account", "id", accountID)
}

// InvalidateAccount drops the cached profile after a balance mutation.
func (s *CacheService) InvalidateAccount(ctx context.Context, accountID uint) error {
	return s.Delete(ctx, s.AccountKey(accountID))
}

// Close closes the Redis client connection.
func (s *CacheService) Close() error {
	return s.client.Close()
}
