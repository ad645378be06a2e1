package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/botvault/botvault/pkg/metrics"
	"github.com/redis/go-redis/v9"
)

const optionCacheKeyPrefix = "option:"

// CachedOptionStore is a read-through Redis decorator over another
// OptionStore. Reads hit Redis first and warm the cache on a cold read;
// writes and deletes go through to the backing store and update Redis.
// Cache failures are logged and never surfaced — the backing store remains
// the source of truth.
type CachedOptionStore struct {
	store  OptionStore
	client *redis.Client
	ttl    time.Duration
}

func NewCachedOptionStore(store OptionStore, client *redis.Client, ttl time.Duration) *CachedOptionStore {
	return &CachedOptionStore{store: store, client: client, ttl: ttl}
}

func cacheKey(key string) string {
	return optionCacheKeyPrefix + key
}

func (s *CachedOptionStore) Get(ctx context.Context, key string) (string, error) {
	cached, err := s.client.Get(ctx, cacheKey(key)).Result()
	if err == nil {
		return cached, nil
	}
	value, err := s.store.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, cacheKey(key), value, s.ttl).Err(); err != nil {
		metrics.StoreFailures.WithLabelValues("cache_warm").Inc()
		log.Printf("CachedOptionStore: cache warm error for key %s: %v", key, err)
	}
	return value, nil
}

func (s *CachedOptionStore) Set(ctx context.Context, key, value string) error {
	if err := s.store.Set(ctx, key, value); err != nil {
		return err
	}
	if err := s.client.Set(ctx, cacheKey(key), value, s.ttl).Err(); err != nil {
		metrics.StoreFailures.WithLabelValues("cache_set").Inc()
		log.Printf("CachedOptionStore: cache write error for key %s: %v", key, err)
	}
	return nil
}

func (s *CachedOptionStore) Delete(ctx context.Context, key string) (bool, error) {
	removed, err := s.store.Delete(ctx, key)
	if err != nil {
		return false, err
	}
	if err := s.client.Del(ctx, cacheKey(key)).Err(); err != nil {
		metrics.StoreFailures.WithLabelValues("cache_delete").Inc()
		log.Printf("CachedOptionStore: cache delete error for key %s: %v", key, err)
	}
	return removed, nil
}

// Invalidate drops the cached copy of key. The event subscriber calls this
// when another instance reports a credential change.
func (s *CachedOptionStore) Invalidate(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, cacheKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate option %s: %w", key, err)
	}
	return nil
}
