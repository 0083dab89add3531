// Package cache provides a Redis-backed cache for external provider
// responses. Caching is optional; a nil client disables it entirely so
// callers never need to branch on whether Redis is configured.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when the key is not present in the cache.
var ErrCacheMiss = errors.New("cache miss")

// Default TTLs per provider. Concert listings change rarely within a day;
// sports scoreboards update as games are scheduled and played.
const (
	ConcertTTL  = 6 * time.Hour
	ScheduleTTL = 30 * time.Minute
	ArtistTTL   = 24 * time.Hour
)

// EventCache stores serialized provider responses in Redis.
type EventCache struct {
	client *redis.Client
}

// NewEventCache creates a cache backed by the given Redis client.
// A nil client produces a cache where Get always misses and Set is a no-op.
func NewEventCache(client *redis.Client) *EventCache {
	return &EventCache{client: client}
}

// Enabled reports whether a Redis client is configured.
func (c *EventCache) Enabled() bool {
	return c != nil && c.client != nil
}

// Get unmarshals the cached value for key into dest.
// Returns ErrCacheMiss if the key is absent or caching is disabled.
func (c *EventCache) Get(ctx context.Context, key string, dest any) error {
	if !c.Enabled() {
		return ErrCacheMiss
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("cache get %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("cache decode %s: %w", key, err)
	}
	return nil
}

// Set marshals value as JSON and stores it under key with the given TTL.
// A no-op when caching is disabled.
func (c *EventCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// ConcertKey builds the cache key for a Ticketmaster artist search.
func ConcertKey(artist, city, state string, radius int) string {
	return fmt.Sprintf("concerts:%s:%s:%s:%d", artist, city, state, radius)
}

// ScheduleKey builds the cache key for an ESPN scoreboard lookup.
func ScheduleKey(league string, date time.Time) string {
	return fmt.Sprintf("schedule:%s:%s", league, date.Format("20060102"))
}

// ArtistKey builds the cache key for an artist catalog search.
func ArtistKey(term string, limit int) string {
	return fmt.Sprintf("artists:%s:%d", term, limit)
}
