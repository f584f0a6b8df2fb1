package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/vmihailenco/msgpack/v5"

	"property-feed/internal/store"
)

// ErrMiss is returned when a key is absent from both the cache and the
// persistent fallback.
var ErrMiss = errors.New("cache miss")

// DefaultTTL is the expiry applied when the caller does not override it.
const DefaultTTL = time.Hour

// Fallback is the persistent layer consulted on miss. Expected to return
// store.ErrNotFound (or a wrapper of it) for absent keys and a
// JSON-encoded payload otherwise.
type Fallback interface {
	FindByKey(ctx context.Context, key string) ([]byte, error)
}

// Cache is a Redis-backed key-value store with per-entry TTL and
// read-through fallback. Values are msgpack-encoded on the wire.
// Storage-layer errors are always surfaced to the caller.
type Cache struct {
	rdb      *redis.Client
	fallback Fallback
}

func New(rdb *redis.Client, fallback Fallback) *Cache {
	return &Cache{rdb: rdb, fallback: fallback}
}

// Set serializes value and writes it under key with the given TTL,
// overwriting any prior entry. A non-positive ttl falls back to DefaultTTL.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	raw, err := msgpack.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, raw, ttl).Err()
}

// Get reads key into dest. On miss it falls through to the persistent
// store and, if found there, backfills the cache at DefaultTTL before
// returning. Returns ErrMiss when the key exists in neither layer.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == nil {
		return msgpack.Unmarshal(raw, dest)
	}
	if !errors.Is(err, redis.Nil) {
		return err
	}

	payload, err := c.fallback.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrMiss
		}
		return err
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return err
	}
	return c.Set(ctx, key, dest, DefaultTTL)
}

// MSet writes all pairs with a single pipelined round trip, each entry
// under the same TTL.
func (c *Cache) MSet(ctx context.Context, pairs map[string]interface{}, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	pipe := c.rdb.Pipeline()
	for key, value := range pairs {
		raw, err := msgpack.Marshal(value)
		if err != nil {
			return err
		}
		pipe.Set(ctx, key, raw, ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// MGet reads all keys, preserving input order in the result. Misses fall
// through to the persistent store and are backfilled; a key absent from
// both layers yields a nil element.
func (c *Cache) MGet(ctx context.Context, keys []string) ([]interface{}, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	cached, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	results := make([]interface{}, len(keys))
	for i, key := range keys {
		if cached[i] != nil {
			raw, ok := cached[i].(string)
			if !ok {
				continue
			}
			var value interface{}
			if err := msgpack.Unmarshal([]byte(raw), &value); err != nil {
				return nil, err
			}
			results[i] = value
			continue
		}

		payload, err := c.fallback.FindByKey(ctx, key)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, err
		}
		var value interface{}
		if err := json.Unmarshal(payload, &value); err != nil {
			return nil, err
		}
		if err := c.Set(ctx, key, value, DefaultTTL); err != nil {
			return nil, err
		}
		results[i] = value
	}
	return results, nil
}

// Invalidate deletes a single entry.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}

// InvalidatePattern deletes every entry whose key matches the glob,
// e.g. "property:*" for bulk category eviction.
func (c *Cache) InvalidatePattern(ctx context.Context, pattern string) error {
	iter := c.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}
