// Package cache keeps JSON encoded values in Redis under TTLs.
package cache

//go:generate go run go.uber.org/mock/mockgen -source=./cache.go -destination=./mocks/cache_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"vprime/infras/otel"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Nil is returned by Get when the key does not exist.
const Nil = redis.Nil

const (
	otelScopeName    = "cache"
	otelKeyAttribute = "cache.key"
)

type RedisCache interface {
	Save(ctx context.Context, key string, value any, ttlSeconds int) error
	Get(ctx context.Context, key string, value any) error
	Increment(ctx context.Context, key string, ttlSeconds int) (int64, error)
}

type redisCache struct {
	client *redis.Client
	otel   otel.Otel
}

func NewRedisCache(client *redis.Client, ot otel.Otel) RedisCache {
	return &redisCache{client: client, otel: ot}
}

func (c *redisCache) span(ctx context.Context, op, key string) (context.Context, otel.Scope) {
	ctx, scope := c.otel.NewScope(ctx, otelScopeName, otelScopeName+"."+op)
	scope.SetAttribute(otelKeyAttribute, key)

	return ctx, scope
}

// Save stores value under key. Strings are written raw, anything else as JSON.
func (c *redisCache) Save(ctx context.Context, key string, value any, ttlSeconds int) (err error) {
	ctx, scope := c.span(ctx, "Save", key)
	defer func() {
		scope.TraceIfError(err)
		scope.End()
	}()

	payload, err := encode(value)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", key, err)
	}

	if err = c.client.Set(ctx, key, payload, time.Duration(ttlSeconds)*time.Second).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("cache save failed")

		return fmt.Errorf("saving %q: %w", key, err)
	}

	return nil
}

// Get decodes the value under key into value. A missing key yields an error wrapping Nil.
func (c *redisCache) Get(ctx context.Context, key string, value any) (err error) {
	ctx, scope := c.span(ctx, "Get", key)
	defer func() {
		if !errors.Is(err, Nil) {
			scope.TraceIfError(err)
		}
		scope.End()
	}()

	raw, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("getting %q: %w", key, err)
	}

	if s, ok := value.(*string); ok {
		*s = raw

		return nil
	}

	if err = json.Unmarshal([]byte(raw), value); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache entry is not valid json")

		return fmt.Errorf("decoding %q: %w", key, err)
	}

	return nil
}

// Increment adds one to the counter under key and returns the new count. A positive ttl is applied
// only when the key has none, so the first increment fixes when the counter expires.
func (c *redisCache) Increment(ctx context.Context, key string, ttlSeconds int) (count int64, err error) {
	ctx, scope := c.span(ctx, "Increment", key)
	defer func() {
		scope.TraceIfError(err)
		scope.End()
	}()

	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, key)

	if ttlSeconds > 0 {
		pipe.ExpireNX(ctx, key, time.Duration(ttlSeconds)*time.Second)
	}

	if _, err = pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("incrementing %q: %w", key, err)
	}

	return incr.Val(), nil
}

func encode(value any) ([]byte, error) {
	if s, ok := value.(string); ok {
		return []byte(s), nil
	}

	return json.Marshal(value)
}
