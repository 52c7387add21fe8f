// Package cache provides the raw-response cache backed by Redis.
//
// The cache is an optimization, never a correctness dependency: callers
// treat read and write failures as soft and fall through to the network.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"cfb-pipeline/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const keyPrefix = "cfb:cache:"

// Store is the key-value contract consumed by the fetch layer.
// Get returns (nil, nil) when the key is absent or expired.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}

// Key builds the canonical cache identity for a request. Parameter keys
// are sorted so permutations of the same parameter set collide.
func Key(rawURL string, params map[string]string) string {
	key := keyPrefix + rawURL
	if len(params) == 0 {
		return key
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	return key + "?" + strings.Join(pairs, "&")
}

type Redis struct {
	client *redis.Client
	logger zerolog.Logger
}

func NewRedis(cfg *config.Config, logger zerolog.Logger) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		}),
		logger: logger,
	}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	payload, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return payload, nil
}

func (r *Redis) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
