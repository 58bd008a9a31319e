/* redis.go
 * Contains the Redis backed key-value client
 */

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds the connection settings for Redis. URL takes priority over the other fields.
type RedisConfig struct {
	URL      string
	Addr     string
	Password string
	DB       int
}

type RedisKV struct {
	Client *redis.Client
}

var _ KV = (*RedisKV)(nil)

// NewRedisKV connects to Redis and checks the connection with a ping
// Preconditions: cfg has either a redis:// url or an address
// Postconditions: Returns the client, or an error if the url is invalid or the server cannot be reached
func NewRedisKV(ctx context.Context, cfg RedisConfig) (*RedisKV, error) {
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("error parsing redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("error connecting to redis at %s: %w", opts.Addr, err)
	}

	return &RedisKV{Client: client}, nil
}

func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	val, err := r.Client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

// Set stores the value with no expiry
func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	if err := r.Client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisKV) Close() error {
	return r.Client.Close()
}
