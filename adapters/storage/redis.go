package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const defaultRedisKey = "censor:terms"

// RedisAdapter keeps terms in a Redis set so several instances share one list.
type RedisAdapter struct {
	client redis.UniversalClient
	key    string
}

// RedisOption configures a RedisAdapter.
type RedisOption func(*RedisAdapter)

// WithRedisKey overrides the set key.
func WithRedisKey(key string) RedisOption {
	return func(a *RedisAdapter) {
		if key != "" {
			a.key = key
		}
	}
}

// NewRedisAdapter creates a Redis-backed adapter.
func NewRedisAdapter(client redis.UniversalClient, opts ...RedisOption) (*RedisAdapter, error) {
	if client == nil {
		return nil, errors.New("storage: redis client is nil")
	}
	a := &RedisAdapter{client: client, key: defaultRedisKey}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a, nil
}

func (r *RedisAdapter) AddTerm(ctx context.Context, term string) error {
	return r.client.SAdd(ctx, r.key, term).Err()
}

func (r *RedisAdapter) RemoveTerm(ctx context.Context, term string) error {
	return r.client.SRem(ctx, r.key, term).Err()
}

func (r *RedisAdapter) GetTerms(ctx context.Context) ([]string, error) {
	return r.client.SMembers(ctx, r.key).Result()
}

func (r *RedisAdapter) TermExists(ctx context.Context, term string) (bool, error) {
	return r.client.SIsMember(ctx, r.key, term).Result()
}
