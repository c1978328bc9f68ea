package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultScratchTTL = 30 * 24 * time.Hour

// ScratchRepository is the small key-value store that outlives a page load. It keeps
// the last authenticated user snapshot and the last chosen language per client key;
// both values are opaque to the caller.
type ScratchRepository interface {
	SaveUser(ctx context.Context, clientKey string, snapshot []byte) error
	LoadUser(ctx context.Context, clientKey string) ([]byte, bool, error)
	DeleteUser(ctx context.Context, clientKey string) error
	SaveLanguage(ctx context.Context, clientKey, code string) error
	LoadLanguage(ctx context.Context, clientKey string) (string, bool, error)
}

type redisScratchRepository struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewScratchRepository returns a Redis backed repository. A nil client yields a
// repository that stores nothing.
func NewScratchRepository(client *redis.Client, prefix string, ttl time.Duration) ScratchRepository {
	if client == nil {
		return noopScratchRepository{}
	}
	if prefix == "" {
		prefix = "scratch"
	}
	if ttl <= 0 {
		ttl = defaultScratchTTL
	}
	return &redisScratchRepository{client: client, prefix: prefix, ttl: ttl}
}

func (r *redisScratchRepository) SaveUser(ctx context.Context, clientKey string, snapshot []byte) error {
	return r.client.Set(ctx, r.key(clientKey, "user"), snapshot, r.ttl).Err()
}

func (r *redisScratchRepository) LoadUser(ctx context.Context, clientKey string) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, r.key(clientKey, "user")).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (r *redisScratchRepository) DeleteUser(ctx context.Context, clientKey string) error {
	return r.client.Del(ctx, r.key(clientKey, "user")).Err()
}

func (r *redisScratchRepository) SaveLanguage(ctx context.Context, clientKey, code string) error {
	return r.client.Set(ctx, r.key(clientKey, "language"), code, r.ttl).Err()
}

func (r *redisScratchRepository) LoadLanguage(ctx context.Context, clientKey string) (string, bool, error) {
	value, err := r.client.Get(ctx, r.key(clientKey, "language")).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (r *redisScratchRepository) key(clientKey, field string) string {
	return fmt.Sprintf("%s:%s:%s", r.prefix, clientKey, field)
}

type noopScratchRepository struct{}

func (noopScratchRepository) SaveUser(context.Context, string, []byte) error { return nil }

func (noopScratchRepository) LoadUser(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (noopScratchRepository) DeleteUser(context.Context, string) error { return nil }

func (noopScratchRepository) SaveLanguage(context.Context, string, string) error { return nil }

func (noopScratchRepository) LoadLanguage(context.Context, string) (string, bool, error) {
	return "", false, nil
}
