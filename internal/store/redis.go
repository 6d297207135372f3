package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"intraday-arb/internal/intraday"
)

type RedisConfig struct {
	Addr      string `json:"addr" yaml:"addr" toml:"addr" default:"localhost:6379"`
	Password  string `json:"password" yaml:"password" toml:"password"`
	DB        int    `json:"db" yaml:"db" toml:"db"`
	KeyPrefix string `json:"key_prefix" yaml:"key_prefix" toml:"key_prefix" default:"intraday:scan:"`
}

// RedisStore keeps results as JSON values with a TTL.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects and pings the server. It returns an error if the
// connection cannot be established.
func NewRedisStore(ctx context.Context, cfg RedisConfig, ttl time.Duration) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return NewRedisStoreWithClient(rdb, cfg.KeyPrefix, ttl), nil
}

func NewRedisStoreWithClient(rdb *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(id string) string { return s.prefix + id }

func (s *RedisStore) Put(ctx context.Context, res *intraday.Result) error {
	b, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("redis: encode result: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key(res.ID), b, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", res.ID, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*intraday.Result, error) {
	b, err := s.rdb.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis: get %s: %w", id, err)
	}
	var res intraday.Result
	if err := json.Unmarshal(b, &res); err != nil {
		return nil, fmt.Errorf("redis: decode %s: %w", id, err)
	}
	return &res, nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
