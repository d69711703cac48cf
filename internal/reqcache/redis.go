package reqcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisSetKey = "dealdesk:reqcache:keys"

// Redis shares the render cache between server processes.
type Redis struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedis(addr, password string, db int, ttl time.Duration) *Redis {
	return &Redis{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		prefix: "dealdesk:reqcache:",
		ttl:    ttl,
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	if err := r.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("Redis недоступен: %w", err)
	}
	return nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.rdb.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	ok, err := r.rdb.SetNX(ctx, r.prefix+key, value, r.ttl).Result()
	if err != nil {
		return err
	}
	if ok {
		return r.rdb.SAdd(ctx, redisSetKey, r.prefix+key).Err()
	}
	return nil
}

func (r *Redis) Clear(ctx context.Context) error {
	keys, err := r.rdb.SMembers(ctx, redisSetKey).Result()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	keys = append(keys, redisSetKey)
	return r.rdb.Del(ctx, keys...).Err()
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
