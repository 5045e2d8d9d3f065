package kv

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v7"
)

type Redis struct {
	client *redis.Client
}

var _ KeyValueStore = (*Redis)(nil)

func NewRedisKV(addr, pwd string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: pwd,
		DB:       db,
	})

	if err := client.Ping().Err(); err != nil {
		return nil, err
	}

	return &Redis{client: client}, nil
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.WithContext(ctx).Get(key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrKeyMiss
	}
	return val, err
}

func (r *Redis) Set(ctx context.Context, key, value string, exp time.Duration) error {
	return r.client.WithContext(ctx).Set(key, value, exp).Err()
}

func (r *Redis) Del(ctx context.Context, key string) error {
	return r.client.WithContext(ctx).Del(key).Err()
}
