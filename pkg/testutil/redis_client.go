package testutil

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type MockRedisClient struct {
	ExistFunc               func(ctx context.Context, key string) (bool, error)
	DelFunc                 func(ctx context.Context, key ...string) error
	ExpireFunc              func(ctx context.Context, key string, ttl time.Duration) error
	ZAddFunc                func(ctx context.Context, key string, z redis.Z) error
	ZIncrByFunc             func(ctx context.Context, key string, incr int64, member string) error
	ZRevRangeWithScoresFunc func(ctx context.Context, key string, offset, limit int) ([]redis.Z, error)
	SetObjFunc              func(ctx context.Context, key string, obj any, ttl time.Duration) error
	GetObjFunc              func(ctx context.Context, key string, v any) error
}

func (c *MockRedisClient) Exist(ctx context.Context, key string) (bool, error) {
	if c.ExistFunc != nil {
		return c.ExistFunc(ctx, key)
	}

	return false, nil
}

func (c *MockRedisClient) Del(ctx context.Context, key ...string) error {
	if c.DelFunc != nil {
		return c.DelFunc(ctx, key...)
	}

	return nil
}

func (c *MockRedisClient) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if c.ExpireFunc != nil {
		return c.ExpireFunc(ctx, key, ttl)
	}

	return nil
}

func (c *MockRedisClient) ZAdd(ctx context.Context, key string, z redis.Z) error {
	if c.ZAddFunc != nil {
		return c.ZAddFunc(ctx, key, z)
	}

	return nil
}

func (c *MockRedisClient) ZIncrBy(ctx context.Context, key string, incr int64, member string) error {
	if c.ZIncrByFunc != nil {
		return c.ZIncrByFunc(ctx, key, incr, member)
	}

	return nil
}

func (c *MockRedisClient) ZRevRangeWithScores(
	ctx context.Context, key string, offset, limit int,
) ([]redis.Z, error) {
	if c.ZRevRangeWithScoresFunc != nil {
		return c.ZRevRangeWithScoresFunc(ctx, key, offset, limit)
	}

	return nil, errors.New("not implemented")
}

func (c *MockRedisClient) SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error {
	if c.SetObjFunc != nil {
		return c.SetObjFunc(ctx, key, obj, ttl)
	}

	return nil
}

func (c *MockRedisClient) GetObj(ctx context.Context, key string, v any) error {
	if c.GetObjFunc != nil {
		return c.GetObjFunc(ctx, key, v)
	}

	return redis.Nil
}
