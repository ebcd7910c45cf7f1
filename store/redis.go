package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rushteam/goodsrec/core"
)

// RedisOptions 是 RedisStore 的连接配置。
// 超时/连接池字段为 0 时使用 go-redis 默认值。
type RedisOptions struct {
	Addr     string // host:port
	Password string
	DB       int

	// 连接池设置
	PoolSize int

	// 超时设置（秒）
	DialTimeoutSeconds  int
	ReadTimeoutSeconds  int
	WriteTimeoutSeconds int

	// 重试设置
	MaxRetries int
}

// RedisStore 是 Redis 实现的 Store。
// 生产环境常用，支持持久化、集群、哨兵等。
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		PoolSize:     opts.PoolSize,
		DialTimeout:  time.Duration(opts.DialTimeoutSeconds) * time.Second,
		ReadTimeout:  time.Duration(opts.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(opts.WriteTimeoutSeconds) * time.Second,
		MaxRetries:   opts.MaxRetries,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &RedisStore{client: client}, nil
}

func (r *RedisStore) Name() string { return "redis" }

func (r *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", core.ErrStoreNotFound
	}
	return val, err
}

func (r *RedisStore) SetEx(ctx context.Context, key, value string, ttlSeconds int) error {
	var expiration time.Duration
	if ttlSeconds > 0 {
		expiration = ttlDuration(ttlSeconds)
	}
	return r.client.Set(ctx, key, value, expiration).Err()
}

func (r *RedisStore) RPush(ctx context.Context, key string, values ...string) error {
	if len(values) == 0 {
		return nil
	}
	args := make([]interface{}, 0, len(values))
	for _, v := range values {
		args = append(args, v)
	}
	return r.client.RPush(ctx, key, args...).Err()
}

func (r *RedisStore) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return r.client.LRange(ctx, key, start, stop).Result()
}

func (r *RedisStore) ZAddBatch(ctx context.Context, key string, members map[string]float64) error {
	if len(members) == 0 {
		return nil
	}
	zs := make([]redis.Z, 0, len(members))
	for member, score := range members {
		zs = append(zs, redis.Z{Member: member, Score: score})
	}
	return r.client.ZAdd(ctx, key, zs...).Err()
}

func (r *RedisStore) ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return r.client.ZRevRange(ctx, key, start, stop).Result()
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *RedisStore) Expire(ctx context.Context, key string, ttlSeconds int) error {
	return r.client.Expire(ctx, key, ttlDuration(ttlSeconds)).Err()
}

func (r *RedisStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	return r.client.Keys(ctx, pattern).Result()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

var _ core.Store = (*RedisStore)(nil)
