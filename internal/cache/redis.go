package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const (
	existenceHash = "page:existence"
	existenceTTL  = time.Hour
)

var _ ExistenceCache = (*RedisExistenceCache)(nil)

// RedisExistenceCache keeps the title map in one hash so Clear is a single
// delete.
type RedisExistenceCache struct {
	client *redis.Client
}

type RedisOptions struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func NewRedisClient(opts RedisOptions) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
		Protocol: 2, // Connection protocol
	})
}

func NewRedisExistenceCache(client *redis.Client) *RedisExistenceCache {
	return &RedisExistenceCache{client: client}
}

func (r *RedisExistenceCache) Lookup(ctx context.Context, ns int, title string) (int64, bool, error) {
	res := r.client.HGet(ctx, existenceHash, titleKey(ns, title))
	if res.Err() != nil {
		if errors.Is(res.Err(), redis.Nil) {
			return 0, false, nil
		}
		return 0, false, res.Err()
	}

	id, err := strconv.ParseInt(res.Val(), 10, 64)
	if err != nil {
		return 0, false, err
	}

	return id, true, nil
}

func (r *RedisExistenceCache) Remember(ctx context.Context, ns int, title string, id int64) error {
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		if err := p.HSet(ctx, existenceHash, titleKey(ns, title), id).Err(); err != nil {
			return err
		}

		// keep the map for a while
		return p.Expire(ctx, existenceHash, existenceTTL).Err()
	})

	return err
}

func (r *RedisExistenceCache) Forget(ctx context.Context, ns int, title string) error {
	return r.client.HDel(ctx, existenceHash, titleKey(ns, title)).Err()
}

func (r *RedisExistenceCache) Clear(ctx context.Context) error {
	return r.client.Del(ctx, existenceHash).Err()
}
