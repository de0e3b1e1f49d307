package queue

import (
	"context"
	"errors"

	redis "github.com/redis/go-redis/v9"
)

const DefaultRedisQueue = "pagepurge:tasks"

var _ TaskQueue = (*RedisQueue)(nil)

// RedisQueue is a list based queue: RPUSH to publish, LPOP to poll.
type RedisQueue struct {
	client *redis.Client
	name   string
}

func NewRedisQueue(client *redis.Client, name string) *RedisQueue {
	if name == "" {
		name = DefaultRedisQueue
	}

	return &RedisQueue{client: client, name: name}
}

func (r *RedisQueue) Publish(ctx context.Context, payload []byte) error {
	return r.client.RPush(ctx, r.name, payload).Err()
}

func (r *RedisQueue) Poll(ctx context.Context, max int) ([][]byte, error) {
	res := r.client.LPopCount(ctx, r.name, max)
	if res.Err() != nil {
		if errors.Is(res.Err(), redis.Nil) {
			return nil, nil
		}
		return nil, res.Err()
	}

	out := make([][]byte, 0, len(res.Val()))
	for _, item := range res.Val() {
		out = append(out, []byte(item))
	}

	return out, nil
}

func (r *RedisQueue) Close() error {
	return r.client.Close()
}
