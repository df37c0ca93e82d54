package worker

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cola is the list-queue surface the pool needs. RedisCola is the production
// implementation; tests use an in-memory one.
type Cola interface {
	Push(ctx context.Context, queue string, data []byte) error
	// Pop blocks up to timeout. ok is false when nothing arrived.
	Pop(ctx context.Context, timeout time.Duration, queues ...string) (queue, raw string, ok bool, err error)
	// PopNoBloqueante takes the oldest entry of queue, if any.
	PopNoBloqueante(ctx context.Context, queue string) (raw string, ok bool, err error)
	Len(ctx context.Context, queue string) (int64, error)
}

type RedisCola struct{ rdb *redis.Client }

func NewRedisCola(rdb *redis.Client) *RedisCola { return &RedisCola{rdb: rdb} }

func (c *RedisCola) Push(ctx context.Context, queue string, data []byte) error {
	return c.rdb.LPush(ctx, queue, data).Err()
}

func (c *RedisCola) Pop(ctx context.Context, timeout time.Duration, queues ...string) (string, string, bool, error) {
	result, err := c.rdb.BRPop(ctx, timeout, queues...).Result()
	if errors.Is(err, redis.Nil) {
		return "", "", false, nil
	}
	if err != nil {
		return "", "", false, err
	}
	if len(result) < 2 {
		return "", "", false, nil
	}
	return result[0], result[1], true, nil
}

func (c *RedisCola) PopNoBloqueante(ctx context.Context, queue string) (string, bool, error) {
	raw, err := c.rdb.RPop(ctx, queue).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return raw, true, nil
}

func (c *RedisCola) Len(ctx context.Context, queue string) (int64, error) {
	return c.rdb.LLen(ctx, queue).Result()
}
