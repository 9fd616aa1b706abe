package notifier

import (
	"context"

	"github.com/redis/go-redis/v9"

	errs "dealsniper/pkg/errors"
)

// RedisNotifier publishes deal alerts to a capped Redis stream so other
// services (bots, dashboards) can consume them.
type RedisNotifier struct {
	client *redis.Client
	ctx    context.Context
	stream string
	maxLen int64
}

// NewRedisNotifier creates a new Redis stream notifier
func NewRedisNotifier(ctx context.Context, addr string, db int, stream string, maxLen int) *RedisNotifier {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &RedisNotifier{
		client: client,
		ctx:    ctx,
		stream: stream,
		maxLen: int64(maxLen),
	}
}

// Notify appends the alert to the stream, trimming it to the configured
// maximum length.
func (n *RedisNotifier) Notify(subject, body string) error {
	err := n.client.XAdd(n.ctx, &redis.XAddArgs{
		Stream: n.stream,
		MaxLen: n.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"subject": subject,
			"body":    body,
		},
	}).Err()
	if err != nil {
		return errs.NewNotify("redis", "failed to publish alert", err)
	}
	return nil
}

// Close closes the Redis connection
func (n *RedisNotifier) Close() error {
	return n.client.Close()
}
