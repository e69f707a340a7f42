// README: Redis client initialization for the quote cache.
package infra

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// NewRedis returns a client after a successful PING so a bad address fails at startup.
func NewRedis(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
