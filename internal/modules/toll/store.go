// README: Quote cache backed by Redis string keys with a TTL.
package toll

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const quoteKeyPrefix = "toll:quote:%s"

type Store struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewStore(redis *redis.Client, ttl time.Duration) *Store {
	return &Store{redis: redis, ttl: ttl}
}

func (s *Store) GetDay(ctx context.Context, key string) (DayResult, bool, error) {
	val, err := s.redis.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return DayResult{}, false, nil
	}
	if err != nil {
		return DayResult{}, false, err
	}
	var res DayResult
	if err := json.Unmarshal(val, &res); err != nil {
		return DayResult{}, false, fmt.Errorf("decode cached quote: %w", err)
	}
	return res, true, nil
}

func (s *Store) PutDay(ctx context.Context, key string, res DayResult) error {
	b, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, redisKey(key), b, s.ttl).Err()
}

func redisKey(key string) string {
	return fmt.Sprintf(quoteKeyPrefix, key)
}
