package toll

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RoundTrip(t *testing.T) {
	redisAddr := os.Getenv("TOLL_REDIS_ADDR")
	if redisAddr == "" {
		t.Skip("TOLL_REDIS_ADDR not set; skipping integration test")
	}

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer rdb.Close()

	store := NewStore(rdb, time.Minute)
	ctx := context.Background()
	key := fmt.Sprintf("test_%d", time.Now().UnixNano())
	defer rdb.Del(ctx, redisKey(key))

	_, ok, err := store.GetDay(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	res, err := DailyFee(VehicleCar, []civil.DateTime{friday(6, 0), friday(7, 10)})
	require.NoError(t, err)
	require.NoError(t, store.PutDay(ctx, key, res))

	got, ok, err := store.GetDay(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, res, got)

	ttl, err := rdb.TTL(ctx, redisKey(key)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
