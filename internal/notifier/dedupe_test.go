package notifier

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nimasrn/banking-gateway/pkg/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, redis.RedisAdapter) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = c.Close() })
	return mr, redis.NewFromClient(t.Name(), "", c)
}

func TestDeduper_Lifecycle(t *testing.T) {
	mr, adapter := setupTestRedis(t)
	d := NewDeduper(adapter, DefaultDedupeConfig())
	ctx := context.Background()

	require.NoError(t, d.Begin(ctx, "ev-1"))
	assert.ErrorIs(t, d.Begin(ctx, "ev-1"), ErrInFlight)

	require.NoError(t, d.Done(ctx, "ev-1"))
	assert.ErrorIs(t, d.Begin(ctx, "ev-1"), ErrAlreadyNotified)
	assert.False(t, mr.Exists("notify:lock:ev-1"))

	notified, err := d.IsNotified(ctx, "ev-1")
	require.NoError(t, err)
	assert.True(t, notified)
	assert.Equal(t, 24*time.Hour, mr.TTL("notify:done:ev-1"))
}

func TestDeduper_ReleaseAllowsRetry(t *testing.T) {
	_, adapter := setupTestRedis(t)
	d := NewDeduper(adapter, DefaultDedupeConfig())
	ctx := context.Background()

	require.NoError(t, d.Begin(ctx, "ev-2"))
	d.Release(ctx, "ev-2")
	require.NoError(t, d.Begin(ctx, "ev-2"))

	notified, err := d.IsNotified(ctx, "ev-2")
	require.NoError(t, err)
	assert.False(t, notified)
}

func TestDeduper_LockExpires(t *testing.T) {
	mr, adapter := setupTestRedis(t)
	cfg := DefaultDedupeConfig()
	cfg.LockTTL = time.Second
	d := NewDeduper(adapter, cfg)
	ctx := context.Background()

	require.NoError(t, d.Begin(ctx, "ev-3"))
	mr.FastForward(2 * time.Second)
	assert.NoError(t, d.Begin(ctx, "ev-3"))
}
