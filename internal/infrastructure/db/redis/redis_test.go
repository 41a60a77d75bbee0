package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymcheck/checkin-api/internal/infrastructure/config"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()

	client, err := Connect(context.Background(), config.RedisConfig{Addr: addr})
	require.NoError(t, err)
	_ = client.Close()

	mr.Close()
	_, err = Connect(context.Background(), config.RedisConfig{Addr: addr, Timeout: 200 * time.Millisecond})
	assert.Error(t, err)
}

func TestClientOptions(t *testing.T) {
	opts := clientOptions(config.RedisConfig{
		Addr:     "cache:6379",
		Password: "pw",
		DB:       3,
		PoolSize: 32,
		Timeout:  750 * time.Millisecond,
	})
	assert.Equal(t, "cache:6379", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 3, opts.DB)
	assert.Equal(t, 32, opts.PoolSize)
	assert.Equal(t, 750*time.Millisecond, opts.DialTimeout)
	assert.Equal(t, 750*time.Millisecond, opts.ReadTimeout)
	assert.Equal(t, 750*time.Millisecond, opts.PoolTimeout)

	assert.Equal(t, fallbackTimeout, clientOptions(config.RedisConfig{}).WriteTimeout)
}

func TestDailyGuard_AcquireOncePerDay(t *testing.T) {
	mr, client := newTestClient(t)
	guard := NewDailyGuard(client)
	ctx := context.Background()
	morning := time.Date(2026, 1, 20, 8, 0, 0, 0, time.UTC)

	ok, err := guard.Acquire(ctx, "user-1", morning)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = guard.Acquire(ctx, "user-1", morning.Add(6*time.Hour))
	require.NoError(t, err)
	assert.False(t, ok, "same UTC day must be refused")

	ok, err = guard.Acquire(ctx, "user-2", morning)
	require.NoError(t, err)
	assert.True(t, ok, "other users are independent")

	ok, err = guard.Acquire(ctx, "user-1", morning.Add(24*time.Hour))
	require.NoError(t, err)
	assert.True(t, ok, "next day gets a new slot")

	assert.True(t, mr.Exists("checkin:user-1:2026-01-20"))
	ttl := mr.TTL("checkin:user-1:2026-01-20")
	assert.Equal(t, 17*time.Hour, ttl, "16h to midnight plus margin")
}

func TestDailyGuard_Release(t *testing.T) {
	_, client := newTestClient(t)
	guard := NewDailyGuard(client)
	ctx := context.Background()
	now := time.Date(2026, 1, 20, 8, 0, 0, 0, time.UTC)

	_, err := guard.Acquire(ctx, "user-1", now)
	require.NoError(t, err)
	require.NoError(t, guard.Release(ctx, "user-1", now))

	ok, err := guard.Acquire(ctx, "user-1", now)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDailyGuard_RedisDown(t *testing.T) {
	mr, client := newTestClient(t)
	guard := NewDailyGuard(client)
	mr.Close()

	ok, err := guard.Acquire(context.Background(), "user-1", time.Now())
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestLoginThrottle_FixedWindow(t *testing.T) {
	mr, client := newTestClient(t)
	throttle := NewLoginThrottle(client, 3, 15*time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := throttle.Allow(ctx, "john@example.com")
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d", i+1)
	}

	ok, err := throttle.Allow(ctx, "JOHN@example.com ")
	require.NoError(t, err)
	assert.False(t, ok, "e-mail is normalized before counting")

	ok, err = throttle.Allow(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(16 * time.Minute)
	ok, err = throttle.Allow(ctx, "john@example.com")
	require.NoError(t, err)
	assert.True(t, ok, "window expired")
}

func TestLoginThrottle_Reset(t *testing.T) {
	_, client := newTestClient(t)
	throttle := NewLoginThrottle(client, 1, time.Minute)
	ctx := context.Background()

	_, _ = throttle.Allow(ctx, "john@example.com")
	require.NoError(t, throttle.Reset(ctx, "john@example.com"))

	ok, err := throttle.Allow(ctx, "john@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLoginThrottle_FailsOpen(t *testing.T) {
	mr, client := newTestClient(t)
	throttle := NewLoginThrottle(client, 1, time.Minute)
	mr.Close()

	ok, err := throttle.Allow(context.Background(), "john@example.com")
	assert.Error(t, err)
	assert.True(t, ok)
}
