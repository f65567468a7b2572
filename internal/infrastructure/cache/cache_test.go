package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/entity"
)

// ─── TTL ─────────────────────────────────────────────────────────────────────

func TestTTL_Expira(t *testing.T) {
	clock := time.Date(2026, time.October, 15, 9, 0, 0, 0, time.UTC)
	c := NewTTL[int](time.Minute)
	c.now = func() time.Time { return clock }

	c.Set("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	clock = clock.Add(2 * time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	c.Sweep()
	assert.Equal(t, 0, c.Len())
}

func TestTTL_Delete(t *testing.T) {
	c := NewTTL[string](time.Hour)
	c.Set("k", "v")
	c.Delete("k")
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestTTL_RunSweeperTerminaConContexto(t *testing.T) {
	c := NewTTL[int](time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.RunSweeper(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("el barrido no terminó")
	}
}

// ─── MemoryScoreCache ────────────────────────────────────────────────────────

func TestMemoryScoreCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryScoreCache(time.Minute)

	got, err := c.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, &entity.CreditScore{CustomerID: "c1", Score: 72}))
	got, err = c.Get(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 72, got.Score)

	require.NoError(t, c.Invalidate(ctx, "c1"))
	got, err = c.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

// ─── RedisScoreCache ─────────────────────────────────────────────────────────

func TestRedisScoreCache_BreakerAbreSinServidor(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
	defer client.Close()
	c := NewRedisScoreCache(client, time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := c.Get(ctx, "c1")
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, c.State())

	_, err := c.Get(ctx, "c1")
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
	assert.Error(t, c.Set(ctx, &entity.CreditScore{CustomerID: "c1"}))
	assert.Error(t, c.Invalidate(ctx, "c1"))
}
