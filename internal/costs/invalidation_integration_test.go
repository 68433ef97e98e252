//go:build integration

package costs

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/guttosm/pack-advice/internal/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type atomicInvalidator struct {
	count atomic.Int32
}

func (a *atomicInvalidator) Invalidate() { a.count.Add(1) }

func TestRedisInvalidator_Integration(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	container, err := testutil.SetupRedis(ctx)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, container.Cleanup(context.Background()))
	}()

	opt, err := redis.ParseURL(container.URL)
	require.NoError(t, err)
	rdb := redis.NewClient(opt)
	defer func() {
		_ = rdb.Close()
	}()

	replicaA := NewRedisInvalidator(rdb, "test:invalidate")
	replicaB := NewRedisInvalidator(rdb, "test:invalidate")
	targetA := &atomicInvalidator{}
	targetB := &atomicInvalidator{}

	go func() { _ = replicaA.Listen(ctx, targetA) }()
	go func() { _ = replicaB.Listen(ctx, targetB) }()

	// Subscriptions are live once a publish reaches both listeners.
	require.Eventually(t, func() bool {
		n, err := rdb.PubSubNumSub(ctx, "test:invalidate").Result()
		return err == nil && n["test:invalidate"] == 2
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, replicaA.Publish(ctx))

	assert.Eventually(t, func() bool { return targetB.count.Load() == 1 }, 5*time.Second, 20*time.Millisecond)
	assert.Zero(t, targetA.count.Load(), "publisher already invalidated itself")
}
