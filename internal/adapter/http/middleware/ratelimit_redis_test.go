package middleware

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRedisStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}

	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		Started: true,
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
	})
	require.NoError(t, err)

	t.Cleanup(func() { container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)

	mapped, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	store, err := NewRedisStore(ctx, fmt.Sprintf("%s:%s", host, mapped.Port()))
	require.NoError(t, err)

	t.Cleanup(func() { store.Close() })

	key := "test:" + uuid.NewString()

	for i := 1; i <= 3; i++ {
		decision, err := store.Allow(ctx, key, 3, time.Minute)
		require.NoError(t, err)

		assert.True(t, decision.Allowed)
		assert.Equal(t, 3-i, decision.Remaining)
		assert.WithinDuration(t, time.Now().Add(time.Minute), decision.ResetAt, 2*time.Second)
	}

	decision, err := store.Allow(ctx, key, 3, time.Minute)
	require.NoError(t, err)

	assert.False(t, decision.Allowed)
	assert.Equal(t, 0, decision.Remaining)

	ttl, err := store.client.PTTL(ctx, store.prefix+key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisStore(ctx, "127.0.0.1:1")

	assert.ErrorContains(t, err, "connect redis")
}
