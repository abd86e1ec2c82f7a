package revoke

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func newTestStore(t *testing.T) *RedisStore {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("GO_TEST_INTEGRATION is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = redisC.Terminate(context.Background()) })

	host, err := redisC.Host(ctx)
	require.NoError(t, err)
	port, err := redisC.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	client, err := Connect(ctx, fmt.Sprintf("redis://%s:%s/0", host, port.Port()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "portfolio:revoked:abc", key("abc"))
}

func TestConnect_BadURL(t *testing.T) {
	_, err := Connect(context.Background(), "://nope")
	require.Error(t, err)
}

func TestRedisStore_RevokeAndCheck(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	jti := uuid.NewString()

	revoked, err := s.IsRevoked(ctx, jti)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, s.Revoke(ctx, jti, time.Now().Add(time.Minute)))

	revoked, err = s.IsRevoked(ctx, jti)
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl, err := s.client.TTL(ctx, key(jti)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 50*time.Second)

	// Already expired tokens are not stored.
	old := uuid.NewString()
	require.NoError(t, s.Revoke(ctx, old, time.Now().Add(-time.Minute)))
	revoked, err = s.IsRevoked(ctx, old)
	require.NoError(t, err)
	assert.False(t, revoked)
}
