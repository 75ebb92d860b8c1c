package redis

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s2cr/repair-desk/internal/core/domain"
)

func newTestStore(t *testing.T) *SessionStore {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	client, err := Connect(context.Background(), Config{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionStore(client)
}

func TestSessionStore_Lifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	key := fmt.Sprintf("test-%d", time.Now().UnixNano())
	sess := domain.Session{PrincipalID: 12, Kind: domain.KindAdministrator, Email: "root@x.com"}

	require.NoError(t, store.Save(ctx, key, sess, time.Minute))

	got, err := store.Load(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sess, *got)

	ttl, err := store.client.TTL(ctx, store.key(key)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, store.Delete(ctx, key))
	require.NoError(t, store.Delete(ctx, key))
	got, err = store.Load(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionStore_CorruptRecordIsEmpty(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	key := fmt.Sprintf("corrupt-%d", time.Now().UnixNano())
	require.NoError(t, store.client.HSet(ctx, store.key(key), "principal_id", "nan").Err())
	t.Cleanup(func() { _ = store.Delete(ctx, key) })

	got, err := store.Load(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got)
}
