package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s2cr/repair-desk/internal/core/domain"
	"github.com/s2cr/repair-desk/internal/core/ports"
	"github.com/s2cr/repair-desk/internal/infrastructure/db/memory"
)

func TestSessionService_CreateReadDestroy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	token, err := f.session.Create(ctx, 42, domain.KindTechnician, "t@x.com")
	require.NoError(t, err)
	assert.Len(t, token, 64)

	sess, err := f.session.Read(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, domain.Session{PrincipalID: 42, Kind: domain.KindTechnician, Email: "t@x.com"}, *sess)

	require.NoError(t, f.session.Destroy(ctx, token))
	sess, err = f.session.Read(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, sess)

	require.NoError(t, f.session.Destroy(ctx, token), "destroy is idempotent")
}

func TestSessionService_TokensAreUniqueAndNotStoredRaw(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.session.Create(ctx, 1, domain.KindClient, "a@x.com")
	require.NoError(t, err)
	b, err := f.session.Create(ctx, 1, domain.KindClient, "a@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	raw, err := f.sessions.Load(ctx, a)
	require.NoError(t, err)
	assert.Nil(t, raw, "store must be keyed by token hash")
}

func TestSessionService_ReadMalformedIsEmpty(t *testing.T) {
	f := newFixture(t)
	for _, token := range []string{"", "abc", "zz" + string(make([]byte, 62))} {
		sess, err := f.session.Read(context.Background(), token)
		assert.NoError(t, err)
		assert.Nil(t, sess)
		assert.NoError(t, f.session.Destroy(context.Background(), token))
	}
}

func TestSessionService_UnknownKind(t *testing.T) {
	f := newFixture(t)
	_, err := f.session.Create(context.Background(), 1, domain.Kind("root"), "r@x.com")
	assert.ErrorIs(t, err, domain.ErrUnknownKind)
}

type clockedStore struct {
	ports.SessionStore
	lastTTL time.Duration
}

func (s *clockedStore) Save(ctx context.Context, key string, sess domain.Session, ttl time.Duration) error {
	s.lastTTL = ttl
	return s.SessionStore.Save(ctx, key, sess, ttl)
}

func TestSessionService_DefaultTTL(t *testing.T) {
	store := &clockedStore{SessionStore: memory.NewSessionStore()}
	svc := NewSessionService(store, 0, zerolog.Nop())

	_, err := svc.Create(context.Background(), 1, domain.KindClient, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, DefaultSessionTTL, store.lastTTL)
	assert.Equal(t, DefaultSessionTTL, svc.TTL())
}
