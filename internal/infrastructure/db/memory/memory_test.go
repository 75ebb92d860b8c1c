package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s2cr/repair-desk/internal/core/domain"
)

func newClient(t *testing.T, email string) domain.Principal {
	t.Helper()
	p, err := domain.NewPrincipal(domain.KindClient, domain.PrincipalFields{AdminID: 1})
	require.NoError(t, err)
	p.Base().Email = email
	return p
}

func TestCredentialStore_CreateAssignsSequentialIDsPerKind(t *testing.T) {
	ctx := context.Background()
	s := NewCredentialStore()

	a, err := s.Create(ctx, newClient(t, "a@x.com"))
	require.NoError(t, err)
	b, err := s.Create(ctx, newClient(t, "b@x.com"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.Base().ID)
	assert.Equal(t, int64(2), b.Base().ID)

	admin, err := s.Create(ctx, &domain.Administrator{Account: domain.Account{Email: "a@x.com"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), admin.Base().ID, "kinds are independent namespaces")
}

func TestCredentialStore_DuplicateEmailWithinKind(t *testing.T) {
	ctx := context.Background()
	s := NewCredentialStore()

	_, err := s.Create(ctx, newClient(t, "a@x.com"))
	require.NoError(t, err)
	_, err = s.Create(ctx, newClient(t, "a@x.com"))
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	tech := &domain.Technician{Account: domain.Account{Email: "a@x.com", IsActive: true}}
	_, err = s.Create(ctx, tech)
	assert.NoError(t, err, "same email under another kind is allowed")
}

func TestCredentialStore_FindAndUpdate(t *testing.T) {
	ctx := context.Background()
	s := NewCredentialStore()
	created, err := s.Create(ctx, newClient(t, "a@x.com"))
	require.NoError(t, err)
	id := created.Base().ID

	_, err = s.FindByEmail(ctx, domain.KindClient, "nobody@x.com")
	assert.ErrorIs(t, err, domain.ErrPrincipalNotFound)
	_, err = s.FindByID(ctx, domain.KindTechnician, id)
	assert.ErrorIs(t, err, domain.ErrPrincipalNotFound)
	_, err = s.FindByID(ctx, domain.Kind("ghost"), id)
	assert.ErrorIs(t, err, domain.ErrUnknownKind)

	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.UpdateLastLogin(ctx, domain.KindClient, id, at))
	require.NoError(t, s.UpdatePassword(ctx, domain.KindClient, id, "hash"))
	require.NoError(t, s.SetActive(ctx, domain.KindClient, id, false))

	got, err := s.FindByEmail(ctx, domain.KindClient, "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, got.Base().LastLogin)
	assert.True(t, at.Equal(*got.Base().LastLogin))
	assert.Equal(t, "hash", got.Base().PasswordHash)
	assert.False(t, got.Base().IsActive)

	assert.ErrorIs(t, s.SetActive(ctx, domain.KindClient, 99, true), domain.ErrPrincipalNotFound)
}

func TestCredentialStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewCredentialStore()
	created, err := s.Create(ctx, newClient(t, "a@x.com"))
	require.NoError(t, err)

	created.Base().IsActive = false
	got, err := s.FindByID(ctx, domain.KindClient, created.Base().ID)
	require.NoError(t, err)
	assert.True(t, got.Base().IsActive)
}

func TestCredentialStore_FirstAdministrator(t *testing.T) {
	ctx := context.Background()
	s := NewCredentialStore()

	_, err := s.FirstAdministrator(ctx)
	assert.ErrorIs(t, err, domain.ErrPrincipalNotFound)

	for _, email := range []string{"first@x.com", "second@x.com"} {
		_, err := s.Create(ctx, &domain.Administrator{Account: domain.Account{Email: email, IsActive: true}})
		require.NoError(t, err)
	}
	admin, err := s.FirstAdministrator(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first@x.com", admin.Email)
}

func TestCredentialStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := NewCredentialStore()
	created, err := s.Create(ctx, newClient(t, "a@x.com"))
	require.NoError(t, err)

	s.Delete(domain.KindClient, created.Base().ID)
	_, err = s.FindByEmail(ctx, domain.KindClient, "a@x.com")
	assert.ErrorIs(t, err, domain.ErrPrincipalNotFound)
	_, err = s.Create(ctx, newClient(t, "a@x.com"))
	assert.NoError(t, err)
}

func TestSessionStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore()
	sess := domain.Session{PrincipalID: 3, Kind: domain.KindTechnician, Email: "t@x.com"}

	require.NoError(t, s.Save(ctx, "k", sess, time.Hour))
	got, err := s.Load(ctx, "k")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sess, *got)

	require.NoError(t, s.Delete(ctx, "k"))
	require.NoError(t, s.Delete(ctx, "k"))
	got, err = s.Load(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionStore_Expiry(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Save(ctx, "k", domain.Session{PrincipalID: 1, Kind: domain.KindClient}, time.Minute))
	now = now.Add(time.Minute)

	got, err := s.Load(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 0, s.Len())
}

func TestSessionStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i%26))
			_ = s.Save(ctx, key, domain.Session{PrincipalID: int64(i), Kind: domain.KindClient}, time.Hour)
			_, _ = s.Load(ctx, key)
			_ = s.Delete(ctx, key)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 0, s.Len())
}
