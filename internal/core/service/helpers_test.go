package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/s2cr/repair-desk/internal/core/domain"
	"github.com/s2cr/repair-desk/internal/infrastructure/db/memory"
)

// flakyStore wraps the in-memory store and fails selected writes.
type flakyStore struct {
	*memory.CredentialStore
	lastLoginErr error
}

func (s *flakyStore) UpdateLastLogin(ctx context.Context, kind domain.Kind, id int64, at time.Time) error {
	if s.lastLoginErr != nil {
		return s.lastLoginErr
	}
	return s.CredentialStore.UpdateLastLogin(ctx, kind, id, at)
}

type fixture struct {
	store    *flakyStore
	sessions *memory.SessionStore
	creds    *CredentialService
	auth     *AuthService
	session  *SessionService
	guard    *Guard
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := zerolog.Nop()
	store := &flakyStore{CredentialStore: memory.NewCredentialStore()}
	sessions := memory.NewSessionStore()
	creds := NewCredentialService(store, bcrypt.MinCost, log)
	sessionSvc := NewSessionService(sessions, time.Hour, log)
	return &fixture{
		store:    store,
		sessions: sessions,
		creds:    creds,
		auth:     NewAuthService(creds, store, nil, log),
		session:  sessionSvc,
		guard:    NewGuard(sessionSvc, store, log),
	}
}

func (f *fixture) mustCreate(t *testing.T, kind domain.Kind, email, password string) domain.Principal {
	t.Helper()
	p, err := f.creds.CreatePrincipal(context.Background(), kind, email, password, domain.PrincipalFields{
		FirstName: "Test",
		LastName:  "User",
		AdminID:   1,
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) mustLogin(t *testing.T, p domain.Principal) string {
	t.Helper()
	token, err := f.session.Create(context.Background(), p.Base().ID, p.Kind(), p.Base().Email)
	require.NoError(t, err)
	return token
}

var errBoom = errors.New("boom")
