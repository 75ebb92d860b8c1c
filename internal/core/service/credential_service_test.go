package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/s2cr/repair-desk/internal/core/domain"
)

func TestCreatePrincipal_HashesPassword(t *testing.T) {
	f := newFixture(t)
	p := f.mustCreate(t, domain.KindTechnician, "  Tech@Example.COM ", "longpass1")

	assert.Equal(t, "tech@example.com", p.Base().Email)
	assert.NotEqual(t, "longpass1", p.Base().PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(p.Base().PasswordHash), []byte("longpass1")))
	assert.True(t, p.Base().IsActive)
	assert.False(t, p.Base().CreatedAt.IsZero())
}

func TestCreatePrincipal_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := map[string]string{
		"empty":     "",
		"malformed": "not-an-email",
	}
	for name, email := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.creds.CreatePrincipal(ctx, domain.KindClient, email, "longpass1", domain.PrincipalFields{})
			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
		})
	}

	_, err := f.creds.CreatePrincipal(ctx, domain.Kind("guest"), "a@x.com", "longpass1", domain.PrincipalFields{})
	assert.ErrorIs(t, err, domain.ErrUnknownKind)
}

func TestCreatePrincipal_DuplicateEmailWithinKind(t *testing.T) {
	f := newFixture(t)
	f.mustCreate(t, domain.KindClient, "a@x.com", "longpass1")

	_, err := f.creds.CreatePrincipal(context.Background(), domain.KindClient, "A@x.com", "otherpass", domain.PrincipalFields{})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Problems, "this email address is already in use")

	// Kinds are separate namespaces.
	f.mustCreate(t, domain.KindTechnician, "a@x.com", "longpass1")
}

func TestSetPassword_RejectsEmptyAndOverlong(t *testing.T) {
	f := newFixture(t)
	p := &domain.Client{}

	var ve *domain.ValidationError
	require.True(t, errors.As(f.creds.SetPassword(p, ""), &ve))
	require.True(t, errors.As(f.creds.SetPassword(p, strings.Repeat("x", 100)), &ve))
	assert.Equal(t, []string{"password is too long"}, ve.Problems)
}

func TestVerifyPassword(t *testing.T) {
	f := newFixture(t)
	p := f.mustCreate(t, domain.KindAdministrator, "root@x.com", "longpass1")

	assert.True(t, f.creds.VerifyPassword(p, "longpass1"))
	assert.False(t, f.creds.VerifyPassword(p, "wrongpass"))
	assert.False(t, f.creds.VerifyPassword(&domain.Client{}, ""))
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mustCreate(t, domain.KindClient, "a@x.com", "longpass1")

	require.NoError(t, f.creds.ChangePassword(ctx, domain.KindClient, "a@x.com", "newpass99"))
	p, err := f.creds.FindByEmail(ctx, domain.KindClient, "a@x.com")
	require.NoError(t, err)
	assert.True(t, f.creds.VerifyPassword(p, "newpass99"))
	assert.False(t, f.creds.VerifyPassword(p, "longpass1"))

	assert.ErrorIs(t, f.creds.ChangePassword(ctx, domain.KindClient, "ghost@x.com", "newpass99"), domain.ErrPrincipalNotFound)
}

func TestSetActive_UnknownKind(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.creds.SetActive(context.Background(), domain.Kind("x"), 1, false), domain.ErrUnknownKind)
}

func TestNewCredentialService_ClampsCost(t *testing.T) {
	f := newFixture(t)
	svc := NewCredentialService(f.store, 99, f.creds.logger)
	assert.Equal(t, bcrypt.DefaultCost, svc.cost)
}
