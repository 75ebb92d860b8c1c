package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	got, err := ParseKind(" technicien ")
	require.NoError(t, err)
	assert.Equal(t, KindTechnician, got)

	for _, bad := range []string{"", "admin", "Client", "superuser"} {
		_, err := ParseKind(bad)
		assert.ErrorIs(t, err, ErrUnknownKind, "input %q", bad)
	}
}

func TestNewPrincipal(t *testing.T) {
	fields := PrincipalFields{FirstName: "Awa", LastName: "Diop", City: "Dakar", Specialty: "plumbing", AdminID: 7}

	p, err := NewPrincipal(KindTechnician, fields)
	require.NoError(t, err)
	tech, ok := p.(*Technician)
	require.True(t, ok)
	assert.Equal(t, KindTechnician, tech.Kind())
	assert.True(t, tech.IsActive)
	assert.Equal(t, int64(7), tech.AdminID)
	assert.Equal(t, "plumbing", tech.Specialty)
	assert.Equal(t, "Awa Diop", tech.FullName())

	p, err = NewPrincipal(KindAdministrator, fields)
	require.NoError(t, err)
	assert.IsType(t, &Administrator{}, p)

	_, err = NewPrincipal(Kind("guest"), fields)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestClone_DoesNotShareState(t *testing.T) {
	p, err := NewPrincipal(KindClient, PrincipalFields{AdminID: 1})
	require.NoError(t, err)
	p.Base().Email = "a@x.com"

	c := Clone(p)
	c.Base().Email = "b@x.com"
	c.Base().IsActive = false

	assert.Equal(t, "a@x.com", p.Base().Email)
	assert.True(t, p.Base().IsActive)
}

func TestFullName_FallsBackToEmail(t *testing.T) {
	a := &Administrator{Account: Account{Email: "root@s2cr.io"}}
	assert.Equal(t, "root@s2cr.io", a.FullName())
}

func TestIsRejection(t *testing.T) {
	var err error = &Rejection{Reason: ReasonRoleForbidden, Message: "nope"}
	assert.True(t, IsRejection(err, ReasonRoleForbidden))
	assert.False(t, IsRejection(err, ReasonSessionExpired))
	assert.False(t, IsRejection(ErrAuthFailure, ReasonRoleForbidden))
}
