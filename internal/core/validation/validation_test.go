package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type form struct {
	Name     string `validate:"required" label:"full name"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
	Role     string `validate:"omitempty,oneof=a b"`
}

func TestProblems_Valid(t *testing.T) {
	v := New()
	assert.Nil(t, v.Problems(form{Name: "x", Email: "a@x.com", Password: "longpass1"}))
}

func TestProblems_Messages(t *testing.T) {
	v := New()
	got := v.Problems(form{Email: "not-an-email", Password: "short", Role: "c"})
	assert.ElementsMatch(t, []string{
		"full name is required",
		"email must be a valid email",
		"password must be at least 8 characters",
		"role must be one of: a b",
	}, got)
}

func TestPasswordLengthCountsCharacters(t *testing.T) {
	v := New()
	// eight runes, more than eight bytes
	assert.Nil(t, v.Problems(form{Name: "x", Email: "a@x.com", Password: "éééééééé"}))
}

func TestStruct_JoinsMessages(t *testing.T) {
	v := New()
	err := v.Struct(form{Email: "a@x.com", Password: "longpass1"})
	assert.EqualError(t, err, "full name is required")
}

func TestEmail(t *testing.T) {
	v := New()
	assert.True(t, v.Email("a@x.com"))
	assert.False(t, v.Email("a@"))
	assert.False(t, v.Email(""))
}
