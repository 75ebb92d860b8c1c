package ports

import (
	"context"

	"github.com/s2cr/repair-desk/internal/core/domain"
)

// RegistrationInput is the client self-registration form.
type RegistrationInput struct {
	FirstName       string `validate:"required" label:"first name"`
	LastName        string `validate:"required" label:"last name"`
	Email           string `validate:"required,email" label:"email"`
	Password        string `validate:"required,min=8" label:"password"`
	PasswordConfirm string `validate:"required" label:"password confirmation"`
	Mobile          string
	Address         string
	City            string
}

// AuthService authenticates principals and registers new clients.
type AuthService interface {
	Authenticate(ctx context.Context, email, password string, kind domain.Kind) (domain.Principal, error)
	Register(ctx context.Context, in RegistrationInput) (*domain.Client, error)
}

// SessionService issues, resolves and destroys session tokens.
type SessionService interface {
	Create(ctx context.Context, principalID int64, kind domain.Kind, email string) (string, error)
	// Read returns (nil, nil) for absent, expired or malformed tokens.
	Read(ctx context.Context, token string) (*domain.Session, error)
	Destroy(ctx context.Context, token string) error
}

// AccessGuard authorises a request carrying token for one of allowed kinds.
// An empty allowed list admits every kind. Refusals are *domain.Rejection.
type AccessGuard interface {
	Enforce(ctx context.Context, token string, allowed ...domain.Kind) (*domain.Identity, error)
}

// AccountAdmin backs the administrator console.
type AccountAdmin interface {
	List(ctx context.Context, kind domain.Kind) ([]domain.Principal, error)
	SetActive(ctx context.Context, kind domain.Kind, id int64, active bool) error
}
