package ports

import (
	"context"
	"time"

	"github.com/s2cr/repair-desk/internal/core/domain"
)

// CredentialStore persists principal records. Each kind is an independent
// namespace: ids and emails are unique per kind only.
type CredentialStore interface {
	// Create assigns the next id for the principal's kind and stores it.
	// Returns domain.ErrDuplicateEmail when the email is taken within that kind.
	Create(ctx context.Context, p domain.Principal) (domain.Principal, error)
	FindByEmail(ctx context.Context, kind domain.Kind, email string) (domain.Principal, error)
	FindByID(ctx context.Context, kind domain.Kind, id int64) (domain.Principal, error)
	// FirstAdministrator returns the administrator with the lowest id.
	FirstAdministrator(ctx context.Context) (*domain.Administrator, error)
	List(ctx context.Context, kind domain.Kind) ([]domain.Principal, error)
	UpdateLastLogin(ctx context.Context, kind domain.Kind, id int64, at time.Time) error
	UpdatePassword(ctx context.Context, kind domain.Kind, id int64, hash string) error
	SetActive(ctx context.Context, kind domain.Kind, id int64, active bool) error
}
