package ports

import (
	"context"
	"time"

	"github.com/s2cr/repair-desk/internal/core/domain"
)

// SessionStore holds session records keyed by an opaque key derived from the
// session token.
type SessionStore interface {
	Save(ctx context.Context, key string, s domain.Session, ttl time.Duration) error
	// Load returns (nil, nil) when no live record exists for key.
	Load(ctx context.Context, key string) (*domain.Session, error)
	// Delete is idempotent.
	Delete(ctx context.Context, key string) error
}
