package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/s2cr/repair-desk/internal/core/domain"
	"github.com/s2cr/repair-desk/internal/core/ports"
	"github.com/s2cr/repair-desk/internal/core/validation"
)

// CredentialService owns password hashing and principal creation on top of a
// ports.CredentialStore.
type CredentialService struct {
	store    ports.CredentialStore
	validate *validation.Validator
	cost     int
	logger   zerolog.Logger
	now      func() time.Time
}

// NewCredentialService hashes with the given bcrypt cost. Out-of-range costs
// fall back to bcrypt.DefaultCost.
func NewCredentialService(store ports.CredentialStore, cost int, logger zerolog.Logger) *CredentialService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &CredentialService{
		store:    store,
		validate: validation.New(),
		cost:     cost,
		logger:   logger,
		now:      time.Now,
	}
}

// NormalizeEmail trims and lower-cases an address. Stored emails and lookups
// both go through it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreatePrincipal validates email, hashes rawPassword and stores a new active
// principal of kind.
func (s *CredentialService) CreatePrincipal(ctx context.Context, kind domain.Kind, email, rawPassword string, fields domain.PrincipalFields) (domain.Principal, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, domain.NewValidationError("email is required")
	}
	if !s.validate.Email(email) {
		return nil, domain.NewValidationError("email must be a valid email")
	}

	p, err := domain.NewPrincipal(kind, fields)
	if err != nil {
		return nil, err
	}
	p.Base().Email = email
	p.Base().CreatedAt = s.now().UTC()
	if err := s.SetPassword(p, rawPassword); err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, p)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.NewValidationError("this email address is already in use")
		}
		return nil, fmt.Errorf("create %s: %w", kind, err)
	}

	s.logger.Info().
		Str("kind", kind.String()).
		Int64("principal_id", created.Base().ID).
		Msg("principal created")
	return created, nil
}

// SetPassword stores a salted bcrypt hash of rawPassword on p. It does not
// persist p.
func (s *CredentialService) SetPassword(p domain.Principal, rawPassword string) error {
	if rawPassword == "" {
		return domain.NewValidationError("password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(rawPassword), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return domain.NewValidationError("password is too long")
		}
		return fmt.Errorf("hash password: %w", err)
	}
	p.Base().PasswordHash = string(hash)
	return nil
}

// VerifyPassword reports whether rawPassword matches p's stored hash.
func (s *CredentialService) VerifyPassword(p domain.Principal, rawPassword string) bool {
	hash := p.Base().PasswordHash
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(rawPassword)) == nil
}

// ChangePassword hashes and persists a new password for the principal
// identified by (kind, email).
func (s *CredentialService) ChangePassword(ctx context.Context, kind domain.Kind, email, rawPassword string) error {
	p, err := s.FindByEmail(ctx, kind, email)
	if err != nil {
		return err
	}
	if err := s.SetPassword(p, rawPassword); err != nil {
		return err
	}
	if err := s.store.UpdatePassword(ctx, kind, p.Base().ID, p.Base().PasswordHash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	s.logger.Info().Str("kind", kind.String()).Int64("principal_id", p.Base().ID).Msg("password changed")
	return nil
}

func (s *CredentialService) FindByEmail(ctx context.Context, kind domain.Kind, email string) (domain.Principal, error) {
	if !kind.Valid() {
		return nil, domain.ErrUnknownKind
	}
	return s.store.FindByEmail(ctx, kind, NormalizeEmail(email))
}

func (s *CredentialService) FindByID(ctx context.Context, kind domain.Kind, id int64) (domain.Principal, error) {
	if !kind.Valid() {
		return nil, domain.ErrUnknownKind
	}
	return s.store.FindByID(ctx, kind, id)
}

// List returns every principal of kind.
func (s *CredentialService) List(ctx context.Context, kind domain.Kind) ([]domain.Principal, error) {
	if !kind.Valid() {
		return nil, domain.ErrUnknownKind
	}
	return s.store.List(ctx, kind)
}

// SetActive activates or deactivates a principal. A deactivated principal's
// live sessions are rejected on their next guarded request.
func (s *CredentialService) SetActive(ctx context.Context, kind domain.Kind, id int64, active bool) error {
	if !kind.Valid() {
		return domain.ErrUnknownKind
	}
	if err := s.store.SetActive(ctx, kind, id, active); err != nil {
		return err
	}
	s.logger.Info().
		Str("kind", kind.String()).
		Int64("principal_id", id).
		Bool("active", active).
		Msg("principal activity changed")
	return nil
}
