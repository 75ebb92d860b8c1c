package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/s2cr/repair-desk/internal/pkg/metrics"
	"github.com/s2cr/repair-desk/internal/core/domain"
	"github.com/s2cr/repair-desk/internal/core/ports"
	"github.com/s2cr/repair-desk/internal/core/validation"
)

// AuthService authenticates principals and registers clients.
type AuthService struct {
	creds    *CredentialService
	store    ports.CredentialStore
	throttle *LoginThrottle
	validate *validation.Validator
	logger   zerolog.Logger
	now      func() time.Time
}

// NewAuthService builds an AuthService. throttle may be nil.
func NewAuthService(creds *CredentialService, store ports.CredentialStore, throttle *LoginThrottle, logger zerolog.Logger) *AuthService {
	return &AuthService{
		creds:    creds,
		store:    store,
		throttle: throttle,
		validate: validation.New(),
		logger:   logger,
		now:      time.Now,
	}
}

// Authenticate returns the principal of kind identified by email iff it exists,
// is active and rawPassword matches. Every other outcome is
// domain.ErrAuthFailure, so callers cannot tell which part was wrong.
func (s *AuthService) Authenticate(ctx context.Context, email, rawPassword string, kind domain.Kind) (domain.Principal, error) {
	if !kind.Valid() {
		metrics.AuthAttemptsTotal.WithLabelValues("unknown", "unknown_kind").Inc()
		return nil, domain.ErrAuthFailure
	}
	email = NormalizeEmail(email)

	if !s.throttle.Allow(kind.String() + ":" + email) {
		metrics.AuthAttemptsTotal.WithLabelValues(kind.String(), "throttled").Inc()
		s.logger.Warn().Str("kind", kind.String()).Msg("login throttled")
		return nil, domain.ErrTooManyAttempts
	}

	p, err := s.creds.FindByEmail(ctx, kind, email)
	if err != nil {
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			metrics.AuthAttemptsTotal.WithLabelValues(kind.String(), "unknown_email").Inc()
			return nil, domain.ErrAuthFailure
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if !p.Base().IsActive {
		metrics.AuthAttemptsTotal.WithLabelValues(kind.String(), "inactive").Inc()
		return nil, domain.ErrAuthFailure
	}
	if !s.creds.VerifyPassword(p, rawPassword) {
		metrics.AuthAttemptsTotal.WithLabelValues(kind.String(), "bad_password").Inc()
		return nil, domain.ErrAuthFailure
	}

	at := s.now().UTC()
	if err := s.store.UpdateLastLogin(ctx, kind, p.Base().ID, at); err != nil {
		s.logger.Warn().Err(err).
			Str("kind", kind.String()).
			Int64("principal_id", p.Base().ID).
			Msg("failed to record last login")
	} else {
		p.Base().LastLogin = &at
	}

	metrics.AuthAttemptsTotal.WithLabelValues(kind.String(), "success").Inc()
	s.logger.Info().Str("kind", kind.String()).Int64("principal_id", p.Base().ID).Msg("login succeeded")
	return p, nil
}

// Register creates a client attached to the default administrator. All input
// problems, including a taken email, are reported together in one
// *domain.ValidationError. A missing administrator is
// domain.ErrSystemConfiguration.
func (s *AuthService) Register(ctx context.Context, in ports.RegistrationInput) (*domain.Client, error) {
	in.Email = NormalizeEmail(in.Email)

	problems := s.validate.Problems(in)
	if in.Password != in.PasswordConfirm {
		problems = append(problems, "passwords do not match")
	}
	if in.Email != "" {
		_, err := s.store.FindByEmail(ctx, domain.KindClient, in.Email)
		switch {
		case err == nil:
			problems = append(problems, "this email address is already in use")
		case !errors.Is(err, domain.ErrPrincipalNotFound):
			return nil, fmt.Errorf("register: %w", err)
		}
	}
	if len(problems) > 0 {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.NewValidationError(problems...)
	}

	admin, err := s.store.FirstAdministrator(ctx)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("system_error").Inc()
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			s.logger.Error().Msg("registration impossible: no administrator exists")
			return nil, fmt.Errorf("register: no default administrator: %w", domain.ErrSystemConfiguration)
		}
		return nil, fmt.Errorf("register: load default administrator: %w", err)
	}

	p, err := s.creds.CreatePrincipal(ctx, domain.KindClient, in.Email, in.Password, domain.PrincipalFields{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Mobile:    in.Mobile,
		Address:   in.Address,
		City:      in.City,
		AdminID:   admin.ID,
	})
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		}
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	return p.(*domain.Client), nil
}
