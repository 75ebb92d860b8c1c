package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/s2cr/repair-desk/internal/core/domain"
	"github.com/s2cr/repair-desk/internal/core/ports"
	"github.com/s2cr/repair-desk/internal/pkg/metrics"
)

const (
	msgNotLoggedIn    = "please log in"
	msgSessionExpired = "session expired, please log in again"
)

// Guard re-validates a session against the credential store on every call.
// It never trusts the session's cached copy of the principal.
type Guard struct {
	sessions ports.SessionService
	creds    ports.CredentialStore
	logger   zerolog.Logger
}

func NewGuard(sessions ports.SessionService, creds ports.CredentialStore, logger zerolog.Logger) *Guard {
	return &Guard{sessions: sessions, creds: creds, logger: logger}
}

// Enforce authorises token for one of allowed (any kind when empty). Policy
// refusals are returned as *domain.Rejection; other errors are infrastructure
// failures.
func (g *Guard) Enforce(ctx context.Context, token string, allowed ...domain.Kind) (*domain.Identity, error) {
	sess, err := g.sessions.Read(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("enforce: %w", err)
	}
	if sess == nil {
		return nil, g.reject(domain.ReasonNotLoggedIn, msgNotLoggedIn)
	}

	if len(allowed) > 0 && !slices.Contains(allowed, sess.Kind) {
		return nil, g.reject(domain.ReasonRoleForbidden, forbiddenMessage(allowed))
	}

	p, err := g.activePrincipal(ctx, sess)
	if err != nil {
		if errors.Is(err, domain.ErrPrincipalNotFound) || errors.Is(err, domain.ErrUnknownKind) {
			g.logger.Info().
				Str("kind", sess.Kind.String()).
				Int64("principal_id", sess.PrincipalID).
				Msg("stale session destroyed")
			if derr := g.sessions.Destroy(ctx, token); derr != nil {
				g.logger.Error().Err(derr).Msg("failed to destroy stale session")
			}
			return nil, g.reject(domain.ReasonSessionExpired, msgSessionExpired)
		}
		return nil, fmt.Errorf("enforce: %w", err)
	}

	metrics.GuardDecisionsTotal.WithLabelValues("authorized").Inc()
	return &domain.Identity{Principal: p, Kind: sess.Kind, Token: token}, nil
}

// activePrincipal fetches the session's principal, treating an inactive record
// as missing.
func (g *Guard) activePrincipal(ctx context.Context, sess *domain.Session) (domain.Principal, error) {
	if !sess.Kind.Valid() {
		return nil, domain.ErrUnknownKind
	}
	p, err := g.creds.FindByID(ctx, sess.Kind, sess.PrincipalID)
	if err != nil {
		return nil, err
	}
	if !p.Base().IsActive {
		return nil, domain.ErrPrincipalNotFound
	}
	return p, nil
}

func (g *Guard) reject(reason domain.RejectReason, msg string) error {
	metrics.GuardDecisionsTotal.WithLabelValues(string(reason)).Inc()
	return &domain.Rejection{Reason: reason, Message: msg}
}

func forbiddenMessage(allowed []domain.Kind) string {
	names := make([]string, len(allowed))
	for i, k := range allowed {
		names[i] = k.String()
	}
	return "access denied, reserved for roles " + strings.Join(names, ", ")
}
