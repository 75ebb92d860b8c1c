package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/s2cr/repair-desk/internal/core/domain"
	"github.com/s2cr/repair-desk/internal/core/ports"
	"github.com/s2cr/repair-desk/internal/pkg/metrics"
)

const (
	// DefaultSessionTTL matches a two-week browser session.
	DefaultSessionTTL = 14 * 24 * time.Hour

	tokenBytes = 32
)

// SessionService issues opaque tokens and stores their session records under
// the token's SHA-256, so the store never holds a usable token.
type SessionService struct {
	store  ports.SessionStore
	ttl    time.Duration
	logger zerolog.Logger
}

func NewSessionService(store ports.SessionStore, ttl time.Duration, logger zerolog.Logger) *SessionService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionService{store: store, ttl: ttl, logger: logger}
}

// TTL is the lifetime given to new sessions.
func (s *SessionService) TTL() time.Duration { return s.ttl }

// Create stores a new session for the principal and returns its token.
func (s *SessionService) Create(ctx context.Context, principalID int64, kind domain.Kind, email string) (string, error) {
	if !kind.Valid() {
		return "", domain.ErrUnknownKind
	}
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	sess := domain.Session{PrincipalID: principalID, Kind: kind, Email: email}
	if err := s.store.Save(ctx, storeKey(token), sess, s.ttl); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	metrics.SessionsCreatedTotal.WithLabelValues(kind.String()).Inc()
	return token, nil
}

// Read resolves token. Absent, expired and malformed tokens yield (nil, nil).
func (s *SessionService) Read(ctx context.Context, token string) (*domain.Session, error) {
	if !wellFormed(token) {
		return nil, nil
	}
	sess, err := s.store.Load(ctx, storeKey(token))
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return sess, nil
}

// Destroy removes every record for token. Missing sessions are not an error.
func (s *SessionService) Destroy(ctx context.Context, token string) error {
	if !wellFormed(token) {
		return nil
	}
	if err := s.store.Delete(ctx, storeKey(token)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	metrics.SessionsDestroyedTotal.Inc()
	return nil
}

func generateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func wellFormed(token string) bool {
	if len(token) != tokenBytes*2 {
		return false
	}
	_, err := hex.DecodeString(token)
	return err == nil
}

func storeKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
