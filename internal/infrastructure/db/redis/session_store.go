package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/s2cr/repair-desk/internal/core/domain"
)

const sessionPrefix = "session:"

// SessionStore keeps one hash per session and expires it with the session TTL.
// Key format: session:<sha256(token)>
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) Save(ctx context.Context, key string, sess domain.Session, ttl time.Duration) error {
	k := s.key(key)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, k,
			"principal_id", strconv.FormatInt(sess.PrincipalID, 10),
			"kind", string(sess.Kind),
			"email", sess.Email,
		)
		pipe.Expire(ctx, k, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	return nil
}

// Load returns (nil, nil) for missing or expired keys and for records that do
// not decode.
func (s *SessionStore) Load(ctx context.Context, key string) (*domain.Session, error) {
	fields, err := s.client.HGetAll(ctx, s.key(key)).Result()
	if err != nil {
		return nil, fmt.Errorf("session load: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	id, err := strconv.ParseInt(fields["principal_id"], 10, 64)
	if err != nil {
		return nil, nil
	}
	return &domain.Session{
		PrincipalID: id,
		Kind:        domain.Kind(fields["kind"]),
		Email:       fields["email"],
	}, nil
}

func (s *SessionStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

func (s *SessionStore) key(k string) string {
	return sessionPrefix + k
}
