// Package memory provides process-local stores used by tests and by the
// STORAGE=memory development mode. Contents are lost on restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/s2cr/repair-desk/internal/core/domain"
)

type namespace struct {
	nextID  int64
	byID    map[int64]domain.Principal
	byEmail map[string]int64
}

// CredentialStore implements ports.CredentialStore with one map per kind.
type CredentialStore struct {
	mu    sync.RWMutex
	kinds map[domain.Kind]*namespace
}

func NewCredentialStore() *CredentialStore {
	s := &CredentialStore{kinds: make(map[domain.Kind]*namespace, len(domain.Kinds))}
	for _, k := range domain.Kinds {
		s.kinds[k] = &namespace{byID: map[int64]domain.Principal{}, byEmail: map[string]int64{}}
	}
	return s
}

func (s *CredentialStore) Create(_ context.Context, p domain.Principal) (domain.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.kinds[p.Kind()]
	if !ok {
		return nil, domain.ErrUnknownKind
	}
	email := p.Base().Email
	if _, taken := ns.byEmail[email]; taken {
		return nil, domain.ErrDuplicateEmail
	}

	ns.nextID++
	stored := domain.Clone(p)
	stored.Base().ID = ns.nextID
	ns.byID[ns.nextID] = stored
	ns.byEmail[email] = ns.nextID
	return domain.Clone(stored), nil
}

func (s *CredentialStore) FindByEmail(_ context.Context, kind domain.Kind, email string) (domain.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ns, ok := s.kinds[kind]
	if !ok {
		return nil, domain.ErrUnknownKind
	}
	id, ok := ns.byEmail[email]
	if !ok {
		return nil, domain.ErrPrincipalNotFound
	}
	return domain.Clone(ns.byID[id]), nil
}

func (s *CredentialStore) FindByID(_ context.Context, kind domain.Kind, id int64) (domain.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.lookup(kind, id)
	if err != nil {
		return nil, err
	}
	return domain.Clone(p), nil
}

func (s *CredentialStore) FirstAdministrator(ctx context.Context) (*domain.Administrator, error) {
	all, err := s.List(ctx, domain.KindAdministrator)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, domain.ErrPrincipalNotFound
	}
	return all[0].(*domain.Administrator), nil
}

// List returns the principals of kind ordered by id.
func (s *CredentialStore) List(_ context.Context, kind domain.Kind) ([]domain.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ns, ok := s.kinds[kind]
	if !ok {
		return nil, domain.ErrUnknownKind
	}
	out := make([]domain.Principal, 0, len(ns.byID))
	for _, p := range ns.byID {
		out = append(out, domain.Clone(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Base().ID < out[j].Base().ID })
	return out, nil
}

func (s *CredentialStore) UpdateLastLogin(_ context.Context, kind domain.Kind, id int64, at time.Time) error {
	return s.update(kind, id, func(a *domain.Account) {
		t := at
		a.LastLogin = &t
	})
}

func (s *CredentialStore) UpdatePassword(_ context.Context, kind domain.Kind, id int64, hash string) error {
	return s.update(kind, id, func(a *domain.Account) { a.PasswordHash = hash })
}

func (s *CredentialStore) SetActive(_ context.Context, kind domain.Kind, id int64, active bool) error {
	return s.update(kind, id, func(a *domain.Account) { a.IsActive = active })
}

// Delete removes a principal and frees its email. Unknown ids are ignored.
func (s *CredentialStore) Delete(kind domain.Kind, id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.kinds[kind]
	if !ok {
		return
	}
	if p, ok := ns.byID[id]; ok {
		delete(ns.byEmail, p.Base().Email)
		delete(ns.byID, id)
	}
}

func (s *CredentialStore) update(kind domain.Kind, id int64, fn func(*domain.Account)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.lookup(kind, id)
	if err != nil {
		return err
	}
	fn(p.Base())
	return nil
}

// lookup must be called with mu held.
func (s *CredentialStore) lookup(kind domain.Kind, id int64) (domain.Principal, error) {
	ns, ok := s.kinds[kind]
	if !ok {
		return nil, domain.ErrUnknownKind
	}
	p, ok := ns.byID[id]
	if !ok {
		return nil, domain.ErrPrincipalNotFound
	}
	return p, nil
}
