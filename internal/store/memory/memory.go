// Package memory implements an in-memory repository for tests and single
// binary setups without a database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/ssobridge/internal/store/core"
)

// Store is the in-memory repository. Safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	providers map[string]*core.ProviderRecord // by ID
	attempts  []*core.LoginAttempt
}

// New creates an empty store.
func New() *Store {
	return &Store{providers: make(map[string]*core.ProviderRecord)}
}

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func cloneProvider(rec *core.ProviderRecord) *core.ProviderRecord {
	cp := *rec
	if rec.ExtraConfig != nil {
		cp.ExtraConfig = make(map[string]string, len(rec.ExtraConfig))
		for k, v := range rec.ExtraConfig {
			cp.ExtraConfig[k] = v
		}
	}
	if rec.WorkspaceID != nil {
		id := *rec.WorkspaceID
		cp.WorkspaceID = &id
	}
	return &cp
}

func sameScope(a, b *int64) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

func (s *Store) GetProviderRecord(ctx context.Context, slug string, workspaceID *int64, activeOnly bool) (*core.ProviderRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.providers {
		if rec.Slug != slug || !sameScope(rec.WorkspaceID, workspaceID) {
			continue
		}
		if activeOnly && !rec.Active {
			continue
		}
		return cloneProvider(rec), nil
	}
	return nil, core.ErrNotFound
}

func (s *Store) CreateProviderRecord(ctx context.Context, rec *core.ProviderRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.providers {
		if existing.Slug == rec.Slug && sameScope(existing.WorkspaceID, rec.WorkspaceID) {
			return core.ErrConflict
		}
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	rec.CreatedAt, rec.UpdatedAt = now, now
	s.providers[rec.ID] = cloneProvider(rec)
	return nil
}

func (s *Store) UpdateProviderRecord(ctx context.Context, rec *core.ProviderRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.providers[rec.ID]
	if !ok {
		return core.ErrNotFound
	}
	rec.CreatedAt = existing.CreatedAt
	rec.UpdatedAt = time.Now().UTC()
	s.providers[rec.ID] = cloneProvider(rec)
	return nil
}

func (s *Store) DeleteProviderRecord(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.providers[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.providers, id)
	return nil
}

func (s *Store) ListProviderRecords(ctx context.Context, workspaceID *int64) ([]*core.ProviderRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*core.ProviderRecord
	for _, rec := range s.providers {
		if sameScope(rec.WorkspaceID, workspaceID) {
			out = append(out, cloneProvider(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (s *Store) AppendLoginAttempt(ctx context.Context, att *core.LoginAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if att.ID == "" {
		att.ID = uuid.NewString()
	}
	if att.CreatedAt.IsZero() {
		att.CreatedAt = time.Now().UTC()
	}
	cp := *att
	s.attempts = append(s.attempts, &cp)
	return nil
}

func (s *Store) ListLoginAttempts(ctx context.Context, slug string, limit int) ([]*core.LoginAttempt, error) {
	if limit <= 0 {
		limit = 100
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*core.LoginAttempt
	for i := len(s.attempts) - 1; i >= 0 && len(out) < limit; i-- {
		att := s.attempts[i]
		if slug != "" && att.ProviderSlug != slug {
			continue
		}
		cp := *att
		out = append(out, &cp)
	}
	return out, nil
}
