// Package memory holds project records in process memory. Records vanish on
// restart; this backend exists for tests and throwaway deployments and is the
// semantic reference for the durable backends.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/TheProSWPPP/swppp-interface/internal/projects/domain"
)

type Store struct {
	mu       sync.RWMutex
	active   []domain.Project
	archived []domain.Project
}

func New() *Store {
	return &Store{}
}

// Hydrate replaces the store contents. Used by the file backend when loading
// its snapshots and by seeding.
func (s *Store) Hydrate(active, archived []domain.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = cloneAll(active)
	s.archived = cloneAll(archived)
}

func (s *Store) ListActive(ctx context.Context) ([]domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := cloneAll(s.active)
	domain.SortActive(out)
	return out, nil
}

func (s *Store) ListArchived(ctx context.Context) ([]domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := cloneAll(s.archived)
	domain.SortArchived(out)
	return out, nil
}

func (s *Store) Get(ctx context.Context, id string) (*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := index(s.active, id); i >= 0 {
		p := s.active[i].Clone()
		return &p, nil
	}
	if i := index(s.archived, id); i >= 0 {
		p := s.archived[i].Clone()
		return &p, nil
	}
	return nil, domain.ErrNotFound
}

func (s *Store) Insert(ctx context.Context, p domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index(s.active, p.ID) >= 0 || index(s.archived, p.ID) >= 0 {
		return domain.ErrConflict
	}
	s.active = append(s.active, p.Clone())
	return nil
}

func (s *Store) Update(ctx context.Context, id string, fields map[string]any) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := index(s.active, id)
	if i < 0 {
		return nil, domain.ErrNotFound
	}

	// Merge into a copy first so a failed merge never leaves a torn record.
	merged := s.active[i].Clone()
	if err := merged.Merge(fields); err != nil {
		return nil, err
	}
	s.active[i] = merged

	out := merged.Clone()
	return &out, nil
}

func (s *Store) Transition(ctx context.Context, id string, fn func(p domain.Project) (string, error)) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := index(s.active, id)
	if i < 0 {
		return nil, domain.ErrNotFound
	}

	next, err := fn(s.active[i].Clone())
	if err != nil {
		return nil, err
	}
	s.active[i].Status = next

	out := s.active[i].Clone()
	return &out, nil
}

func (s *Store) Archive(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := index(s.active, id)
	if i < 0 {
		return domain.ErrNotFound
	}

	p := s.active[i].Clone()
	now := time.Now().UTC()
	p.DeletedAt = &now

	s.active = append(s.active[:i], s.active[i+1:]...)
	s.archived = append(s.archived, p)
	return nil
}

func (s *Store) Restore(ctx context.Context, id string) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := index(s.archived, id)
	if i < 0 {
		return nil, domain.ErrNotFound
	}

	p := s.archived[i].Clone()
	p.DeletedAt = nil

	s.archived = append(s.archived[:i], s.archived[i+1:]...)
	s.active = append(s.active, p)

	out := p.Clone()
	return &out, nil
}

func (s *Store) PurgeExpired(ctx context.Context, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-window)
	kept := s.archived[:0]
	purged := 0
	for _, p := range s.archived {
		if p.DeletedAt != nil && p.DeletedAt.Before(cutoff) {
			purged++
			continue
		}
		kept = append(kept, p)
	}
	s.archived = kept
	return purged, nil
}

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func index(list []domain.Project, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneAll(list []domain.Project) []domain.Project {
	out := make([]domain.Project, 0, len(list))
	for _, p := range list {
		out = append(out, p.Clone())
	}
	return out
}
