// Package file persists project records as two JSON documents, one for the
// active set and one for the archive, each rewritten in full on every
// mutation. A flock guards the data directory so a second process cannot
// interleave snapshot writes.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/TheProSWPPP/swppp-interface/internal/projects/domain"
	"github.com/TheProSWPPP/swppp-interface/internal/storage/memory"
)

const (
	activeFile   = "projects.json"
	archivedFile = "archive.json"
	lockFile     = ".swppp.lock"
)

type Store struct {
	mem          *memory.Store
	dir          string
	activePath   string
	archivedPath string
	lock         *flock.Flock

	// Serializes mutation-plus-persist. The memory core has its own lock,
	// but snapshots must hit the disk in mutation order or a stale snapshot
	// overwrites a newer one.
	mu sync.Mutex
}

// Open loads the snapshots under dir, creating the directory if needed.
// A snapshot that fails to parse is logged and treated as empty; availability
// at boot wins over strict validation.
func Open(dir string) (*Store, error) {
	if dir == "" {
		dir = "./data"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	fl := flock.New(filepath.Join(dir, lockFile))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock data directory: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("data directory %s is locked by another process", dir)
	}

	s := &Store{
		mem:          memory.New(),
		dir:          dir,
		activePath:   filepath.Join(dir, activeFile),
		archivedPath: filepath.Join(dir, archivedFile),
		lock:         fl,
	}

	active := readSnapshot(s.activePath)
	archived := readSnapshot(s.archivedPath)
	s.mem.Hydrate(active, archived)

	return s, nil
}

func (s *Store) ListActive(ctx context.Context) ([]domain.Project, error) {
	return s.mem.ListActive(ctx)
}

func (s *Store) ListArchived(ctx context.Context) ([]domain.Project, error) {
	return s.mem.ListArchived(ctx)
}

func (s *Store) Get(ctx context.Context, id string) (*domain.Project, error) {
	return s.mem.Get(ctx, id)
}

func (s *Store) Insert(ctx context.Context, p domain.Project) error {
	return s.mutate(ctx, func() error {
		return s.mem.Insert(ctx, p)
	})
}

func (s *Store) Update(ctx context.Context, id string, fields map[string]any) (*domain.Project, error) {
	var out *domain.Project
	err := s.mutate(ctx, func() error {
		p, err := s.mem.Update(ctx, id, fields)
		if err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Transition(ctx context.Context, id string, fn func(p domain.Project) (string, error)) (*domain.Project, error) {
	var out *domain.Project
	err := s.mutate(ctx, func() error {
		p, err := s.mem.Transition(ctx, id, fn)
		if err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Archive(ctx context.Context, id string) error {
	return s.mutate(ctx, func() error {
		return s.mem.Archive(ctx, id)
	})
}

func (s *Store) Restore(ctx context.Context, id string) (*domain.Project, error) {
	var out *domain.Project
	err := s.mutate(ctx, func() error {
		p, err := s.mem.Restore(ctx, id)
		if err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) PurgeExpired(ctx context.Context, window time.Duration) (int, error) {
	n := 0
	err := s.mutate(ctx, func() error {
		var err error
		n, err = s.mem.PurgeExpired(ctx, window)
		return err
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) Ping(ctx context.Context) error {
	_, err := os.Stat(s.dir)
	if err != nil {
		return domain.Unavailable("stat data directory", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.lock.Unlock()
}

// mutate runs a memory mutation and persists the result under the store lock,
// so snapshots reach the disk in mutation order. A failed persist rolls the
// memory core back to the pre-mutation state: an errored call leaves neither
// memory nor disk changed, a nil return means both hold the mutation.
func (s *Store) mutate(ctx context.Context, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	active, err := s.mem.ListActive(ctx)
	if err != nil {
		return err
	}
	archived, err := s.mem.ListArchived(ctx)
	if err != nil {
		return err
	}

	if err := fn(); err != nil {
		return err
	}
	if err := s.persist(ctx); err != nil {
		s.mem.Hydrate(active, archived)
		return err
	}
	return nil
}

// persist rewrites both snapshots. Callers hold s.mu.
func (s *Store) persist(ctx context.Context) error {
	active, err := s.mem.ListActive(ctx)
	if err != nil {
		return err
	}
	archived, err := s.mem.ListArchived(ctx)
	if err != nil {
		return err
	}

	if err := writeSnapshot(s.activePath, active); err != nil {
		return domain.Unavailable("write active snapshot", err)
	}
	if err := writeSnapshot(s.archivedPath, archived); err != nil {
		return domain.Unavailable("write archive snapshot", err)
	}
	return nil
}

func readSnapshot(path string) []domain.Project {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: cannot read snapshot %s: %v (starting empty)", path, err)
		}
		return nil
	}

	var records []domain.Project
	if err := json.Unmarshal(data, &records); err != nil {
		log.Printf("Warning: malformed snapshot %s: %v (starting empty)", path, err)
		return nil
	}
	return records
}

func writeSnapshot(path string, records []domain.Project) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	// Write to a temp file and rename so readers never see a partial document.
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
