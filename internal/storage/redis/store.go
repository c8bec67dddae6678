// Package redis keeps each project as a JSON document under a keyed string,
// with two sets tracking active and archived membership. Records carry no
// TTL; expiry is the retention sweeper's job, not the server's.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/TheProSWPPP/swppp-interface/internal/projects/domain"
)

const (
	projectKeyPrefix = "swppp:project:"          // JSON document: swppp:project:{id}
	activeSetKey     = "swppp:projects:active"   // set of active ids
	archivedSetKey   = "swppp:projects:archived" // set of archived ids
)

type Store struct {
	client *redis.Client

	// Serializes multi-key mutations; redis pipelines are not transactions
	// and the service runs a single process per deployment.
	mu sync.Mutex
}

// Open connects to the given address and verifies the connection.
func Open(ctx context.Context, addr string) (*Store, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Store{client: client}, nil
}

// NewWithClient wraps an existing client; tests use this with miniredis.
func NewWithClient(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) ListActive(ctx context.Context) ([]domain.Project, error) {
	out, err := s.listSet(ctx, activeSetKey)
	if err != nil {
		return nil, err
	}
	domain.SortActive(out)
	return out, nil
}

func (s *Store) ListArchived(ctx context.Context) ([]domain.Project, error) {
	out, err := s.listSet(ctx, archivedSetKey)
	if err != nil {
		return nil, err
	}
	domain.SortArchived(out)
	return out, nil
}

func (s *Store) listSet(ctx context.Context, setKey string) ([]domain.Project, error) {
	ids, err := s.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return nil, domain.Unavailable("list project ids", err)
	}

	out := make([]domain.Project, 0, len(ids))
	for _, id := range ids {
		p, err := s.fetch(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			// Membership without a document means a crashed mutation;
			// skip rather than fail the whole listing.
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, id string) (*domain.Project, error) {
	return s.fetch(ctx, id)
}

func (s *Store) fetch(ctx context.Context, id string) (*domain.Project, error) {
	data, err := s.client.Get(ctx, projectKeyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.Unavailable("get project", err)
	}

	var p domain.Project
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("decode project: %w", err)
	}
	return &p, nil
}

func (s *Store) Insert(ctx context.Context, p domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.client.Exists(ctx, projectKeyPrefix+p.ID).Result()
	if err != nil {
		return domain.Unavailable("check project id", err)
	}
	if exists > 0 {
		return domain.ErrConflict
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode project: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, projectKeyPrefix+p.ID, data, 0)
	pipe.SAdd(ctx, activeSetKey, p.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return domain.Unavailable("insert project", err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, id string, fields map[string]any) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireMember(ctx, activeSetKey, id); err != nil {
		return nil, err
	}

	p, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.Merge(fields); err != nil {
		return nil, err
	}

	if err := s.save(ctx, *p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) Transition(ctx context.Context, id string, fn func(p domain.Project) (string, error)) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireMember(ctx, activeSetKey, id); err != nil {
		return nil, err
	}

	p, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := fn(*p)
	if err != nil {
		return nil, err
	}
	p.Status = next

	if err := s.save(ctx, *p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) Archive(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireMember(ctx, activeSetKey, id); err != nil {
		return err
	}

	p, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	p.DeletedAt = &now

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode project: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, projectKeyPrefix+id, data, 0)
	pipe.SMove(ctx, activeSetKey, archivedSetKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return domain.Unavailable("archive project", err)
	}
	return nil
}

func (s *Store) Restore(ctx context.Context, id string) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireMember(ctx, archivedSetKey, id); err != nil {
		return nil, err
	}

	p, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	p.DeletedAt = nil

	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode project: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, projectKeyPrefix+id, data, 0)
	pipe.SMove(ctx, archivedSetKey, activeSetKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, domain.Unavailable("restore project", err)
	}
	return p, nil
}

func (s *Store) PurgeExpired(ctx context.Context, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.client.SMembers(ctx, archivedSetKey).Result()
	if err != nil {
		return 0, domain.Unavailable("list archived ids", err)
	}

	cutoff := time.Now().Add(-window)
	purged := 0
	for _, id := range ids {
		p, err := s.fetch(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return purged, err
		}
		if p.DeletedAt == nil || !p.DeletedAt.Before(cutoff) {
			continue
		}

		pipe := s.client.Pipeline()
		pipe.Del(ctx, projectKeyPrefix+id)
		pipe.SRem(ctx, archivedSetKey, id)
		if _, err := pipe.Exec(ctx); err != nil {
			return purged, domain.Unavailable("purge project", err)
		}
		purged++
	}
	return purged, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) requireMember(ctx context.Context, setKey, id string) error {
	ok, err := s.client.SIsMember(ctx, setKey, id).Result()
	if err != nil {
		return domain.Unavailable("check project set", err)
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) save(ctx context.Context, p domain.Project) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode project: %w", err)
	}
	if err := s.client.Set(ctx, projectKeyPrefix+p.ID, data, 0).Err(); err != nil {
		return domain.Unavailable("save project", err)
	}
	return nil
}
