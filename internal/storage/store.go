// Package storage defines the persistence contract shared by every backend.
// Exactly one backend is selected at process start (see internal/bootstrap);
// the memory, file, postgres and redis implementations are interchangeable
// behind this interface.
package storage

import (
	"context"
	"time"

	"github.com/TheProSWPPP/swppp-interface/internal/projects/domain"
)

// Store persists project records across two disjoint sets, active and
// archived. An id is unique across the union of both sets. Every mutating
// operation on a durable backend writes through before returning; the memory
// backend carries no durability guarantee by design.
type Store interface {
	// ListActive returns active records ordered by dateReceived descending.
	ListActive(ctx context.Context) ([]domain.Project, error)

	// ListArchived returns archived records, each carrying deletedAt,
	// ordered by deletedAt descending.
	ListArchived(ctx context.Context) ([]domain.Project, error)

	// Get resolves an id from the union of both sets.
	Get(ctx context.Context, id string) (*domain.Project, error)

	// Insert adds a record to the active set. Fails with domain.ErrConflict
	// if the id exists in either set.
	Insert(ctx context.Context, p domain.Project) error

	// Update shallow-merges the supplied fields onto an active record.
	// Fails with domain.ErrNotFound if the id is not in the active set.
	Update(ctx context.Context, id string, fields map[string]any) (*domain.Project, error)

	// Transition atomically rewrites the status of an active record. fn sees
	// the record as currently stored and returns the next status, or an error
	// to abort with the record unchanged; no concurrent mutation can slip in
	// between the read and the write. Fails with domain.ErrNotFound if the id
	// is not in the active set.
	Transition(ctx context.Context, id string, fn func(p domain.Project) (string, error)) (*domain.Project, error)

	// Archive atomically moves a record from active to archived, stamping
	// deletedAt with the current time.
	Archive(ctx context.Context, id string) error

	// Restore atomically moves a record from archived back to active,
	// clearing deletedAt. Fails with domain.ErrNotFound if not archived.
	Restore(ctx context.Context, id string) (*domain.Project, error)

	// PurgeExpired permanently removes archived records whose deletedAt age
	// exceeds the retention window and returns the count removed.
	PurgeExpired(ctx context.Context, window time.Duration) (int, error)

	// Ping reports backend reachability for health checks.
	Ping(ctx context.Context) error

	Close() error
}
