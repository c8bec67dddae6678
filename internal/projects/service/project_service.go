// Package service implements the project lifecycle: intake defaulting,
// status transitions with their gating rules, and the soft-delete/restore
// orchestration over the storage backend.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/TheProSWPPP/swppp-interface/internal/projects/domain"
	"github.com/TheProSWPPP/swppp-interface/internal/storage"
)

const createAttempts = 5

// ProjectService handles project-related business logic over an injected
// storage backend.
type ProjectService struct {
	store storage.Store
}

// NewProjectService creates a new project service
func NewProjectService(store storage.Store) *ProjectService {
	return &ProjectService{store: store}
}

// Create builds a record from the raw field map, applies the intake defaults
// and inserts it into the active set.
//
// Defaulting policy (applied once, here, never in the backends):
//
//	id           → millisecond timestamp string (uuid on collision retry)
//	projectName  → "Untitled Project"
//	dateReceived → today, DD/MM/YYYY
//
// Status is deliberately not defaulted: an unspecified status is the Draft
// state, which is first-class, and approval is reachable from it.
func (s *ProjectService) Create(ctx context.Context, fields map[string]any) (*domain.Project, error) {
	// deletedAt belongs to the store; a record enters the active set clean.
	delete(fields, "deletedAt")

	p, err := domain.FromFields(fields)
	if err != nil {
		return nil, err
	}

	if !domain.ValidStatus(p.Status) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, p.Status)
	}
	if p.ProjectName == "" {
		p.ProjectName = "Untitled Project"
	}
	if p.DateReceived == "" {
		p.DateReceived = time.Now().Format(domain.DateReceivedLayout)
	}

	generated := p.ID == ""
	if generated {
		p.ID = strconv.FormatInt(time.Now().UnixMilli(), 10)
	}

	for attempt := 0; attempt < createAttempts; attempt++ {
		err := s.store.Insert(ctx, p)
		if err == nil {
			out := p.Clone()
			return &out, nil
		}
		// A collision on a generated id just means two requests hit the
		// same millisecond; retry with a fresh id.
		if generated && errors.Is(err, domain.ErrConflict) {
			p.ID = uuid.NewString()
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("failed to generate unique project id")
}

// List returns the active set ordered by dateReceived descending.
func (s *ProjectService) List(ctx context.Context) ([]domain.Project, error) {
	return s.store.ListActive(ctx)
}

// ListArchived returns the archived set ordered by deletedAt descending.
func (s *ProjectService) ListArchived(ctx context.Context) ([]domain.Project, error) {
	return s.store.ListArchived(ctx)
}

// Get resolves a record from either set.
func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	return s.store.Get(ctx, id)
}

// Update shallow-merges the supplied fields onto an active record. The id
// and deletedAt fields belong to the store, not the caller, and are stripped.
func (s *ProjectService) Update(ctx context.Context, id string, fields map[string]any) (*domain.Project, error) {
	delete(fields, "id")
	delete(fields, "deletedAt")

	if raw, supplied := fields["status"]; supplied {
		status, ok := raw.(string)
		if !ok || !domain.ValidStatus(status) {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidStatus, raw)
		}
	}

	return s.store.Update(ctx, id, fields)
}

// Accept moves a newly received project into review. The gate runs inside
// the store's transition so a concurrent update cannot invalidate it between
// check and write.
func (s *ProjectService) Accept(ctx context.Context, id string) (*domain.Project, error) {
	return s.store.Transition(ctx, id, func(p domain.Project) (string, error) {
		if p.Status != domain.StatusNew {
			return "", fmt.Errorf("%w: cannot accept a project in status %q", domain.ErrPreconditionFailed, p.Status)
		}
		return domain.StatusPendingReview, nil
	})
}

// Approve releases a reviewed project for document generation. Industrial
// projects are routed to manual processing instead and never reach the
// automated-generation state.
func (s *ProjectService) Approve(ctx context.Context, id string) (*domain.Project, error) {
	return s.store.Transition(ctx, id, func(p domain.Project) (string, error) {
		switch p.Status {
		case domain.StatusPendingReview, domain.StatusProcessing, domain.StatusDraft:
		default:
			return "", fmt.Errorf("%w: cannot approve a project in status %q", domain.ErrPreconditionFailed, p.Status)
		}

		if !p.PlansUploaded && !p.IsIndustrial {
			return "", fmt.Errorf("%w: plans not uploaded and not industrial", domain.ErrPreconditionFailed)
		}

		if p.IsIndustrial {
			return domain.StatusManual, nil
		}
		return domain.StatusApproved, nil
	})
}

// Delete soft-deletes: the record moves to the archive with its status
// untouched and a deletedAt stamp. Permitted from any status.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	return s.store.Archive(ctx, id)
}

// Restore moves an archived record back to the active set. Status and all
// other fields are preserved; only deletedAt is cleared.
func (s *ProjectService) Restore(ctx context.Context, id string) (*domain.Project, error) {
	return s.store.Restore(ctx, id)
}
