// Package postgres stores each project as a denormalized JSONB payload plus
// indexed projection columns (name, status, archived, deleted_at) used for
// filtering and ordering without unpacking the payload.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"github.com/TheProSWPPP/swppp-interface/internal/projects/domain"
)

const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

// Open connects with the given DSN, applies the schema and returns the store.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	s := &Store{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewWithDB wraps an existing connection. The schema is assumed to exist;
// tests use this with a mock.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS projects (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL DEFAULT '',
			status     TEXT NOT NULL DEFAULT '',
			archived   BOOLEAN NOT NULL DEFAULT FALSE,
			deleted_at TIMESTAMPTZ,
			payload    JSONB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_projects_archived ON projects (archived)`,
		`CREATE INDEX IF NOT EXISTS idx_projects_status ON projects (status)`,
		`CREATE INDEX IF NOT EXISTS idx_projects_deleted_at ON projects (deleted_at)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

func (s *Store) ListActive(ctx context.Context) ([]domain.Project, error) {
	out, err := s.list(ctx, `SELECT payload FROM projects WHERE NOT archived`)
	if err != nil {
		return nil, err
	}
	domain.SortActive(out)
	return out, nil
}

func (s *Store) ListArchived(ctx context.Context) ([]domain.Project, error) {
	return s.list(ctx, `SELECT payload FROM projects WHERE archived ORDER BY deleted_at DESC`)
}

func (s *Store) list(ctx context.Context, query string) ([]domain.Project, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, domain.Unavailable("list projects", err)
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, domain.Unavailable("scan project", err)
		}
		var p domain.Project
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("decode project payload: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Unavailable("list projects", err)
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, id string) (*domain.Project, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM projects WHERE id = $1`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.Unavailable("get project", err)
	}

	var p domain.Project
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("decode project payload: %w", err)
	}
	return &p, nil
}

func (s *Store) Insert(ctx context.Context, p domain.Project) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode project payload: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO projects (id, name, status, archived, deleted_at, payload)
		 VALUES ($1, $2, $3, FALSE, NULL, $4)`,
		p.ID, p.ProjectName, p.Status, payload)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrConflict
		}
		return domain.Unavailable("insert project", err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, id string, fields map[string]any) (*domain.Project, error) {
	var out *domain.Project
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		p, err := lockRow(ctx, tx, id, false)
		if err != nil {
			return err
		}
		if err := p.Merge(fields); err != nil {
			return err
		}
		if err := saveRow(ctx, tx, *p, false, nil); err != nil {
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
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		p, err := lockRow(ctx, tx, id, false)
		if err != nil {
			return err
		}
		next, err := fn(*p)
		if err != nil {
			return err
		}
		p.Status = next
		if err := saveRow(ctx, tx, *p, false, nil); err != nil {
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
	return s.withTx(ctx, func(tx *sql.Tx) error {
		p, err := lockRow(ctx, tx, id, false)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		p.DeletedAt = &now
		return saveRow(ctx, tx, *p, true, &now)
	})
}

func (s *Store) Restore(ctx context.Context, id string) (*domain.Project, error) {
	var out *domain.Project
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		p, err := lockRow(ctx, tx, id, true)
		if err != nil {
			return err
		}
		p.DeletedAt = nil
		if err := saveRow(ctx, tx, *p, false, nil); err != nil {
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
	cutoff := time.Now().Add(-window)
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM projects WHERE archived AND deleted_at < $1`, cutoff)
	if err != nil {
		return 0, domain.Unavailable("purge expired projects", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, domain.Unavailable("purge expired projects", err)
	}
	return int(n), nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Unavailable("begin tx", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return domain.Unavailable("commit tx", err)
	}
	return nil
}

// lockRow fetches a record from one set and takes a row lock so that a
// concurrent archive, restore or purge of the same id serializes behind it.
func lockRow(ctx context.Context, tx *sql.Tx, id string, archived bool) (*domain.Project, error) {
	var payload []byte
	err := tx.QueryRowContext(ctx,
		`SELECT payload FROM projects WHERE id = $1 AND archived = $2 FOR UPDATE`,
		id, archived).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.Unavailable("lock project row", err)
	}

	var p domain.Project
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("decode project payload: %w", err)
	}
	return &p, nil
}

func saveRow(ctx context.Context, tx *sql.Tx, p domain.Project, archived bool, deletedAt *time.Time) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode project payload: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE projects
		 SET name = $2, status = $3, archived = $4, deleted_at = $5, payload = $6
		 WHERE id = $1`,
		p.ID, p.ProjectName, p.Status, archived, deletedAt, payload)
	if err != nil {
		return domain.Unavailable("save project row", err)
	}
	return nil
}
