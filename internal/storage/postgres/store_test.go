package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheProSWPPP/swppp-interface/internal/projects/domain"
)

func setupStore(t *testing.T) (*Store, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	return NewWithDB(db), mock, db
}

func TestInsert(t *testing.T) {
	store, mock, db := setupStore(t)
	defer db.Close()

	t.Run("inserts into the active set", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO projects`).
			WithArgs("p1", "Test", domain.StatusNew, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := store.Insert(context.Background(), domain.Project{
			ID:          "p1",
			ProjectName: "Test",
			Status:      domain.StatusNew,
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation maps to conflict", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO projects`).
			WithArgs("p1", "Test", domain.StatusNew, sqlmock.AnyArg()).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := store.Insert(context.Background(), domain.Project{
			ID:          "p1",
			ProjectName: "Test",
			Status:      domain.StatusNew,
		})
		assert.ErrorIs(t, err, domain.ErrConflict)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGet(t *testing.T) {
	store, mock, db := setupStore(t)
	defer db.Close()

	t.Run("decodes the payload", func(t *testing.T) {
		mock.ExpectQuery(`SELECT payload FROM projects WHERE id`).
			WithArgs("p1").
			WillReturnRows(sqlmock.NewRows([]string{"payload"}).
				AddRow([]byte(`{"id":"p1","projectName":"Test","status":"New"}`)))

		p, err := store.Get(context.Background(), "p1")
		require.NoError(t, err)
		assert.Equal(t, "Test", p.ProjectName)
		assert.Equal(t, domain.StatusNew, p.Status)
	})

	t.Run("missing row maps to not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT payload FROM projects WHERE id`).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"payload"}))

		_, err := store.Get(context.Background(), "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestUpdateMergesInsideTransaction(t *testing.T) {
	store, mock, db := setupStore(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT payload FROM projects WHERE id .+ FOR UPDATE`).
		WithArgs("p1", false).
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).
			AddRow([]byte(`{"id":"p1","projectName":"Test","status":"New","email":"a@b.c"}`)))
	mock.ExpectExec(`UPDATE projects`).
		WithArgs("p1", "Test", domain.StatusNew, false, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	p, err := store.Update(context.Background(), "p1", map[string]any{"county": "Travis"})
	require.NoError(t, err)
	assert.Equal(t, "Travis", p.County)
	assert.Equal(t, "a@b.c", p.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateNotFoundRollsBack(t *testing.T) {
	store, mock, db := setupStore(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT payload FROM projects WHERE id .+ FOR UPDATE`).
		WithArgs("missing", false).
		WillReturnRows(sqlmock.NewRows([]string{"payload"}))
	mock.ExpectRollback()

	_, err := store.Update(context.Background(), "missing", map[string]any{"county": "Travis"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionHoldsRowLock(t *testing.T) {
	store, mock, db := setupStore(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT payload FROM projects WHERE id .+ FOR UPDATE`).
		WithArgs("p1", false).
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).
			AddRow([]byte(`{"id":"p1","projectName":"Test","status":"New"}`)))
	mock.ExpectExec(`UPDATE projects`).
		WithArgs("p1", "Test", domain.StatusPendingReview, false, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	p, err := store.Transition(context.Background(), "p1", func(p domain.Project) (string, error) {
		assert.Equal(t, domain.StatusNew, p.Status)
		return domain.StatusPendingReview, nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingReview, p.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionAbortRollsBack(t *testing.T) {
	store, mock, db := setupStore(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT payload FROM projects WHERE id .+ FOR UPDATE`).
		WithArgs("p1", false).
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).
			AddRow([]byte(`{"id":"p1","status":"Complete"}`)))
	mock.ExpectRollback()

	_, err := store.Transition(context.Background(), "p1", func(p domain.Project) (string, error) {
		return "", domain.ErrPreconditionFailed
	})
	assert.ErrorIs(t, err, domain.ErrPreconditionFailed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestArchiveStampsDeletedAt(t *testing.T) {
	store, mock, db := setupStore(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT payload FROM projects WHERE id .+ FOR UPDATE`).
		WithArgs("p1", false).
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).
			AddRow([]byte(`{"id":"p1","projectName":"Test","status":"New"}`)))
	mock.ExpectExec(`UPDATE projects`).
		WithArgs("p1", "Test", domain.StatusNew, true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, store.Archive(context.Background(), "p1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPurgeExpiredReturnsCount(t *testing.T) {
	store, mock, db := setupStore(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM projects WHERE archived AND deleted_at`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := store.PurgeExpired(context.Background(), 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListArchivedOrdersByDeletedAt(t *testing.T) {
	store, mock, db := setupStore(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT payload FROM projects WHERE archived ORDER BY deleted_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).
			AddRow([]byte(`{"id":"p2","deletedAt":"2025-11-17T00:00:00Z"}`)).
			AddRow([]byte(`{"id":"p1","deletedAt":"2025-11-13T00:00:00Z"}`)))

	out, err := store.ListArchived(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "p2", out[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
