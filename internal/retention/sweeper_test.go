package retention

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheProSWPPP/swppp-interface/internal/projects/domain"
	"github.com/TheProSWPPP/swppp-interface/internal/storage/memory"
)

func TestSweepPurgesExpiredArchives(t *testing.T) {
	ctx := context.Background()
	expired := time.Now().Add(-31 * 24 * time.Hour)
	fresh := time.Now().Add(-1 * 24 * time.Hour)

	store := memory.New()
	store.Hydrate(nil, []domain.Project{
		{ID: "old", DeletedAt: &expired},
		{ID: "new", DeletedAt: &fresh},
	})

	s := NewSweeper(store, 30*24*time.Hour, "0 0 0 * * *")
	s.Sweep(ctx)

	archived, err := store.ListArchived(ctx)
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, "new", archived[0].ID)
}

type failingStore struct {
	*memory.Store
}

func (f *failingStore) PurgeExpired(ctx context.Context, window time.Duration) (int, error) {
	return 0, errors.New("backend down")
}

func TestSweepSurvivesBackendError(t *testing.T) {
	s := NewSweeper(&failingStore{Store: memory.New()}, 30*24*time.Hour, "0 0 0 * * *")

	assert.NotPanics(t, func() { s.Sweep(context.Background()) })
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := NewSweeper(memory.New(), 30*24*time.Hour, "not a schedule")

	err := s.Start()
	assert.Error(t, err)
}

func TestStartRunsImmediateSweep(t *testing.T) {
	ctx := context.Background()
	expired := time.Now().Add(-40 * 24 * time.Hour)

	store := memory.New()
	store.Hydrate(nil, []domain.Project{{ID: "stale", DeletedAt: &expired}})

	s := NewSweeper(store, 30*24*time.Hour, "0 0 0 * * *")
	require.NoError(t, s.Start())
	defer s.Stop()

	archived, err := store.ListArchived(ctx)
	require.NoError(t, err)
	assert.Empty(t, archived)
}
