package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/TheProSWPPP/swppp-interface/config"
	"github.com/TheProSWPPP/swppp-interface/internal/projects/domain"
	"github.com/TheProSWPPP/swppp-interface/internal/storage"
	filestore "github.com/TheProSWPPP/swppp-interface/internal/storage/file"
	memorystore "github.com/TheProSWPPP/swppp-interface/internal/storage/memory"
	postgresstore "github.com/TheProSWPPP/swppp-interface/internal/storage/postgres"
	redisstore "github.com/TheProSWPPP/swppp-interface/internal/storage/redis"
)

// OpenStore resolves the configured driver and opens the single backend this
// process will use. There is no runtime switching.
func OpenStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	driver := cfg.Store.ResolveDriver()
	log.Printf("Opening %s storage backend", driver)

	switch driver {
	case config.DriverMemory:
		return memorystore.New(), nil
	case config.DriverFile:
		return filestore.Open(cfg.Store.DataDir)
	case config.DriverPostgres:
		return postgresstore.Open(ctx, cfg.Store.DatabaseURL)
	case config.DriverRedis:
		return redisstore.Open(ctx, cfg.Store.RedisAddr)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

// SeedDemoData inserts the demo projects into an empty active set. Records
// that already exist are left alone.
func SeedDemoData(ctx context.Context, store storage.Store) error {
	active, err := store.ListActive(ctx)
	if err != nil {
		return err
	}
	if len(active) > 0 {
		return nil
	}

	for _, p := range domain.SeedProjects() {
		if err := store.Insert(ctx, p); err != nil {
			return fmt.Errorf("seed project %s: %w", p.ID, err)
		}
	}
	log.Printf("Seeded %d demo projects", len(domain.SeedProjects()))
	return nil
}
