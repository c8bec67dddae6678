package main

import (
	"context"
	"log"

	"github.com/TheProSWPPP/swppp-interface/config"
	"github.com/TheProSWPPP/swppp-interface/internal/bootstrap"
	"github.com/TheProSWPPP/swppp-interface/internal/retention"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()
	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer store.Close()

	if cfg.App.SeedDemoData {
		if err := bootstrap.SeedDemoData(ctx, store); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}

	sweeper := retention.NewSweeper(store, cfg.Retention.Window(), cfg.Retention.Schedule)
	if err := sweeper.Start(); err != nil {
		log.Fatalf("retention sweeper: %v", err)
	}
	defer sweeper.Stop()

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "swppp-interface",
		Version:     cfg.App.Version,
		Store:       store,
	})

	log.Printf("Server running on port %s", cfg.Server.Port)
	log.Fatal(r.Run(":" + cfg.Server.Port))
}
