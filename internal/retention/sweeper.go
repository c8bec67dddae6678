// Package retention schedules the periodic purge of archived projects whose
// deletedAt age exceeds the retention window.
package retention

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/TheProSWPPP/swppp-interface/internal/storage"
)

// Sweeper runs PurgeExpired on a fixed cron schedule. A failed sweep is
// logged and the schedule continues; it never takes the process down.
type Sweeper struct {
	store    storage.Store
	window   time.Duration
	schedule string
	cron     *cron.Cron
}

func NewSweeper(store storage.Store, window time.Duration, schedule string) *Sweeper {
	return &Sweeper{
		store:    store,
		window:   window,
		schedule: schedule,
	}
}

// Start registers the cron entry and runs one immediate sweep so a
// deployment that was stopped past the window catches up right away.
func (s *Sweeper) Start() error {
	c := cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cron.DefaultLogger)))

	if _, err := c.AddFunc(s.schedule, func() { s.Sweep(context.Background()) }); err != nil {
		return err
	}

	s.Sweep(context.Background())

	c.Start()
	s.cron = c
	log.Printf("Retention sweeper started (schedule %q, window %s)", s.schedule, s.window)
	return nil
}

// Sweep purges expired archived records once. Purging nothing is the normal
// outcome and is not logged.
func (s *Sweeper) Sweep(ctx context.Context) {
	n, err := s.store.PurgeExpired(ctx, s.window)
	if err != nil {
		log.Printf("Retention sweep failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("Retention sweep purged %d archived project(s)", n)
	}
}

// Stop cancels future sweeps and waits for an in-flight one to finish.
func (s *Sweeper) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}
