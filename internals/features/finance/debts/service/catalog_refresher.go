package service

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Purger drops cached catalog lookups.
type Purger interface {
	Purge()
}

// RefreshCatalog reloads the product snapshot and empties the lookup caches,
// so catalog edits become visible without waiting for TTLs.
func RefreshCatalog(ctx context.Context, products *ProductIndex, caches []Purger, now time.Time) error {
	for _, c := range caches {
		c.Purge()
	}
	if products == nil {
		return nil
	}
	return products.Refresh(ctx, now)
}

// StartCatalogRefresher schedules RefreshCatalog. An empty schedule disables it
// and returns a nil scheduler.
func StartCatalogRefresher(schedule string, products *ProductIndex, caches ...Purger) (*cron.Cron, error) {
	if schedule == "" {
		log.Println("[INFO] [CATALOG-REFRESH] disabled")
		return nil, nil
	}
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := RefreshCatalog(ctx, products, caches, time.Now()); err != nil {
			log.Printf("[WARN] [CATALOG-REFRESH] product reload failed: %v", err)
			return
		}
		log.Printf("[INFO] [CATALOG-REFRESH] products=%d", products.Len())
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] [CATALOG-REFRESH] started schedule=%q", schedule)
	c.Start()
	return c, nil
}

// StopCatalogRefresher halts the scheduler and waits for a running refresh,
// giving up when ctx ends. A nil scheduler is a no-op.
func StopCatalogRefresher(ctx context.Context, c *cron.Cron) error {
	if c == nil {
		return nil
	}
	select {
	case <-c.Stop().Done():
		log.Println("[INFO] [CATALOG-REFRESH] stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
