// Package scheduler runs background jobs tied to the process lifetime.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/geomarket/internal/logger"
	"github.com/MrSnakeDoc/geomarket/internal/seed"
)

// SeedImporter runs one fixture import.
type SeedImporter interface {
	Import(ctx context.Context) (seed.Report, error)
}

// SeedReloader re-imports fixtures periodically and on manual trigger
type SeedReloader struct {
	importer      SeedImporter
	logger        logger.Logger
	interval      time.Duration // 0 = manual triggers only
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewSeedReloader creates a new seed reloader
func NewSeedReloader(
	importer SeedImporter,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *SeedReloader {
	return &SeedReloader{
		importer:      importer,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start imports once, then keeps importing until Stop or ctx is done
func (sr *SeedReloader) Start(ctx context.Context) error {
	if _, err := sr.importer.Import(ctx); err != nil {
		return fmt.Errorf("initial seed import failed: %w", err)
	}

	var tick <-chan time.Time
	var ticker *time.Ticker
	if sr.interval > 0 {
		ticker = time.NewTicker(sr.interval)
		tick = ticker.C
	}

	go func() {
		if ticker != nil {
			defer ticker.Stop()
		}
		for {
			select {
			case <-tick:
				sr.reload(ctx)
			case <-sr.manualTrigger:
				sr.logger.Info("manual seed reload triggered")
				sr.reload(ctx)
			case <-sr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (sr *SeedReloader) Stop() {
	close(sr.stopCh)
}

func (sr *SeedReloader) reload(ctx context.Context) {
	if _, err := sr.importer.Import(ctx); err != nil {
		sr.logger.Error("failed to reload seed listings", logger.Error(err))
	}
}
