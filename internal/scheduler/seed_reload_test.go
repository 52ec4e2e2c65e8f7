package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MrSnakeDoc/geomarket/internal/logger"
	"github.com/MrSnakeDoc/geomarket/internal/seed"
)

type countingImporter struct {
	calls atomic.Int32
	err   error
}

func (c *countingImporter) Import(context.Context) (seed.Report, error) {
	c.calls.Add(1)
	return seed.Report{}, c.err
}

func waitForCalls(t *testing.T, c *countingImporter, want int32) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if c.calls.Load() >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("importer called %d times, want at least %d", c.calls.Load(), want)
}

func TestSeedReloaderManualTrigger(t *testing.T) {
	imp := &countingImporter{}
	trigger := make(chan struct{}, 1)
	sr := NewSeedReloader(imp, logger.NewNop(), 0, trigger)

	if err := sr.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer sr.Stop()

	if imp.calls.Load() != 1 {
		t.Fatalf("Start() should import once synchronously, got %d", imp.calls.Load())
	}

	trigger <- struct{}{}
	waitForCalls(t, imp, 2)
}

func TestSeedReloaderInterval(t *testing.T) {
	imp := &countingImporter{}
	sr := NewSeedReloader(imp, logger.NewNop(), 10*time.Millisecond, make(chan struct{}))

	if err := sr.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer sr.Stop()

	waitForCalls(t, imp, 3)
}

func TestSeedReloaderInitialFailure(t *testing.T) {
	imp := &countingImporter{err: errors.New("boom")}
	sr := NewSeedReloader(imp, logger.NewNop(), 0, make(chan struct{}))

	if err := sr.Start(context.Background()); err == nil {
		t.Fatal("Start() should fail when the first import fails")
	}
}

func TestSeedReloaderStop(t *testing.T) {
	imp := &countingImporter{}
	trigger := make(chan struct{})
	sr := NewSeedReloader(imp, logger.NewNop(), 0, trigger)

	if err := sr.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	sr.Stop()
	time.Sleep(50 * time.Millisecond)

	// nobody receives on an unbuffered trigger once the loop has exited
	select {
	case trigger <- struct{}{}:
		t.Fatal("reloader still running after Stop()")
	case <-time.After(50 * time.Millisecond):
	}
	if imp.calls.Load() != 1 {
		t.Errorf("importer called %d times, want 1", imp.calls.Load())
	}
}
