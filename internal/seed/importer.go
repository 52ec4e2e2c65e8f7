package seed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/geomarket/internal/domain"
	"github.com/MrSnakeDoc/geomarket/internal/logger"
)

// Target is the subset of a listing store the importer writes to.
type Target interface {
	Exists(ctx context.Context, id string) (bool, error)
	Insert(ctx context.Context, l *domain.Listing) (string, error)
}

// Report summarises one import run.
type Report struct {
	Inserted int       `json:"inserted"`
	Skipped  int       `json:"skipped"`
	Invalid  int       `json:"invalid"`
	At       time.Time `json:"at"`
}

// Importer loads fixtures into a listing store. Entries whose ID already
// exists are skipped, so imports can be repeated.
type Importer struct {
	loader *Loader
	target Target
	logger logger.Logger
	now    func() time.Time

	mu   sync.RWMutex
	last Report
}

// NewImporter creates an importer for the fixtures file at path
func NewImporter(path string, target Target, log logger.Logger) *Importer {
	return &Importer{
		loader: NewLoader(path),
		target: target,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Import runs one import. A file that cannot be read fails the run; a bad
// entry is logged and counted as invalid.
func (im *Importer) Import(ctx context.Context) (Report, error) {
	f, err := im.loader.Load()
	if err != nil {
		return Report{}, err
	}

	rep := Report{At: im.now()}
	for i, entry := range f.Listings {
		l, err := MapListing(entry, rep.At)
		if err != nil {
			rep.Invalid++
			im.logger.Warn("skipping invalid seed listing",
				logger.Int("index", i),
				logger.String("id", entry.ID),
				logger.Error(err))
			continue
		}

		exists, err := im.target.Exists(ctx, l.ID)
		if err != nil {
			return rep, fmt.Errorf("failed to check seed listing %s: %w", l.ID, err)
		}
		if exists {
			rep.Skipped++
			continue
		}

		if _, err := im.target.Insert(ctx, l); err != nil {
			return rep, fmt.Errorf("failed to insert seed listing %s: %w", l.ID, err)
		}
		rep.Inserted++
	}

	im.mu.Lock()
	im.last = rep
	im.mu.Unlock()

	im.logger.Info("seed import completed",
		logger.String("file", im.loader.Path()),
		logger.Int("inserted", rep.Inserted),
		logger.Int("skipped", rep.Skipped),
		logger.Int("invalid", rep.Invalid))

	return rep, nil
}

// LastReport returns the report of the last successful import.
func (im *Importer) LastReport() Report {
	im.mu.RLock()
	defer im.mu.RUnlock()

	return im.last
}
