package listing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/geomarket/internal/domain"
	"github.com/MrSnakeDoc/geomarket/internal/logger"
	"github.com/MrSnakeDoc/geomarket/internal/store/memory"
)

type fixture struct {
	store   *memory.Store
	manager *Manager
	engine  *Engine
}

// newFixture wires a manager and an engine over a memory store with a
// deterministic clock and ID sequence.
func newFixture() *fixture {
	store := memory.NewStore()
	log := logger.NewNop()

	m := NewManager(store, log)
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	seq := 0
	m.newID = func() string {
		seq++
		return fmt.Sprintf("listing-%d", seq)
	}

	return &fixture{store: store, manager: m, engine: NewEngine(store, log)}
}

func strPtr(s string) *string { return &s }

func fields(title string, lon, lat float64) domain.Fields {
	price := 100.0
	p := domain.NewGeoPoint(lon, lat)
	return domain.Fields{Title: strPtr(title), Price: &price, Location: &p}
}

func (f *fixture) create(t *testing.T, owner, title string, lon, lat float64) *domain.Listing {
	t.Helper()
	l, err := f.manager.Create(context.Background(), owner, fields(title, lon, lat))
	require.NoError(t, err)
	return l
}
