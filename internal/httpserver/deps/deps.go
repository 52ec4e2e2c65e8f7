package deps

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/geomarket/internal/auth"
	"github.com/MrSnakeDoc/geomarket/internal/listing"
	"github.com/MrSnakeDoc/geomarket/internal/logger"
	"github.com/MrSnakeDoc/geomarket/internal/seed"
)

// Pinger is a backend that can report its liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SeedReporter exposes the outcome of the last fixture import.
type SeedReporter interface {
	LastReport() seed.Report
}

type Deps struct {
	Logger      logger.Logger
	StartTime   time.Time
	Version     string
	Commit      string
	BuildDate   string
	GoVersion   string
	TimeNow     func() time.Time // for testing, defaults to time.Now
	Development bool             // true => 500 responses carry the raw error

	AllowedCIDRS []string // IPs allowed to access operational endpoints
	TrustProxy   bool     // true if running behind a trusted reverse proxy (e.g., cloudflared)
	CORSOrigins  []string // browser origins allowed by CORS (empty = any)

	RequestTimeout time.Duration // per-request deadline

	Listings *listing.Manager // listing lifecycle
	Engine   *listing.Engine  // search and proximity
	Auth     *auth.Service    // accounts and sessions

	StoreBackend string            // "redis" | "mongo"
	Backends     map[string]Pinger // probed by /readyz and /infra

	Seed          SeedReporter  // nil if no fixtures file is configured
	ReloadTrigger chan struct{} // manual seed reload (nil if seeding is disabled)
}
