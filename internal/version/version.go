// Package version holds build metadata, set with -ldflags at release time:
//
//	go build -ldflags "-X github.com/MrSnakeDoc/geomarket/internal/version.Version=v0.3.0"
package version

import (
	"fmt"
	"runtime"
	"time"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = time.Now().UTC().Format(time.RFC3339)
	GoVersion = runtime.Version()
)

// String renders the build line logged at start-up.
func String() string {
	return fmt.Sprintf("geomarket %s (commit=%s, built=%s, go=%s)", Version, Commit, BuildDate, GoVersion)
}
