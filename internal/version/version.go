// Package version holds build metadata, stamped at link time:
//
//	go build -ldflags "-X github.com/banshee-data/particles/internal/version.Version=v0.1.0 \
//	  -X github.com/banshee-data/particles/internal/version.GitSHA=$(git rev-parse --short HEAD)" ./cmd/particles
package version

import "fmt"

var (
	// Version is the release version
	Version = "dev"
	// GitSHA is the commit the binary was built from
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String formats the build metadata for -version output.
func String() string {
	return fmt.Sprintf("%s (%s, built %s)", Version, GitSHA, BuildTime)
}
