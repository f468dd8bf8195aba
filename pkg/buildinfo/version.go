// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/jplusplus/nwcharts/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/jplusplus/nwcharts/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/jplusplus/nwcharts/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// The version also ends up in the metadata of every rendered file.
package buildinfo

import "fmt"

var (
	// Version is the semantic version (e.g., "v1.2.3").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// Publisher is written as author/creator into file metadata.
const Publisher = "Newsworthy"

// Software returns the producer string written into file metadata,
// e.g. "NWCharts v1.2.3".
func Software() string {
	return "NWCharts " + Version
}

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
