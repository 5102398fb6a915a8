// Package version holds build information injected at link time.
package version

import "runtime"

// Set via -ldflags at build time, e.g.
//
//	-X github.com/cindysoftware/hero/version.GitRelease=v0.1.0
var (
	GitRelease    = "dev"
	GitCommit     = "unknown"
	GitCommitDate = "unknown"
)

// GoInfo is the Go toolchain version the binary was built with.
var GoInfo = runtime.Version()
