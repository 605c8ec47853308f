// Package buildinfo carries release metadata stamped in with
// -ldflags "-X github.com/cleared-dev/stmtconv/internal/buildinfo.Version=...".
package buildinfo

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"
	// Commit is the source revision the binary was built from.
	Commit = "none"
	// Date is the build timestamp.
	Date = "unknown"
)
