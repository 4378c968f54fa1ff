// Package version carries build metadata injected via -ldflags.
package version

import "fmt"

var (
	// Version is the semantic version, set at build time.
	Version = "dev"

	// Commit is the git revision, set at build time.
	Commit = "unknown"

	// Date is the build timestamp, set at build time.
	Date = "unknown"
)

// String returns a single-line version description.
func String() string {
	return fmt.Sprintf("qrpatch %s (commit %s, built %s)", Version, Commit, Date)
}
