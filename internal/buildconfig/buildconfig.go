package buildconfig

import "runtime"

// Build-time variables injected via ldflags:
//
//	-X github.com/Harshitk-cp/crag/internal/buildconfig.version=v1.2.0
//	-X github.com/Harshitk-cp/crag/internal/buildconfig.commit=abc123
var (
	version = "dev"
	commit  = "unknown"
)

func Version() string {
	return version
}

func Commit() string {
	return commit
}

// VersionInfo is the payload served on /version.
func VersionInfo() map[string]string {
	return map[string]string{
		"version":    version,
		"commit":     commit,
		"go_version": runtime.Version(),
	}
}
