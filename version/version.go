// Package version reports how the cxxbind binary was built
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Build information, set at build time via ldflags:
//
//	-X github.com/teranos/cxxbind/version.Version=v0.3.0
var (
	CommitHash = "dev"
	BuildTime  = "unknown"
	Version    = "dev"
)

// Info contains version and build information
type Info struct {
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	Version    string `json:"version"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// Get returns the current version information. Without ldflags the VCS
// stamp embedded by the Go toolchain fills in the commit.
func Get() Info {
	info := Info{
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		Version:    Version,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
	if info.CommitHash == "dev" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			for _, s := range bi.Settings {
				switch s.Key {
				case "vcs.revision":
					info.CommitHash = s.Value
				case "vcs.time":
					if info.BuildTime == "unknown" {
						info.BuildTime = s.Value
					}
				}
			}
		}
	}
	return info
}

// String returns a human-readable version string
func (i Info) String() string {
	return fmt.Sprintf("cxxbind %s (commit %s, built %s)", i.Version, i.Short(), i.BuildTime)
}

// Short returns the abbreviated commit hash
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}
