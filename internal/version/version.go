// Package version holds build metadata for mdyou, set at link time.
package version

import (
	"fmt"
	"runtime"
)

// Build metadata. Override with:
//
//	-ldflags "-X github.com/jmylchreest/mdyou/internal/version.Version=x.y.z
//	          -X github.com/jmylchreest/mdyou/internal/version.Commit=$(git rev-parse HEAD)
//	          -X github.com/jmylchreest/mdyou/internal/version.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"

	GoVersion = runtime.Version()
)

// Info is the build metadata as reported by "mdyou version --json".
type Info struct {
	Version       string `json:"version"`
	Commit        string `json:"commit"`
	Date          string `json:"date"`
	GoVersion     string `json:"go_version"`
	Platform      string `json:"platform"`
	TonalProtocol string `json:"tonal_protocol,omitempty"`
}

// GetInfo returns the build metadata.
func GetInfo() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: GoVersion,
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String returns a one-line description of the build.
func String() string {
	info := GetInfo()
	if Commit != "unknown" && Date != "unknown" {
		return fmt.Sprintf("mdyou %s (commit %s, built %s, %s, %s)",
			info.Version, shortCommit(info.Commit), info.Date, info.GoVersion, info.Platform)
	}
	return fmt.Sprintf("mdyou %s (%s, %s)", info.Version, info.GoVersion, info.Platform)
}

// Short returns just the version.
func Short() string {
	return Version
}

func shortCommit(c string) string {
	if len(c) > 8 {
		return c[:8]
	}
	return c
}
