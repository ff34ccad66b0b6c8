// Package version reports how the starmatch binary was built.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set at build time with -ldflags "-X github.com/teranos/starmatch/version.Version=...".
var (
	CommitHash = "dev"
	BuildTime  = "unknown"
	Version    = "dev"
)

// Info describes the running binary.
type Info struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
	Modified   bool   `json:"modified,omitempty"`
}

// Get returns the build information. When ldflags were not set, the VCS
// stamp the go tool embeds is used instead.
func Get() Info {
	info := Info{
		Version:    Version,
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.fromBuildSettings(bi.Settings)
	}
	return info
}

func (i *Info) fromBuildSettings(settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if i.CommitHash == "dev" {
				i.CommitHash = s.Value
			}
		case "vcs.time":
			if i.BuildTime == "unknown" {
				i.BuildTime = s.Value
			}
		case "vcs.modified":
			i.Modified = s.Value == "true"
		}
	}
}

func (i Info) String() string {
	dirty := ""
	if i.Modified {
		dirty = "+dirty"
	}
	return fmt.Sprintf("starmatch %s (commit %s%s, built %s, %s %s)",
		i.Version, i.Short(), dirty, i.BuildTime, i.GoVersion, i.Platform)
}

// Short returns the abbreviated commit hash.
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}
