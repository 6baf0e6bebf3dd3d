package app

import (
	"fmt"
	"runtime/debug"
)

// Set with -ldflags "-X github.com/heartmarshall/impact-hub-backend/internal/app.Commit=...".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildVersion describes the running binary for the startup log and the
// health endpoint. Without ldflags it falls back to the VCS stamp the Go
// toolchain embeds.
func BuildVersion() string {
	info, _ := debug.ReadBuildInfo()
	return describeBuild(Version, Commit, BuildTime, info)
}

func describeBuild(version, commit, built string, info *debug.BuildInfo) string {
	goVersion := "unknown"
	if info != nil {
		goVersion = info.GoVersion
		fromVCS, dirty := false, false
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if commit == "unknown" {
					commit, fromVCS = s.Value, true
					if len(commit) > 12 {
						commit = commit[:12]
					}
				}
			case "vcs.time":
				if built == "unknown" {
					built = s.Value
				}
			case "vcs.modified":
				dirty = s.Value == "true"
			}
		}
		if fromVCS && dirty {
			commit += "-dirty"
		}
	}
	return fmt.Sprintf("%s (commit: %s, built: %s, %s)", version, commit, built, goVersion)
}
