package app

import (
	"runtime/debug"
	"testing"
)

func TestDescribeBuild(t *testing.T) {
	stamped := &debug.BuildInfo{
		GoVersion: "go1.24.1",
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "3f9c2a71d04be8c6a1f5e2d7b9c0a4e6f8d1b2c3"},
			{Key: "vcs.time", Value: "2026-10-01T09:30:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	tests := []struct {
		name    string
		version string
		commit  string
		built   string
		info    *debug.BuildInfo
		want    string
	}{
		{
			name: "no build info", version: "dev", commit: "unknown", built: "unknown",
			want: "dev (commit: unknown, built: unknown, unknown)",
		},
		{
			name: "vcs stamp fills gaps", version: "dev", commit: "unknown", built: "unknown", info: stamped,
			want: "dev (commit: 3f9c2a71d04b-dirty, built: 2026-10-01T09:30:00Z, go1.24.1)",
		},
		{
			name: "ldflags win", version: "1.4.0", commit: "abc1234", built: "2026-10-02", info: stamped,
			want: "1.4.0 (commit: abc1234, built: 2026-10-02, go1.24.1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describeBuild(tt.version, tt.commit, tt.built, tt.info); got != tt.want {
				t.Errorf("describeBuild = %q, want %q", got, tt.want)
			}
		})
	}
}
