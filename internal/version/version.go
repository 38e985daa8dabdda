// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version describes the running build.
package version

import (
	"fmt"
	"runtime/debug"
)

// Placeholders used when ldflags did not inject a value.
const (
	DevVersion = "dev"
	Unknown    = "unknown"
)

// Info contains build-time version information injected via ldflags.
type Info struct {
	Version   string // e.g. "v1.2.3"
	GitCommit string // short commit hash
	BuildTime string // RFC3339
}

// String formats the info for -version output and startup logs.
func (i Info) String() string {
	return fmt.Sprintf("schoolsite %s (commit: %s, built: %s)", i.Version, i.GitCommit, i.BuildTime)
}

// WithBuildInfo fills placeholder fields from the VCS stamp that go build
// embeds in the binary.
func (i Info) WithBuildInfo() Info {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return i
	}
	return i.withSettings(bi.Settings)
}

func (i Info) withSettings(settings []debug.BuildSetting) Info {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if isPlaceholder(i.GitCommit) && s.Value != "" {
				i.GitCommit = s.Value
				if len(i.GitCommit) > 7 {
					i.GitCommit = i.GitCommit[:7]
				}
			}
		case "vcs.time":
			if isPlaceholder(i.BuildTime) && s.Value != "" {
				i.BuildTime = s.Value
			}
		}
	}
	return i
}

func isPlaceholder(v string) bool {
	return v == "" || v == Unknown
}
