// Package version reports which build of gatepass is running.
package version

import (
	"fmt"
	"runtime/debug"
)

// Commit and BuildTime may be set at build time via ldflags. When left
// unset they are filled from the VCS stamp in the binary's build info.
var (
	Commit    = ""
	BuildTime = ""
)

const unknown = "unknown"

// String returns the version string (commit-hash based, no semver).
func String() string {
	commit, built := Commit, BuildTime
	if commit == "" || built == "" {
		vcsCommit, vcsTime, modified := fromBuildInfo()
		if commit == "" {
			commit = vcsCommit
			if modified {
				commit += "+dirty"
			}
		}
		if built == "" {
			built = vcsTime
		}
	}
	return fmt.Sprintf("gatepass dev (commit: %s, built: %s)", shortCommit(commit), orUnknown(built))
}

// fromBuildInfo reads the vcs.* settings stamped by the go tool.
func fromBuildInfo() (commit, built string, modified bool) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", "", false
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			commit = s.Value
		case "vcs.time":
			built = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}
	return commit, built, modified
}

func shortCommit(commit string) string {
	if commit == "" {
		return unknown
	}
	if len(commit) > 7 && commit[7] != '+' {
		if i := len(commit) - len("+dirty"); i > 7 && commit[i:] == "+dirty" {
			return commit[:7] + "+dirty"
		}
		return commit[:7]
	}
	return commit
}

func orUnknown(s string) string {
	if s == "" {
		return unknown
	}
	return s
}
