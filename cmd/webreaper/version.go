package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Overridden at release time via ldflags. Development builds leave them
// empty and fall back to the information stamped by the Go toolchain.
var (
	version = ""
	commit  = ""
	date    = ""
)

// buildInfo describes the running binary.
type buildInfo struct {
	version string
	commit  string
	date    string
}

// resolveBuildInfo fills any field ldflags left empty from
// debug.ReadBuildInfo, so binaries installed with "go install" still report
// something useful.
func resolveBuildInfo() buildInfo {
	info := buildInfo{version: version, commit: commit, date: date}

	if bi, ok := debug.ReadBuildInfo(); ok {
		if info.version == "" {
			info.version = bi.Main.Version
		}
		if info.commit == "" {
			info.commit = shortRevision(vcsSetting(bi, "vcs.revision"))
		}
		if info.date == "" {
			info.date = vcsSetting(bi, "vcs.time")
		}
	}

	if info.version == "" {
		info.version = "(devel)"
	}
	if info.commit == "" {
		info.commit = "unknown"
	}
	if info.date == "" {
		info.date = "unknown"
	}
	return info
}

func vcsSetting(bi *debug.BuildInfo, key string) string {
	for _, s := range bi.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}

func shortRevision(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the webreaper version",
		Long:  `Show the webreaper version together with the commit and build date it was built from.`,
		Run: func(cmd *cobra.Command, _ []string) {
			info := resolveBuildInfo()
			fmt.Fprintf(cmd.OutOrStdout(), "webreaper %s (commit %s, built %s)\n",
				info.version, info.commit, info.date)
		},
	}
}
