package cmd

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X github.com/spigell/jobmatch/cmd.version=...".
var version = "unknown"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and build details",
	Run: func(cmd *cobra.Command, _ []string) {
		info, _ := debug.ReadBuildInfo()
		fmt.Fprintln(cmd.OutOrStdout(), versionLine(info))
	},
}

// versionLine renders the release version followed by the toolchain and the
// vcs revision recorded in the binary, when present.
func versionLine(info *debug.BuildInfo) string {
	parts := []string{app, version}
	if info == nil {
		return strings.Join(parts, " ")
	}

	parts = append(parts, info.GoVersion)
	for _, s := range info.Settings {
		if s.Key != "vcs.revision" || s.Value == "" {
			continue
		}
		rev := s.Value
		if len(rev) > 12 {
			rev = rev[:12]
		}
		parts = append(parts, "rev "+rev)
	}
	return strings.Join(parts, " ")
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
