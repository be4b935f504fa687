package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

// NewVersionCommand creates the version command. It runs without loading the
// project config, so --short is its only option.
func NewVersionCommand(info BuildInfo) *cobra.Command {
	var short bool
	if info.GoVersion == "" {
		info.GoVersion = runtime.Version()
	}

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the leapcube version, commit and build date.`,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			if short {
				_, _ = fmt.Fprintln(out, info.Version)
				return
			}
			_, _ = fmt.Fprintf(out, "leapcube v%s\n", info.Version)
			_, _ = fmt.Fprintf(out, "  commit: %s\n", info.GitCommit)
			_, _ = fmt.Fprintf(out, "  built:  %s\n", info.BuildDate)
			_, _ = fmt.Fprintf(out, "  go:     %s\n", info.GoVersion)
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "Print only the version number")
	return cmd
}
