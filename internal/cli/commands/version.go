package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapxfer/pkg/adapter"
	"github.com/leapstack-labs/leapxfer/pkg/fileio"
	"github.com/spf13/cobra"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string
	GitCommit string
	BuildDate string
}

// NewVersionCommand creates the version command.
func NewVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display leapxfer version, build information and the compiled-in drivers and file formats.`,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "leapxfer v%s\n", info.Version)
			_, _ = fmt.Fprintln(w, "Data transfer between analytical databases and flat files")
			if info.GitCommit != "" && info.GitCommit != "unknown" {
				_, _ = fmt.Fprintf(w, "  commit:  %s\n", info.GitCommit)
			}
			if info.BuildDate != "" && info.BuildDate != "unknown" {
				_, _ = fmt.Fprintf(w, "  built:   %s\n", info.BuildDate)
			}
			_, _ = fmt.Fprintf(w, "  drivers: %s\n", strings.Join(adapter.ListAdapters(), ", "))
			_, _ = fmt.Fprintf(w, "  formats: %s\n", strings.Join(fileio.Extensions(), ", "))
		},
	}
}
