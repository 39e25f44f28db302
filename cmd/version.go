/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"
	"runtime"

	"github.com/fulmenhq/lessonkit/internal/ops"
	"github.com/fulmenhq/lessonkit/pkg/buildinfo"
	"github.com/fulmenhq/lessonkit/pkg/catalog"
	"github.com/spf13/cobra"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show lessonkit version information",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().Bool("extended", false, "Show detailed build information")
	versionCmd.Flags().Bool("json", false, "Output version information in JSON format")

	registerCommand(ops.CommandRegistration{
		Name:        "version",
		Group:       ops.GroupSupport,
		Command:     versionCmd,
		Description: "Show version information",
	})
}

func runVersion(cmd *cobra.Command, _ []string) error {
	extended, _ := cmd.Flags().GetBool("extended")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	out := cmd.OutOrStdout()

	version := buildinfo.Version()
	commit := buildinfo.VCSRevision()
	if len(commit) > 8 {
		commit = commit[:8]
	}
	if commit == "" {
		commit = "unknown"
	}

	var tableCount int
	if extended {
		if tables, err := catalog.LoadEmbedded(); err == nil {
			tableCount = len(tables.Tables())
		}
	}

	if jsonOutput {
		versionInfo := map[string]interface{}{
			"version":   version,
			"goVersion": runtime.Version(),
			"platform":  runtime.GOOS,
			"arch":      runtime.GOARCH,
		}
		if extended {
			versionInfo["gitCommit"] = commit
			versionInfo["moduleVersion"] = buildinfo.ModuleVersion()
			versionInfo["embeddedTables"] = tableCount
		}
		return writeJSON(cmd, versionInfo)
	}

	_, _ = fmt.Fprintf(out, "lessonkit %s\n", version)
	if extended {
		_, _ = fmt.Fprintf(out, "Git commit: %s\n", commit)
		_, _ = fmt.Fprintf(out, "Embedded tables: %d\n", tableCount)
	}
	_, _ = fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
	_, _ = fmt.Fprintf(out, "Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	return nil
}
