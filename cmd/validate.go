/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fulmenhq/lessonkit/internal/ops"
	"github.com/fulmenhq/lessonkit/pkg/coverage"
	"github.com/fulmenhq/lessonkit/pkg/exitcode"
	"github.com/fulmenhq/lessonkit/pkg/logger"
	"github.com/fulmenhq/lessonkit/pkg/safeio"
	"github.com/fulmenhq/lessonkit/pkg/work"
	"github.com/spf13/cobra"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Report lesson coverage",
	Long: `Validate reads every lesson in dir (default: the configured input directory)
and reports how many have each canonical field, which lessons still need work,
and how complete each domain is. Lessons are never modified.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

var validateFlagKeys = map[string]string{
	"paths.input":         "input",
	"discovery.include":   "include",
	"discovery.domains":   "domains",
	"report.ok_percent":   "ok-percent",
	"report.warn_percent": "warn-percent",
	"report.show_limit":   "show",
}

func init() {
	validateCmd.Flags().String("input", "", "Directory containing lesson JSON files")
	validateCmd.Flags().StringSlice("include", []string{}, "Glob patterns selecting lesson files by name")
	validateCmd.Flags().StringSlice("domains", []string{}, "Restrict to domains, e.g. 3,4,5")
	validateCmd.Flags().String("format", "text", "Output format (text|json)")
	validateCmd.Flags().Bool("all", false, "List every failing lesson instead of the first few")
	validateCmd.Flags().Int("show", 5, "Failing lessons listed per issue")
	validateCmd.Flags().Float64("ok-percent", 85, "Coverage at or above this is marked ok")
	validateCmd.Flags().Float64("warn-percent", 48, "Coverage at or above this is marked warn")
	validateCmd.Flags().String("output", "", "Write the report to a file instead of stdout")
	validateCmd.Flags().Bool("fail-on-issues", false, "Exit with a validation error when any issue remains")

	registerCommand(ops.CommandRegistration{
		Name:        "validate",
		Group:       ops.GroupReport,
		Command:     validateCmd,
		Description: "Report lesson coverage",
	})
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadRuntimeConfig(cmd, validateFlagKeys)
	if err != nil {
		return err
	}

	formatName, _ := cmd.Flags().GetString("format")
	formatName = strings.ToLower(strings.TrimSpace(formatName))
	if formatName != "text" && formatName != "json" {
		return exitcode.Wrapf(exitcode.ConfigError, "unsupported format %q (expected text or json)", formatName)
	}
	showAll, _ := cmd.Flags().GetBool("all")
	outputFile, _ := cmd.Flags().GetString("output")
	failOnIssues, _ := cmd.Flags().GetBool("fail-on-issues")

	dir := cfg.Paths.Input
	if len(args) == 1 {
		dir = args[0]
	}

	manifest, err := work.NewPlanner(work.PlannerConfig{
		Command:         "validate",
		InputDir:        dir,
		IncludePatterns: cfg.Discovery.Include,
		Domains:         cfg.Discovery.Domains,
	}).GenerateManifest()
	if err != nil {
		return classifyError(err)
	}

	entries, err := work.LoadEntries(cmd.Context(), manifest)
	if err != nil {
		return classifyError(err)
	}
	report := coverage.Validate(entries)
	logger.Debug("Coverage computed", logger.String("dir", dir), logger.Int("lessons", report.Total))

	thresholds := coverage.Thresholds{OKPercent: cfg.Report.OKPercent, WarnPercent: cfg.Report.WarnPercent}
	var buf bytes.Buffer
	if formatName == "json" {
		err = coverage.RenderJSON(&buf, report, thresholds)
	} else {
		err = coverage.RenderText(&buf, report, coverage.RenderOptions{
			Thresholds: thresholds,
			ShowLimit:  cfg.Report.ShowLimit,
			All:        showAll,
		})
	}
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if outputFile != "" {
		clean, err := safeio.CleanUserPath(outputFile)
		if err != nil {
			return exitcode.Wrap(exitcode.FileSystemError, err)
		}
		if err := safeio.WriteFilePreservePerms(clean, buf.Bytes()); err != nil {
			return exitcode.Wrap(exitcode.FileSystemError, fmt.Errorf("write report %s: %w", clean, err))
		}
		logger.Info("Report written", logger.String("file", clean))
	} else if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
		return err
	}

	if failOnIssues && report.HasIssues() {
		return exitcode.Wrapf(exitcode.ValidationError, "coverage issues remain in %s", dir)
	}
	return nil
}
