package cmd

import (
	"fmt"

	"github.com/fulmenhq/lessonkit/pkg/lesson"
	"github.com/fulmenhq/lessonkit/pkg/logger"
	"github.com/fulmenhq/lessonkit/pkg/work"
	"github.com/spf13/cobra"
)

// pipelineFlagKeys maps config keys to the flags shared by the pipeline commands.
var pipelineFlagKeys = map[string]string{
	"paths.input":       "input",
	"paths.output":      "output",
	"discovery.include": "include",
	"discovery.domains": "domains",
	"normalize.variant": "variant",
}

// pipelineRun describes one invocation of the lesson pipeline.
type pipelineRun struct {
	command string
	stages  []lesson.Stage
	inPlace bool // write back into the input directory unless --output is set
}

func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().String("input", "", "Directory containing lesson JSON files (default from config: lessons)")
	cmd.Flags().String("output", "", "Directory for normalized files (created when missing)")
	cmd.Flags().StringSlice("include", []string{}, "Glob patterns selecting lesson files by name")
	cmd.Flags().StringSlice("domains", []string{}, "Restrict to domains, e.g. 3,4,5")
	cmd.Flags().Bool("dry-run", false, "Show what would be written without writing")
	cmd.Flags().Bool("continue-on-error", false, "Record per-file failures and keep going")
}

func runPipeline(cmd *cobra.Command, run pipelineRun) error {
	cfg, err := loadRuntimeConfig(cmd, pipelineFlagKeys)
	if err != nil {
		return err
	}
	tables, err := loadTables(cfg)
	if err != nil {
		return err
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	continueOnError, _ := cmd.Flags().GetBool("continue-on-error")
	noOp, _ := cmd.Flags().GetBool("no-op")
	if noOp {
		logger.Info("Running in no-op mode - lessons will be processed but no files will be written")
	}

	input := cfg.Paths.Input
	output := cfg.Paths.Output
	if run.inPlace && !cmd.Flags().Changed("output") {
		output = input
	}

	normalizer, err := lesson.NewNormalizer(tables, lesson.Options{
		Variant: lesson.Variant(cfg.Normalize.Variant),
		Stages:  run.stages,
	})
	if err != nil {
		return classifyError(err)
	}

	planner := work.NewPlanner(work.PlannerConfig{
		Command:         run.command,
		InputDir:        input,
		IncludePatterns: cfg.Discovery.Include,
		Domains:         cfg.Discovery.Domains,
		Verbose:         logger.Enabled(logger.DebugLevel),
	})
	manifest, err := planner.GenerateManifest()
	if err != nil {
		logger.Error("Failed to generate work manifest", logger.Err(err))
		return classifyError(err)
	}

	out := cmd.OutOrStdout()
	if len(manifest.WorkItems) == 0 {
		logger.Warn("No lesson files found", logger.String("input", input))
		_, _ = fmt.Fprintf(out, "No lesson files found in %s\n", input)
		return nil
	}

	stageNames := make([]string, 0, len(normalizer.Stages()))
	for _, s := range normalizer.Stages() {
		stageNames = append(stageNames, string(s))
	}
	logger.Info(fmt.Sprintf("Processing %d lesson files", len(manifest.WorkItems)),
		logger.String("input", input),
		logger.String("output", output),
		logger.String("variant", string(normalizer.Variant())),
		logger.Strings("stages", stageNames))

	processor := work.NewNormalizeProcessor(normalizer, input, output, jsonOptions(cfg))
	dispatcher := work.NewDispatcher(work.DispatcherConfig{
		DryRun:          dryRun,
		NoOp:            noOp,
		ContinueOnError: continueOnError,
		ProgressCallback: func(r work.ExecutionResult) {
			if !r.Success {
				logger.Error("Failed to process lesson", logger.String("file", r.WorkItemID), logger.String("error", r.Error))
			}
		},
	}, processor)

	summary, runErr := dispatcher.ExecuteManifest(cmd.Context(), manifest)
	printSummary(cmd, summary, output, dryRun || noOp)
	return classifyError(runErr)
}

func printSummary(cmd *cobra.Command, s *work.ExecutionSummary, output string, preview bool) {
	if s == nil {
		return
	}
	out := cmd.OutOrStdout()
	for _, r := range s.Results {
		switch {
		case !r.Success:
			_, _ = fmt.Fprintf(out, "  FAIL %s: %s\n", r.WorkItemID, r.Error)
		case r.Changed:
			_, _ = fmt.Fprintf(out, "  %s: %d changes\n", r.WorkItemID, len(r.Changes))
		default:
			_, _ = fmt.Fprintf(out, "  %s: no changes\n", r.WorkItemID)
		}
	}
	_, _ = fmt.Fprintf(out, "\nProcessed %d of %d files: %d changed, %d changes total",
		s.Processed, s.TotalItems, s.FilesChanged, s.TotalChanges)
	if s.Failed > 0 {
		_, _ = fmt.Fprintf(out, ", %d failed", s.Failed)
	}
	_, _ = fmt.Fprintln(out)
	if preview {
		_, _ = fmt.Fprintln(out, "Nothing written (dry run)")
	} else {
		_, _ = fmt.Fprintf(out, "Output: %s\n", output)
	}
}
