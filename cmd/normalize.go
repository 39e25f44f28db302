/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"

	"github.com/fulmenhq/lessonkit/internal/ops"
	"github.com/fulmenhq/lessonkit/pkg/exitcode"
	"github.com/fulmenhq/lessonkit/pkg/lesson"
	"github.com/spf13/cobra"
)

// normalizeCmd represents the normalize command
var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Repair lessons into the canonical shape",
	Long: `Normalize reads every lesson in the input directory, converts legacy field
shapes to their canonical form, fills missing subtitles and next-lesson
connections from the lookup tables, and writes every file to the output
directory, changed or not. Existing content is never overwritten.

Variants:
  preserve   keep lessons as authored, fill only from the tables (default)
  extended   also synthesize subtitles and connections without a table entry`,
	Args: cobra.NoArgs,
	RunE: runNormalize,
}

func init() {
	addPipelineFlags(normalizeCmd)
	normalizeCmd.Flags().String("variant", "", "Normalization variant (preserve|extended)")
	normalizeCmd.Flags().Bool("enhance", false, "Apply authored enhancements before repairing")
	normalizeCmd.Flags().StringSlice("fill", []string{}, "Fill missing sections after repairing (activities,scenarios)")

	registerCommand(ops.CommandRegistration{
		Name:        "normalize",
		Group:       ops.GroupPipeline,
		Command:     normalizeCmd,
		Description: "Repair lessons into the canonical shape",
		Writes:      true,
	})
}

func runNormalize(cmd *cobra.Command, _ []string) error {
	enhance, _ := cmd.Flags().GetBool("enhance")
	fills, _ := cmd.Flags().GetStringSlice("fill")

	stages := []lesson.Stage{lesson.StageRepair}
	if enhance {
		stages = append(stages, lesson.StageEnhance)
	}
	fillStages, err := parseFillStages(fills)
	if err != nil {
		return exitcode.Wrap(exitcode.ConfigError, err)
	}
	stages = append(stages, fillStages...)

	return runPipeline(cmd, pipelineRun{command: "normalize", stages: stages})
}

// parseFillStages accepts "activities" and "scenarios" in any order.
func parseFillStages(names []string) ([]lesson.Stage, error) {
	var stages []lesson.Stage
	for _, name := range names {
		stage, err := lesson.ParseStage(name)
		if err != nil || (stage != lesson.StageFillActivities && stage != lesson.StageFillScenarios) {
			return nil, fmt.Errorf("unknown fill target %q (expected activities or scenarios)", name)
		}
		stages = append(stages, stage)
	}
	return stages, nil
}
