package cmd

import (
	"github.com/fulmenhq/lessonkit/internal/ops"
	"github.com/fulmenhq/lessonkit/pkg/exitcode"
	"github.com/spf13/cobra"
)

// fillCmd represents the fill command
var fillCmd = &cobra.Command{
	Use:       "fill activities|scenarios...",
	Short:     "Fill missing hands-on activities or scenarios",
	ValidArgs: []string{"activities", "scenarios"},
	Long: `Fill adds hands_on_activity or what_would_you_do from the authored tables
to lessons that lack them. Lessons that already have the section are left
alone. Files are rewritten in place unless --output is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFill,
}

func init() {
	addPipelineFlags(fillCmd)

	registerCommand(ops.CommandRegistration{
		Name:        "fill",
		Group:       ops.GroupPipeline,
		Command:     fillCmd,
		Description: "Fill missing hands-on activities or scenarios",
		Writes:      true,
	})
}

func runFill(cmd *cobra.Command, args []string) error {
	stages, err := parseFillStages(args)
	if err != nil {
		return exitcode.Wrap(exitcode.ConfigError, err)
	}
	return runPipeline(cmd, pipelineRun{command: "fill", stages: stages, inPlace: true})
}
