package cmd

import (
	"github.com/fulmenhq/lessonkit/internal/ops"
	"github.com/fulmenhq/lessonkit/pkg/lesson"
	"github.com/spf13/cobra"
)

// enhanceCmd represents the enhance command
var enhanceCmd = &cobra.Command{
	Use:   "enhance",
	Short: "Apply authored enhancements to lessons",
	Long: `Enhance overwrites learning goals, why-it-matters, hands-on activities,
scenarios, section additions and the next-lesson connection with the authored
content in the enhancements table. Lessons without an entry are copied unchanged.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runPipeline(cmd, pipelineRun{command: "enhance", stages: []lesson.Stage{lesson.StageEnhance}})
	},
}

func init() {
	addPipelineFlags(enhanceCmd)

	registerCommand(ops.CommandRegistration{
		Name:        "enhance",
		Group:       ops.GroupPipeline,
		Command:     enhanceCmd,
		Description: "Apply authored enhancements to lessons",
		Writes:      true,
	})
}
