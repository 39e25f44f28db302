/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/fulmenhq/lessonkit/internal/ops"
	"github.com/fulmenhq/lessonkit/pkg/buildinfo"
	"github.com/fulmenhq/lessonkit/pkg/exitcode"
	"github.com/fulmenhq/lessonkit/pkg/logger"
	"github.com/spf13/cobra"
)

// newRootCommand creates a fresh root command instance.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lessonkit",
		Short: "Normalize lesson JSON and report content coverage",
		Long: `Lessonkit repairs a directory of lesson JSON files into one canonical shape
and reports how complete the corpus is.

Examples:
   lessonkit normalize --input lessons --output lessons_fixed
   lessonkit normalize --variant extended --domains 3,4,5
   lessonkit fill activities --input lessons_fixed
   lessonkit validate lessons_fixed
   lessonkit tables titles`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
	}

	// Add global flags
	cmd.PersistentFlags().String("log-level", "info", "Set log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentFlags().Bool("no-op", false, "Run tasks without making changes (assessment mode)")
	cmd.PersistentFlags().String("config", "", "Config file (default lessonkit.yaml, then $HOME/.lessonkit/config)")
	cmd.PersistentFlags().String("tables-dir", "", "Directory replacing the embedded lookup tables")

	cmd.Version = buildinfo.Version()
	cmd.SetVersionTemplate("lessonkit {{.Version}}\n")

	// Grouped help by command group (Pipeline → Report → Support)
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if c != c.Root() {
			if c.Long != "" {
				c.Println(c.Long)
				c.Println()
			}
			c.Print(c.UsageString())
			return
		}
		reg := ops.GetRegistry()
		c.Println(c.Long)
		c.Println()
		for _, group := range ops.GroupOrder {
			cmds := reg.GetCommandsByGroup(group)
			if len(cmds) == 0 {
				continue
			}
			c.Println(group.Title() + ":")
			for _, r := range cmds {
				c.Printf("  %-12s %s\n", r.Name, r.Description)
			}
			c.Println()
		}
		c.Println("Flags:")
		c.Print(c.UsageString())
	})

	return cmd
}

// registerSubcommands adds all subcommands to the root command.
// This is called from init() for production and can be called explicitly in tests.
func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(normalizeCmd)
	cmd.AddCommand(enhanceCmd)
	cmd.AddCommand(fillCmd)
	cmd.AddCommand(validateCmd)
	cmd.AddCommand(tablesCmd)
	cmd.AddCommand(versionCmd)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

// Execute runs the root command and exits with the code carried by the error.
// This is called by main.main(). Ctrl-C cancels the run between files.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		if logger.Enabled(logger.ErrorLevel) {
			logger.Error("Command execution failed", logger.Err(err))
		} else {
			_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		}
		stop()
		os.Exit(exitcode.From(err))
	}
}

func init() {
	// Register all subcommands with the production rootCmd
	registerSubcommands(rootCmd)
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")
	noOp, _ := cmd.Flags().GetBool("no-op")

	config := logger.Config{
		Level:     logger.ParseLevel(logLevelStr),
		UseColor:  !noColor,
		JSON:      jsonLogs,
		Component: "lessonkit",
		NoOp:      noOp,
		Output:    cmd.ErrOrStderr(),
	}

	if err := logger.Initialize(config); err != nil {
		// Fallback to stderr
		_, _ = os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(exitcode.ConfigError)
	}
}

// registerCommand records cmd in the grouped help registry. Registration only
// fails on duplicates, which is a programming error.
func registerCommand(reg ops.CommandRegistration) {
	if err := ops.RegisterCommand(reg); err != nil {
		panic(err)
	}
}
