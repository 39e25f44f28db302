package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/fulmenhq/lessonkit/pkg/catalog"
	"github.com/fulmenhq/lessonkit/pkg/config"
	"github.com/fulmenhq/lessonkit/pkg/exitcode"
	"github.com/fulmenhq/lessonkit/pkg/format"
	"github.com/fulmenhq/lessonkit/pkg/lesson"
	"github.com/fulmenhq/lessonkit/pkg/logger"
	"github.com/fulmenhq/lessonkit/pkg/safeio"
	"github.com/fulmenhq/lessonkit/pkg/work"
	"github.com/spf13/cobra"
)

// globalFlagKeys maps config keys to persistent root flags.
var globalFlagKeys = map[string]string{
	"tables.dir": "tables-dir",
}

// loadRuntimeConfig reads defaults, config files and the environment, then lets
// changed command flags override them. mapping is config key to flag name.
func loadRuntimeConfig(cmd *cobra.Command, mapping map[string]string) (*config.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")

	v, err := config.ReadProjectConfig(".", configFile)
	if err != nil {
		return nil, exitcode.Wrap(exitcode.ConfigError, err)
	}
	if err := config.BindFlags(v, cmd.Flags(), globalFlagKeys); err != nil {
		return nil, exitcode.Wrap(exitcode.ConfigError, err)
	}
	if err := config.BindFlags(v, cmd.Flags(), mapping); err != nil {
		return nil, exitcode.Wrap(exitcode.ConfigError, err)
	}

	cfg, err := config.Unmarshal(v)
	if err != nil {
		return nil, exitcode.Wrap(exitcode.ConfigError, err)
	}
	if used := v.ConfigFileUsed(); used != "" {
		logger.Debug("Loaded config", logger.String("file", used))
	}
	return cfg, nil
}

// loadTables opens the lookup tables named by the config.
func loadTables(cfg *config.Config) (*catalog.Catalog, error) {
	tables, err := catalog.Open(cfg.Tables.Dir)
	if err != nil {
		return nil, exitcode.Wrap(exitcode.ConfigError, fmt.Errorf("failed to load lookup tables: %w", err))
	}
	logger.Debug("Using lookup tables", logger.String("source", tables.Source()))
	return tables, nil
}

func jsonOptions(cfg *config.Config) format.JSONOptions {
	opts := format.DefaultJSONOptions
	opts.Indent = cfg.Output.Indent
	opts.TrailingNewline = cfg.Output.TrailingNewline
	return opts
}

// classifyError attaches an exit code to errors that do not carry one yet.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	var coded *exitcode.Error
	if errors.As(err, &coded) {
		return err
	}

	var pathErr *fs.PathError
	switch {
	case errors.Is(err, lesson.ErrMalformed):
		return exitcode.Wrap(exitcode.ValidationError, err)
	case errors.Is(err, work.ErrInputDir),
		errors.Is(err, safeio.ErrOutsideBase),
		errors.As(err, &pathErr):
		return exitcode.Wrap(exitcode.FileSystemError, err)
	default:
		return exitcode.Wrap(exitcode.GeneralError, err)
	}
}
