package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/fulmenhq/lessonkit/internal/ops"
	"github.com/fulmenhq/lessonkit/pkg/coverage"
	"github.com/fulmenhq/lessonkit/pkg/exitcode"
	"github.com/spf13/cobra"
)

// tablesCmd represents the tables command
var tablesCmd = &cobra.Command{
	Use:   "tables [name]",
	Short: "Inspect the loaded lookup tables",
	Long: `Tables lists the lookup tables and authored bundles in use, or the entries
of one table when a name is given. Use --tables-dir to inspect a replacement
directory instead of the embedded tables.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTables,
}

func init() {
	tablesCmd.Flags().String("format", "text", "Output format (text|json)")

	registerCommand(ops.CommandRegistration{
		Name:        "tables",
		Group:       ops.GroupReport,
		Command:     tablesCmd,
		Description: "Inspect the loaded lookup tables",
	})
}

func runTables(cmd *cobra.Command, args []string) error {
	cfg, err := loadRuntimeConfig(cmd, nil)
	if err != nil {
		return err
	}
	tables, err := loadTables(cfg)
	if err != nil {
		return err
	}

	formatName, _ := cmd.Flags().GetString("format")
	formatName = strings.ToLower(strings.TrimSpace(formatName))
	if formatName != "text" && formatName != "json" {
		return exitcode.Wrapf(exitcode.ConfigError, "unsupported format %q (expected text or json)", formatName)
	}
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		infos := tables.Tables()
		if formatName == "json" {
			return writeJSON(cmd, map[string]interface{}{"source": tables.Source(), "tables": infos})
		}
		rows := make([][]string, 0, len(infos))
		for _, t := range infos {
			rows = append(rows, []string{t.Name, string(t.Kind), strconv.Itoa(t.Entries), t.Description})
		}
		_, _ = fmt.Fprintf(out, "Tables (%s)\n", tables.Source())
		_, _ = fmt.Fprintln(out, coverage.RenderTable([]string{"Name", "Kind", "Entries", "Description"}, rows, coverage.TableOptions{
			Aligns: []coverage.ColumnAlignment{coverage.AlignLeft, coverage.AlignLeft, coverage.AlignRight, coverage.AlignLeft},
		}))
		return nil
	}

	name := args[0]
	entries, err := tables.Entries(name)
	if err != nil {
		return exitcode.Wrap(exitcode.GeneralError, err)
	}
	if formatName == "json" {
		return writeJSON(cmd, map[string]interface{}{"table": name, "entries": entries})
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Key, e.Value})
	}
	_, _ = fmt.Fprintf(out, "%s: %d entries\n", name, len(entries))
	_, _ = fmt.Fprintln(out, coverage.RenderTable([]string{"Key", "Value"}, rows, coverage.TableOptions{}))
	return nil
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format JSON: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
